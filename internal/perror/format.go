package perror

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatWarnings renders a batch of Warnings, one per line. When colored
// is true, the position prefix is dimmed and the message is yellow,
// matching the color conventions the CLI's tree printer uses elsewhere.
func FormatWarnings(warnings []Warning, colored bool) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	pos := color.New(color.Faint)
	msg := color.New(color.FgYellow)
	for _, w := range warnings {
		prefix := fmt.Sprintf("%d:%d:", w.Line, w.Column)
		if colored {
			b.WriteString(pos.Sprint(prefix))
			b.WriteString(" ")
			b.WriteString(msg.Sprint(w.Message))
		} else {
			b.WriteString(prefix)
			b.WriteString(" ")
			b.WriteString(w.Message)
		}
		if w.Source != "" {
			b.WriteString("  (")
			b.WriteString(w.Source)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
