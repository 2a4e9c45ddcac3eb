// Package perror holds the parser's internal, non-propagating warning
// values (§7). The parser never returns or panics on malformed input;
// it records a Warning and keeps going. Frames are kept via xerrors so a
// caller debugging a recovery decision can still see where it was
// raised from, the same convention the parser's error formatting
// followed before propagation was ruled out in favor of logging.
package perror

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Warning is one recovered anomaly: a bad indentation level, a
// malformed compound-statement header, an unbalanced bracket. Message
// is user-facing; Line and Column locate the anomaly when known (Line 0
// means unknown), and Source holds the offending physical source line.
type Warning struct {
	Message string
	Line    int
	Column  int
	Source  string
	frame   xerrors.Frame
}

// New builds a Warning carrying a frame pointing at its caller, which
// Format writes out when its printer asks for detail.
func New(message string, line, column int, source string) Warning {
	return Warning{
		Message: message,
		Line:    line,
		Column:  column,
		Source:  source,
		frame:   xerrors.Caller(1),
	}
}

func (w Warning) Error() string {
	if w.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", w.Line, w.Column, w.Message)
	}
	return w.Message
}

// Format writes the message to p and, when p.Detail() is set, the
// originating frame. Warning does not implement xerrors.Formatter (whose
// method is FormatError) or fmt.Formatter, so fmt's %+v prints only
// Error().
func (w Warning) Format(p xerrors.Printer) {
	p.Print(w.Error())
	if p.Detail() {
		w.frame.Format(p)
	}
}
