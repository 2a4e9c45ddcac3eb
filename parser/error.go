package parser

import (
	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/internal/perror"
)

// FormatWarnings renders every anomaly Parse recorded on module, one per
// line, in the order they were logged. If colored is true, the position
// prefix is dimmed and the message is yellow, matching this module's
// other color-capable output (printer, cmd/pyparse).
func FormatWarnings(module *ast.Module, colored bool) string {
	return perror.FormatWarnings(module.Warnings(), colored)
}
