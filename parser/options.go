package parser

import (
	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/token"
)

// Mode is a bitmask of parse-time behavior toggles (§6).
type Mode uint8

const (
	// NoDocstring disables consuming a scope's leading STRING statement
	// as its docstring.
	NoDocstring Mode = 1 << iota
	// StopOnScope is accepted in Mode, but Parse does not read it:
	// parsing always runs to the end of the input.
	StopOnScope
)

func (m Mode) has(flag Mode) bool { return m&flag != 0 }

// Options carries the parser's external constructor inputs (§6).
type Options struct {
	// ModulePath is the optional filesystem path used for the Module's
	// derived name and is_builtin() determination.
	ModulePath string
	// UserPosition, when set, enables cursor tracking (user_scope,
	// user_stmt).
	UserPosition *token.Position
	// LineOffset is added to the line number of every reported position.
	LineOffset int
	Mode       Mode
	// TopModule, when set, is used as the effective parent for this
	// parse's children instead of a freshly created Module, so several
	// chunks can be stitched into one logical tree.
	TopModule *ast.Module
}
