package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// Flow is a control construct: if/while/try/with/for, and its chained
// tails else/elif/except/finally. A tail's effective parent is the
// head's effective parent, kept in sync through Base's shared parent
// cell (§3, §9): rewriting the head's parent is visible to every tail.
type Flow struct {
	ScopeBase
	Command string
	Inits   []*Statement
	Next    *Flow
}

func NewFlow(module *Module, parent Node, command string, start, end token.Position) *Flow {
	return &Flow{ScopeBase: newScopeBase(module, parent, start, end), Command: command}
}

func (f *Flow) Kind() Kind { return KindFlow }

// SetNext chains tail as this Flow's next tail, making tail (and
// whatever is chained after it) share this Flow's effective-parent
// cell.
func (f *Flow) SetNext(tail *Flow) {
	f.Next = tail
	tail.ShareParentCell(&f.Base)
}

// SetParent overrides Base.SetParent so that rewriting a chain head's
// parent propagates to every tail sharing its cell (they already share
// the same cell pointer, so a plain field write is enough, but this
// keeps the invariant explicit at the call site).
func (f *Flow) SetParent(n Node) { f.Base.SetParent(n) }

func (f *Flow) GetCode() string {
	var b strings.Builder
	b.WriteString(f.Command)
	if len(f.Inits) > 0 {
		parts := make([]string, len(f.Inits))
		for i, s := range f.Inits {
			parts[i] = s.GetCode()
		}
		b.WriteString(" ")
		b.WriteString(strings.Join(parts, ", "))
	}
	b.WriteString(":\n")
	b.WriteString(f.ScopeBase.GetCode())
	if f.Next != nil {
		b.WriteString(f.Next.GetCode())
	}
	return b.String()
}

// GetImports collects this Flow's own imports plus every chained tail's.
func (f *Flow) GetImports() []*Import {
	imports := append([]*Import{}, f.Imports()...)
	if f.Next != nil {
		imports = append(imports, f.Next.GetImports()...)
	}
	return imports
}

// NameAt, StatementForPosition, DefinedNames and SetVars all widen the
// ScopeBase behavior to also search chained tails: else/elif/except/
// finally never become a sibling subscope of their head (that would
// double-print them under Dump), so the chain is the only path a
// traversal starting from the head can take to reach them.
func (f *Flow) NameAt(pos token.Position) *Name {
	if n := f.ScopeBase.NameAt(pos); n != nil {
		return n
	}
	if f.Next != nil {
		return f.Next.NameAt(pos)
	}
	return nil
}

func (f *Flow) StatementForPosition(pos token.Position, includeImports bool) Node {
	if n := f.ScopeBase.StatementForPosition(pos, includeImports); n != nil {
		return n
	}
	if f.Next != nil {
		return f.Next.StatementForPosition(pos, includeImports)
	}
	return nil
}

func (f *Flow) DefinedNames() []*Name {
	names := f.ScopeBase.DefinedNames()
	if f.Next != nil {
		names = append(names, f.Next.DefinedNames()...)
	}
	return names
}

func (f *Flow) SetVars() []*Name {
	vars := f.ScopeBase.SetVars()
	if f.Next != nil {
		vars = append(vars, f.Next.SetVars()...)
	}
	return vars
}

// ForFlow is a Flow specialized for `for set_stmt in iterable:`.
type ForFlow struct {
	Flow
	SetStmt    *Statement
	IsListComp bool
}

func NewForFlow(module *Module, parent Node, start, end token.Position) *ForFlow {
	return &ForFlow{Flow: *NewFlow(module, parent, "for", start, end)}
}

func (f *ForFlow) Kind() Kind { return KindForFlow }

func (f *ForFlow) GetCode() string {
	var b strings.Builder
	b.WriteString("for ")
	if f.SetStmt != nil {
		b.WriteString(f.SetStmt.GetCode())
	}
	b.WriteString(" in ")
	if len(f.Inits) > 0 {
		b.WriteString(f.Inits[0].GetCode())
	}
	b.WriteString(":\n")
	b.WriteString(f.ScopeBase.GetCode())
	return b.String()
}
