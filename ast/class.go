package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// Class is a scope introduced by a `class` statement.
type Class struct {
	ScopeBase
	NameNode   *Name
	Supers     []*Statement
	Decorators []*Statement
}

func NewClass(module *Module, parent Node, name *Name, start, end token.Position) *Class {
	return &Class{ScopeBase: newScopeBase(module, parent, start, end), NameNode: name}
}

func (c *Class) Kind() Kind { return KindClass }

func (c *Class) GetCode() string {
	var b strings.Builder
	for _, d := range c.Decorators {
		b.WriteString("@")
		b.WriteString(d.GetCode())
		b.WriteString("\n")
	}
	b.WriteString("class ")
	if c.NameNode != nil {
		b.WriteString(c.NameNode.GetCode())
	}
	if len(c.Supers) > 0 {
		parts := make([]string, len(c.Supers))
		for i, s := range c.Supers {
			parts[i] = s.GetCode()
		}
		b.WriteString("(")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	b.WriteString(":\n")
	b.WriteString(c.ScopeBase.GetCode())
	return b.String()
}

// Function is a scope introduced by a `def` statement, or the implicit
// scope of a `lambda` (see Lambda).
type Function struct {
	ScopeBase
	NameNode    *Name
	Params      []*Param
	Returns     []*Statement
	Decorators  []*Statement
	IsGenerator bool
	Annotation  *Statement
}

func NewFunction(module *Module, parent Node, name *Name, start, end token.Position) *Function {
	return &Function{ScopeBase: newScopeBase(module, parent, start, end), NameNode: name}
}

func (f *Function) Kind() Kind { return KindFunction }

// GetSetVars returns the function's own parameter bindings, in addition
// to whatever its body statements bind directly.
func (f *Function) GetSetVars() []*Name {
	names := make([]*Name, 0, len(f.Params))
	for _, p := range f.Params {
		if n := p.GetName(); n != nil {
			names = append(names, n)
		}
	}
	return append(names, f.ScopeBase.SetVars()...)
}

// CallSignature renders `name(params) -> annotation`, mirroring the
// display helper downstream tooling uses for signature help. When the
// result is longer than width (width > 0), a line break follows each
// comma reached once the current line has width or more characters, so
// a line can run past width up to its next comma.
func (f *Function) CallSignature(width int) string {
	name := ""
	if f.NameNode != nil {
		name = f.NameNode.GetCode()
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.GetCode()
	}
	sig := name + "(" + strings.Join(parts, ", ") + ")"
	if f.Annotation != nil {
		sig += " -> " + f.Annotation.GetCode()
	}
	return wrapSignature(sig, width)
}

func wrapSignature(sig string, width int) string {
	if width <= 0 || len(sig) <= width {
		return sig
	}
	var b strings.Builder
	line := 0
	for i, r := range sig {
		b.WriteRune(r)
		line++
		if line >= width && (r == ',' ) && i+1 < len(sig) {
			b.WriteString("\n")
			line = 0
		}
	}
	return b.String()
}

// Doc is the function's docstring, if its first statement was consumed
// as one.
func (f *Function) Doc() string { return f.Docstring() }

func (f *Function) GetCode() string {
	var b strings.Builder
	for _, d := range f.Decorators {
		b.WriteString("@")
		b.WriteString(d.GetCode())
		b.WriteString("\n")
	}
	b.WriteString("def ")
	if f.NameNode != nil {
		b.WriteString(f.NameNode.GetCode())
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.GetCode()
	}
	b.WriteString("(")
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	if f.Annotation != nil {
		b.WriteString(" -> ")
		b.WriteString(f.Annotation.GetCode())
	}
	b.WriteString(":\n")
	b.WriteString(f.ScopeBase.GetCode())
	return b.String()
}

// Lambda is a Function variant with no name and a single implicit
// return expression.
type Lambda struct {
	ScopeBase
	Params     []*Param
	ReturnStmt *Statement
}

func NewLambda(module *Module, parent Node, start, end token.Position) *Lambda {
	return &Lambda{ScopeBase: newScopeBase(module, parent, start, end)}
}

func (l *Lambda) Kind() Kind { return KindLambda }

func (l *Lambda) GetSetVars() []*Name {
	names := make([]*Name, 0, len(l.Params))
	for _, p := range l.Params {
		if n := p.GetName(); n != nil {
			names = append(names, n)
		}
	}
	return names
}

func (l *Lambda) GetCode() string {
	parts := make([]string, len(l.Params))
	for i, p := range l.Params {
		parts[i] = p.GetCode()
	}
	body := ""
	if l.ReturnStmt != nil {
		body = l.ReturnStmt.GetCode()
	}
	return "lambda " + strings.Join(parts, ", ") + ": " + body
}
