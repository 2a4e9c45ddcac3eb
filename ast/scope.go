package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// Scope is implemented by every node that can own statements, imports
// and subscopes: Module, Class, Function, Lambda, Flow, ForFlow.
type Scope interface {
	Node
	AddScope(s Scope)
	AddStatement(s *Statement)
	AddImport(im *Import)
	AddAssert(s *Statement)
	SetDocstring(doc string)

	Subscopes() []Scope
	Statements() []*Statement
	Imports() []*Import
	Asserts() []*Statement
	Docstring() string

	IsEmpty() bool
	GetCode() string
	SetVars() []*Name
	DefinedNames() []*Name
	NameAt(pos token.Position) *Name
	StatementForPosition(pos token.Position, includeImports bool) Node
}

// ScopeBase implements the Scope interface's bookkeeping; concrete scope
// kinds embed it and add their own header fields (name, params, ...).
type ScopeBase struct {
	Base

	subscopes  []Scope
	statements []*Statement
	imports    []*Import
	asserts    []*Statement
	docstring  string
}

func newScopeBase(module *Module, parent Node, start, end token.Position) ScopeBase {
	return ScopeBase{Base: newBase(module, parent, start, end)}
}

func (s *ScopeBase) AddScope(sub Scope)          { s.subscopes = append(s.subscopes, sub) }
func (s *ScopeBase) AddStatement(st *Statement)  { s.statements = append(s.statements, st) }
func (s *ScopeBase) AddImport(im *Import)        { s.imports = append(s.imports, im) }
func (s *ScopeBase) AddAssert(st *Statement)     { s.asserts = append(s.asserts, st) }
func (s *ScopeBase) SetDocstring(doc string)     { s.docstring = doc }
func (s *ScopeBase) Subscopes() []Scope          { return s.subscopes }
func (s *ScopeBase) Statements() []*Statement    { return s.statements }
func (s *ScopeBase) Imports() []*Import          { return s.imports }
func (s *ScopeBase) Asserts() []*Statement       { return s.asserts }
func (s *ScopeBase) Docstring() string           { return s.docstring }

func (s *ScopeBase) IsEmpty() bool {
	return len(s.subscopes) == 0 && len(s.statements) == 0 && len(s.imports) == 0 && len(s.asserts) == 0
}

// GetCode regenerates a textual representation of the scope's direct
// children, in source order, for display purposes. It is not
// byte-identical to the original source (§4.6).
func (s *ScopeBase) GetCode() string {
	var b strings.Builder
	for _, im := range s.imports {
		b.WriteString(im.GetCode())
		b.WriteString("\n")
	}
	for _, st := range s.statements {
		b.WriteString(st.GetCode())
		b.WriteString("\n")
	}
	for _, sub := range s.subscopes {
		b.WriteString(sub.GetCode())
	}
	return b.String()
}

// SetVars returns the union of every direct statement's assignment
// targets and the loop variables of directly nested ForFlows. Names of
// nested Functions/Classes and of imports are not included; DefinedNames
// adds those.
func (s *ScopeBase) SetVars() []*Name {
	var names []*Name
	for _, st := range s.statements {
		names = append(names, st.SetVars()...)
	}
	for _, sub := range s.subscopes {
		if ff, ok := sub.(*ForFlow); ok && ff.SetStmt != nil {
			names = append(names, ff.SetStmt.ForcedSetVars()...)
		}
	}
	return names
}

// DefinedNames is the subset of SetVars ∪ subscope names ∪ non-star
// import names visible to an enclosing scope (§4.6).
func (s *ScopeBase) DefinedNames() []*Name {
	names := append([]*Name{}, s.SetVars()...)
	for _, sub := range s.subscopes {
		switch n := sub.(type) {
		case *Class:
			if n.NameNode != nil {
				names = append(names, n.NameNode)
			}
		case *Function:
			if n.NameNode != nil {
				names = append(names, n.NameNode)
			}
		}
	}
	for _, im := range s.imports {
		names = append(names, im.GetDefinedNames()...)
	}
	return names
}

// NameAt returns the Name containing pos, searching statements, imports
// and subscopes, or nil.
func (s *ScopeBase) NameAt(pos token.Position) *Name {
	for _, im := range s.imports {
		if n := im.nameAt(pos); n != nil {
			return n
		}
	}
	for _, st := range s.statements {
		if n := st.nameAt(pos); n != nil {
			return n
		}
	}
	for _, sub := range s.subscopes {
		if n := sub.NameAt(pos); n != nil {
			return n
		}
	}
	return nil
}

// chainContains is like Contains but for a Flow/ForFlow head also checks
// its chained tails (else/elif/except/finally), whose ranges abut rather
// than nest inside the head's own range.
func chainContains(n Node, pos token.Position) bool {
	if Contains(n, pos) {
		return true
	}
	switch v := n.(type) {
	case *Flow:
		if v.Next != nil {
			return chainContains(v.Next, pos)
		}
	case *ForFlow:
		if v.Next != nil {
			return chainContains(v.Next, pos)
		}
	}
	return false
}

// StatementForPosition descends through subscopes to find the innermost
// statement or assert (or, with includeImports, Import) containing pos.
// A Function's Params, Decorators and Returns are not searched.
func (s *ScopeBase) StatementForPosition(pos token.Position, includeImports bool) Node {
	for _, sub := range s.subscopes {
		if chainContains(sub, pos) {
			if n := sub.StatementForPosition(pos, includeImports); n != nil {
				return n
			}
		}
	}
	if includeImports {
		for _, im := range s.imports {
			if Contains(im, pos) {
				return im
			}
		}
	}
	for _, st := range s.statements {
		if Contains(st, pos) {
			return st
		}
	}
	for _, st := range s.asserts {
		if Contains(st, pos) {
			return st
		}
	}
	return nil
}
