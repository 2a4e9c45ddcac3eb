package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// AssignmentDetail pairs an assignment operator (`=`, `+=`, ...) with
// the target tree it assigned into, recorded in source order so chained
// and augmented assignment can be distinguished from the final value.
type AssignmentDetail struct {
	Operator string
	Target   *Array
}

// Statement is a syntactic unit that is not a compound construct. It
// retains its raw token list so the call/assignment tree (Statement Sub-
// Parser) can be built lazily, on first access, and memoized.
type Statement struct {
	Base
	Code   string
	Tokens token.Tokens

	computed          bool
	setVars           []*Name
	usedVars          []*Name
	usedFuncs         []*Name
	assignmentDetails []AssignmentDetail
	assignmentCalls   *Array
}

func NewStatement(module *Module, parent Node, code string, toks token.Tokens, start, end token.Position) *Statement {
	return &Statement{Base: newBase(module, parent, start, end), Code: code, Tokens: toks}
}

func (s *Statement) Kind() Kind { return KindStatement }

func (s *Statement) GetCode() string { return s.Code }

// IsGlobal reports whether this Statement is the body of a `global`
// declaration.
func (s *Statement) IsGlobal() bool {
	return strings.HasPrefix(s.Code, "global ")
}

// SetVars triggers the lazy sub-parse and returns the names this
// Statement binds.
func (s *Statement) SetVars() []*Name {
	s.ensureComputed()
	return s.setVars
}

// UsedVars triggers the lazy sub-parse and returns the names this
// Statement reads.
func (s *Statement) UsedVars() []*Name {
	s.ensureComputed()
	return s.usedVars
}

// UsedFuncs triggers the lazy sub-parse and returns the names
// immediately followed by `(`.
func (s *Statement) UsedFuncs() []*Name {
	s.ensureComputed()
	return s.usedFuncs
}

// AssignmentDetails triggers the lazy sub-parse and returns the ordered
// (operator, target) pairs recorded for chained/augmented assignment.
func (s *Statement) AssignmentDetails() []AssignmentDetail {
	s.ensureComputed()
	return s.assignmentDetails
}

// AssignmentCalls triggers the lazy sub-parse and returns the resulting
// call/assignment tree. Calling it twice returns the identical tree
// (§8 idempotence).
func (s *Statement) AssignmentCalls() *Array {
	s.ensureComputed()
	return s.assignmentCalls
}

// ForcedSetVars treats this Statement's whole parsed tree as a binding
// target even when no assignment operator introduced it: used for
// syntax that binds without `=`, such as a for-loop's set_stmt.
func (s *Statement) ForcedSetVars() []*Name {
	s.ensureComputed()
	if len(s.assignmentDetails) > 0 {
		return s.setVars
	}
	setVars, _, _ := targetVars(s.assignmentCalls)
	return setVars
}

// nameAt searches both the final assignment_calls tree and, since each
// earlier `=`'s target is a separate Array not reachable from it, every
// recorded assignment target: without this, a cursor over the `y` of
// `y = 1` would never resolve, since assignment_calls there is just the
// tree for the literal `1`.
func (s *Statement) nameAt(pos token.Position) *Name {
	s.ensureComputed()
	for _, d := range s.assignmentDetails {
		if n := findNameAt(d.Target, pos); n != nil {
			return n
		}
	}
	return findNameAt(s.assignmentCalls, pos)
}

func findNameAt(n Node, pos token.Position) *Name {
	switch v := n.(type) {
	case *Array:
		if nm := findNameInCall(&v.Call, pos); nm != nil {
			return nm
		}
		for _, field := range v.Values {
			for _, item := range field {
				if nm := findNameAt(item, pos); nm != nil {
					return nm
				}
			}
		}
		for _, field := range v.Keys {
			for _, item := range field {
				if nm := findNameAt(item, pos); nm != nil {
					return nm
				}
			}
		}
	case *Call:
		return findNameInCall(v, pos)
	}
	return nil
}

func findNameInCall(c *Call, pos token.Position) *Name {
	for cur := c; cur != nil; cur = cur.Next {
		if cur.NameNode != nil && Contains(cur.NameNode, pos) {
			return cur.NameNode
		}
		if cur.Execution != nil {
			if nm := findNameAt(cur.Execution, pos); nm != nil {
				return nm
			}
		}
	}
	return nil
}

// ensureComputed runs the Statement Sub-Parser exactly once.
func (s *Statement) ensureComputed() {
	if s.computed {
		return
	}
	s.computed = true
	p := &subParser{stmt: s, module: s.module}
	s.assignmentCalls = p.run()
	s.assignmentDetails = p.details
	s.setVars = p.setVars
	s.usedVars = p.usedVars
	s.usedFuncs = p.usedFuncs
}

// assignOp reports whether v is an assignment operator this algorithm
// should split on: ends with `=` but is not a comparison operator.
func assignOp(v string) bool {
	if !strings.HasSuffix(v, "=") {
		return false
	}
	switch v {
	case "==", "!=", "<=", ">=":
		return false
	}
	return true
}

// Param is a Statement specialization describing one entry of a
// function's parameter list.
type Param struct {
	Statement
	PositionNr     int
	AnnotationStmt *Statement
	ParentFunction *Function
	IsGenerated    bool
}

func NewParam(module *Module, parent Node, code string, toks token.Tokens, positionNr int, fn *Function, start, end token.Position) *Param {
	return &Param{
		Statement:      *NewStatement(module, parent, code, toks, start, end),
		PositionNr:     positionNr,
		ParentFunction: fn,
	}
}

func (p *Param) Kind() Kind { return KindParam }

// GetName returns the Name this parameter binds. Parameter syntax binds
// its first NAME token regardless of a default value or annotation
// (`a`, `a=2`, `*args`, `**kwargs` all bind on the first NAME seen), so
// this reads straight off the token list rather than going through the
// generic assignment-splitting sub-parse, which would wrongly treat a
// bare `a` (no `=`) as a used name rather than a bound one.
func (p *Param) GetName() *Name {
	for _, t := range p.Tokens {
		if t.Kind == token.NAME && !t.Keyword() {
			part := NewNamePart(p.module, p, t.Value, t.Start, t.End)
			return NewName(p.module, p, []*NamePart{part}, t.Start, t.End)
		}
	}
	return nil
}
