package ast

import "github.com/d42/jedi/token"

// ListComprehension is the triple (result, iteration variable, iterable)
// recognized when a `for` appears inside a bracketed expression. It is
// carried as a single item inside the enclosing Statement's token list,
// replacing the bracket content it was parsed from.
type ListComprehension struct {
	Base
	Result    *Statement
	Iteration *Statement
	Iterable  *Statement
}

func NewListComprehension(module *Module, parent Node, result, iteration, iterable *Statement, start, end token.Position) *ListComprehension {
	return &ListComprehension{
		Base:      newBase(module, parent, start, end),
		Result:    result,
		Iteration: iteration,
		Iterable:  iterable,
	}
}

func (l *ListComprehension) Kind() Kind { return KindListComprehension }

func (l *ListComprehension) GetCode() string {
	return l.Result.GetCode() + " for " + l.Iteration.GetCode() + " in " + l.Iterable.GetCode()
}
