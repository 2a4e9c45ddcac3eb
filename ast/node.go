// Package ast defines the closed syntax-tree node family the parser
// builds: Module, Class, Function, Lambda, Flow, ForFlow, Import,
// Statement, Param, Name, NamePart, Call, Array and ListComprehension.
package ast

import "github.com/d42/jedi/token"

// Kind tags which of the closed node variants a Node is, so callers like
// ParentUntil can filter a parent chain without a type switch at every
// call site.
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
	KindLambda
	KindFlow
	KindForFlow
	KindImport
	KindStatement
	KindParam
	KindName
	KindNamePart
	KindCall
	KindArray
	KindListComprehension
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindFunction:
		return "Function"
	case KindLambda:
		return "Lambda"
	case KindFlow:
		return "Flow"
	case KindForFlow:
		return "ForFlow"
	case KindImport:
		return "Import"
	case KindStatement:
		return "Statement"
	case KindParam:
		return "Param"
	case KindName:
		return "Name"
	case KindNamePart:
		return "NamePart"
	case KindCall:
		return "Call"
	case KindArray:
		return "Array"
	case KindListComprehension:
		return "ListComprehension"
	default:
		return "?"
	}
}

// Node is implemented by every member of the closed node family.
type Node interface {
	Module() *Module
	// Parent is the effective parent used for upward traversal
	// (ParentUntil, scope lookup). For a Flow chain's tails this is the
	// head's parent, kept in sync through a shared indirection cell so
	// that rewriting the head's parent is visible to every tail.
	Parent() Node
	Start() token.Position
	End() token.Position
	Kind() Kind
}

// parentCell is the shared, mutable indirection a Flow head and its
// chained tails point at. Writing through SetParent on the head is
// visible to every tail sharing the same cell.
type parentCell struct {
	node Node
}

// Base is embedded by every node and supplies the fields common to all
// of them: the owning Module, the effective-parent cell, and the raw
// (unoffset) position range. Read accessors add module.LineOffset so
// a Module can represent a slice of a larger file without rewriting
// positions (§4.1).
type Base struct {
	module *Module
	cell   *parentCell
	start  token.Position
	end    token.Position
}

func newBase(module *Module, parent Node, start, end token.Position) Base {
	return Base{module: module, cell: &parentCell{node: parent}, start: start, end: end}
}

func (b *Base) Module() *Module { return b.module }

func (b *Base) Parent() Node { return b.cell.node }

// SetParent rewrites the effective parent seen through this node's
// cell. If this node shares its cell with Flow tails (ShareParentCell),
// they observe the change too.
func (b *Base) SetParent(n Node) { b.cell.node = n }

// ShareParentCell makes b observe the same effective-parent cell as
// other, used to implement the Flow head/tail parent-sharing invariant.
func (b *Base) ShareParentCell(other *Base) { b.cell = other.cell }

func (b *Base) Start() token.Position { return b.start.Add(b.module.LineOffset) }
func (b *Base) End() token.Position   { return b.end.Add(b.module.LineOffset) }

func (b *Base) rawStart() token.Position { return b.start }
func (b *Base) rawEnd() token.Position   { return b.end }

// SetEnd is called by the parser on dedent/scope-close to fix up a
// node's end position once its extent is known.
func (b *Base) SetEnd(p token.Position) { b.end = p }

// Contains reports whether pos (already offset-adjusted, i.e. as read
// from Start/End) falls within [Start, End] inclusive.
func Contains(n Node, pos token.Position) bool {
	start, end := n.Start(), n.End()
	if pos.Before(start) {
		return false
	}
	if end.Before(pos) {
		return false
	}
	return true
}

// ParentUntil walks n's effective-parent chain and returns the nearest
// ancestor whose Kind is one of kinds, or nil if none matches before
// reaching the Module.
func ParentUntil(n Node, kinds ...Kind) Node {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	cur := n.Parent()
	for cur != nil {
		if set[cur.Kind()] {
			return cur
		}
		cur = cur.Parent()
	}
	return nil
}

// ParentUntilExcept is ParentUntil's complement: it returns the nearest
// ancestor whose Kind is NOT one of kinds.
func ParentUntilExcept(n Node, kinds ...Kind) Node {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	cur := n.Parent()
	for cur != nil {
		if !set[cur.Kind()] {
			return cur
		}
		cur = cur.Parent()
	}
	return nil
}

// EnclosingScope returns the nearest ancestor that is a Scope.
func EnclosingScope(n Node) Scope {
	cur := n.Parent()
	for cur != nil {
		if s, ok := cur.(Scope); ok {
			return s
		}
		cur = cur.Parent()
	}
	return nil
}
