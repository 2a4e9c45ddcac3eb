package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// NamePart is one dotted segment of a Name: a bare identifier with its
// own start position.
type NamePart struct {
	Base
	Text string
}

func NewNamePart(module *Module, parent Node, text string, start, end token.Position) *NamePart {
	np := &NamePart{Base: newBase(module, parent, start, end), Text: text}
	return np
}

func (p *NamePart) Kind() Kind { return KindNamePart }
func (p *NamePart) String() string { return p.Text }

// Name is an ordered, possibly dotted, sequence of NameParts: `a`,
// `a.b.c`. GetCode joins the parts with `.`.
type Name struct {
	Base
	Parts []*NamePart
}

func NewName(module *Module, parent Node, parts []*NamePart, start, end token.Position) *Name {
	n := &Name{Base: newBase(module, parent, start, end), Parts: parts}
	for _, p := range parts {
		p.cell = n.cell
	}
	return n
}

func (n *Name) Kind() Kind { return KindName }

// Len reports the number of dotted segments.
func (n *Name) Len() int { return len(n.Parts) }

// Text is the first (or only) segment's text; for most uses (simple
// identifiers) this is the whole name.
func (n *Name) Text() string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[0].Text
}

// GetCode joins every dotted segment with `.`.
func (n *Name) GetCode() string {
	parts := make([]string, len(n.Parts))
	for i, p := range n.Parts {
		parts[i] = p.Text
	}
	return strings.Join(parts, ".")
}

func (n *Name) String() string { return n.GetCode() }
