// Package printer renders a parsed Module as a colorized, indented tree
// for interactive/CLI use: one line per node with per-node-kind color
// wrapping, a different layout from ast.Dump's property listing.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/d42/jedi/ast"
)

const escape = "\x1b"

func format(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}

// Property is a color wrapper applied around one rendered value.
type Property struct {
	Prefix string
	Suffix string
}

func colorProperty(attr color.Attribute) *Property {
	return &Property{Prefix: format(attr), Suffix: format(color.Reset)}
}

// Printer holds the color choice for each rendered category; every field
// defaults to a reasonable color and can be overridden by the caller (a
// func returning nil leaves that category uncolored).
type Printer struct {
	Scope   func() *Property
	Name    func() *Property
	Literal func() *Property
	Import  func() *Property
	Keyword func() *Property
}

// NewPrinter returns a Printer with this module's default color scheme:
// scope headers in bright cyan, names in bright white, literals in bright
// green, imports in bright yellow and keywords in bright magenta.
func NewPrinter() *Printer {
	return &Printer{
		Scope:   func() *Property { return colorProperty(color.FgHiCyan) },
		Name:    func() *Property { return colorProperty(color.FgHiWhite) },
		Literal: func() *Property { return colorProperty(color.FgHiGreen) },
		Import:  func() *Property { return colorProperty(color.FgHiYellow) },
		Keyword: func() *Property { return colorProperty(color.FgHiMagenta) },
	}
}

func wrap(p *Property, s string) string {
	if p == nil {
		return s
	}
	return p.Prefix + s + p.Suffix
}

func quote(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

// PrintTree renders n and its descendants, one line per node, children
// indented four spaces under their parent.
func (p *Printer) PrintTree(n ast.Node) string {
	var b strings.Builder
	p.printNode(&b, 0, n)
	return b.String()
}

func (p *Printer) line(b *strings.Builder, level int, text string) {
	b.WriteString(strings.Repeat("    ", level))
	b.WriteString(text)
	b.WriteString("\n")
}

// PrintDot renders n and its descendants as a Graphviz DOT graph, for
// piping into `dot -Tsvg` or similar.
func (p *Printer) PrintDot(n ast.Node) string {
	var b strings.Builder
	b.WriteString("digraph tree {\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	id := 0
	p.dotNode(&b, n, &id)
	b.WriteString("}\n")
	return b.String()
}

func (p *Printer) dotNode(b *strings.Builder, n ast.Node, id *int) int {
	this := *id
	*id++
	label := dotLabel(n)
	fmt.Fprintf(b, "  n%d [label=%q];\n", this, label)
	for _, child := range dotChildren(n) {
		childID := p.dotNode(b, child, id)
		fmt.Fprintf(b, "  n%d -> n%d;\n", this, childID)
	}
	return this
}

func dotLabel(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Module:
		return "Module " + v.Path
	case *ast.Class:
		if v.NameNode != nil {
			return "class " + v.NameNode.GetCode()
		}
		return "class"
	case *ast.Function:
		if v.NameNode != nil {
			return "def " + v.NameNode.GetCode()
		}
		return "def"
	case *ast.Flow:
		return v.Command
	case *ast.ForFlow:
		return "for"
	case *ast.Import:
		return v.GetCode()
	case *ast.Param:
		return v.Code
	case *ast.Statement:
		return v.Code
	default:
		return fmt.Sprintf("%v", n)
	}
}

func dotChildren(n ast.Node) []ast.Node {
	var out []ast.Node
	switch v := n.(type) {
	case *ast.Module:
		for _, im := range v.Imports() {
			out = append(out, im)
		}
		for _, st := range v.Statements() {
			out = append(out, st)
		}
		for _, sub := range v.Subscopes() {
			out = append(out, sub)
		}
	case *ast.Class:
		for _, sub := range v.Subscopes() {
			out = append(out, sub)
		}
		for _, st := range v.Statements() {
			out = append(out, st)
		}
	case *ast.Function:
		for _, param := range v.Params {
			out = append(out, param)
		}
		for _, sub := range v.Subscopes() {
			out = append(out, sub)
		}
		for _, st := range v.Statements() {
			out = append(out, st)
		}
	case *ast.Flow:
		for _, init := range v.Inits {
			out = append(out, init)
		}
		for _, sub := range v.Subscopes() {
			out = append(out, sub)
		}
		for _, st := range v.Statements() {
			out = append(out, st)
		}
		if v.Next != nil {
			out = append(out, v.Next)
		}
	case *ast.ForFlow:
		if v.SetStmt != nil {
			out = append(out, v.SetStmt)
		}
		for _, init := range v.Inits {
			out = append(out, init)
		}
		for _, sub := range v.Subscopes() {
			out = append(out, sub)
		}
		for _, st := range v.Statements() {
			out = append(out, st)
		}
	}
	return out
}

func (p *Printer) printNode(b *strings.Builder, level int, n ast.Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.Module:
		p.line(b, level, wrap(p.Scope(), "Module")+" "+quote(v.Path))
		for _, im := range v.Imports() {
			p.printNode(b, level+1, im)
		}
		for _, st := range v.Statements() {
			p.printNode(b, level+1, st)
		}
		for _, sub := range v.Subscopes() {
			p.printNode(b, level+1, sub)
		}
	case *ast.Class:
		name := ""
		if v.NameNode != nil {
			name = v.NameNode.GetCode()
		}
		p.line(b, level, wrap(p.Scope(), "class")+" "+wrap(p.Name(), name))
		for _, sub := range v.Subscopes() {
			p.printNode(b, level+1, sub)
		}
		for _, st := range v.Statements() {
			p.printNode(b, level+1, st)
		}
	case *ast.Function:
		name := ""
		if v.NameNode != nil {
			name = v.NameNode.GetCode()
		}
		tag := "def"
		if v.IsGenerator {
			tag = "def*"
		}
		p.line(b, level, wrap(p.Scope(), tag)+" "+wrap(p.Name(), name))
		for _, param := range v.Params {
			p.printNode(b, level+1, param)
		}
		for _, sub := range v.Subscopes() {
			p.printNode(b, level+1, sub)
		}
		for _, st := range v.Statements() {
			p.printNode(b, level+1, st)
		}
		for _, r := range v.Returns {
			p.printNode(b, level+1, r)
		}
	case *ast.Flow:
		p.line(b, level, wrap(p.Keyword(), v.Command))
		for _, init := range v.Inits {
			p.printNode(b, level+1, init)
		}
		for _, sub := range v.Subscopes() {
			p.printNode(b, level+1, sub)
		}
		for _, st := range v.Statements() {
			p.printNode(b, level+1, st)
		}
		if v.Next != nil {
			p.printNode(b, level, v.Next)
		}
	case *ast.ForFlow:
		p.line(b, level, wrap(p.Keyword(), "for"))
		if v.SetStmt != nil {
			p.printNode(b, level+1, v.SetStmt)
		}
		for _, init := range v.Inits {
			p.printNode(b, level+1, init)
		}
		for _, sub := range v.Subscopes() {
			p.printNode(b, level+1, sub)
		}
		for _, st := range v.Statements() {
			p.printNode(b, level+1, st)
		}
	case *ast.Import:
		p.line(b, level, wrap(p.Import(), "import")+" "+quote(v.GetCode()))
	case *ast.Param:
		p.line(b, level, wrap(p.Name(), v.Code))
	case *ast.Statement:
		p.line(b, level, wrap(p.Literal(), v.Code))
	default:
		p.line(b, level, fmt.Sprintf("%v", n))
	}
}
