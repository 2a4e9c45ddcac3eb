package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

func dumpf(w io.Writer, indentLevel int, typ fmt.Stringer, properties ...string) error {
	indent := strings.Repeat("    ", indentLevel)
	if _, err := fmt.Fprintf(w, "%s- *%s*\n", indent, typ); err != nil {
		return err
	}
	for i := 0; i < len(properties); i += 2 {
		key, value := properties[i], ""
		if i+1 < len(properties) {
			value = properties[i+1]
		}
		value = strconv.Quote(value)
		value = value[1 : len(value)-1]
		if _, err := fmt.Fprintf(w, "%s    - %s: `%s`\n", indent, key, value); err != nil {
			return err
		}
	}
	return nil
}

func dump(w io.Writer, indentLevel int, n interface{}) error {
	if n == nil {
		return nil
	}

	node, ok := n.(Node)
	if !ok {
		return nil
	}

	var properties []string
	if node.Module() != nil {
		properties = append(properties, "Start", node.Start().String(), "End", node.End().String())
	}

	var children []interface{}
	switch v := n.(type) {
	case *Module:
		properties = append(properties, "Path", v.Path)
		for _, im := range v.Imports() {
			children = append(children, im)
		}
		for _, st := range v.Statements() {
			children = append(children, st)
		}
		for _, sub := range v.Subscopes() {
			children = append(children, sub)
		}
	case *Class:
		if v.NameNode != nil {
			properties = append(properties, "Name", v.NameNode.GetCode())
		}
		for _, s := range v.Supers {
			children = append(children, s)
		}
		for _, sub := range v.Subscopes() {
			children = append(children, sub)
		}
		for _, st := range v.Statements() {
			children = append(children, st)
		}
	case *Function:
		if v.NameNode != nil {
			properties = append(properties, "Name", v.NameNode.GetCode())
		}
		properties = append(properties, "IsGenerator", fmt.Sprintf("%v", v.IsGenerator))
		for _, p := range v.Params {
			children = append(children, p)
		}
		for _, sub := range v.Subscopes() {
			children = append(children, sub)
		}
		for _, st := range v.Statements() {
			children = append(children, st)
		}
		for _, r := range v.Returns {
			children = append(children, r)
		}
	case *Lambda:
		for _, p := range v.Params {
			children = append(children, p)
		}
		if v.ReturnStmt != nil {
			children = append(children, v.ReturnStmt)
		}
	case *Flow:
		properties = append(properties, "Command", v.Command)
		for _, init := range v.Inits {
			children = append(children, init)
		}
		for _, sub := range v.Subscopes() {
			children = append(children, sub)
		}
		for _, st := range v.Statements() {
			children = append(children, st)
		}
		if v.Next != nil {
			children = append(children, v.Next)
		}
	case *ForFlow:
		properties = append(properties, "Command", v.Command, "IsListComp", fmt.Sprintf("%v", v.IsListComp))
		if v.SetStmt != nil {
			children = append(children, v.SetStmt)
		}
		for _, init := range v.Inits {
			children = append(children, init)
		}
		for _, sub := range v.Subscopes() {
			children = append(children, sub)
		}
		for _, st := range v.Statements() {
			children = append(children, st)
		}
	case *Import:
		properties = append(properties, "Defunct", fmt.Sprintf("%v", v.Defunct), "Star", fmt.Sprintf("%v", v.Star))
		if v.Namespace != nil {
			properties = append(properties, "Namespace", v.Namespace.GetCode())
		}
		if v.Alias != nil {
			properties = append(properties, "Alias", v.Alias.GetCode())
		}
	case *Param:
		properties = append(properties, "Position", fmt.Sprintf("%d", v.PositionNr), "Code", v.Code)
	case *Statement:
		properties = append(properties, "Code", v.Code)
		if arr := v.AssignmentCalls(); arr != nil {
			children = append(children, arr)
		}
	case *Array:
		properties = append(properties, "Type", v.Type.String())
		for _, field := range v.Values {
			for _, item := range field {
				children = append(children, item)
			}
		}
	case *Call:
		if v.NameNode != nil {
			properties = append(properties, "Name", v.NameNode.GetCode())
		} else {
			properties = append(properties, "Literal", v.Literal)
		}
		if v.Execution != nil {
			children = append(children, v.Execution)
		}
		if v.Next != nil {
			children = append(children, v.Next)
		}
	case *ListComprehension:
		children = append(children, v.Result, v.Iteration, v.Iterable)
	case *Name:
		properties = append(properties, "Code", v.GetCode())
	}

	if err := dumpf(w, indentLevel, node.Kind(), properties...); err != nil {
		return err
	}

	for _, c := range children {
		if err := dump(w, indentLevel+1, c); err != nil {
			return err
		}
	}
	return nil
}

// Dump prints a textual tree representation rooted at n to w.
func Dump(w io.Writer, n Node) error {
	return dump(w, 0, n)
}
