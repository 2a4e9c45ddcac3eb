package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// CallValueKind distinguishes what a Call names.
type CallValueKind int

const (
	CallName CallValueKind = iota
	CallNumber
	CallString
)

// Call is one node of the Statement Sub-Parser's lazy expression tree:
// it names something (a dotted Name, a numeric literal, a string
// literal), optionally chains to a following attribute access via Next,
// and optionally carries a following `(...)`/`[...]` Execution.
type Call struct {
	Base
	ValueKind CallValueKind
	NameNode  *Name  // set when ValueKind == CallName
	Literal   string // set when ValueKind == CallNumber or CallString
	Next      *Call
	Execution *Array
}

func NewCall(module *Module, parent Node, kind CallValueKind, start, end token.Position) *Call {
	return &Call{Base: newBase(module, parent, start, end), ValueKind: kind}
}

func (c *Call) Kind() Kind { return KindCall }

// SetNextChainCall attaches next as the following `.attr` in a dotted
// chain.
func (c *Call) SetNextChainCall(next *Call) { c.Next = next }

// AddExecution attaches arr as the `(...)`/`[...]` applied immediately
// after this call.
func (c *Call) AddExecution(arr *Array) { c.Execution = arr }

// GetCode renders the call and everything chained/executed after it.
func (c *Call) GetCode() string {
	var b strings.Builder
	switch c.ValueKind {
	case CallName:
		if c.NameNode != nil {
			b.WriteString(c.NameNode.GetCode())
		}
	default:
		b.WriteString(c.Literal)
	}
	if c.Execution != nil {
		b.WriteString(c.Execution.GetCode())
	}
	if c.Next != nil {
		b.WriteString(".")
		b.WriteString(c.Next.GetCode())
	}
	return b.String()
}

// CallPathElem is one element of a CallPath: an identifier (or literal)
// and whether it was immediately followed by a `(...)`/`[...]`.
type CallPathElem struct {
	Text      string
	Execution bool
}

// CallPath flattens the Next-chain starting at c into its dotted
// elements, mirroring generate_call_path from the source parser.
func (c *Call) CallPath() []CallPathElem {
	var path []CallPathElem
	for cur := c; cur != nil; cur = cur.Next {
		text := cur.Literal
		if cur.ValueKind == CallName && cur.NameNode != nil {
			text = cur.NameNode.GetCode()
		}
		path = append(path, CallPathElem{Text: text, Execution: cur.Execution != nil})
	}
	return path
}

// ArrayType is Array's bracket-derived shape. SET and DICT share an
// opening brace; the distinction is only known once a `:` or closing
// brace is seen (§4.4).
type ArrayType int

const (
	NOARRAY ArrayType = iota
	TUPLE
	LIST
	DICT
	SET
)

func (t ArrayType) String() string {
	switch t {
	case TUPLE:
		return "tuple"
	case LIST:
		return "list"
	case DICT:
		return "dict"
	case SET:
		return "set"
	default:
		return "noarray"
	}
}

// Array groups expression fields delimited by brackets/commas. Values
// holds one ordered field per comma-separated entry; for DICT, Keys is
// positionally paired with Values. ArrElPos records each field's start
// position.
type Array struct {
	Call
	Type     ArrayType
	Values   [][]Node
	Keys     [][]Node
	ArrElPos []token.Position
}

func NewArray(module *Module, parent Node, typ ArrayType, start, end token.Position) *Array {
	a := &Array{Call: *NewCall(module, parent, CallName, start, end), Type: typ}
	return a
}

func (a *Array) Kind() Kind { return KindArray }

// AddField appends a new, empty field starting at pos.
func (a *Array) AddField(pos token.Position) {
	a.Values = append(a.Values, nil)
	a.ArrElPos = append(a.ArrElPos, pos)
}

// AddToCurrentField appends n to the last field, creating one first if
// necessary.
func (a *Array) AddToCurrentField(n Node, pos token.Position) {
	if len(a.Values) == 0 {
		a.AddField(pos)
	}
	last := len(a.Values) - 1
	a.Values[last] = append(a.Values[last], n)
}

// AddDictionaryKey promotes SET to DICT and moves the most recently
// added field from Values into Keys, so the next field parsed becomes
// that key's value.
func (a *Array) AddDictionaryKey() {
	if a.Type == SET || a.Type == NOARRAY {
		a.Type = DICT
	}
	if len(a.Values) == 0 {
		a.Keys = append(a.Keys, nil)
		return
	}
	last := len(a.Values) - 1
	a.Keys = append(a.Keys, a.Values[last])
	a.Values[last] = nil
}

// OnlySubelement returns the sole element of a single-field array (used
// to collapse a parenthesized expression that is not really a tuple),
// and whether such an element exists.
func (a *Array) OnlySubelement() (Node, bool) {
	if a.Type != NOARRAY && a.Type != TUPLE {
		return nil, false
	}
	if len(a.Values) != 1 || len(a.Values[0]) != 1 {
		return nil, false
	}
	return a.Values[0][0], true
}

func (a *Array) Len() int { return len(a.Values) }

// GetCode renders the bracketed contents.
func (a *Array) GetCode() string {
	open, close := "(", ")"
	switch a.Type {
	case LIST:
		open, close = "[", "]"
	case DICT, SET:
		open, close = "{", "}"
	}
	var parts []string
	for i, field := range a.Values {
		var b strings.Builder
		if a.Type == DICT && i < len(a.Keys) {
			b.WriteString(codeOfField(a.Keys[i]))
			b.WriteString(": ")
		}
		b.WriteString(codeOfField(field))
		parts = append(parts, b.String())
	}
	return open + strings.Join(parts, ", ") + close
}

func codeOfField(field []Node) string {
	var parts []string
	for _, n := range field {
		if coder, ok := n.(interface{ GetCode() string }); ok {
			parts = append(parts, coder.GetCode())
		}
	}
	return strings.Join(parts, "")
}
