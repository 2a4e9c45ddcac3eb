package ast

import (
	"strings"

	"github.com/d42/jedi/token"
)

// subParser implements the Statement Sub-Parser: a single forward pass
// over a Statement's retained token list that builds a Call/Array tree,
// splits off assignment targets, and records which names were bound,
// read, or called (§4.4).
type subParser struct {
	stmt   *Statement
	module *Module
	toks   token.Tokens
	idx    int

	details   []AssignmentDetail
	setVars   []*Name
	usedVars  []*Name
	usedFuncs []*Name
}

func (p *subParser) run() *Array {
	p.toks = p.stmt.Tokens

	top := NewArray(p.module, p.stmt, NOARRAY, p.firstPos(), p.firstPos())
	stack := []*Array{top}
	var lastCall *Call
	chain := false

	for p.idx < len(p.toks) {
		tok := p.toks[p.idx]

		switch tok.Kind {
		case token.NEWLINE, token.NL, token.COMMENT, token.INDENT, token.DEDENT, token.ENDMARKER:
			p.idx++
			continue
		}

		switch {
		case tok.Kind == token.NAME && tok.Value == "as":
			p.idx++
			if p.idx < len(p.toks) {
				p.idx++
			}

		case tok.Kind == token.NAME && tok.Value == "for" && len(stack) > 1:
			p.handleListComprehension(stack[len(stack)-1])

		case len(stack) == 1 && tok.Kind == token.OP && assignOp(tok.Value):
			stack[0].SetEnd(tok.Start)
			p.details = append(p.details, AssignmentDetail{Operator: tok.Value, Target: stack[0]})
			p.idx++
			next := p.posAt(p.idx)
			top = NewArray(p.module, p.stmt, NOARRAY, next, next)
			stack = []*Array{top}
			lastCall = nil
			chain = false

		case tok.Kind == token.OP && tok.Value == ".":
			chain = true
			p.idx++

		case tok.Kind == token.OP && (tok.Value == "(" || tok.Value == "[" || tok.Value == "{"):
			arr := NewArray(p.module, p.stmt, bracketType(tok.Value), tok.Start, tok.Start)
			if lastCall != nil && !chain {
				lastCall.AddExecution(arr)
			} else {
				stack[len(stack)-1].AddToCurrentField(arr, tok.Start)
			}
			stack = append(stack, arr)
			lastCall = nil
			chain = false
			p.idx++

		case tok.Kind == token.OP && (tok.Value == ")" || tok.Value == "]" || tok.Value == "}"):
			if len(stack) > 1 {
				closed := stack[len(stack)-1]
				if closed.Type == SET && len(closed.Values) == 0 {
					closed.Type = DICT
				}
				closed.SetEnd(tok.End)
				stack = stack[:len(stack)-1]
				lastCall = &closed.Call
			}
			p.idx++

		case tok.Kind == token.OP && tok.Value == ",":
			cur := stack[len(stack)-1]
			if cur.Type == NOARRAY {
				cur.Type = TUPLE
			}
			cur.AddField(p.posAt(p.idx + 1))
			lastCall = nil
			chain = false
			p.idx++

		case tok.Kind == token.OP && tok.Value == ":":
			cur := stack[len(stack)-1]
			if cur.Type == LIST {
				lit := NewCall(p.module, p.stmt, CallString, tok.Start, tok.End)
				lit.Literal = ":"
				cur.AddToCurrentField(lit, tok.Start)
			} else {
				cur.AddDictionaryKey()
			}
			lastCall = nil
			chain = false
			p.idx++

		case tok.Kind == token.NAME && !tok.Keyword():
			part := NewNamePart(p.module, nil, tok.Value, tok.Start, tok.End)
			name := NewName(p.module, p.stmt, []*NamePart{part}, tok.Start, tok.End)
			call := NewCall(p.module, p.stmt, CallName, tok.Start, tok.End)
			call.NameNode = name
			if chain && lastCall != nil {
				lastCall.SetNextChainCall(call)
			} else {
				stack[len(stack)-1].AddToCurrentField(call, tok.Start)
			}
			lastCall = call
			chain = false
			p.idx++

		case tok.Kind == token.NUMBER || tok.Kind == token.STRING:
			kind := CallNumber
			if tok.Kind == token.STRING {
				kind = CallString
			}
			call := NewCall(p.module, p.stmt, kind, tok.Start, tok.End)
			call.Literal = tok.Value
			stack[len(stack)-1].AddToCurrentField(call, tok.Start)
			lastCall = call
			chain = false
			p.idx++

		default:
			// Other operators and keywords (+, and, lambda, ...) are not
			// part of the closed node family; they are skipped here and
			// remain visible only through Statement.Code.
			p.idx++
		}
	}

	for len(stack) > 1 {
		closed := stack[len(stack)-1]
		closed.SetEnd(p.stmt.rawEnd())
		stack = stack[:len(stack)-1]
	}
	top = stack[0]
	top.SetEnd(p.stmt.rawEnd())

	p.collectVars(top)
	return top
}

func (p *subParser) handleListComprehension(cur *Array) {
	last := len(cur.Values) - 1
	if last < 0 {
		cur.AddField(p.posAt(p.idx))
		last = 0
	}
	resultNodes := cur.Values[last]
	resultStart := p.firstPosOf(resultNodes)
	// codeOfField would lose every operator the sub-parser doesn't model
	// as its own node (`*`, `+`, ...), rendering "i*i" as "ii". Re-slice
	// the original tokens instead, so the result expression's GetCode
	// round-trips the source the same way a plain Statement's does.
	resultStartIdx := p.tokenIndexAt(resultStart, p.idx)
	resultToks := append(token.Tokens{}, p.toks[resultStartIdx:p.idx]...)
	resultStmt := NewStatement(p.module, cur, codeOfTokens(resultToks), resultToks, resultStart, p.toks[p.idx].Start)

	p.idx++ // consume 'for'
	iterStart := p.posAt(p.idx)
	var iterToks token.Tokens
	for p.idx < len(p.toks) && !(p.toks[p.idx].Kind == token.NAME && p.toks[p.idx].Value == "in") {
		iterToks = append(iterToks, p.toks[p.idx])
		p.idx++
	}
	iterEnd := p.posAt(p.idx)
	iterStmt := NewStatement(p.module, cur, codeOfTokens(iterToks), iterToks, iterStart, iterEnd)
	if p.idx < len(p.toks) {
		p.idx++ // consume 'in'
	}

	inStart := p.posAt(p.idx)
	depth := 0
	var inToks token.Tokens
	for p.idx < len(p.toks) {
		tok := p.toks[p.idx]
		if tok.Kind == token.OP && (tok.Value == "(" || tok.Value == "[" || tok.Value == "{") {
			depth++
		}
		if tok.Kind == token.OP && (tok.Value == ")" || tok.Value == "]" || tok.Value == "}") {
			if depth == 0 {
				break
			}
			depth--
		}
		inToks = append(inToks, tok)
		p.idx++
	}
	inEnd := p.posAt(p.idx)
	inStmt := NewStatement(p.module, cur, codeOfTokens(inToks), inToks, inStart, inEnd)

	lc := NewListComprehension(p.module, cur, resultStmt, iterStmt, inStmt, resultStart, inEnd)
	cur.Values[last] = []Node{lc}
}

func (p *subParser) collectVars(top *Array) {
	for _, d := range p.details {
		sv, uv, uf := targetVars(d.Target)
		p.setVars = append(p.setVars, sv...)
		p.usedVars = append(p.usedVars, uv...)
		p.usedFuncs = append(p.usedFuncs, uf...)
	}
	for _, field := range top.Values {
		for _, item := range field {
			names, funcs := gatherAllNames(item)
			p.usedVars = append(p.usedVars, names...)
			p.usedFuncs = append(p.usedFuncs, funcs...)
		}
	}
}

// targetVars classifies each field of arr the way an assignment target
// is classified: a bare single Call with no Execution/Next is a bound
// name, anything else (tuples of more than one name, attribute chains,
// calls, literals) contributes used names and used funcs instead. This
// is reused both for real `=` targets and for syntax that binds without
// one (parameter lists, for-loop targets): see Statement.ForcedSetVars.
func targetVars(arr *Array) (setVars, usedVars, usedFuncs []*Name) {
	if arr == nil {
		return nil, nil, nil
	}
	for _, field := range arr.Values {
		if len(field) == 1 {
			if call, ok := field[0].(*Call); ok && call.ValueKind == CallName && call.Execution == nil && call.Next == nil {
				setVars = append(setVars, call.NameNode)
				continue
			}
		}
		for _, item := range field {
			names, funcs := gatherAllNames(item)
			usedVars = append(usedVars, names...)
			usedFuncs = append(usedFuncs, funcs...)
		}
	}
	return
}

func gatherAllNames(n Node) (names []*Name, funcs []*Name) {
	switch v := n.(type) {
	case *Call:
		for cur := v; cur != nil; cur = cur.Next {
			if cur.NameNode != nil {
				names = append(names, cur.NameNode)
				// Only a '(' execution makes this a used_func; '['
				// (subscripting, slicing) leaves it a plain used_var.
				if cur.Execution != nil && cur.Execution.Type == TUPLE {
					funcs = append(funcs, cur.NameNode)
				}
			}
			if cur.Execution != nil {
				n2, f2 := gatherAllNames(cur.Execution)
				names = append(names, n2...)
				funcs = append(funcs, f2...)
			}
		}
	case *Array:
		n2, f2 := gatherAllNames(&v.Call)
		names = append(names, n2...)
		funcs = append(funcs, f2...)
		for _, field := range v.Values {
			for _, item := range field {
				n3, f3 := gatherAllNames(item)
				names = append(names, n3...)
				funcs = append(funcs, f3...)
			}
		}
		for _, field := range v.Keys {
			for _, item := range field {
				n3, f3 := gatherAllNames(item)
				names = append(names, n3...)
				funcs = append(funcs, f3...)
			}
		}
	case *ListComprehension:
		for _, st := range []*Statement{v.Result, v.Iteration, v.Iterable} {
			if st == nil {
				continue
			}
			names = append(names, st.UsedVars()...)
			funcs = append(funcs, st.UsedFuncs()...)
		}
	}
	return
}

func bracketType(v string) ArrayType {
	switch v {
	case "(":
		return TUPLE
	case "[":
		return LIST
	default:
		return SET
	}
}

func (p *subParser) posAt(i int) token.Position {
	if i >= 0 && i < len(p.toks) {
		return p.toks[i].Start
	}
	if len(p.toks) > 0 {
		return p.toks[len(p.toks)-1].End
	}
	return p.stmt.rawEnd()
}

// tokenIndexAt finds pos among p.toks[:upTo], for recovering the raw
// token span of a sub-expression whose parsed nodes only retain start
// positions, not original indices.
func (p *subParser) tokenIndexAt(pos token.Position, upTo int) int {
	for i := 0; i < upTo && i < len(p.toks); i++ {
		if p.toks[i].Start == pos {
			return i
		}
	}
	return upTo
}

func (p *subParser) firstPos() token.Position {
	if len(p.toks) > 0 {
		return p.toks[0].Start
	}
	return p.stmt.rawStart()
}

func (p *subParser) firstPosOf(nodes []Node) token.Position {
	if len(nodes) > 0 {
		if rp, ok := nodes[0].(interface{ rawStart() token.Position }); ok {
			return rp.rawStart()
		}
		return nodes[0].Start()
	}
	return p.posAt(p.idx)
}

func codeOfTokens(toks token.Tokens) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Value
	}
	return strings.Join(parts, " ")
}
