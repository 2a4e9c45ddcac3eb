package parser

import (
	"strings"

	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/token"
)

func isOpenBracket(v string) bool  { return v == "(" || v == "[" || v == "{" }
func isCloseBracket(v string) bool { return v == ")" || v == "]" || v == "}" }

// captureStatement reads tokens up to (and, if consumeBreak, including)
// the first token at bracket depth 0 whose value is in breaks, or up to
// a NEWLINE if breaks never matches. It returns the matched break's
// value ("" if none matched) so callers can tell apart "," from ":"
// from plain end-of-line. If first is non-nil it is prepended to the
// captured tokens (used when the caller already consumed the first
// token to decide which handler to call).
func (p *Parser) captureStatement(first *token.Token, breaks map[string]bool, consumeBreak bool) (token.Tokens, string) {
	var toks token.Tokens
	depth := 0
	if first != nil {
		toks = append(toks, *first)
		if first.Kind == token.OP {
			if isOpenBracket(first.Value) {
				depth++
			} else if isCloseBracket(first.Value) && depth > 0 {
				depth--
			}
		}
	}
	for {
		tok, stop := p.ts.Next()
		if stop != nil {
			return toks, ""
		}
		if tok.Kind == token.ENDMARKER {
			p.ts.PushBack()
			return toks, ""
		}
		if tok.Kind == token.NL || tok.Kind == token.COMMENT {
			continue
		}
		if tok.Kind == token.NEWLINE {
			return toks, ""
		}
		if tok.Kind == token.OP && isOpenBracket(tok.Value) {
			depth++
		}
		if tok.Kind == token.OP && isCloseBracket(tok.Value) && depth > 0 {
			// closes a bracket opened inside this capture, so it is not
			// itself at depth 0 and never matches a break.
			depth--
			toks = append(toks, tok)
			continue
		}
		if depth == 0 && breaks != nil && breaks[tok.Value] {
			if !consumeBreak {
				p.ts.PushBack()
			}
			return toks, tok.Value
		}
		toks = append(toks, tok)
	}
}

func codeOfTokens(toks token.Tokens) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Value
	}
	return strings.Join(parts, " ")
}

func firstPos(toks token.Tokens, fallback token.Token) token.Position {
	if len(toks) > 0 {
		return toks[0].Start
	}
	return fallback.Start
}

func lastEnd(toks token.Tokens, fallback token.Token) token.Position {
	if len(toks) > 0 {
		return toks[len(toks)-1].End
	}
	return fallback.End
}

// cleanDocstring strips a string literal's prefix letters and quoting so
// the text stored as a scope's docstring is the literal's contents, not
// its Python source spelling. This does not interpret escape sequences;
// it is a display convenience, not a literal evaluator.
func cleanDocstring(raw string) string {
	s := raw
	for len(s) > 0 {
		c := s[0]
		if c == 'r' || c == 'R' || c == 'u' || c == 'U' || c == 'b' || c == 'B' || c == 'f' || c == 'F' {
			s = s[1:]
			continue
		}
		break
	}
	for _, quote := range []string{`"""`, "'''"} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			return strings.TrimSpace(s[len(quote) : len(s)-len(quote)])
		}
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return strings.TrimSpace(s)
}

// parseExpressionStatement handles every statement that starts with a
// plain value: a NAME that isn't a recognized keyword, a literal, or a
// bracketed expression. The first such statement of a fresh scope, if it
// is a single STRING token, is consumed as the scope's docstring instead
// of being appended as a statement (§4.3), unless NoDocstring is set.
func (p *Parser) parseExpressionStatement(first token.Token) {
	toks, _ := p.captureStatement(&first, nil, false)
	if p.freshScope && len(toks) == 1 && toks[0].Kind == token.STRING && !p.opts.Mode.has(NoDocstring) {
		p.scope.SetDocstring(cleanDocstring(toks[0].Value))
		return
	}
	stmt := ast.NewStatement(p.module, p.scope, codeOfTokens(toks), toks, firstPos(toks, first), lastEnd(toks, first))
	p.registerUses(stmt)
	p.checkGenerator(stmt)
	p.scope.AddStatement(stmt)
	p.markUserStmt(stmt)
}

func (p *Parser) parseReturnYield(tok token.Token, keyword string) {
	toks, _ := p.captureStatement(nil, nil, false)
	start := tok.Start
	end := tok.End
	if len(toks) > 0 {
		end = toks[len(toks)-1].End
	}
	stmt := ast.NewStatement(p.module, p.scope, codeOfTokens(toks), toks, start, end)
	p.registerUses(stmt)
	if keyword == "yield" {
		if fn, ok := p.scope.(*ast.Function); ok {
			fn.IsGenerator = true
		} else if fn, ok := ast.ParentUntil(stmt, ast.KindFunction).(*ast.Function); ok {
			fn.IsGenerator = true
		}
	}
	p.checkGenerator(stmt)
	if fn, ok := p.scope.(*ast.Function); ok {
		fn.Returns = append(fn.Returns, stmt)
	} else {
		p.scope.AddStatement(stmt)
	}
	p.markUserStmt(stmt)
}

func (p *Parser) parseGlobal(tok token.Token) {
	toks, _ := p.captureStatement(nil, nil, false)
	stmt := ast.NewStatement(p.module, p.scope, "global "+codeOfTokens(toks), toks, tok.Start, lastEnd(toks, tok))
	p.registerUses(stmt)
	for _, t := range toks {
		if t.Kind == token.NAME && !t.Keyword() {
			part := ast.NewNamePart(p.module, nil, t.Value, t.Start, t.End)
			name := ast.NewName(p.module, p.module, []*ast.NamePart{part}, t.Start, t.End)
			p.module.AddGlobal(name)
		}
	}
	p.scope.AddStatement(stmt)
	p.markUserStmt(stmt)
}

func (p *Parser) parseAssert(tok token.Token) {
	toks, _ := p.captureStatement(nil, nil, false)
	stmt := ast.NewStatement(p.module, p.scope, "assert "+codeOfTokens(toks), toks, tok.Start, lastEnd(toks, tok))
	p.registerUses(stmt)
	p.checkGenerator(stmt)
	p.scope.AddAssert(stmt)
	p.markUserStmt(stmt)
}

func (p *Parser) parseDecorator(tok token.Token) {
	toks, _ := p.captureStatement(nil, nil, false)
	stmt := ast.NewStatement(p.module, p.scope, codeOfTokens(toks), toks, tok.Start, lastEnd(toks, tok))
	p.registerUses(stmt)
	p.decorators = append(p.decorators, stmt)
}

// parseFunctionHeader reads `def NAME(params) [-> annotation]:` and
// opens the Function as the new current scope.
func (p *Parser) parseFunctionHeader(defTok token.Token) {
	nameTok, stop := p.ts.Next()
	if stop != nil || nameTok.Kind != token.NAME {
		p.warn("malformed function header: missing name", defTok)
		p.skipRestOfLine()
		return
	}
	namePart := ast.NewNamePart(p.module, nil, nameTok.Value, nameTok.Start, nameTok.End)
	name := ast.NewName(p.module, nil, []*ast.NamePart{namePart}, nameTok.Start, nameTok.End)

	openTok, stop := p.ts.Next()
	if stop != nil || !(openTok.Kind == token.OP && openTok.Value == "(") {
		p.warn("malformed function header: missing '('", defTok)
		p.skipRestOfLine()
		return
	}

	fn := ast.NewFunction(p.module, p.scope, name, defTok.Start, defTok.Start)
	name.SetParent(fn)
	fn.Params = p.parseParams(fn)

	if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == "->" {
		p.ts.Next()
		toks, matched := p.captureStatement(nil, map[string]bool{":": true}, true)
		if matched != ":" {
			p.warn("malformed function header: missing ':'", defTok)
			p.skipRestOfLine()
			return
		}
		if len(toks) > 0 {
			fn.Annotation = ast.NewStatement(p.module, fn, codeOfTokens(toks), toks, toks[0].Start, toks[len(toks)-1].End)
		}
	} else {
		colon, stop := p.ts.Next()
		if stop != nil || !(colon.Kind == token.OP && colon.Value == ":") {
			p.warn("malformed function header: missing ':'", defTok)
			if colon.Kind == token.NL {
				// The parameter list's '(' was never closed, so every later
				// line break scans as NL and skipRestOfLine would run to the
				// end of input; skip only the lines indented past the `def`.
				for {
					pk := p.ts.Peek()
					if pk.Kind == token.ENDMARKER || (pk.Kind != token.NL && pk.Start.Column <= defTok.Start.Column) {
						return
					}
					p.ts.Next()
				}
			}
			p.skipRestOfLine()
			return
		}
	}

	fn.Decorators = p.takeDecorators()
	p.scope.AddScope(fn)
	p.openScope(fn, defTok.Start.Column)
	p.finishHeaderLine()
	p.markUserStmt(fn)
}

// parseParams reads a parenthesized parameter list, already past the
// opening '(', consuming the matching ')'. A parameter may carry a type
// annotation (`a: int`) ahead of its default value (`a: int = 1`); the
// annotation is split out into Param.AnnotationStmt rather than left in
// the param's own token list, since a bare ':' inside that list would
// otherwise be read by the Statement Sub-Parser as a dictionary-key
// marker and corrupt SetVars/UsedVars for the parameter.
func (p *Parser) parseParams(fn *ast.Function) []*ast.Param {
	var params []*ast.Param
	position := 0
	for {
		if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == ")" {
			p.ts.Next()
			return params
		}
		headToks, matched := p.captureStatement(nil, map[string]bool{",": true, ")": true, ":": true}, true)
		if len(headToks) == 0 {
			if matched != "," {
				return params
			}
			continue
		}

		paramToks := headToks
		code := codeOfTokens(headToks)
		var annotation *ast.Statement

		if matched == ":" {
			annToks, annMatched := p.captureStatement(nil, map[string]bool{",": true, ")": true, "=": true}, false)
			if len(annToks) > 0 {
				annotation = ast.NewStatement(p.module, fn, codeOfTokens(annToks), annToks, annToks[0].Start, annToks[len(annToks)-1].End)
				p.registerUses(annotation)
				code += " : " + annotation.Code
			}
			matched = annMatched
			switch matched {
			case "=":
				eqTok, stop := p.ts.Next()
				if stop == nil {
					defaultToks, defMatched := p.captureStatement(nil, map[string]bool{",": true, ")": true}, true)
					paramToks = append(append(append(token.Tokens{}, headToks...), eqTok), defaultToks...)
					if len(defaultToks) > 0 {
						code += " = " + codeOfTokens(defaultToks)
					}
					matched = defMatched
				}
			case ",", ")":
				p.ts.Next()
			}
		}

		start := paramToks[0].Start
		end := paramToks[len(paramToks)-1].End
		param := ast.NewParam(p.module, fn, code, paramToks, position, fn, start, end)
		param.AnnotationStmt = annotation
		p.registerUses(&param.Statement)
		params = append(params, param)
		position++

		if matched != "," {
			return params
		}
	}
}

// parseClassHeader reads `class NAME[(supers)]:` and opens the Class as
// the new current scope.
func (p *Parser) parseClassHeader(classTok token.Token) {
	nameTok, stop := p.ts.Next()
	if stop != nil || nameTok.Kind != token.NAME {
		p.warn("malformed class header: missing name", classTok)
		p.skipRestOfLine()
		return
	}
	namePart := ast.NewNamePart(p.module, nil, nameTok.Value, nameTok.Start, nameTok.End)
	name := ast.NewName(p.module, nil, []*ast.NamePart{namePart}, nameTok.Start, nameTok.End)

	cls := ast.NewClass(p.module, p.scope, name, classTok.Start, classTok.Start)
	name.SetParent(cls)

	var supers []*ast.Statement
	if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == "(" {
		p.ts.Next()
		for {
			if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == ")" {
				p.ts.Next()
				break
			}
			toks, matched := p.captureStatement(nil, map[string]bool{",": true, ")": true}, true)
			if len(toks) > 0 {
				st := ast.NewStatement(p.module, cls, codeOfTokens(toks), toks, toks[0].Start, toks[len(toks)-1].End)
				p.registerUses(st)
				supers = append(supers, st)
			}
			if matched != "," {
				break
			}
		}
	}
	cls.Supers = supers

	colon, stop := p.ts.Next()
	if stop != nil || !(colon.Kind == token.OP && colon.Value == ":") {
		p.warn("malformed class header: missing ':'", classTok)
		p.skipRestOfLine()
		return
	}

	cls.Decorators = p.takeDecorators()
	p.scope.AddScope(cls)
	p.openScope(cls, classTok.Start.Column)
	p.finishHeaderLine()
	p.markUserStmt(cls)
}

// parseForFlow reads `for set_stmt in iterable:`. If 'in' or ':' never
// arrives, whatever pieces were captured are reparented as plain
// statements on the enclosing scope rather than left as a partial
// ForFlow (§9 resolution: no partial ForFlow).
func (p *Parser) parseForFlow(forTok token.Token) {
	setToks, matched := p.captureStatement(nil, map[string]bool{"in": true}, true)
	if matched != "in" {
		p.warn("malformed for statement: missing 'in'", forTok)
		p.orphanPieces(forTok, setToks)
		return
	}
	iterToks, matched := p.captureStatement(nil, map[string]bool{":": true}, true)
	if matched != ":" {
		p.warn("malformed for statement: missing ':'", forTok)
		p.orphanPieces(forTok, setToks)
		p.orphanPieces(forTok, iterToks)
		return
	}

	ff := ast.NewForFlow(p.module, p.scope, forTok.Start, forTok.Start)
	ff.SetStmt = ast.NewStatement(p.module, ff, codeOfTokens(setToks), setToks, firstPos(setToks, forTok), lastEnd(setToks, forTok))
	p.registerUses(ff.SetStmt)
	iterStmt := ast.NewStatement(p.module, ff, codeOfTokens(iterToks), iterToks, firstPos(iterToks, forTok), lastEnd(iterToks, forTok))
	p.registerUses(iterStmt)
	ff.Inits = []*ast.Statement{iterStmt}

	p.scope.AddScope(ff)
	p.openScope(ff, forTok.Start.Column)
	p.finishHeaderLine()
	p.markUserStmt(ff)
}

func (p *Parser) orphanPieces(fallback token.Token, toks token.Tokens) {
	if len(toks) == 0 {
		return
	}
	st := ast.NewStatement(p.module, p.scope, codeOfTokens(toks), toks, firstPos(toks, fallback), lastEnd(toks, fallback))
	p.registerUses(st)
	p.scope.AddStatement(st)
}

// parseFlowHeader reads `if/while/try cond:` or `with a [as x][, b...]:`.
// A `with` header may carry several comma-separated inits; the others
// carry at most one. Missing ':' discards the construct, reparenting
// any inits captured so far as plain statements (same resolution as
// parseForFlow).
func (p *Parser) parseFlowHeader(headTok token.Token, command string) {
	multi := command == "with"
	var inits []*ast.Statement
	sawColon := false
	for {
		breaks := map[string]bool{":": true}
		if multi {
			breaks[","] = true
		}
		toks, matched := p.captureStatement(nil, breaks, true)
		if len(toks) > 0 {
			st := ast.NewStatement(p.module, p.scope, codeOfTokens(toks), toks, toks[0].Start, toks[len(toks)-1].End)
			p.registerUses(st)
			inits = append(inits, st)
		}
		if matched == ":" {
			sawColon = true
			break
		}
		if matched != "," {
			break
		}
	}
	if !sawColon {
		p.warn("malformed "+command+" statement: missing ':'", headTok)
		for _, st := range inits {
			p.scope.AddStatement(st)
		}
		return
	}

	flow := ast.NewFlow(p.module, p.scope, command, headTok.Start, headTok.Start)
	for _, st := range inits {
		st.SetParent(flow)
	}
	flow.Inits = inits
	for _, st := range inits {
		p.checkGenerator(st)
	}

	p.scope.AddScope(flow)
	p.openScope(flow, headTok.Start.Column)
	p.finishHeaderLine()
	p.markUserStmt(flow)
}

// parseFlowTail reads else/elif/except/finally, attaching it to the
// most recently opened Flow/ForFlow sibling in the current scope (the
// chain head), or starting a fresh, unchained Flow if the preceding
// construct wasn't a Flow at all (a tail with no head to attach to).
func (p *Parser) parseFlowTail(tailTok token.Token, command string) {
	var inits []*ast.Statement
	sawColon := false
	if command == "elif" || command == "except" {
		toks, matched := p.captureStatement(nil, map[string]bool{":": true}, true)
		if len(toks) > 0 {
			st := ast.NewStatement(p.module, p.scope, codeOfTokens(toks), toks, toks[0].Start, toks[len(toks)-1].End)
			p.registerUses(st)
			inits = append(inits, st)
		}
		sawColon = matched == ":"
	} else {
		_, matched := p.captureStatement(nil, map[string]bool{":": true}, true)
		sawColon = matched == ":"
	}
	if !sawColon {
		p.warn("malformed "+command+" clause: missing ':'", tailTok)
		for _, st := range inits {
			p.scope.AddStatement(st)
		}
		return
	}

	head, hasHead := p.findChainHead()
	var tail *ast.Flow
	if hasHead {
		tail = ast.NewFlow(p.module, p.module, command, tailTok.Start, tailTok.Start)
		head.SetNext(tail)
	} else {
		tail = ast.NewFlow(p.module, p.scope, command, tailTok.Start, tailTok.Start)
		p.scope.AddScope(tail)
	}
	for _, st := range inits {
		st.SetParent(tail)
	}
	tail.Inits = inits
	for _, st := range inits {
		p.checkGenerator(st)
	}

	p.openScope(tail, tailTok.Start.Column)
	p.finishHeaderLine()
	p.markUserStmt(tail)
}

// findChainHead returns the deepest tail of the current scope's most
// recently added subscope, if that subscope is a Flow or ForFlow. A
// tail never becomes a subscope in its own right (see Flow.SetNext), so
// the subscope list's last entry is the only place a chain head can be.
func (p *Parser) findChainHead() (*ast.Flow, bool) {
	subs := p.scope.Subscopes()
	if len(subs) == 0 {
		return nil, false
	}
	switch v := subs[len(subs)-1].(type) {
	case *ast.ForFlow:
		return deepestTail(&v.Flow), true
	case *ast.Flow:
		return deepestTail(v), true
	default:
		return nil, false
	}
}

func deepestTail(f *ast.Flow) *ast.Flow {
	for f.Next != nil {
		f = f.Next
	}
	return f
}
