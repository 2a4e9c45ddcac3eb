// Package parser drives the lexer's token source through a recursive,
// fault-tolerant reading of Python's statement grammar, building the
// ast package's scoped tree (§4.3-§4.7).
package parser

import (
	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/internal/perror"
	"github.com/d42/jedi/lexer"
	"github.com/d42/jedi/token"
)

// Parser walks a single token source, maintaining the current scope and
// a handful of cross-statement carries (pending decorators, docstring
// eligibility, cursor tracking).
type Parser struct {
	ts     *lexer.TokenSource
	module *ast.Module
	opts   Options

	scope      ast.Scope
	scopeCols  []int
	freshScope bool
	decorators []*ast.Statement

	userPos *token.Position
}

// Parse tokenizes source and builds its scoped tree, returning the
// Module (either freshly created, or opts.TopModule if one was given so
// several chunks can be stitched into one logical tree).
func Parse(source string, opts Options) *ast.Module {
	module := opts.TopModule
	if module == nil {
		module = ast.NewModule(opts.ModulePath)
	}
	module.LineOffset = opts.LineOffset

	p := &Parser{
		ts:      lexer.New(source),
		module:  module,
		opts:    opts,
		scope:   module,
		userPos: opts.UserPosition,
	}
	p.freshScope = true

	for _, w := range p.ts.Warnings() {
		module.Warn(perror.New(w.Message, w.Position.Line, w.Position.Column, w.Line))
	}

	p.run()
	return module
}

func (p *Parser) warn(message string, tok token.Token) {
	p.module.Warn(perror.New(message, tok.Start.Line, tok.Start.Column, tok.RawLine))
}

// currentScopeCol returns the indentation column new content must
// exceed to remain part of the innermost open scope, or -1 at Module
// scope (which never closes on a column check).
func (p *Parser) currentScopeCol() int {
	if len(p.scopeCols) == 0 {
		return -1
	}
	return p.scopeCols[len(p.scopeCols)-1]
}

// openScope transfers the parser's cursor into sc, which the caller has
// already linked into the tree (via scope.AddScope or a Flow chain
// attach). The new scope starts fresh: its first plain-string statement,
// if any, is eligible to become its docstring.
func (p *Parser) openScope(sc ast.Scope, col int) {
	p.scope = sc
	p.scopeCols = append(p.scopeCols, col)
	p.freshScope = true
}

// ender is satisfied by every concrete scope kind (all of them embed
// Base, whose SetEnd it promotes); Scope itself doesn't carry SetEnd
// since a node's extent is a parsing concern, not a tree-shape one.
type ender interface {
	SetEnd(token.Position)
}

// closeScope pops the innermost open scope, fixing its end position at
// endPos, and returns the cursor to its enclosing scope. Module never
// closes.
func (p *Parser) closeScope(endPos token.Position) {
	if p.scope == ast.Scope(p.module) {
		return
	}
	if e, ok := p.scope.(ender); ok {
		e.SetEnd(endPos)
	}
	parent := ast.EnclosingScope(p.scope)
	if parent == nil {
		parent = p.module
	}
	p.scope = parent
	if len(p.scopeCols) > 0 {
		p.scopeCols = p.scopeCols[:len(p.scopeCols)-1]
	}
}

func (p *Parser) markUserStmt(n ast.Node) {
	if p.userPos == nil {
		return
	}
	if ast.Contains(n, *p.userPos) {
		p.module.UserStmt = n
	}
}

func (p *Parser) trackUserScope(tok token.Token) {
	if p.userPos == nil || p.module.UserScope != nil {
		return
	}
	if tok.Start.Line > p.userPos.Line || (tok.Start.Line == p.userPos.Line && tok.Start.Column >= p.userPos.Column) {
		p.module.UserScope = p.scope
	}
}

// orphanDecorators reparents any pending decorators to the current
// scope, as plain statements, when the construct following them turns
// out not to be a def or class.
func (p *Parser) orphanDecorators() {
	for _, d := range p.decorators {
		d.SetParent(p.scope)
		p.scope.AddStatement(d)
	}
	p.decorators = nil
}

func (p *Parser) takeDecorators() []*ast.Statement {
	d := p.decorators
	p.decorators = nil
	return d
}

// registerUses records every non-keyword NAME token of stmt's raw token
// list against the module's used_names table, independent of whatever
// the lazy sub-parse later does with the tree it builds (§3's used_names
// invariant is defined over the token list, not the computed tree).
func (p *Parser) registerUses(stmt *ast.Statement) {
	for _, t := range stmt.Tokens {
		if t.Kind == token.NAME && !t.Keyword() {
			p.module.RecordUse(t.Value, stmt)
		}
	}
}

// checkGenerator marks the nearest enclosing Function as a generator if
// stmt's tokens mention `yield` anywhere (§8: a yield at any depth,
// not just a bare top-level yield statement, marks its function).
func (p *Parser) checkGenerator(stmt *ast.Statement) {
	hasYield := false
	for _, t := range stmt.Tokens {
		if t.Kind == token.NAME && t.Value == "yield" {
			hasYield = true
			break
		}
	}
	if !hasYield {
		return
	}
	if fn, ok := ast.ParentUntil(stmt, ast.KindFunction).(*ast.Function); ok {
		fn.IsGenerator = true
	}
}

// run is the main dispatch loop: it pulls tokens, closes scopes on
// DEDENT or on an under-indented line, and hands whatever remains to
// the per-construct handlers.
func (p *Parser) run() {
	for {
		tok, stop := p.ts.Next()
		if stop != nil {
			return
		}
		if tok.Kind == token.ENDMARKER {
			for p.scope != ast.Scope(p.module) {
				p.closeScope(tok.Start)
			}
			return
		}
		switch tok.Kind {
		case token.NEWLINE, token.NL, token.COMMENT, token.INDENT:
			continue
		case token.DEDENT:
			p.closeScope(tok.Start)
			continue
		}

		for p.scope != ast.Scope(p.module) && tok.Start.Column <= p.currentScopeCol() &&
			(tok.Kind == token.NAME || (tok.Kind == token.OP && (tok.Value == "(" || tok.Value == "["))) {
			p.closeScope(tok.Start)
		}

		p.trackUserScope(tok)

		if !(tok.Kind == token.OP && tok.Value == "@") &&
			!(tok.Kind == token.NAME && (tok.Value == "def" || tok.Value == "class")) &&
			len(p.decorators) > 0 {
			p.orphanDecorators()
		}

		p.freshScope = false
		p.dispatch(tok)
	}
}

func (p *Parser) dispatch(tok token.Token) {
	switch tok.Kind {
	case token.NAME:
		switch tok.Value {
		case "def":
			p.parseFunctionHeader(tok)
		case "class":
			p.parseClassHeader(tok)
		case "import":
			p.parseImportStatement(tok)
		case "from":
			p.parseFromImportStatement(tok)
		case "for":
			p.parseForFlow(tok)
		case "if", "while", "try", "with":
			p.parseFlowHeader(tok, tok.Value)
		case "else", "elif", "except", "finally":
			p.parseFlowTail(tok, tok.Value)
		case "return", "yield":
			p.parseReturnYield(tok, tok.Value)
		case "global":
			p.parseGlobal(tok)
		case "assert":
			p.parseAssert(tok)
		case "pass":
			p.skipRestOfLine()
		default:
			p.parseExpressionStatement(tok)
		}
	case token.STRING, token.NUMBER:
		p.parseExpressionStatement(tok)
	case token.OP:
		switch tok.Value {
		case "(", "[", "{", "-", "+", "~", "*", "`":
			p.parseExpressionStatement(tok)
		case "@":
			p.parseDecorator(tok)
		case ";":
			// bare statement separator with nothing before it; ignore.
		default:
			p.warn("unexpected token at statement start", tok)
			p.skipRestOfLine()
		}
	default:
		p.warn("unexpected token at statement start", tok)
		p.skipRestOfLine()
	}
}

// finishHeaderLine is called immediately after a compound statement's
// header (the current scope has just been opened via openScope) to
// consume the rest of its line. Ordinarily that is just the trailing
// NEWLINE, with the scope's body arriving as later, more-indented lines.
// But Python also allows the body to start right after the colon on the
// same line (`if x: pass`, `def m(self): yield self`) — in that case the
// one simple statement present is dispatched into the scope that was
// just opened, and the scope is closed again immediately, since no
// INDENT will follow to keep it open.
func (p *Parser) finishHeaderLine() {
	pk := p.ts.Peek()
	switch pk.Kind {
	case token.NEWLINE, token.NL:
		p.ts.Next()
		return
	case token.ENDMARKER, token.COMMENT:
		return
	}
	tok, stop := p.ts.Next()
	if stop != nil {
		return
	}
	p.freshScope = true
	p.dispatch(tok)
	p.closeScope(tok.End)
}

func (p *Parser) skipRestOfLine() {
	for {
		tok, stop := p.ts.Next()
		if stop != nil {
			return
		}
		if tok.Kind == token.NEWLINE || tok.Kind == token.ENDMARKER {
			if tok.Kind == token.ENDMARKER {
				p.ts.PushBack()
			}
			return
		}
	}
}
