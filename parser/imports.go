package parser

import (
	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/token"
)

// importTriple is one entry of an import list: a dotted namespace, its
// optional alias, and whether the entry was left unusable by a parse
// failure partway through (a dotted name that never got a NAME token).
type importTriple struct {
	Name    *ast.Name
	Alias   *ast.Name
	Defunct bool
}

// parseDottedName reads NAME(.NAME)* starting at the current cursor. It
// reports ok=false, consuming nothing, if the next token isn't a NAME.
func (p *Parser) parseDottedName() (*ast.Name, bool) {
	first, stop := p.ts.Next()
	if stop != nil {
		return nil, false
	}
	if first.Kind != token.NAME || first.Keyword() {
		p.ts.PushBack()
		return nil, false
	}
	parts := []*ast.NamePart{ast.NewNamePart(p.module, nil, first.Value, first.Start, first.End)}
	lastEnd := first.End
	for {
		pk := p.ts.Peek()
		if !(pk.Kind == token.OP && pk.Value == ".") {
			break
		}
		p.ts.Next()
		nameTok, stop := p.ts.Next()
		if stop != nil || nameTok.Kind != token.NAME {
			break
		}
		parts = append(parts, ast.NewNamePart(p.module, nil, nameTok.Value, nameTok.Start, nameTok.End))
		lastEnd = nameTok.End
	}
	name := ast.NewName(p.module, nil, parts, first.Start, lastEnd)
	return name, true
}

// parseDottedNameTokens is parseDottedName without building a Name node,
// for the one case (a from-clause's namespace) where the same dotted
// name is shared across several resulting Import entries: each needs
// its own independent Name (Name/NamePart carry a single parent cell),
// so the caller rebuilds one per entry from these tokens instead of
// reusing a single constructed node.
func (p *Parser) parseDottedNameTokens() (token.Tokens, bool) {
	first, stop := p.ts.Next()
	if stop != nil {
		return nil, false
	}
	if first.Kind != token.NAME || first.Keyword() {
		p.ts.PushBack()
		return nil, false
	}
	toks := token.Tokens{first}
	for {
		pk := p.ts.Peek()
		if !(pk.Kind == token.OP && pk.Value == ".") {
			break
		}
		p.ts.Next()
		nameTok, stop := p.ts.Next()
		if stop != nil || nameTok.Kind != token.NAME {
			break
		}
		toks = append(toks, nameTok)
	}
	return toks, true
}

func buildDottedName(m *ast.Module, toks token.Tokens) *ast.Name {
	if len(toks) == 0 {
		return nil
	}
	parts := make([]*ast.NamePart, len(toks))
	for i, t := range toks {
		parts[i] = ast.NewNamePart(m, nil, t.Value, t.Start, t.End)
	}
	return ast.NewName(m, nil, parts, toks[0].Start, toks[len(toks)-1].End)
}

// parseImportList reads a comma-separated list of `dotted.name [as
// alias]` entries, tolerating one enclosing pair of parentheses and a
// bare `*`. It stops at the first entry it cannot parse, marking it
// Defunct rather than discarding the whole list (§4.7).
func (p *Parser) parseImportList() (triples []importTriple, star bool) {
	parenOpen := false
	if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == "(" {
		p.ts.Next()
		parenOpen = true
	}
	for {
		if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == "*" {
			p.ts.Next()
			star = true
			break
		}
		name, ok := p.parseDottedName()
		if !ok {
			triples = append(triples, importTriple{Defunct: true})
			pk := p.ts.Peek()
			p.module.AddErrorStatementStack(pk.Start, pk.End, []ast.ErrorStatementEntry{{Kind: "import_name"}})
			break
		}
		triple := importTriple{Name: name}
		if pk := p.ts.Peek(); pk.Kind == token.NAME && pk.Value == "as" {
			p.ts.Next()
			aliasTok, stop := p.ts.Next()
			if stop == nil && aliasTok.Kind == token.NAME {
				part := ast.NewNamePart(p.module, nil, aliasTok.Value, aliasTok.Start, aliasTok.End)
				triple.Alias = ast.NewName(p.module, nil, []*ast.NamePart{part}, aliasTok.Start, aliasTok.End)
			} else {
				triple.Defunct = true
			}
		}
		triples = append(triples, triple)
		if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == "," {
			p.ts.Next()
			continue
		}
		break
	}
	if parenOpen {
		if pk := p.ts.Peek(); pk.Kind == token.OP && pk.Value == ")" {
			p.ts.Next()
		}
	}
	return
}

func (p *Parser) parseImportStatement(importTok token.Token) {
	triples, star := p.parseImportList()
	if star {
		im := ast.NewImport(p.module, p.scope, importTok.Start, importTok.Start)
		im.Star = true
		p.scope.AddImport(im)
	}
	for _, t := range triples {
		im := ast.NewImport(p.module, p.scope, importTok.Start, importTok.Start)
		im.Namespace = t.Name
		im.Alias = t.Alias
		im.Defunct = t.Defunct
		p.attachImportNames(im)
		p.scope.AddImport(im)
		p.markUserStmt(im)
	}
	p.skipRestOfLine()
}

func (p *Parser) parseFromImportStatement(fromTok token.Token) {
	relCount := 0
	for {
		pk := p.ts.Peek()
		if pk.Kind == token.OP && pk.Value == "." {
			p.ts.Next()
			relCount++
			continue
		}
		if pk.Kind == token.OP && pk.Value == "..." {
			p.ts.Next()
			relCount += 3
			continue
		}
		break
	}
	fromNsToks, hasFromNs := p.parseDottedNameTokens()

	importTok, stop := p.ts.Next()
	if stop != nil || !(importTok.Kind == token.NAME && importTok.Value == "import") {
		p.warn("malformed from-import: missing 'import'", fromTok)
		im := ast.NewImport(p.module, p.scope, fromTok.Start, fromTok.Start)
		im.RelativeCount = relCount
		if hasFromNs {
			im.FromNs = buildDottedName(p.module, fromNsToks)
		}
		im.Defunct = true
		p.attachImportNames(im)
		p.scope.AddImport(im)
		p.module.AddErrorStatementStack(fromTok.Start, fromTok.End, []ast.ErrorStatementEntry{
			{Kind: "import_from", Names: namesOf(im.FromNs), Dots: relCount},
		})
		p.skipRestOfLine()
		return
	}

	triples, star := p.parseImportList()
	if star {
		im := ast.NewImport(p.module, p.scope, fromTok.Start, fromTok.Start)
		im.RelativeCount = relCount
		if hasFromNs {
			im.FromNs = buildDottedName(p.module, fromNsToks)
		}
		im.Star = true
		p.attachImportNames(im)
		p.scope.AddImport(im)
		p.markUserStmt(im)
	}
	for _, t := range triples {
		im := ast.NewImport(p.module, p.scope, fromTok.Start, fromTok.Start)
		im.RelativeCount = relCount
		if hasFromNs {
			im.FromNs = buildDottedName(p.module, fromNsToks)
		}
		im.Namespace = t.Name
		im.Alias = t.Alias
		im.Defunct = t.Defunct
		p.attachImportNames(im)
		p.scope.AddImport(im)
		p.markUserStmt(im)
	}
	p.skipRestOfLine()
}

func (p *Parser) attachImportNames(im *ast.Import) {
	for _, n := range im.GetAllImportNames() {
		n.SetParent(im)
	}
}

func namesOf(n *ast.Name) []*ast.Name {
	if n == nil {
		return nil
	}
	return []*ast.Name{n}
}
