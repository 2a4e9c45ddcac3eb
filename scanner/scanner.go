// Package scanner turns Python source text into a flat token.Tokens
// stream. It never aborts: indentation errors and unterminated strings
// are recorded as warnings and the scan resumes at the next safe line,
// matching the no-fatal-tokenizer-error contract the parser relies on.
package scanner

import (
	"strings"

	"github.com/d42/jedi/token"
)

// Warning is a recoverable tokenizer anomaly: bad indentation, an
// unterminated string, a stray bracket closer. The scanner never stops
// because of one.
type Warning struct {
	Message  string
	Position token.Position
	Line     string
}

var multiCharOps = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"==", "!=", "<=", ">=", "->", ":=",
	"**", "//", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"rb": true, "br": true, "rf": true, "fr": true,
	"R": true, "U": true, "B": true, "F": true,
	"Rb": true, "rB": true, "RB": true, "Br": true, "bR": true, "BR": true,
	"Rf": true, "rF": true, "RF": true, "Fr": true, "fR": true, "FR": true,
}

// Scan tokenizes src in a single pass. The returned Tokens always ends
// with an ENDMARKER; any DEDENT needed to unwind the indent stack at EOF
// is synthesized before it.
func Scan(src string) (token.Tokens, []Warning) {
	c := newContext(src)

	for !c.eof() {
		if c.atLineHead && c.parenDepth == 0 {
			if !c.scanIndent() {
				continue
			}
		}
		c.atLineHead = false

		r := c.current()
		switch {
		case r == '\n':
			c.scanNewline()
		case r == ' ' || r == '\t':
			c.advance()
		case r == '\\' && c.peek(1) == '\n':
			c.advance()
			c.advance()
		case r == '#':
			c.scanComment()
		case r == '"' || r == '\'':
			c.scanString("")
		case isNameStart(r):
			c.scanNameOrString()
		case isDigit(r) || (r == '.' && isDigit(c.peek(1))):
			c.scanNumber()
		case strings.ContainsRune("()[]{}", r):
			c.scanBracket()
		case r == ',' || r == ':' || r == ';' || r == '.' || r == '@':
			start := c.pos()
			c.advance()
			c.emit(token.OP, string(r), start)
		default:
			c.scanOperator()
		}
	}

	c.finish()
	return c.tokens, c.warnings
}

// scanIndent runs at the start of a logical line outside brackets. It
// returns false if the line was blank or comment-only (caller should
// loop back without touching the indent stack).
func (c *context) scanIndent() bool {
	start := c.pos()
	col := 0
	for !c.eof() {
		switch c.current() {
		case ' ':
			c.advance()
			col++
			continue
		case '\t':
			c.advance()
			col += 8 - (col % 8)
			continue
		}
		break
	}
	if c.eof() || c.current() == '\n' || c.current() == '#' {
		// blank or comment-only line: no indent change; the comment and
		// the line break are scanned right here, the break as NL.
		c.atLineHead = false
		if c.current() == '#' {
			c.scanComment()
		}
		if !c.eof() && c.current() == '\n' {
			nlStart := c.pos()
			c.advance()
			c.emit(token.NL, "", nlStart)
		}
		c.atLineHead = true
		return false
	}

	top := c.indents[len(c.indents)-1]
	switch {
	case col > top:
		c.indents = append(c.indents, col)
		c.emit(token.INDENT, "", start)
	case col < top:
		for len(c.indents) > 1 && c.indents[len(c.indents)-1] > col {
			c.indents = c.indents[:len(c.indents)-1]
			c.emit(token.DEDENT, "", start)
		}
		if c.indents[len(c.indents)-1] != col {
			c.warn("unindent does not match any outer indentation level", start)
			c.indents = append(c.indents, col)
		}
	}
	return true
}

func (c *context) scanNewline() {
	start := c.pos()
	c.advance()
	if c.parenDepth > 0 {
		c.emit(token.NL, "", start)
		return
	}
	c.emit(token.NEWLINE, "", start)
	c.atLineHead = true
}

func (c *context) scanComment() {
	start := c.pos()
	var b strings.Builder
	for !c.eof() && c.current() != '\n' {
		b.WriteRune(c.advance())
	}
	c.emit(token.COMMENT, b.String(), start)
}

func (c *context) scanBracket() {
	start := c.pos()
	r := c.advance()
	switch r {
	case '(', '[', '{':
		c.parenDepth++
	case ')', ']', '}':
		if c.parenDepth > 0 {
			c.parenDepth--
		} else {
			c.warn("unmatched closing bracket '"+string(r)+"'", start)
		}
	}
	c.emit(token.OP, string(r), start)
}

func (c *context) scanOperator() {
	start := c.pos()
	rest := string(c.src[c.idx:min(c.idx+3, c.size)])
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			for range op {
				c.advance()
			}
			c.emit(token.OP, op, start)
			return
		}
	}
	r := c.advance()
	c.emit(token.OP, string(r), start)
}

func (c *context) scanNameOrString() {
	start := c.pos()
	var b strings.Builder
	for !c.eof() && isNameCont(c.current()) {
		b.WriteRune(c.advance())
	}
	word := b.String()
	if (c.current() == '"' || c.current() == '\'') && stringPrefixes[word] {
		c.scanStringFrom(start, word)
		return
	}
	c.emitFrom(token.NAME, word, start)
}

func (c *context) scanNumber() {
	start := c.pos()
	var b strings.Builder
	if c.current() == '0' && (c.peek(1) == 'x' || c.peek(1) == 'X' || c.peek(1) == 'o' || c.peek(1) == 'O' || c.peek(1) == 'b' || c.peek(1) == 'B') {
		b.WriteRune(c.advance())
		b.WriteRune(c.advance())
		for !c.eof() && (isNameCont(c.current()) || c.current() == '_') {
			b.WriteRune(c.advance())
		}
		c.emitFrom(token.NUMBER, b.String(), start)
		return
	}
	sawDot := false
	for !c.eof() {
		r := c.current()
		switch {
		case isDigit(r) || r == '_':
			b.WriteRune(c.advance())
		case r == '.' && !sawDot:
			sawDot = true
			b.WriteRune(c.advance())
		case (r == 'e' || r == 'E') && (isDigit(c.peek(1)) || ((c.peek(1) == '+' || c.peek(1) == '-') && isDigit(c.peek(2)))):
			b.WriteRune(c.advance())
			if c.current() == '+' || c.current() == '-' {
				b.WriteRune(c.advance())
			}
		case r == 'j' || r == 'J':
			b.WriteRune(c.advance())
		default:
			goto done
		}
	}
done:
	c.emitFrom(token.NUMBER, b.String(), start)
}

// scanString handles an unprefixed string literal beginning at the
// current rune.
func (c *context) scanString(prefix string) {
	start := c.pos()
	c.scanStringFrom(start, prefix)
}

func (c *context) scanStringFrom(start token.Position, prefix string) {
	var b strings.Builder
	b.WriteString(prefix)
	quote := c.advance()
	b.WriteRune(quote)

	triple := c.current() == quote && c.peek(1) == quote
	if triple {
		b.WriteRune(c.advance())
		b.WriteRune(c.advance())
	}

	raw := strings.ContainsAny(prefix, "rR")
	for {
		if c.eof() {
			c.warn("unterminated string literal", start)
			break
		}
		r := c.current()
		if r == '\\' && !raw {
			b.WriteRune(c.advance())
			if !c.eof() {
				b.WriteRune(c.advance())
			}
			continue
		}
		if r == '\n' && !triple {
			c.warn("unterminated string literal", start)
			break
		}
		if r == quote {
			if !triple {
				b.WriteRune(c.advance())
				break
			}
			if c.peek(1) == quote && c.peek(2) == quote {
				b.WriteRune(c.advance())
				b.WriteRune(c.advance())
				b.WriteRune(c.advance())
				break
			}
		}
		b.WriteRune(c.advance())
	}
	c.emitFrom(token.STRING, b.String(), start)
}

func (c *context) emitFrom(kind token.Kind, value string, start token.Position) {
	c.tokens = append(c.tokens, token.Token{
		Kind:    kind,
		Value:   value,
		Start:   start,
		End:     c.pos(),
		RawLine: c.rawLine(),
	})
}

func (c *context) finish() {
	end := c.pos()
	if len(c.tokens) > 0 && c.tokens[len(c.tokens)-1].Kind != token.NEWLINE && c.tokens[len(c.tokens)-1].Kind != token.NL {
		c.emit(token.NEWLINE, "", end)
	}
	for len(c.indents) > 1 {
		c.indents = c.indents[:len(c.indents)-1]
		c.emit(token.DEDENT, "", end)
	}
	c.emit(token.ENDMARKER, "<eof>", end)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
