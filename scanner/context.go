package scanner

import (
	"github.com/d42/jedi/token"
)

// context carries the scan cursor and the indent stack across one call to
// Scan. Mirroring the source line lets a recovered anomaly report the
// exact physical line it discarded.
type context struct {
	src  []rune
	idx  int
	size int

	line   int
	column int
	offset int

	lineStart int // idx of the first rune of the current physical line

	indents    []int // column stack; indents[0] == 0 always
	parenDepth int    // nesting depth of ( [ {, suppresses NEWLINE/INDENT
	atLineHead bool   // true until the first non-blank rune on a line is seen

	tokens   token.Tokens
	warnings []Warning
}

func newContext(src string) *context {
	runes := []rune(src)
	if len(runes) == 0 || runes[len(runes)-1] != '\n' {
		runes = append(runes, '\n')
	}
	return &context{
		src:        runes,
		size:       len(runes),
		line:       1,
		column:     0,
		indents:    []int{0},
		atLineHead: true,
	}
}

func (c *context) eof() bool {
	return c.idx >= c.size
}

func (c *context) current() rune {
	if c.eof() {
		return 0
	}
	return c.src[c.idx]
}

func (c *context) peek(n int) rune {
	if c.idx+n >= c.size {
		return 0
	}
	return c.src[c.idx+n]
}

func (c *context) pos() token.Position {
	return token.Position{Line: c.line, Column: c.column, Offset: c.idx}
}

// advance consumes the current rune and returns it, updating line/column
// bookkeeping. Callers must check eof() first.
func (c *context) advance() rune {
	r := c.src[c.idx]
	c.idx++
	c.offset++
	if r == '\n' {
		c.line++
		c.column = 0
		c.lineStart = c.idx
		c.atLineHead = true
	} else {
		c.column++
	}
	return r
}

// rawLine returns the physical source line beginning at lineStart, with
// its trailing newline stripped.
func (c *context) rawLine() string {
	end := c.lineStart
	for end < c.size && c.src[end] != '\n' {
		end++
	}
	return string(c.src[c.lineStart:end])
}

func (c *context) emit(kind token.Kind, value string, start token.Position) {
	c.tokens = append(c.tokens, token.Token{
		Kind:    kind,
		Value:   value,
		Start:   start,
		End:     c.pos(),
		RawLine: c.rawLine(),
	})
}

func (c *context) warn(msg string, pos token.Position) {
	c.warnings = append(c.warnings, Warning{Message: msg, Position: pos, Line: c.rawLine()})
}

func isNameStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 127
}

func isNameCont(r rune) bool {
	return isNameStart(r) || ('0' <= r && r <= '9')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
