package scanner

import (
	"testing"

	"github.com/d42/jedi/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks token.Tokens) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanSimpleAssignment(t *testing.T) {
	toks, warnings := Scan("x = 1\n")
	require.Empty(t, warnings)
	assert.Equal(t, []token.Kind{
		token.NAME, token.OP, token.NUMBER, token.NEWLINE, token.ENDMARKER,
	}, kinds(toks))
	assert.Equal(t, "x", toks[0].Value)
	assert.Equal(t, "=", toks[1].Value)
	assert.Equal(t, "1", toks[2].Value)
}

func TestScanIndentDedent(t *testing.T) {
	src := "def f():\n    return 1\nx = 2\n"
	toks, warnings := Scan(src)
	require.Empty(t, warnings)
	k := kinds(toks)
	require.Contains(t, k, token.INDENT)
	require.Contains(t, k, token.DEDENT)

	var sawIndent, sawDedentBeforeX bool
	for i, tok := range toks {
		if tok.Kind == token.INDENT {
			sawIndent = true
		}
		if tok.Kind == token.DEDENT && i+1 < len(toks) && toks[i+1].Value == "x" {
			sawDedentBeforeX = true
		}
	}
	assert.True(t, sawIndent)
	assert.True(t, sawDedentBeforeX)
}

func TestScanStrings(t *testing.T) {
	cases := map[string]string{
		`'foo'`:    `'foo'`,
		`"foo"`:    `"foo"`,
		`'''foo'''`: `'''foo'''`,
		`r'foo'`:   `r'foo'`,
		`f'foo{x}'`: `f'foo{x}'`,
	}
	for input, expected := range cases {
		t.Run(input, func(t *testing.T) {
			toks, warnings := Scan(input + "\n")
			require.Empty(t, warnings)
			require.NotEmpty(t, toks)
			assert.Equal(t, token.STRING, toks[0].Kind)
			assert.Equal(t, expected, toks[0].Value)
		})
	}
}

func TestScanUnterminatedStringRecovers(t *testing.T) {
	toks, warnings := Scan("x = 'oops\ny = 2\n")
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "unterminated")

	var names []string
	for _, tok := range toks {
		if tok.Kind == token.NAME {
			names = append(names, tok.Value)
		}
	}
	assert.Contains(t, names, "y")
}

func TestScanBracketSuppressesNewline(t *testing.T) {
	toks, warnings := Scan("x = (1,\n     2)\n")
	require.Empty(t, warnings)
	var newlines int
	for _, tok := range toks {
		if tok.Kind == token.NEWLINE {
			newlines++
		}
	}
	assert.Equal(t, 1, newlines)
}

func TestScanNumbers(t *testing.T) {
	cases := []string{"1", "1.5", "0x1F", "1e10", "1_000", "1.5e-3", "2j"}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			toks, warnings := Scan(input + "\n")
			require.Empty(t, warnings)
			require.NotEmpty(t, toks)
			assert.Equal(t, token.NUMBER, toks[0].Kind)
			assert.Equal(t, input, toks[0].Value)
		})
	}
}

func TestScanUnmatchedBracketWarns(t *testing.T) {
	_, warnings := Scan("x = )\n")
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "unmatched")
}
