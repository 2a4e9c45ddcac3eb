package lexer

import (
	"testing"

	"github.com/d42/jedi/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSourceNextAndPushBack(t *testing.T) {
	ts := New("x = 1\n")

	first, stop := ts.Next()
	require.Nil(t, stop)
	assert.Equal(t, "x", first.Value)

	ts.PushBack()
	again, stop := ts.Next()
	require.Nil(t, stop)
	assert.Equal(t, first, again)

	second, stop := ts.Next()
	require.Nil(t, stop)
	assert.Equal(t, "=", second.Value)
}

func TestTokenSourcePeekDoesNotConsume(t *testing.T) {
	ts := New("x = 1\n")
	peeked := ts.Peek()
	assert.Equal(t, "x", peeked.Value)
	next, stop := ts.Next()
	require.Nil(t, stop)
	assert.Equal(t, peeked, next)
}

func TestTokenSourceExhaustionReturnsEndmarker(t *testing.T) {
	ts := New("\n")
	var last token.Token
	for i := 0; i < 10; i++ {
		tok, stop := ts.Next()
		last = tok
		if stop != nil {
			break
		}
	}
	assert.Equal(t, token.ENDMARKER, last.Kind)

	_, stop := ts.Next()
	require.NotNil(t, stop)
	assert.Equal(t, 1, stop.Levels())
}
