// Package lexer adapts scanner.Scan's batch output into the pull-based
// token source the parser drives: Next, one-token PushBack, and a
// MultiLevelStopIteration sentinel for cascading recoverable exits.
package lexer

import (
	"github.com/d42/jedi/scanner"
	"github.com/d42/jedi/token"
)

// StopIteration is returned by Next when the source is exhausted past
// its ENDMARKER.
var StopIteration = &multiLevelStop{levels: 1}

// MultiLevelStopIteration is the cascading-exit sentinel named in the
// token source contract; Levels() reports how many enclosing constructs
// it unwinds. TokenSource itself only ever returns StopIteration (one
// level), once its input is exhausted, and the parser treats any value
// of this type as end-of-input.
type MultiLevelStopIteration interface {
	error
	Levels() int
}

type multiLevelStop struct {
	levels int
}

func (m *multiLevelStop) Error() string { return "stop iteration" }
func (m *multiLevelStop) Levels() int   { return m.levels }

// NewMultiLevelStopIteration builds a MultiLevelStopIteration that
// unwinds n enclosing constructs.
func NewMultiLevelStopIteration(n int) MultiLevelStopIteration {
	return &multiLevelStop{levels: n}
}

// TokenSource is the pull-based iterator contract of component 2: Next
// advances and returns the next token (or a MultiLevelStopIteration once
// ENDMARKER has already been delivered once), and PushBack un-advances by
// exactly one token so the parser can look ahead and reconsider.
type TokenSource struct {
	tokens   token.Tokens
	warnings []scanner.Warning
	idx      int
	pushed   bool
	done     bool
}

// New tokenizes src and returns a TokenSource positioned before the
// first token. Scanner warnings are retained for the caller to surface
// alongside parser warnings.
func New(src string) *TokenSource {
	toks, warnings := scanner.Scan(src)
	return &TokenSource{tokens: toks, warnings: warnings}
}

// Warnings returns the tokenizer-level anomalies recorded while
// scanning, in source order.
func (ts *TokenSource) Warnings() []scanner.Warning {
	return ts.warnings
}

// Next returns the next token. Once the source is exhausted (an
// ENDMARKER has already been returned) it keeps returning ENDMARKER
// tokens and reports done via the returned MultiLevelStopIteration so
// the parser can distinguish "normal EOF" from "mid-stream error" if it
// chooses to, while still being able to ignore the error and keep
// reading ENDMARKER tokens.
func (ts *TokenSource) Next() (token.Token, MultiLevelStopIteration) {
	if ts.pushed {
		ts.pushed = false
		return ts.tokens.At(ts.idx - 1), nil
	}
	if ts.done {
		return ts.tokens.At(len(ts.tokens) - 1), StopIteration
	}
	tok := ts.tokens.At(ts.idx)
	ts.idx++
	if tok.Kind == token.ENDMARKER {
		ts.done = true
	}
	return tok, nil
}

// PushBack returns the most recently read token to the front of the
// stream. Only a single level of push-back is supported, matching the
// contract in §4.2; a second consecutive call is a programmer error.
func (ts *TokenSource) PushBack() {
	if ts.idx == 0 {
		return
	}
	ts.pushed = true
}

// Peek returns the next token without consuming it.
func (ts *TokenSource) Peek() token.Token {
	tok, _ := ts.Next()
	ts.PushBack()
	return tok
}
