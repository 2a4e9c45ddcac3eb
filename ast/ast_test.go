package ast

import (
	"testing"

	"github.com/d42/jedi/scanner"
	"github.com/d42/jedi/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementTokens(t *testing.T, src string) token.Tokens {
	t.Helper()
	toks, warnings := scanner.Scan(src)
	require.Empty(t, warnings)
	var out token.Tokens
	for _, tok := range toks {
		switch tok.Kind {
		case token.NEWLINE, token.NL, token.ENDMARKER, token.INDENT, token.DEDENT, token.COMMENT:
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestPositionLineOffset(t *testing.T) {
	m := NewModule("x.py")
	m.LineOffset = 10
	part := NewNamePart(m, m, "x", token.Position{Line: 1, Column: 0}, token.Position{Line: 1, Column: 1})
	assert.Equal(t, 11, part.Start().Line)
	assert.Equal(t, 1, part.rawStart().Line)
}

func TestFlowChainSharesParent(t *testing.T) {
	m := NewModule("x.py")
	head := NewFlow(m, m, "if", token.Position{}, token.Position{})
	tail := NewFlow(m, head, "else", token.Position{}, token.Position{})
	head.SetNext(tail)

	newParent := NewClass(m, m, nil, token.Position{}, token.Position{})
	head.SetParent(newParent)

	assert.Equal(t, Node(newParent), head.Parent())
	assert.Equal(t, Node(newParent), tail.Parent())
}

func TestParentUntilFindsEnclosingFunction(t *testing.T) {
	m := NewModule("x.py")
	fn := NewFunction(m, m, nil, token.Position{}, token.Position{})
	st := NewStatement(m, fn, "x = 1", nil, token.Position{}, token.Position{})

	found := ParentUntil(st, KindFunction, KindClass)
	assert.Same(t, fn, found)
}

func TestStatementSimpleAssignment(t *testing.T) {
	m := NewModule("x.py")
	toks := statementTokens(t, "x = 1\n")
	st := NewStatement(m, m, "x = 1", toks, toks[0].Start, toks[len(toks)-1].End)

	vars := st.SetVars()
	require.Len(t, vars, 1)
	assert.Equal(t, "x", vars[0].GetCode())

	details := st.AssignmentDetails()
	require.Len(t, details, 1)
	assert.Equal(t, "=", details[0].Operator)
	require.Len(t, details[0].Target.Values, 1)
	require.Len(t, details[0].Target.Values[0], 1)
	call := details[0].Target.Values[0][0].(*Call)
	assert.Equal(t, "x", call.NameNode.GetCode())

	final := st.AssignmentCalls()
	require.Len(t, final.Values, 1)
	lit := final.Values[0][0].(*Call)
	assert.Equal(t, "1", lit.Literal)
}

func TestStatementAssignmentCallsIsMemoized(t *testing.T) {
	m := NewModule("x.py")
	toks := statementTokens(t, "x = 1\n")
	st := NewStatement(m, m, "x = 1", toks, toks[0].Start, toks[len(toks)-1].End)

	first := st.AssignmentCalls()
	second := st.AssignmentCalls()
	assert.Same(t, first, second)
}

func TestStatementDottedChainAndCall(t *testing.T) {
	m := NewModule("x.py")
	toks := statementTokens(t, "a.b.c(1)\n")
	st := NewStatement(m, m, "a.b.c(1)", toks, toks[0].Start, toks[len(toks)-1].End)

	tree := st.AssignmentCalls()
	require.Len(t, tree.Values, 1)
	require.Len(t, tree.Values[0], 1)
	a := tree.Values[0][0].(*Call)
	assert.Equal(t, "a", a.NameNode.GetCode())
	require.NotNil(t, a.Next)
	assert.Equal(t, "b", a.Next.NameNode.GetCode())
	require.NotNil(t, a.Next.Next)
	assert.Equal(t, "c", a.Next.Next.NameNode.GetCode())
	require.NotNil(t, a.Next.Next.Execution)
	assert.Equal(t, TUPLE, a.Next.Next.Execution.Type)
}

func TestImportGetCodeAndDefinedNames(t *testing.T) {
	m := NewModule("x.py")
	im := NewImport(m, m, token.Position{}, token.Position{})
	im.RelativeCount = 2
	im.Namespace = NewName(m, im, []*NamePart{NewNamePart(m, im, "x", token.Position{}, token.Position{})}, token.Position{}, token.Position{})
	alias := NewName(m, im, []*NamePart{NewNamePart(m, im, "z", token.Position{}, token.Position{})}, token.Position{}, token.Position{})
	im.Alias = alias

	assert.Equal(t, "from .. import x as z", im.GetCode())
	names := im.GetDefinedNames()
	require.Len(t, names, 1)
	assert.Same(t, alias, names[0])
}

func TestModuleIsBuiltin(t *testing.T) {
	assert.True(t, NewModule("").IsBuiltin())
	assert.True(t, NewModule("foo.so").IsBuiltin())
	assert.False(t, NewModule("foo.py").IsBuiltin())
}
