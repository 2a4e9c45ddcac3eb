package parser

import (
	"testing"

	"github.com/d42/jedi/ast"
	"github.com/d42/jedi/token"
)

func textsOf(names []*ast.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.GetCode()
	}
	return out
}

func containsText(names []*ast.Name, text string) bool {
	for _, n := range names {
		if n.GetCode() == text {
			return true
		}
	}
	return false
}

func TestSimpleAssignment(t *testing.T) {
	m := Parse("x = 1\n", Options{})
	stmts := m.Statements()
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(stmts))
	}
	st := stmts[0]
	if !containsText(st.SetVars(), "x") {
		t.Fatalf("expected set_vars to contain x, got %v", textsOf(st.SetVars()))
	}
	details := st.AssignmentDetails()
	if len(details) != 1 || details[0].Operator != "=" {
		t.Fatalf("expected one '=' assignment detail, got %+v", details)
	}
	target, ok := details[0].Target.OnlySubelement()
	if !ok {
		t.Fatalf("expected target to collapse to a single element")
	}
	call, ok := target.(*ast.Call)
	if !ok || call.ValueKind != ast.CallName || call.NameNode.GetCode() != "x" {
		t.Fatalf("expected target to be Call(x), got %#v", target)
	}
	rhs := st.AssignmentCalls()
	lit, ok := rhs.OnlySubelement()
	if !ok {
		t.Fatalf("expected rhs to collapse to a single element")
	}
	litCall, ok := lit.(*ast.Call)
	if !ok || litCall.ValueKind != ast.CallNumber || litCall.Literal != "1" {
		t.Fatalf("expected rhs literal 1, got %#v", lit)
	}
}

func TestFunctionWithDefaultParam(t *testing.T) {
	m := Parse("def f(a, b=2):\n    return a+b\n", Options{})
	subs := m.Subscopes()
	if len(subs) != 1 {
		t.Fatalf("expected one subscope, got %d", len(subs))
	}
	fn, ok := subs[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected a Function, got %T", subs[0])
	}
	if fn.NameNode.GetCode() != "f" {
		t.Fatalf("expected function name f, got %q", fn.NameNode.GetCode())
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	b := fn.Params[1]
	if b.GetName() == nil || b.GetName().GetCode() != "b" {
		t.Fatalf("expected second param named b, got %#v", b.GetName())
	}
	if !containsText(b.SetVars(), "b") {
		t.Fatalf("expected param b's set_vars to contain b, got %v", textsOf(b.SetVars()))
	}
	details := b.AssignmentDetails()
	if len(details) != 1 {
		t.Fatalf("expected param b to carry one assignment detail, got %d", len(details))
	}
	rhs, ok := b.AssignmentCalls().OnlySubelement()
	if !ok {
		t.Fatalf("expected param b's rhs to collapse to a single element")
	}
	litCall, ok := rhs.(*ast.Call)
	if !ok || litCall.Literal != "2" {
		t.Fatalf("expected param b's rhs literal 2, got %#v", rhs)
	}
	if len(fn.Returns) != 1 {
		t.Fatalf("expected 1 return statement, got %d", len(fn.Returns))
	}
	if fn.IsGenerator {
		t.Fatalf("expected f not to be a generator")
	}
}

func TestRelativeFromImportWithAlias(t *testing.T) {
	m := Parse("from .. import x, y as z\n", Options{})
	imports := m.Imports()
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(imports))
	}
	for _, im := range imports {
		if im.RelativeCount != 2 {
			t.Fatalf("expected relative_count 2, got %d", im.RelativeCount)
		}
		if im.FromNs != nil {
			t.Fatalf("expected no from_ns on a pure relative import, got %#v", im.FromNs)
		}
		if im.Star {
			t.Fatalf("expected star == false")
		}
	}
	second := imports[1]
	if second.Alias == nil || second.Alias.GetCode() != "z" {
		t.Fatalf("expected second import's alias to be z, got %#v", second.Alias)
	}
	if imports[0].Namespace == nil || imports[0].Namespace.GetCode() != "x" {
		t.Fatalf("expected first import's namespace to be x")
	}
}

func TestClassWithGeneratorMethod(t *testing.T) {
	m := Parse("class C(Base):\n    def m(self): yield self\n", Options{})
	subs := m.Subscopes()
	if len(subs) != 1 {
		t.Fatalf("expected one subscope, got %d", len(subs))
	}
	cls, ok := subs[0].(*ast.Class)
	if !ok {
		t.Fatalf("expected a Class, got %T", subs[0])
	}
	if cls.NameNode.GetCode() != "C" {
		t.Fatalf("expected class name C")
	}
	if len(cls.Supers) != 1 || cls.Supers[0].GetCode() != "Base" {
		t.Fatalf("expected one super Base, got %+v", cls.Supers)
	}
	clsSubs := cls.Subscopes()
	if len(clsSubs) != 1 {
		t.Fatalf("expected class to have one subscope, got %d", len(clsSubs))
	}
	method, ok := clsSubs[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected a Function, got %T", clsSubs[0])
	}
	if !method.IsGenerator {
		t.Fatalf("expected method m to be a generator")
	}
}

func TestBrokenFunctionHeaderRecovers(t *testing.T) {
	m := Parse("def f(:\n  pass\nx = 1\n", Options{})
	if len(m.Warnings()) == 0 {
		t.Fatalf("expected a warning for the broken function header")
	}
	if len(m.Subscopes()) != 0 {
		t.Fatalf("expected no Function to be emitted, got %d subscopes", len(m.Subscopes()))
	}
	stmts := m.Statements()
	if len(stmts) != 1 {
		t.Fatalf("expected one statement to survive recovery, got %d", len(stmts))
	}
	if !containsText(stmts[0].SetVars(), "x") {
		t.Fatalf("expected the surviving statement to bind x, got %v", textsOf(stmts[0].SetVars()))
	}
}

func TestListComprehensionStatement(t *testing.T) {
	m := Parse("[i*i for i in range(10) if i%2]\n", Options{})
	stmts := m.Statements()
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(stmts))
	}
	top := stmts[0].AssignmentCalls()
	elem, ok := top.OnlySubelement()
	if !ok {
		t.Fatalf("expected the bracketed expression to collapse to a single element")
	}
	arr, ok := elem.(*ast.Array)
	if !ok || arr.Type != ast.LIST {
		t.Fatalf("expected a LIST array, got %#v", elem)
	}
	if len(arr.Values) != 1 || len(arr.Values[0]) != 1 {
		t.Fatalf("expected exactly one field with one element, got %+v", arr.Values)
	}
	lc, ok := arr.Values[0][0].(*ast.ListComprehension)
	if !ok {
		t.Fatalf("expected a ListComprehension, got %T", arr.Values[0][0])
	}
	if lc.Result == nil || lc.Result.GetCode() != "i * i" {
		t.Fatalf("expected result code 'i * i', got %q", lc.Result.GetCode())
	}
	if lc.Iteration == nil || lc.Iteration.GetCode() != "i" {
		t.Fatalf("expected iteration code 'i', got %q", lc.Iteration.GetCode())
	}
	if lc.Iterable == nil || lc.Iterable.GetCode() != "range ( 10 ) if i % 2" {
		t.Fatalf("expected iterable code 'range ( 10 ) if i %% 2', got %q", lc.Iterable.GetCode())
	}
}

// Universal invariants (module-wide), exercised against one richer source
// string that touches every construct the top-level parser dispatches on.
const invariantSource = `import os
from . import helpers as h

class Base:
    """doc"""
    def method(self, a, b=1):
        for x in range(a):
            if x:
                yield x
            elif b:
                return b
            else:
                pass
        return a

y = Base()
`

func parentChainReachesModule(t *testing.T, m *ast.Module, n ast.Node) {
	t.Helper()
	seen := map[ast.Node]bool{}
	cur := n
	for i := 0; i < 10000; i++ {
		if cur == ast.Node(m) {
			return
		}
		if seen[cur] {
			t.Fatalf("cycle detected in parent chain starting from %T", n)
		}
		seen[cur] = true
		p := cur.Parent()
		if p == nil {
			t.Fatalf("parent chain from %T (%s) terminated without reaching the module", n, describe(n))
		}
		cur = p
	}
	t.Fatalf("parent chain from %T did not terminate within bound", n)
}

func describe(n ast.Node) string {
	if s, ok := n.(interface{ GetCode() string }); ok {
		return s.GetCode()
	}
	return ""
}

func walkAllNodes(s ast.Scope) []ast.Node {
	var out []ast.Node
	for _, st := range s.Statements() {
		out = append(out, st)
	}
	for _, im := range s.Imports() {
		out = append(out, im)
	}
	for _, sub := range s.Subscopes() {
		out = append(out, sub)
		out = append(out, walkAllNodes(sub)...)
		if fn, ok := sub.(*ast.Function); ok {
			for _, param := range fn.Params {
				out = append(out, param)
			}
		}
		var tail *ast.Flow
		switch v := sub.(type) {
		case *ast.Flow:
			tail = v.Next
		case *ast.ForFlow:
			tail = v.Next
		}
		for tail != nil {
			out = append(out, tail)
			out = append(out, walkAllNodes(tail)...)
			tail = tail.Next
		}
	}
	return out
}

func TestParentChainTerminatesForEveryNode(t *testing.T) {
	m := Parse(invariantSource, Options{})
	for _, n := range walkAllNodes(m) {
		parentChainReachesModule(t, m, n)
	}
}

func TestUsedNamesInvariant(t *testing.T) {
	m := Parse(invariantSource, Options{})
	var stmts []*ast.Statement
	var collect func(s ast.Scope)
	collect = func(s ast.Scope) {
		stmts = append(stmts, s.Statements()...)
		for _, sub := range s.Subscopes() {
			collect(sub)
		}
	}
	collect(m)
	for _, st := range stmts {
		for _, tok := range st.Tokens {
			if tok.Kind != token.NAME || tok.Keyword() {
				continue
			}
			found := false
			for _, s := range m.UsedNames[tok.Value] {
				if s == st {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("statement %q uses %q but is absent from used_names[%q]", st.GetCode(), tok.Value, tok.Value)
			}
		}
	}
}

func TestNameLengthInvariant(t *testing.T) {
	m := Parse("from . import helpers as h\n", Options{})
	imports := m.Imports()
	if len(imports) != 1 {
		t.Fatalf("expected one import, got %d", len(imports))
	}
	for _, n := range imports[0].GetAllImportNames() {
		if n.Len() != len(n.Parts) {
			t.Fatalf("Len() disagrees with len(Parts) for %q", n.GetCode())
		}
	}
}

func TestIsBuiltinEquivalence(t *testing.T) {
	cases := []struct {
		path    string
		builtin bool
	}{
		{"", true},
		{"mod.so", true},
		{"pkg/mod.py", false},
		{"pkg/__init__.py", false},
	}
	for _, c := range cases {
		m := Parse("x = 1\n", Options{ModulePath: c.path})
		if m.IsBuiltin() != c.builtin {
			t.Fatalf("IsBuiltin() for path %q: expected %v, got %v", c.path, c.builtin, m.IsBuiltin())
		}
	}
}

func TestGeneratorDetectionAtAnyDepth(t *testing.T) {
	m := Parse(invariantSource, Options{})
	cls := m.Subscopes()[0].(*ast.Class)
	method := cls.Subscopes()[0].(*ast.Function)
	if !method.IsGenerator {
		t.Fatalf("expected method to be detected as a generator from a nested yield")
	}
}

func TestFlowChainSharesHeadParent(t *testing.T) {
	m := Parse(invariantSource, Options{})
	cls := m.Subscopes()[0].(*ast.Class)
	method := cls.Subscopes()[0].(*ast.Function)
	forFlow, ok := method.Subscopes()[0].(*ast.ForFlow)
	if !ok {
		t.Fatalf("expected a ForFlow as the method's first subscope, got %T", method.Subscopes()[0])
	}
	ifFlow, ok := forFlow.Subscopes()[0].(*ast.Flow)
	if !ok {
		t.Fatalf("expected an if-Flow inside the for loop, got %T", forFlow.Subscopes()[0])
	}
	if ifFlow.Next == nil || ifFlow.Next.Command != "elif" {
		t.Fatalf("expected an elif tail, got %+v", ifFlow.Next)
	}
	elifTail := ifFlow.Next
	if elifTail.Next == nil || elifTail.Next.Command != "else" {
		t.Fatalf("expected an else tail chained after elif, got %+v", elifTail.Next)
	}
	elseTail := elifTail.Next
	if ifFlow.Parent() != elifTail.Parent() || ifFlow.Parent() != elseTail.Parent() {
		t.Fatalf("expected every tail to share the head's effective parent")
	}
	// tails must never double-count as subscopes of the enclosing scope.
	for _, sub := range forFlow.Subscopes() {
		if sub == ast.Scope(elifTail) || sub == ast.Scope(elseTail) {
			t.Fatalf("a Flow tail must not appear in Subscopes()")
		}
	}
	// DefinedNames on the head walks the chained tails without failing;
	// position lookups into a tail are checked by
	// TestElseBlockStatementReachableFromModule.
	yieldStmtPos := elseTail.Parent()
	_ = yieldStmtPos
	names := ifFlow.DefinedNames()
	_ = names
}

func TestKeywordTokensNotCountedAsUsedNames(t *testing.T) {
	m := Parse("if a and not b or c in d:\n    pass\n", Options{})
	for _, kw := range []string{"and", "not", "or", "in"} {
		if _, ok := m.UsedNames[kw]; ok {
			t.Fatalf("expected keyword %q to never appear in used_names", kw)
		}
	}
}

func TestBareParamAndForLoopTargetClassifyAsSetNotUsed(t *testing.T) {
	m := Parse("def f(a):\n    return a\n\nfor x in range(3):\n    pass\n", Options{})
	fn := m.Subscopes()[0].(*ast.Function)
	a := fn.Params[0]
	if !containsText(a.ForcedSetVars(), "a") {
		t.Fatalf("expected bare param a to classify as set, got %v", textsOf(a.ForcedSetVars()))
	}
	ff, ok := m.Subscopes()[1].(*ast.ForFlow)
	if !ok {
		t.Fatalf("expected second subscope to be a ForFlow, got %T", m.Subscopes()[1])
	}
	if !containsText(ff.SetStmt.ForcedSetVars(), "x") {
		t.Fatalf("expected for-loop target x to classify as set, got %v", textsOf(ff.SetStmt.ForcedSetVars()))
	}
	if !containsText(m.SetVars(), "x") {
		t.Fatalf("expected module SetVars() to include the for-loop's x via ScopeBase.SetVars's ForFlow branch")
	}
}

func TestElseBlockStatementReachableFromModule(t *testing.T) {
	src := "if a:\n    pass\nelse:\n    y = 1\n"
	m := Parse(src, Options{})
	ifFlow := m.Subscopes()[0].(*ast.Flow)
	elseTail := ifFlow.Next
	if elseTail == nil || elseTail.Command != "else" {
		t.Fatalf("expected an else tail, got %+v", ifFlow.Next)
	}
	if len(elseTail.Statements()) != 1 {
		t.Fatalf("expected one statement in the else block, got %d", len(elseTail.Statements()))
	}
	yStmt := elseTail.Statements()[0]
	pos := yStmt.Start()
	if m.StatementForPosition(pos, false) != ast.Node(yStmt) {
		t.Fatalf("expected StatementForPosition to find the else-block statement via module traversal")
	}
	if n := m.NameAt(pos); n == nil || n.GetCode() != "y" {
		t.Fatalf("expected NameAt to find y inside the else tail via module traversal, got %#v", n)
	}
}

func TestDecoratorOrphanedWhenNotFollowedByDefOrClass(t *testing.T) {
	m := Parse("@deco\nx = 1\n", Options{})
	if len(m.Subscopes()) != 0 {
		t.Fatalf("expected no scopes, got %d", len(m.Subscopes()))
	}
	stmts := m.Statements()
	if len(stmts) != 2 {
		t.Fatalf("expected the decorator statement to be orphaned alongside x = 1, got %d statements", len(stmts))
	}
	if stmts[0].GetCode() != "@ deco" && stmts[0].GetCode() != "deco" {
		t.Fatalf("expected the first orphaned statement to be the decorator expression, got %q", stmts[0].GetCode())
	}
}

func TestDecoratorAttachesToFollowingFunction(t *testing.T) {
	m := Parse("@deco\ndef f():\n    pass\n", Options{})
	if len(m.Statements()) != 0 {
		t.Fatalf("expected no orphaned statements, got %d", len(m.Statements()))
	}
	fn, ok := m.Subscopes()[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected a Function, got %T", m.Subscopes()[0])
	}
	if len(fn.Decorators) != 1 {
		t.Fatalf("expected the decorator to attach to f, got %d decorators", len(fn.Decorators))
	}
}

func TestMalformedForAtTopLevelOrphansPieces(t *testing.T) {
	m := Parse("for x\ny = 2\n", Options{})
	if len(m.Warnings()) == 0 {
		t.Fatalf("expected a warning for the malformed for statement")
	}
	if len(m.Subscopes()) != 0 {
		t.Fatalf("expected no ForFlow to be emitted, got %d", len(m.Subscopes()))
	}
	stmts := m.Statements()
	if len(stmts) != 2 {
		t.Fatalf("expected the orphaned 'x' piece plus 'y = 2' to survive, got %d statements", len(stmts))
	}
	if !containsText(stmts[len(stmts)-1].SetVars(), "y") {
		t.Fatalf("expected parsing to continue after the malformed for statement")
	}
}

func TestAnnotatedParamSplitsAnnotationFromDefault(t *testing.T) {
	m := Parse("def f(a: int, b: str = \"x\"):\n    pass\n", Options{})
	fn := m.Subscopes()[0].(*ast.Function)
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	a := fn.Params[0]
	if a.AnnotationStmt == nil || a.AnnotationStmt.GetCode() != "int" {
		t.Fatalf("expected param a's annotation to be 'int', got %#v", a.AnnotationStmt)
	}
	if !containsText(a.ForcedSetVars(), "a") {
		t.Fatalf("expected param a's forced set_vars to contain a, got %v", textsOf(a.ForcedSetVars()))
	}
	b := fn.Params[1]
	if b.AnnotationStmt == nil || b.AnnotationStmt.GetCode() != "str" {
		t.Fatalf("expected param b's annotation to be 'str', got %#v", b.AnnotationStmt)
	}
	if !containsText(b.SetVars(), "b") {
		t.Fatalf("expected param b's set_vars to contain b, got %v", textsOf(b.SetVars()))
	}
	details := b.AssignmentDetails()
	if len(details) != 1 || details[0].Operator != "=" {
		t.Fatalf("expected param b to carry one '=' assignment detail, got %+v", details)
	}
	rhs, ok := b.AssignmentCalls().OnlySubelement()
	if !ok {
		t.Fatalf("expected param b's rhs to collapse to a single element")
	}
	litCall, ok := rhs.(*ast.Call)
	if !ok || litCall.Literal != "\"x\"" {
		t.Fatalf("expected param b's rhs literal \"x\", got %#v", rhs)
	}
	if _, ok := m.UsedNames["int"]; !ok {
		t.Fatalf("expected the annotation's name to be registered in used_names")
	}
}

func TestImportBindsOnlyFirstDottedSegment(t *testing.T) {
	m := Parse("import a.b.c\n", Options{})
	imports := m.Imports()
	if len(imports) != 1 {
		t.Fatalf("expected one import, got %d", len(imports))
	}
	defined := imports[0].GetDefinedNames()
	if len(defined) != 1 || defined[0].GetCode() != "a" {
		t.Fatalf("expected import to bind only 'a', got %v", textsOf(defined))
	}
	if defined[0].Len() != 1 {
		t.Fatalf("expected the bound name to have a single part, got %d", defined[0].Len())
	}
}

func TestSubscriptNotCountedAsUsedFunc(t *testing.T) {
	m := Parse("x[0]\n", Options{})
	st := m.Statements()[0]
	if containsText(st.UsedFuncs(), "x") {
		t.Fatalf("expected subscripting not to classify x as a used_func, got %v", textsOf(st.UsedFuncs()))
	}
	if !containsText(st.UsedVars(), "x") {
		t.Fatalf("expected subscripting to classify x as a used_var, got %v", textsOf(st.UsedVars()))
	}
}

func TestCallStillCountedAsUsedFunc(t *testing.T) {
	m := Parse("f(1)\n", Options{})
	st := m.Statements()[0]
	if !containsText(st.UsedFuncs(), "f") {
		t.Fatalf("expected a '(' execution to classify f as a used_func, got %v", textsOf(st.UsedFuncs()))
	}
}

func TestAssignmentCallsIdempotent(t *testing.T) {
	m := Parse("x = f(1, 2)\n", Options{})
	st := m.Statements()[0]
	first := st.AssignmentCalls()
	second := st.AssignmentCalls()
	if first != second {
		t.Fatalf("expected AssignmentCalls to memoize and return the identical tree on repeated calls")
	}
}
