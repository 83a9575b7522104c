package parser

import (
	"strings"
	"testing"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/lexer"
)

// collectingLowerer is a test double satisfying the Lowerer interface: it
// just records what it was handed, with no actual type-checking or IR
// emission, so parser tests can assert on AST shape in isolation.
type collectingLowerer struct {
	decls    []ast.Stmt
	finished bool
}

func (c *collectingLowerer) LowerTopLevel(d ast.Stmt) { c.decls = append(c.decls, d) }
func (c *collectingLowerer) Finish()                  { c.finished = true }

func parse(t *testing.T, src string) (*collectingLowerer, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag("test.mc")
	ts := lexer.NewTokenStream(lexer.New(src))
	lines := strings.Split(src, "\n")
	p := New(ts, bag, "test.mc", lines)
	low := &collectingLowerer{}
	p.ParseProgram(low)
	return low, bag
}

func TestParseGlobalScalarAndArrayDecls(t *testing.T) {
	low, bag := parse(t, `
int counter;
float grid[10][5];
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if len(low.decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(low.decls))
	}
	g, ok := low.decls[0].(*ast.GlobalVarDecl)
	if !ok || g.Name != "counter" || g.Type != ast.TInt {
		t.Fatalf("decl[0] = %#v", low.decls[0])
	}
	arr, ok := low.decls[1].(*ast.ArrayDecl)
	if !ok || arr.Name != "grid" || len(arr.Dims) != 2 || arr.Dims[0] != 10 || arr.Dims[1] != 5 {
		t.Fatalf("decl[1] = %#v", low.decls[1])
	}
	if !low.finished {
		t.Fatal("Finish was not called")
	}
}

func TestParseFunctionDefinitionAndMutualRecursion(t *testing.T) {
	low, bag := parse(t, `
extern int putInt(int n);

int isEven(int n) {
	if (n == 0) {
		return 1;
	}
	return isOdd(n - 1);
}

int isOdd(int n) {
	if (n == 0) {
		return 0;
	}
	return isEven(n - 1);
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if len(low.decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(low.decls))
	}
	proto, ok := low.decls[0].(*ast.FnProto)
	if !ok || !proto.IsExtern || proto.Name != "putInt" {
		t.Fatalf("decl[0] = %#v", low.decls[0])
	}
	fn, ok := low.decls[1].(*ast.FnDef)
	if !ok || fn.Proto.Name != "isEven" {
		t.Fatalf("decl[1] = %#v", low.decls[1])
	}
	ret, ok := fn.Body.Stmts[1].(*ast.Return)
	if !ok {
		t.Fatalf("isEven's second stmt = %#v", fn.Body.Stmts[1])
	}
	call, ok := ret.Value.(*ast.Call)
	if !ok || call.Callee != "isOdd" {
		t.Fatalf("recursive call = %#v", ret.Value)
	}
}

func TestAssignmentDisambiguationFromEquality(t *testing.T) {
	low, bag := parse(t, `
int f() {
	int x;
	x = 1;
	return x == 1;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	fn := low.decls[0].(*ast.FnDef)
	assignStmt, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("stmt[0] = %#v", fn.Body.Stmts[0])
	}
	if _, ok := assignStmt.X.(*ast.Assign); !ok {
		t.Fatalf("expected *ast.Assign, got %#v", assignStmt.X)
	}
	ret := fn.Body.Stmts[1].(*ast.Return)
	bin, ok := ret.Value.(*ast.BinaryOp)
	if !ok || bin.Op != ast.Eq {
		t.Fatalf("expected an == comparison, got %#v", ret.Value)
	}
}

func TestArrayAssignAndArrayIndexShareOneProduction(t *testing.T) {
	low, bag := parse(t, `
int f() {
	int a[3];
	a[0] = a[1] + 2;
	return 0;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	fn := low.decls[0].(*ast.FnDef)
	es := fn.Body.Stmts[0].(*ast.ExprStmt)
	aa, ok := es.X.(*ast.ArrayAssign)
	if !ok || aa.Target.Name != "a" {
		t.Fatalf("expected ArrayAssign, got %#v", es.X)
	}
	bin := aa.Value.(*ast.BinaryOp)
	if _, ok := bin.Left.(*ast.ArrayIndex); !ok {
		t.Fatalf("expected ArrayIndex operand, got %#v", bin.Left)
	}
}

func TestShortCircuitOperatorsParseAsBinaryOps(t *testing.T) {
	low, bag := parse(t, `
int f(bool a, bool b) {
	return a && b || !a;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	fn := low.decls[0].(*ast.FnDef)
	ret := fn.Body.Stmts[0].(*ast.Return)
	top, ok := ret.Value.(*ast.BinaryOp)
	if !ok || top.Op != ast.Or {
		t.Fatalf("expected top-level ||, got %#v", ret.Value)
	}
	left, ok := top.Left.(*ast.BinaryOp)
	if !ok || left.Op != ast.And {
		t.Fatalf("expected && on the left of ||, got %#v", top.Left)
	}
	if _, ok := top.Right.(*ast.UnaryOp); !ok {
		t.Fatalf("expected unary ! on the right of ||, got %#v", top.Right)
	}
}

func TestAssignmentInConditionIsRejected(t *testing.T) {
	_, bag := parse(t, `
int f() {
	int x;
	if (x = 1) {
		return 1;
	}
	return 0;
}
`)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for assignment used as a condition")
	}
	found := false
	for _, d := range bag.All() {
		if d.Class == diag.Syntax && strings.Contains(d.Message, "==") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a '==' suggestion, got %v", bag.All())
	}
}

func TestEmptyStatementIsRejected(t *testing.T) {
	_, bag := parse(t, `
int f() {
	;
	return 0;
}
`)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for an empty statement")
	}
}

func TestArrayParameterDecayIsRecordedSyntactically(t *testing.T) {
	low, bag := parse(t, `
int sum(int a[10][5]) {
	return a[0][0];
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	fn := low.decls[0].(*ast.FnDef)
	p := fn.Proto.Params[0]
	if p.Name != "a" || len(p.Dims) != 2 || p.Dims[0] != 10 || p.Dims[1] != 5 {
		t.Fatalf("param = %#v", p)
	}
}

func TestMoreThanThreeArrayDimensionsIsRejected(t *testing.T) {
	_, bag := parse(t, `
int a[2][2][2][2];
`)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for more than 3 array dimensions")
	}
}

func TestVoidParameterListMeansZeroParams(t *testing.T) {
	low, bag := parse(t, `
int f(void) {
	return 0;
}
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	fn := low.decls[0].(*ast.FnDef)
	if len(fn.Proto.Params) != 0 {
		t.Fatalf("expected 0 params, got %d", len(fn.Proto.Params))
	}
}

func TestSyntaxErrorRecoversToNextTopLevelDecl(t *testing.T) {
	low, bag := parse(t, `
int a[ ;

int f() {
	return 0;
}
`)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic from the malformed array decl")
	}
	found := false
	for _, d := range low.decls {
		if fn, ok := d.(*ast.FnDef); ok && fn.Proto.Name == "f" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected parsing to recover and still find function f")
	}
}
