package lower

import (
	"strings"
	"testing"

	"minicc/internal/diag"
	"minicc/internal/lexer"
	"minicc/internal/parser"
)

// compile runs source through the lexer, parser, and lowerer exactly as
// cmd/mccomp does, and returns the accumulated diagnostics plus the
// printed text of the module as lowering left it (printed even when
// diagnostics were recorded).
func compile(t *testing.T, src string) (*diag.Bag, string) {
	t.Helper()
	bag := diag.NewBag("test.mc")
	ts := lexer.NewTokenStream(lexer.New(src))
	lines := strings.Split(src, "\n")
	low := New("test.mc", bag, nil)
	p := parser.New(ts, bag, "test.mc", lines)
	p.ParseProgram(low)
	return bag, low.Module().String()
}

func mustCompileClean(t *testing.T, src string) string {
	t.Helper()
	bag, ir := compile(t, src)
	if bag.HasErrors() {
		for _, d := range bag.All() {
			t.Logf("diagnostic: %s", d)
		}
		t.Fatalf("expected a clean compile, got %d diagnostic(s)", bag.Count())
	}
	return ir
}

func mustHaveError(t *testing.T, src string, want diag.Class) {
	t.Helper()
	bag, _ := compile(t, src)
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic, got a clean compile")
	}
	for _, d := range bag.All() {
		if d.Class == want {
			return
		}
	}
	t.Fatalf("expected a %s diagnostic, got: %v", want, bag.All())
}

func TestMutualRecursionCompilesClean(t *testing.T) {
	src := `
	extern bool isEven(int n);
	bool isOdd(int n) {
		if (n == 0) {
			return false;
		}
		return isEven(n - 1);
	}
	bool isEven(int n) {
		if (n == 0) {
			return true;
		}
		return isOdd(n - 1);
	}
	int main() {
		return isEven(10);
	}
	`
	ir := mustCompileClean(t, src)
	if !strings.Contains(ir, "define i1 @isEven(i32 %n)") {
		t.Errorf("expected isEven's signature in IR, got:\n%s", ir)
	}
}

func TestRedefiningAFunctionIsRejected(t *testing.T) {
	src := `
	int f() { return 1; }
	int f() { return 2; }
	int main() { return f(); }
	`
	mustHaveError(t, src, diag.Scope)
}

func TestFunctionRedeclaredWithDifferentSignatureIsRejected(t *testing.T) {
	src := `
	extern int f(int a);
	float f(int a) { return 1.0; }
	int main() { return 0; }
	`
	mustHaveError(t, src, diag.Type)
}

func TestRepeatedExternPrototypeIsHarmless(t *testing.T) {
	src := `
	extern int f(int a);
	extern int f(int a);
	int main() {
		return f(1);
	}
	`
	mustCompileClean(t, src)
}

func TestIllegalCharacterIsLexicalError(t *testing.T) {
	src := `
	int main() {
		int a;
		a = 1 # 2;
		return a;
	}
	`
	bag, _ := compile(t, src)
	found := false
	for _, d := range bag.All() {
		if d.Class == diag.Lexical {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Lexical diagnostic for '#', got: %v", bag.All())
	}
}

func TestShortCircuitAndLowersToBranchesAndPhi(t *testing.T) {
	src := `
	extern int sideEffect(int x);
	int main() {
		int a;
		a = 0;
		if (a > 0 && sideEffect(a) > 0) {
			return 1;
		}
		return 0;
	}
	`
	ir := mustCompileClean(t, src)
	if !strings.Contains(ir, "and.rhs") || !strings.Contains(ir, "and.end") {
		t.Errorf("expected short-circuit block labels in IR, got:\n%s", ir)
	}
	if !strings.Contains(ir, "phi i1") {
		t.Errorf("expected a phi i1 merging the short-circuit result, got:\n%s", ir)
	}
}

func TestWideningReturnValue(t *testing.T) {
	src := `
	float main() {
		int x;
		x = 3;
		return x;
	}
	`
	ir := mustCompileClean(t, src)
	if !strings.Contains(ir, "sitofp") {
		t.Errorf("expected an int-to-float widening conversion, got:\n%s", ir)
	}
}

func TestNarrowingReturnIsRejected(t *testing.T) {
	src := `
	int main() {
		float x;
		x = 3.0;
		return x;
	}
	`
	mustHaveError(t, src, diag.Type)
}

func Test2DArrayIndexEmitsLeadingZeroGEP(t *testing.T) {
	src := `
	int grid[4][4];
	int main() {
		grid[1][2] = 7;
		return grid[1][2];
	}
	`
	ir := mustCompileClean(t, src)
	if !strings.Contains(ir, "getelementptr") {
		t.Errorf("expected a getelementptr for the array access, got:\n%s", ir)
	}
}

func TestArrayParameterDecayAtCallSite(t *testing.T) {
	src := `
	int sum(int a[5], int n) {
		int i;
		int total;
		i = 0;
		total = 0;
		while (i < n) {
			total = total + a[i];
			i = i + 1;
		}
		return total;
	}
	int main() {
		int xs[5];
		return sum(xs, 5);
	}
	`
	ir := mustCompileClean(t, src)
	if !strings.Contains(ir, "define i32 @sum(i32* %a, i32 %n)") {
		t.Errorf("expected a[5] to decay to i32*, got:\n%s", ir)
	}
}

func TestDivisionByLiteralZeroIsRejected(t *testing.T) {
	src := `
	int main() {
		return 1 / 0;
	}
	`
	mustHaveError(t, src, diag.Semantic)
}

func TestModuloByLiteralZeroIsRejected(t *testing.T) {
	src := `
	int main() {
		return 1 % 0;
	}
	`
	mustHaveError(t, src, diag.Semantic)
}

func TestDivisionByRuntimeZeroIsNotCaught(t *testing.T) {
	src := `
	int main() {
		int z;
		z = 0;
		return 1 / z;
	}
	`
	mustCompileClean(t, src)
}

func TestMissingMainIsSemanticError(t *testing.T) {
	src := `
	int notMain() {
		return 0;
	}
	`
	mustHaveError(t, src, diag.Semantic)
}

func TestUndeclaredIdentifierSuggestsNearMiss(t *testing.T) {
	src := `
	int main() {
		int count;
		count = 0;
		return coutn;
	}
	`
	bag, _ := compile(t, src)
	found := false
	for _, d := range bag.All() {
		if d.Class == diag.Scope && strings.Contains(d.Message, "count") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a did-you-mean suggestion for 'coutn', got: %v", bag.All())
	}
}

func TestShadowingParameterIsRejected(t *testing.T) {
	src := `
	int f(int n) {
		int n;
		return n;
	}
	int main() {
		return f(1);
	}
	`
	mustHaveError(t, src, diag.Scope)
}

func TestAssigningToWholeArrayIsRejected(t *testing.T) {
	src := `
	int main() {
		int xs[3];
		int ys[3];
		xs = ys;
		return 0;
	}
	`
	mustHaveError(t, src, diag.Type)
}

func TestFunctionFallsOffEndWithoutReturnIsRejected(t *testing.T) {
	src := `
	int f() {
		int x;
		x = 1;
	}
	int main() {
		return f();
	}
	`
	mustHaveError(t, src, diag.Semantic)
}

func TestVoidFunctionFallsOffEndIsFine(t *testing.T) {
	src := `
	void f() {
		int x;
		x = 1;
	}
	int main() {
		f();
		return 0;
	}
	`
	mustCompileClean(t, src)
}

func TestArgumentCountMismatchIsSemanticError(t *testing.T) {
	src := `
	extern int f(int a, int b);
	int main() {
		return f(1);
	}
	`
	mustHaveError(t, src, diag.Semantic)
}
