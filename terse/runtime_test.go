package terse

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runSource(t *testing.T, source string) *Result {
	t.Helper()
	return runSourceWith(t, source, Config{})
}

func runSourceWith(t *testing.T, source string, cfg Config) *Result {
	t.Helper()
	result, err := RunScript(context.Background(), source, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func runFailure(t *testing.T, source string, cfg Config) *Error {
	t.Helper()
	_, err := RunScript(context.Background(), source, cfg)
	if err == nil {
		t.Fatalf("expected error for:\n%s", source)
	}
	var scriptErr *Error
	if !errors.As(err, &scriptErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return scriptErr
}

func expectOutput(t *testing.T, source string, want ...string) {
	t.Helper()
	result := runSource(t, source)
	if diff := cmp.Diff(want, result.Output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func global(t *testing.T, result *Result, name string) Value {
	t.Helper()
	val, ok := result.Globals.Get(name)
	if !ok {
		t.Fatalf("global %s not bound", name)
	}
	return val
}

func TestDoubleFunction(t *testing.T) {
	result := runSource(t, "FUNC DOUBLE n\n RETURN n*2\n END\n x = DOUBLE 5")
	if x := global(t, result, "x"); x.Kind() != KindNumber || x.Number() != 10 {
		t.Fatalf("expected 10, got %v", x)
	}
}

func TestPrintOrder(t *testing.T) {
	expectOutput(t, "PRINT \"A\"\nPRINT \"B\"", "A", "B")
}

func TestSliceNegativeIndexes(t *testing.T) {
	expectOutput(t, "arr = [1,2,3]\nPRINT SLICE arr -2 -1", "2,3")
}

func TestArrayAliasing(t *testing.T) {
	result := runSource(t, "a = [1]\nb = a\nPUSH b 2")
	a := global(t, result, "a")
	b := global(t, result, "b")
	if a.Array() != b.Array() {
		t.Fatalf("expected a and b to share one array")
	}
	if diff := cmp.Diff([]any{1.0, 2.0}, a.Native()); diff != "" {
		t.Fatalf("array mismatch (-want +got):\n%s", diff)
	}
}

func TestAliasingThroughFunctionArguments(t *testing.T) {
	expectOutput(t, `FUNC FILL arr m
  PUSH arr 9
  m.seen = TRUE
  arr[1] = 0
END
xs = [1]
opts = {}
FILL xs opts
PRINT xs
PRINT opts.seen`, "0,9", "TRUE")
}

func TestForLoopIterationCount(t *testing.T) {
	tests := []struct {
		from, to int
		want     float64
	}{
		{1, 1, 1},
		{2, 5, 4},
		{5, 2, 4},
		{0, -3, 4},
		{-2, 2, 5},
	}
	for _, tt := range tests {
		source := "a = " + formatNumber(float64(tt.from)) + "\nb = " + formatNumber(float64(tt.to)) + "\nn = 0\nFOR i FROM a TO b\n  n = n + 1\nEND"
		result := runSource(t, source)
		if n := global(t, result, "n").Number(); n != tt.want {
			t.Fatalf("FROM %d TO %d: expected %v iterations, got %v", tt.from, tt.to, tt.want, n)
		}
	}
}

func TestForLoopCountsDown(t *testing.T) {
	expectOutput(t, "FOR i FROM 3 TO -1\n  PRINT i\nEND", "3", "2", "1", "0", "-1")
}

func TestScopeRules(t *testing.T) {
	result := runSource(t, `x = 1
IF TRUE
  x = 2
END
FOR i FROM 1 TO 2
  inner = i
END
FUNC SETX
  x = 99
  RETURN x
END
FUNC GETX
  RETURN x
END
y = SETX
z = GETX`)

	if x := global(t, result, "x").Number(); x != 2 {
		t.Fatalf("expected caller x to stay 2, got %v", x)
	}
	if y := global(t, result, "y").Number(); y != 99 {
		t.Fatalf("expected function-local x 99, got %v", y)
	}
	if z := global(t, result, "z").Number(); z != 2 {
		t.Fatalf("expected function to read global x 2, got %v", z)
	}
	if inner := global(t, result, "inner").Number(); inner != 2 {
		t.Fatalf("expected loop variable visible after loop, got %v", inner)
	}
	if i := global(t, result, "i").Number(); i != 2 {
		t.Fatalf("expected iterator left at 2, got %v", i)
	}
}

func TestGlobalAssignmentFromFunction(t *testing.T) {
	expectOutput(t, "FUNC SETG\n  GLOBAL g = 5\nEND\nSETG\nPRINT g", "5")
}

func TestUnsetVariableIsNull(t *testing.T) {
	expectOutput(t, "PRINT missing", "NULL")
}

func TestImplicitStackFillsLeadingArguments(t *testing.T) {
	engine := MustNewEngine(Config{})
	engine.RegisterBuiltin("F", 2, func(exec *Execution, args []Value) (Value, error) {
		return NewArray(args), nil
	})
	script, err := engine.Compile("5\n3\nr = F")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	result, err := script.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if diff := cmp.Diff([]any{5.0, 3.0}, global(t, result, "r").Native()); diff != "" {
		t.Fatalf("F args mismatch (-want +got):\n%s", diff)
	}
}

func TestImplicitStackWithUserFunctions(t *testing.T) {
	result := runSource(t, `FUNC SUB a b
  RETURN a - b
END
10
4
r1 = SUB
10
r2 = SUB 3
7
x = IT
y = IT`)

	tests := []struct {
		name string
		want Value
	}{
		{"r1", NewNumber(6)},
		{"r2", NewNumber(7)},
		{"x", NewNumber(7)},
		{"y", NewNull()},
	}
	for _, tt := range tests {
		if got := global(t, result, tt.name); !got.Equal(tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestExpressionStatementsFeedTheStack(t *testing.T) {
	expectOutput(t, "FUNC SUB a b\n  RETURN a - b\nEND\n10\n4\nPRINT SUB\nPRINT IT", "6", "6")
}

func TestImplicitStackExhausted(t *testing.T) {
	err := runFailure(t, "FUNC SUB a b\n  RETURN a - b\nEND\n1\nr = SUB", Config{})
	if err.Kind != ErrArity {
		t.Fatalf("expected arity error, got %v", err)
	}
}

func TestUnknownFunctionOverride(t *testing.T) {
	expectOutput(t, "FUNC UPPER s\n  RETURN \"custom\"\nEND\nPRINT UPPER \"x\"", "custom")
}

func TestFunctionFallsOffEndReturnsNull(t *testing.T) {
	expectOutput(t, "FUNC F\n  1\nEND\nPRINT F", "NULL")
}

func TestRecursion(t *testing.T) {
	result := runSource(t, `FUNC FACT n
  IF n <= 1
    RETURN 1
  END
  RETURN n * FACT (n - 1)
END
x = FACT 5`)
	if x := global(t, result, "x").Number(); x != 120 {
		t.Fatalf("expected 120, got %v", x)
	}
}

func TestNestedFunctionDeclarationsAreRegistered(t *testing.T) {
	expectOutput(t, "IF FALSE\n  FUNC HIDDEN\n    RETURN 7\n  END\nEND\nPRINT HIDDEN", "7")
}

func TestOperators(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`"a" + 1`, "a1"},
		{`1 + "a"`, "1a"},
		{`1 + TRUE`, "2"},
		{`NULL + 1`, "1"},
		{`"5" * "2"`, "10"},
		{`" 3 " - 1`, "2"},
		{`"abc" - 1`, "-1"},
		{`10 / 4`, "2.5"},
		{`1 / 0`, "Infinity"},
		{`0.1 + 0.2`, "0.30000000000000004"},
		{`"10" > 9`, "TRUE"},
		{`"abc" > -1`, "TRUE"},
		{`2 >= 2`, "TRUE"},
		{`NULL IS NULL`, "TRUE"},
		{`1 IS "1"`, "FALSE"},
		{`"a" == "a"`, "TRUE"},
		{`[1] IS [1]`, "FALSE"},
		{`1 ISNT 2`, "TRUE"},
		{`NULL != FALSE`, "TRUE"},
		{`NOT 0`, "TRUE"},
		{`NOT ""`, "TRUE"},
		{`NOT []`, "FALSE"},
		{`-"4"`, "-4"},
		{`1 AND "a"`, "TRUE"},
		{`0 OR NULL`, "FALSE"},
		{`(1 + 2) * 3`, "9"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expectOutput(t, "x = "+tt.expr+"\nPRINT x", tt.want)
		})
	}
}

func TestIdentityEquality(t *testing.T) {
	expectOutput(t, "a = [1]\nb = a\nm = {}\nPRINT (a IS b)\nPRINT (m IS m)\nPRINT (m IS {})", "TRUE", "TRUE", "FALSE")
}

func TestShortCircuit(t *testing.T) {
	expectOutput(t, "arr = [1, 2]\nx = FALSE AND POP arr\ny = TRUE OR POP arr\nPRINT LEN arr", "2")
}

func TestIndexAndMemberReads(t *testing.T) {
	expectOutput(t, `s = "héllo"
arr = [10, 20]
m = {a: 1, "b c": [5]}
PRINT s[2]
PRINT s[9]
PRINT arr[0]
PRINT arr[2.9]
PRINT arr[3]
PRINT m.a
PRINT m.zzz
PRINT m["a"]
PRINT arr.length
n = 5
PRINT n[1]`,
		"é", "NULL", "NULL", "20", "NULL", "1", "NULL", "NULL", "NULL", "NULL")
}

func TestAssignmentWrites(t *testing.T) {
	expectOutput(t, `arr = [1]
arr[3] = 5
PRINT arr
m = {a: 1}
m.b = 2
m.a = 3
PRINT LEN m
FOR EACH k v IN m
  PRINT (k + v)
END`, "1,NULL,5", "2", "a3", "b2")
}

func TestAssignmentErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "index zero", source: "arr = [1]\narr[0] = 2"},
		{name: "index into string", source: "s = \"x\"\ns[1] = \"y\""},
		{name: "member on number", source: "n = 1\nn.x = 2"},
		{name: "member on array", source: "a = []\na.x = 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runFailure(t, tt.source, Config{})
			if err.Kind != ErrAssign {
				t.Fatalf("expected assignment error, got %v", err)
			}
			if err.Pos.Line != 2 {
				t.Fatalf("expected line 2, got %d", err.Pos.Line)
			}
		})
	}
}

func TestForEach(t *testing.T) {
	expectOutput(t, `total = 0
FOR EACH v IN [1, 2, 3]
  total = total + v
END
PRINT total
FOR EACH i v IN ["a", "b"]
  PRINT (i + v)
END
FOR EACH k v IN {x: 1, y: 2}
  PRINT (k + "=" + v)
END
FOR EACH v IN 42
  PRINT "never"
END`, "6", "1a", "2b", "x=1", "y=2")
}

func TestForEachSeesArrayGrowth(t *testing.T) {
	expectOutput(t, `arr = [1]
FOR EACH v IN arr
  IF v < 3
    PUSH arr (v + 1)
  END
END
PRINT arr`, "1,2,3")
}

func TestMultiLineStringLiteral(t *testing.T) {
	expectOutput(t, "msg = STRING\nhello\n  world\nEND\nPRINT msg\nPRINT STRING a \"b\" # c", "hello\n  world", `a "b"`)
}

func TestStepQuota(t *testing.T) {
	err := runFailure(t, "WHILE TRUE\nEND", Config{StepQuota: 100})
	if err.Kind != ErrLimit {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestRecursionLimit(t *testing.T) {
	err := runFailure(t, "FUNC R n\n  RETURN R n\nEND\nR 1", Config{RecursionLimit: 10})
	if err.Kind != ErrLimit {
		t.Fatalf("expected limit error, got %v", err)
	}
	if len(err.Frames) == 0 {
		t.Fatalf("expected stack frames")
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunScript(ctx, "x = 1", Config{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStdoutStreaming(t *testing.T) {
	var buf bytes.Buffer
	runSourceWith(t, "PRINT 1\nPRINT \"two\"", Config{Stdout: &buf})
	if got := buf.String(); got != "1\ntwo\n" {
		t.Fatalf("unexpected stream %q", got)
	}
}

func TestScriptRunsAreIndependent(t *testing.T) {
	engine := MustNewEngine(Config{})
	script, err := engine.Compile("PRINT (LEN seen)\nseen = [1]")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		result, err := script.Run(context.Background())
		if err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
		if diff := cmp.Diff([]string{"0"}, result.Output); diff != "" {
			t.Fatalf("run %d output mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestOneLineFunctionDefinition(t *testing.T) {
	expectOutput(t, "FUNC SQ x; RETURN x * x; END\nPRINT SQ 7", "49")
}
