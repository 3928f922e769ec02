package opl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func runScriptWith(t *testing.T, cfg Config, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cfg.Stdout = &out
	if cfg.Stdin == nil {
		cfg.Stdin = strings.NewReader("")
	}
	engine := MustNewEngine(cfg)
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	err = script.Run(context.Background())
	return out.String(), err
}

func runScript(t *testing.T, source string) (string, error) {
	t.Helper()
	return runScriptWith(t, Config{}, source)
}

func mustRun(t *testing.T, source string) string {
	t.Helper()
	out, err := runScript(t, source)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out
}

func requireErrorKind(t *testing.T, err error, kind ErrorKind) *RuntimeError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	return re
}

func TestScenarioFunctionCall(t *testing.T) {
	out := mustRun(t, `def add(a,b){ return a+b; } Print(add(2,3));`)
	if out != "5" {
		t.Fatalf("expected 5, got %q", out)
	}
}

func TestScenarioIndependentScalarFields(t *testing.T) {
	out := mustRun(t, `
class Counter {
  let count:Int = 0;
  def inc() { count = count + 1; }
}
let c1 = new Counter();
let c2 = new Counter();
c1.inc();
Print(c1.count, c2.count);
`)
	if out != "10" {
		t.Fatalf("expected 10, got %q", out)
	}
}

func TestScenarioContinueRunsAdvanceStep(t *testing.T) {
	out := mustRun(t, `for(let i:Int=0; i<3; i++){ if(i==1){ continue; } Println(i); }`)
	if out != "0\n2\n" {
		t.Fatalf("expected 0 and 2, got %q", out)
	}
}

func TestScenarioAppendThroughThis(t *testing.T) {
	out := mustRun(t, `
let arr = [1, 2, 3];
let grown = arr.Append(4);
Println(arr);
Println(grown);
grown[0] = 9;
Println(arr);
`)
	want := "[1, 2, 3, 4]\n[1, 2, 3, 4]\n[1, 2, 3, 4]\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestIncrementKeepsTargetKind(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"prefix integer", `let x = 5; let y = ++x; Print(x, " ", y);`, "6 6"},
		{"prefix float", `let x = 5.0; let y = ++x; Print(x, " ", y);`, "6.0 6.0"},
		{"postfix integer", `let x = 5; let y = x++; Print(x, " ", y);`, "6 5"},
		{"postfix decrement", `let x = 5; let y = x--; Print(x, " ", y);`, "4 5"},
		{"prefix decrement float", `let x = 2.5; Print(--x);`, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.source); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPostfixResultIsIndependentOfTarget(t *testing.T) {
	out := mustRun(t, `let a = [1]; let old = a[0]++; Print(old, a[0]);`)
	if out != "12" {
		t.Fatalf("expected 12, got %q", out)
	}
}

func TestBreakStopsLoopImmediately(t *testing.T) {
	out := mustRun(t, `
let i = 0;
while (true) {
  i += 1;
  if (i == 3) { break; }
  Println(i);
}
Println("done ", i);
`)
	if out != "1\n2\ndone 3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBreakOnlyLeavesInnermostLoop(t *testing.T) {
	out := mustRun(t, `
for (let i:Int = 0; i < 2; i++) {
  for (let j:Int = 0; j < 5; j++) {
    if (j == 1) { break; }
    Print(i, j, " ");
  }
}
`)
	if out != "00 10 " {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWhileContinueRetestsCondition(t *testing.T) {
	out := mustRun(t, `
let i = 0;
while (i < 5) {
  i++;
  if (i % 2 == 0) { continue; }
  Print(i);
}
`)
	if out != "135" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestReturnPropagatesOutOfLoops(t *testing.T) {
	out := mustRun(t, `
def find(limit) {
  for (let i:Int = 0; i < limit; i++) {
    while (true) {
      if (i == 4) { return i; }
      break;
    }
  }
  return -1;
}
Println(find(10));
Println(find(3));
`)
	if out != "4\n-1\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatementsAfterReturnDoNotRun(t *testing.T) {
	out := mustRun(t, `def f() { Print("a"); return 1; Print("b"); } f();`)
	if out != "a" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTopLevelReturnStopsProgram(t *testing.T) {
	out := mustRun(t, `Print("a"); return; Print("b");`)
	if out != "a" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStringOperators(t *testing.T) {
	out := mustRun(t, `
Println("ab" * 3 == "ababab");
Println("ab" + "ab" == "abab");
Println(Length([1, 2, 3]) == 3);
Println("x" * 0, "|", "x" * -2, "|");
Println("n=" + 5 + " f=" + 1.5);
`)
	want := "True\nTrue\nTrue\n||\nn=5 f=1.5\n"
	if out != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStringElementAssignment(t *testing.T) {
	out := mustRun(t, `
let s = "abc";
let alias = s;
s[1] = "x";
Println(s);
Println(alias);
Println(s[2]);
`)
	if out != "axc\naxc\nc\n" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err := runScript(t, `let s = "abc"; s[0] = "xy";`)
	requireErrorKind(t, err, TypeMismatch)

	_, err = runScript(t, `let s = "abc"; s[0] = 1;`)
	requireErrorKind(t, err, TypeMismatch)
}

func TestPlainAssignmentCopies(t *testing.T) {
	out := mustRun(t, `
let a = [1, 2];
let b = [0];
b = a;
b[0] = 9;
Println(a);
let c = a;
c[1] = 7;
Println(a);
let s = "hi";
let t = "";
t = s;
t[0] = "H";
Println(s, t);
`)
	if out != "[1, 2]\n[1, 7]\nhiHi\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCompoundAssignment(t *testing.T) {
	out := mustRun(t, `
let x = 10;
x += 5; Print(x, " ");
x -= 3; Print(x, " ");
x *= 2; Print(x, " ");
x /= 5; Print(x, " ");
x %= 3; Print(x, " ");
x <<= 4; Print(x, " ");
x >>= 2; Print(x, " ");
let s = "a";
s += "b";
Print(s);
`)
	if out != "15 12 24 4 1 16 4 ab" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNumericSemantics(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"7 / 2", "3"},
		{"1 + 2.9", "3"},
		{"1.5 + 1", "2.5"},
		{"2.0 * 3", "6.0"},
		{"1.0 / 4", "0.25"},
		{"6 & 3", "2"},
		{"6 | 3", "7"},
		{"1 << 4", "16"},
		{"-16 >> 2", "-4"},
		{"~0", "-1"},
		{"-7 % 3", "-1"},
		{"2147483647 + 1", "-2147483648"},
		{"1 == 1.0", "False"},
		{"1.0 == 1.00", "True"},
		{"3 > 2", "True"},
		{"2.5 <= 2", "False"},
		{"null == null", "True"},
		{"1 != null", "True"},
		{"-(2 + 3)", "-5.0"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"1 + 2 << 1", "5"},
		{"!(1 < 2) || 2 > 1 && true", "True"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := mustRun(t, "Print("+tt.expr+");")
			if got != tt.want {
				t.Fatalf("%s: expected %q, got %q", tt.expr, tt.want, got)
			}
		})
	}
}

func TestLogicalOperatorsEvaluateBothSides(t *testing.T) {
	out := mustRun(t, `
def side() { Print("side "); return true; }
let r = false && side();
Print(r);
`)
	if out != "side False" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestOperatorErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   ErrorKind
	}{
		{`true + 1;`, OperatorNotSupported},
		{`[1] + [2];`, OperatorNotSupported},
		{`null < 1;`, OperatorNotSupported},
		{`1.5 % 2;`, OperatorNotSupported},
		{`"a" - "b";`, OperatorNotSupported},
		{`~1.5;`, OperatorNotSupported},
		{`!1;`, OperatorNotSupported},
		{`[1] == [1];`, OperatorNotSupported},
		{`1 + "a";`, TypeMismatch},
		{`"a" + true;`, TypeMismatch},
		{`"a" * 1.5;`, TypeMismatch},
		{`true && 1;`, TypeMismatch},
		{`1 / 0;`, DivisionByZero},
		{`1 % 0;`, DivisionByZero},
		{`99999999999 + 1;`, InvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := runScript(t, tt.source)
			requireErrorKind(t, err, tt.kind)
		})
	}
}

func TestFloatDivisionByZeroIsInfinite(t *testing.T) {
	out := mustRun(t, `Print(1.0 / 0);`)
	if out != "+Inf" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConditionMustBeBool(t *testing.T) {
	for _, source := range []string{
		`if (1) { Print("x"); }`,
		`while (null) { }`,
		`for (let i = 0; i; i++) { }`,
	} {
		_, err := runScript(t, source)
		requireErrorKind(t, err, TypeMismatch)
	}
}

func TestDeclarationAndShadowing(t *testing.T) {
	_, err := runScript(t, `let a = 1; let a = 2;`)
	re := requireErrorKind(t, err, DoubleDefinition)
	if !strings.Contains(re.Message, "'a'") {
		t.Fatalf("expected name in message, got %q", re.Message)
	}

	out := mustRun(t, `
let a = 1;
{
  let a = 2;
  Println(a);
}
if (true) { let a = 3; Println(a); }
Println(a);
`)
	if out != "2\n3\n1\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestUndefinedNames(t *testing.T) {
	_, err := runScript(t, `Println(missing);`)
	re := requireErrorKind(t, err, UndefinedName)
	if !strings.Contains(re.Message, "missing") {
		t.Fatalf("expected missing name in message, got %q", re.Message)
	}

	_, err = runScript(t, `missing = 1;`)
	re = requireErrorKind(t, err, UndefinedName)
	if !strings.Contains(re.Message, "missing") {
		t.Fatalf("expected missing name in message, got %q", re.Message)
	}

	_, err = runScript(t, `let x = 1; x += y;`)
	requireErrorKind(t, err, UndefinedName)
}

func TestAssignmentUpdatesEnclosingScope(t *testing.T) {
	out := mustRun(t, `
let total = 0;
for (let i:Int = 1; i <= 4; i++) { total += i; }
Print(total);
`)
	if out != "10" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLoopVariablesAreScopedToTheLoop(t *testing.T) {
	_, err := runScript(t, `for (let i:Int = 0; i < 1; i++) { } Print(i);`)
	requireErrorKind(t, err, UndefinedName)

	out := mustRun(t, `
for (let i:Int = 0; i < 2; i++) { let inner = i; Print(inner); }
for (let i:Int = 5; i < 6; i++) { Print(i); }
`)
	if out != "015" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestArityMismatchStopsBeforeBody(t *testing.T) {
	out, err := runScript(t, `def f(a) { Println("ran"); } f(1, 2);`)
	re := requireErrorKind(t, err, ArityMismatch)
	if out != "" {
		t.Fatalf("body ran before arity check: %q", out)
	}
	if !strings.Contains(re.Message, "expects 1 arguments, got 2") {
		t.Fatalf("unexpected message %q", re.Message)
	}

	out, err = runScript(t, `def f(a, b) { Println("ran"); } f();`)
	requireErrorKind(t, err, ArityMismatch)
	if out != "" {
		t.Fatalf("body ran before arity check: %q", out)
	}

	_, err = runScript(t, `Length();`)
	requireErrorKind(t, err, ArityMismatch)
}

func TestCallsSeeGlobalsButNotCallerLocals(t *testing.T) {
	out := mustRun(t, `
let g = 1;
def readGlobal() { return g; }
def bumpGlobal() { g = g + 1; }
bumpGlobal();
Print(readGlobal());
`)
	if out != "2" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err := runScript(t, `
def inner() { return local; }
def outer() { let local = 5; return inner(); }
outer();
`)
	requireErrorKind(t, err, UndefinedName)
}

func TestLambdas(t *testing.T) {
	out := mustRun(t, `
let square = $(x:Int) -> Int { return x * x; };
def apply(f, v) { return f(v); }
Print(square(4), " ", apply(square, 3), " ", apply($(s) { return s + "!"; }, "hi"));
`)
	if out != "16 9 hi!" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err := runScript(t, `
def make() { let k = 3; return $(x) { return x + k; }; }
let f = make();
f(1);
`)
	requireErrorKind(t, err, UndefinedName)
}

func TestRecursion(t *testing.T) {
	out := mustRun(t, `
def fact(n) {
  if (n <= 1) { return 1; }
  return n * fact(n - 1);
}
Print(fact(10));
`)
	if out != "3628800" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRecursionLimit(t *testing.T) {
	_, err := runScriptWith(t, Config{RecursionLimit: 50}, `def down(n) { return down(n + 1); } down(0);`)
	re := requireErrorKind(t, err, StackOverflow)
	if len(re.Frames) < 50 {
		t.Fatalf("expected call frames in error, got %d", len(re.Frames))
	}
	if !strings.Contains(re.Error(), "frames omitted") {
		t.Fatalf("expected frame elision in %q", re.Error())
	}
}

func TestStepQuota(t *testing.T) {
	_, err := runScriptWith(t, Config{StepQuota: 500}, `while (true) { }`)
	requireErrorKind(t, err, StepQuotaExceeded)
}

func TestCancelledContextStopsRun(t *testing.T) {
	engine := MustNewEngine(Config{Stdout: &bytes.Buffer{}})
	script, err := engine.Compile(`while (true) { }`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := script.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCallingNonFunction(t *testing.T) {
	_, err := runScript(t, `let x = 1; x();`)
	requireErrorKind(t, err, TypeMismatch)
}

func TestIndexErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   ErrorKind
	}{
		{`let a = [1]; Print(a["0"]);`, IndexNotInteger},
		{`let a = [1]; a[0.0] = 2;`, IndexNotInteger},
		{`let a = [1]; Print(a[1]);`, IndexOutOfRange},
		{`let a = [1]; a[-1] = 2;`, IndexOutOfRange},
		{`let s = "ab"; Print(s[2]);`, IndexOutOfRange},
		{`let n = 3; Print(n[0]);`, OperatorNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := runScript(t, tt.source)
			requireErrorKind(t, err, tt.kind)
		})
	}
}

func TestMemberAccessOnNonObject(t *testing.T) {
	for _, source := range []string{
		`let n = 5; n.x = 1;`,
		`let n = 5; Print(n.x);`,
		`let n = 5; n.Append(1);`,
		`let a = [1]; Print(a.Append);`,
		`let a = [1]; a.Missing();`,
	} {
		_, err := runScript(t, source)
		requireErrorKind(t, err, MemberAccessOnNonObject)
	}
}

type unknownStmt struct{}

func (unknownStmt) stmtNode()     {}
func (unknownStmt) Pos() Position { return Position{Line: 1, Column: 1} }

func TestUnknownNode(t *testing.T) {
	engine := MustNewEngine(Config{Stdout: &bytes.Buffer{}})
	script := &Script{engine: engine, program: &Program{Statements: []Statement{unknownStmt{}}}}
	err := script.Run(context.Background())
	requireErrorKind(t, err, UnknownNode)
}

func TestRuntimeErrorRendering(t *testing.T) {
	_, err := runScript(t, "def add(a, b) {\n  return a + b;\n}\nadd(1, true);\n")
	re := requireErrorKind(t, err, TypeMismatch)
	msg := re.Error()
	for _, want := range []string{
		"TypeMismatch:",
		"--> line 2, column 12",
		"return a + b;",
		"at add (2:12)",
		"at add (4:4)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error:\n%s", want, msg)
		}
	}
}

func TestImportIsIgnored(t *testing.T) {
	out := mustRun(t, `import "std/io"; Print("ok");`)
	if out != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNestedFunctionDeclaresInCallFrame(t *testing.T) {
	out := mustRun(t, `
def outer() {
  def helper() { return 2; }
  return helper();
}
Print(outer(), outer());
`)
	if out != "22" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err := runScript(t, `def f() { } def f() { }`)
	requireErrorKind(t, err, DoubleDefinition)
}
