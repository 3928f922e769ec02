package opl

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func dumpString(t *testing.T, program *Program) string {
	t.Helper()
	var b strings.Builder
	if err := Dump(&b, program); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	return b.String()
}

func requireParseError(t *testing.T, source, fragment string) *ParseError {
	t.Helper()
	_, err := Parse(source)
	if err == nil {
		t.Fatalf("expected parse error for %q", source)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if !strings.Contains(perr.Msg, fragment) {
		t.Fatalf("expected %q in parse error, got %q", fragment, perr.Msg)
	}
	return perr
}

func TestParsePrecedence(t *testing.T) {
	got := dumpString(t, mustParse(t, `let x = 1 + 2 * 3;`))
	want := `Program
  Let x
    Binary +
      Integer 1
      Binary *
        Integer 2
        Integer 3
`
	if got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}

func TestParseNegation(t *testing.T) {
	got := dumpString(t, mustParse(t, `-5; -2.5; -x;`))
	want := `Program
  Integer -5
  Float -2.5
  Binary *
    Float -1.0
    Identifier x
`
	if got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}

func TestParsePostfixChains(t *testing.T) {
	got := dumpString(t, mustParse(t, `a.b[1](2)[0]++;`))
	want := `Program
  Postfix ++
    Index
      Call
        Index
          Member .b
            Identifier a
          Integer 1
        Integer 2
      Integer 0
`
	if got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}

func TestParseTypeAnnotations(t *testing.T) {
	program := mustParse(t, `let f: func(Int, [Int]) -> Int = null, g:[[String]];`)
	stmt, ok := program.Statements[0].(*VarStmt)
	if !ok || len(stmt.Decls) != 2 {
		t.Fatalf("expected a two-declaration let, got %#v", program.Statements[0])
	}
	if got := stmt.Decls[0].Type.String(); got != "func(Int, [Int]) -> Int" {
		t.Fatalf("unexpected type %q", got)
	}
	if _, ok := stmt.Decls[0].Value.(*NullLiteral); !ok {
		t.Fatalf("expected null initializer, got %T", stmt.Decls[0].Value)
	}
	if got := stmt.Decls[1].Type.String(); got != "[[String]]" {
		t.Fatalf("unexpected type %q", got)
	}
	if stmt.Decls[1].Value != nil {
		t.Fatalf("expected no initializer")
	}
}

func TestParseFunctionsAndLambdas(t *testing.T) {
	got := dumpString(t, mustParse(t, `
def add(a:Int, b:Int) -> Int { return a + b; }
let twice = $(f, v) { return f(f(v)); };
`))
	want := `Program
  Def add(a:Int, b:Int)
    Body
      Return
        Binary +
          Identifier a
          Identifier b
  Let twice
    Lambda (f, v)
      Body
        Return
          Call
            Identifier f
            Call
              Identifier f
              Identifier v
`
	if got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}

func TestParseClass(t *testing.T) {
	program := mustParse(t, `
class Point {
  let x:Int = 0, y:Int = 0;
  private scale = 2;
  constructor(a, b) { x = a; y = b; }
  public def norm() { return x * x + y * y; }
}
let p = new Point(3, 4);
let q = new Point;
`)
	class, ok := program.Statements[0].(*ClassStmt)
	if !ok {
		t.Fatalf("expected class, got %T", program.Statements[0])
	}
	names := make([]string, len(class.Members))
	for i, m := range class.Members {
		names[i] = m.Name
	}
	if strings.Join(names, ",") != "x,y,scale,constructor,norm" {
		t.Fatalf("unexpected members %v", names)
	}
	if !class.Members[2].Private || class.Members[4].Private {
		t.Fatalf("unexpected visibility flags")
	}

	newExpr := program.Statements[1].(*VarStmt).Decls[0].Value.(*NewExpr)
	if newExpr.ClassName != "Point" || len(newExpr.Args) != 2 {
		t.Fatalf("unexpected new expression %#v", newExpr)
	}
	bare := program.Statements[2].(*VarStmt).Decls[0].Value.(*NewExpr)
	if len(bare.Args) != 0 {
		t.Fatalf("expected no constructor arguments, got %d", len(bare.Args))
	}
}

func TestParseControlFlow(t *testing.T) {
	got := dumpString(t, mustParse(t, `
for (let i:Int = 0; i < 3; i += 1) { if (i == 1) continue; else { break; } }
while (false) x = 1;
import "lib/io";
`))
	want := `Program
  For
    Let i:Int
      Integer 0
    Binary <
      Identifier i
      Integer 3
    Assign +=
      Identifier i
      Integer 1
    Body
      If
        Binary ==
          Identifier i
          Integer 1
        Then
          Continue
        Else
          Break
  While
    Bool false
    Body
      Assign =
        Identifier x
        Integer 1
  Import "lib/io"
`
	if got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}

func TestParseOptionalTerminators(t *testing.T) {
	program := mustParse(t, `def f() { return 1 } Print(f())`)
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source   string
		fragment string
	}{
		{`break;`, "break outside of a loop"},
		{`while (true) { def f() { continue; } }`, "continue outside of a loop"},
		{`let = 3;`, "expected identifier"},
		{`let x = 1 let y = 2;`, "expected ';'"},
		{`1 = 2;`, "invalid assignment target"},
		{`f()++;`, "invalid increment or decrement target"},
		{`if x { }`, "expected '('"},
		{`let s = "abc;`, "unterminated string"},
		{`class A { if }`, "expected class member"},
		{`let x:5 = 1;`, "expected type"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			requireParseError(t, tt.source, tt.fragment)
		})
	}
}

func TestParseErrorCodeFrame(t *testing.T) {
	perr := requireParseError(t, "let a = 1;\nlet b = ;\n", "unexpected")
	if perr.Pos.Line != 2 {
		t.Fatalf("expected error on line 2, got %d", perr.Pos.Line)
	}
	msg := perr.Error()
	if !strings.Contains(msg, "let b = ;") || !strings.Contains(msg, "^") {
		t.Fatalf("expected code frame in error:\n%s", msg)
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{"def f() {", true},
		{"let x = ", true},
		{"while (true) {\n  Print(1);", true},
		{"let x = ;", false},
		{"let 5;", false},
	}
	for _, tt := range tests {
		_, err := Parse(tt.source)
		if err == nil {
			t.Fatalf("expected parse error for %q", tt.source)
		}
		if got := IsIncomplete(err); got != tt.incomplete {
			t.Fatalf("%q: expected incomplete=%t, got %t (%v)", tt.source, tt.incomplete, got, err)
		}
	}
	if IsIncomplete(errors.New("other")) {
		t.Fatalf("non-parse errors are never incomplete")
	}
}
