package opl

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestPrintFormatting(t *testing.T) {
	out := mustRun(t, `
Print(null, true, false, " ", 1, " ", 2.5, " ", [1, [2, "x"]]);
Println();
def f() { }
Println(f, " ", $(a) { return a; });
`)
	want := "NullTrueFalse 1 2.5 [1, [2, x]]\n<function f> <function lambda>\n"
	if out != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInput(t *testing.T) {
	out, err := runScriptWith(t, Config{Stdin: strings.NewReader("alice\r\nbob")}, `
let a = Input("name? ");
let b = Input();
let c = Input();
Print(a, "|", b, "|", NotNull(c), "|", NotNull(a));
`)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "name? alice|bob|False|True" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConversions(t *testing.T) {
	out := mustRun(t, `
Println(StringToInt(" 42 ") + 1);
Println(StringToInt("3.7"));
Println(IntToString(7) + "!");
Println(StringToFloat("2.5") * 2);
Println(FloatToString(1.25) + "s");
Println(Length("héllo"), Length([]), Length([1, 2, 3]));
`)
	want := "43\n3\n7!\n5.0\n1.25s\n503\n"
	if out != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   ErrorKind
	}{
		{`StringToInt("abc");`, InvalidNumber},
		{`StringToInt(5);`, TypeMismatch},
		{`StringToFloat("x1");`, InvalidNumber},
		{`IntToString(1.5);`, TypeMismatch},
		{`FloatToString(1);`, TypeMismatch},
		{`Length(5);`, TypeMismatch},
		{`NotNull();`, ArityMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := runScript(t, tt.source)
			requireErrorKind(t, err, tt.kind)
		})
	}
}

func TestAppendNeedsArrayReceiver(t *testing.T) {
	for _, source := range []string{
		`Append(1);`,
		`let s = "ab"; s.Append("c");`,
	} {
		_, err := runScript(t, source)
		requireErrorKind(t, err, TypeMismatch)
	}

	out := mustRun(t, `
let a = [];
a.Append(1, 2);
let alias = a;
alias.Append(3);
Println(a, " ", Length(a));
`)
	if out != "[1, 2, 3] 3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRegisterBuiltin(t *testing.T) {
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out})
	engine.RegisterBuiltin("Double", 1, func(exec *Execution, frame *Scope, args []Value) (Value, error) {
		if args[0].Kind() != KindInteger {
			return NewNull(), errors.New("Double needs an Integer")
		}
		return NewInteger(args[0].Int() * 2), nil
	})
	if !slices.Contains(engine.Builtins(), "Double") {
		t.Fatalf("expected Double in %v", engine.Builtins())
	}

	session := engine.NewSession()
	if _, err := session.Eval(context.Background(), `Print(Double(21));`); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if out.String() != "42" {
		t.Fatalf("unexpected output %q", out.String())
	}

	_, err := session.Eval(context.Background(), "\nDouble(\"x\");")
	re := requireErrorKind(t, err, HostError)
	if re.Message != "Double needs an Integer" {
		t.Fatalf("unexpected message %q", re.Message)
	}
	if len(re.Frames) == 0 || re.Frames[0].Function != "Double" || re.Frames[0].Pos.Line != 2 {
		t.Fatalf("unexpected frames %+v", re.Frames)
	}
}

func TestBuiltinsCannotBeRedeclared(t *testing.T) {
	_, err := runScript(t, `let Print = 1;`)
	requireErrorKind(t, err, DoubleDefinition)
}
