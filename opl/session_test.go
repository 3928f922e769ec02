package opl

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out, Stdin: strings.NewReader("")})
	return engine.NewSession(), &out
}

func TestSessionKeepsGlobalsBetweenEvals(t *testing.T) {
	session, out := newTestSession(t)
	ctx := context.Background()

	if _, err := session.Eval(ctx, `let total = 1; def bump(n) { total += n; }`); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if _, err := session.Eval(ctx, `bump(4);`); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	result, err := session.Eval(ctx, `total;`)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if result.Kind() != KindInteger || result.Int() != 5 {
		t.Fatalf("expected 5, got %s %v", result.Kind(), result)
	}

	if _, err := session.Eval(ctx, `missing;`); err == nil {
		t.Fatalf("expected an error")
	}
	if _, err := session.Eval(ctx, `Print(total);`); err != nil {
		t.Fatalf("session unusable after error: %v", err)
	}
	if out.String() != "5" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSessionEvalResult(t *testing.T) {
	session, _ := newTestSession(t)
	result, err := session.Eval(context.Background(), `let x = 2; x * 21;`)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if result.String() != "42" {
		t.Fatalf("expected 42, got %v", result)
	}

	result, err = session.Eval(context.Background(), `return "early"; 1;`)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if result.String() != "early" {
		t.Fatalf("expected early, got %v", result)
	}
}

func TestSessionVariablesAndReset(t *testing.T) {
	session, _ := newTestSession(t)
	if _, err := session.Eval(context.Background(), `let a = 1; def f() { } class C { }`); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	vars := session.Variables()
	if len(vars) != 3 {
		t.Fatalf("expected 3 user variables, got %v", vars)
	}
	for _, name := range []string{"a", "f", "C"} {
		if _, ok := vars[name]; !ok {
			t.Fatalf("expected %s in %v", name, vars)
		}
	}

	session.Reset()
	if len(session.Variables()) != 0 {
		t.Fatalf("expected no variables after reset, got %v", session.Variables())
	}
	if _, err := session.Eval(context.Background(), `let a = 2; Print(a);`); err != nil {
		t.Fatalf("redeclaring after reset failed: %v", err)
	}
}

func TestSessionParseErrorLeavesGlobalsUntouched(t *testing.T) {
	session, _ := newTestSession(t)
	if _, err := session.Eval(context.Background(), `let a = 1; let = ;`); err == nil {
		t.Fatalf("expected a parse error")
	}
	if len(session.Variables()) != 0 {
		t.Fatalf("parse errors must not run any statement")
	}
}

func TestNewEngineValidatesConfig(t *testing.T) {
	if _, err := NewEngine(Config{StepQuota: -1}); err == nil {
		t.Fatalf("expected error for negative step quota")
	}
	if _, err := NewEngine(Config{RecursionLimit: -1}); err == nil {
		t.Fatalf("expected error for negative recursion limit")
	}
}

func TestEngineLogsRuns(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := MustNewEngine(Config{Stdout: &bytes.Buffer{}, Logger: logger})
	if _, err := engine.NewSession().Eval(context.Background(), `import "x"; def f() { } f();`); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	for _, want := range []string{`"msg":"import ignored"`, `"msg":"call"`, `"msg":"run finished"`, `"steps":`} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("expected %s in logs:\n%s", want, logs.String())
		}
	}
}

func TestScriptsShareAnEngine(t *testing.T) {
	var out bytes.Buffer
	engine := MustNewEngine(Config{Stdout: &out})
	first, err := engine.Compile(`let x = 1; Print(x);`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	for range 2 {
		if err := first.Run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
	}
	if out.String() != "11" {
		t.Fatalf("each run needs fresh globals, got %q", out.String())
	}
	if first.Source() == "" || len(first.Program().Statements) != 2 {
		t.Fatalf("unexpected script accessors")
	}
}
