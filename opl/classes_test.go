package opl

import "testing"

func TestCompoundFieldsAliasAcrossInstances(t *testing.T) {
	out := mustRun(t, `
class Bag {
  let items = [1];
  let n = 0;
}
let a = new Bag();
let b = new Bag();
a.items[0] = 5;
Println(b.items);
Println(Bag.items);
a.items = [7];
a.items[0] = 8;
Println(b.items);
Println(a.items);
a.n = 3;
Println(b.n, Bag.n, a.n);
`)
	want := "[5]\n[5]\n[5]\n[8]\n003\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConstructorAndMethods(t *testing.T) {
	out := mustRun(t, `
class Point {
  let x = 0;
  let y = 0;
  constructor(px, py) { x = px; this.y = py; }
  def sum() { return x + y; }
  def scaled(k) { return this.sum() * k; }
}
let p = new Point(3, 4);
let origin = new Point();
Println(p.sum(), " ", p.scaled(2), " ", origin.sum());
Println(p);
`)
	if out != "7 14 0\n<Point object>\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConstructorSkippedWithoutArguments(t *testing.T) {
	out := mustRun(t, `
class Noisy {
  let v = 1;
  constructor(a) { Println("ctor"); v = a; }
}
let quiet = new Noisy;
let loud = new Noisy(5);
Println(quiet.v, loud.v);
`)
	if out != "ctor\n15\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConstructorArityMismatch(t *testing.T) {
	out, err := runScript(t, `
class P {
  let x = 0;
  constructor(a) { Println("ctor"); x = a; }
}
new P(1, 2);
`)
	requireErrorKind(t, err, ArityMismatch)
	if out != "" {
		t.Fatalf("constructor ran before arity check: %q", out)
	}
}

func TestMethodsSeeGlobalsButNotCallerLocals(t *testing.T) {
	out := mustRun(t, `
let factor = 10;
class Scaler {
  let base = 2;
  def apply() { return base * factor; }
}
let s = new Scaler();
Print(s.apply());
`)
	if out != "20" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err := runScript(t, `
class Reader { def read() { return hidden; } }
def caller() { let hidden = 1; let r = new Reader(); return r.read(); }
caller();
`)
	requireErrorKind(t, err, UndefinedName)
}

func TestClassesDeclareInGlobalScope(t *testing.T) {
	out := mustRun(t, `
def make() {
  class Inner { let v = 7; }
  return new Inner();
}
let o = make();
Println(o.v, Inner.v);
`)
	if out != "77\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestClassErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   ErrorKind
	}{
		{`class A { let x = 1; def x() { } }`, DoubleDefinition},
		{`class A { } class A { }`, DoubleDefinition},
		{`let A = 1; new A();`, TypeMismatch},
		{`new Missing();`, UndefinedName},
		{`class A { } let a = new A(); Print(a.nope);`, UndefinedName},
		{`class A { } let a = new A(); a.nope();`, UndefinedName},
		{`class A { } let a = new A(); let b = new A(); a == b;`, OperatorNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := runScript(t, tt.source)
			requireErrorKind(t, err, tt.kind)
		})
	}
}

func TestFieldAssignmentAddsMembers(t *testing.T) {
	out := mustRun(t, `
class Box { }
let b = new Box();
b.label = "new";
b.label += "er";
Println(b.label);
`)
	if out != "newer\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
