package opl

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindFunction
	KindObject
)

// Value is a tagged union over the closed set of runtime kinds. Integer and
// Float payloads are decimal text; String, Array and Object payloads are
// pointers so that every holder of a value observes in-place mutation.
type Value struct {
	kind ValueKind
	data any
}

type stringCell struct {
	runes []rune
}

type arrayCell struct {
	elems []Value
}

// Function is either a user-defined function (Body set) or a host builtin
// (Builtin set).
type Function struct {
	Name     string
	Params   []Param
	ReturnTy *TypeExpr
	Body     *BlockStmt
	Pos      Position

	Builtin BuiltinFunc
	// Arity is the builtin's argument count; -1 accepts any count.
	Arity int
}

func (fn *Function) IsBuiltin() bool { return fn.Builtin != nil }

// Object is a class prototype or an instance created from one.
type Object struct {
	Class  string
	Fields map[string]Value
}

type BuiltinFunc func(exec *Execution, frame *Scope, args []Value) (Value, error)
