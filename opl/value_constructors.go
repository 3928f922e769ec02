package opl

func NewNull() Value           { return Value{kind: KindNull} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInteger(i int32) Value { return Value{kind: KindInteger, data: formatInteger(i)} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: formatFloat(f)} }
func NewString(s string) Value {
	return Value{kind: KindString, data: &stringCell{runes: []rune(s)}}
}
func NewArray(elems []Value) Value {
	return Value{kind: KindArray, data: &arrayCell{elems: elems}}
}

// NewIntegerText wraps a numeral without validating it; validation happens
// when an operator parses the text.
func NewIntegerText(text string) Value { return Value{kind: KindInteger, data: text} }

func NewFloatText(text string) Value { return Value{kind: KindFloat, data: text} }

func NewFunction(fn *Function) Value { return Value{kind: KindFunction, data: fn} }

func NewBuiltin(name string, arity int, fn BuiltinFunc) Value {
	return NewFunction(&Function{Name: name, Builtin: fn, Arity: arity})
}

func NewObject(class string, fields map[string]Value) Value {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Value{kind: KindObject, data: &Object{Class: class, Fields: fields}}
}
