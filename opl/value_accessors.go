package opl

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

// Text returns the numeral of an Integer or Float and the content of a
// String.
func (v Value) Text() string {
	switch v.kind {
	case KindInteger, KindFloat:
		return v.data.(string)
	case KindString:
		return string(v.data.(*stringCell).runes)
	default:
		return ""
	}
}

// Int parses an Integer or Float value as a 32-bit integer, returning 0 for
// anything that does not parse.
func (v Value) Int() int32 {
	if v.kind != KindInteger && v.kind != KindFloat {
		return 0
	}
	n, err := parseInteger(v.data.(string))
	if err != nil {
		return 0
	}
	return n
}

func (v Value) Float() float64 {
	if v.kind != KindInteger && v.kind != KindFloat {
		return 0
	}
	f, err := parseFloat(v.data.(string))
	if err != nil {
		return 0
	}
	return f
}

// Array returns the elements of an Array value. The slice shares storage
// with the value.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*arrayCell).elems
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

// Len is the element count of an Array or the rune count of a String.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.data.(*arrayCell).elems)
	case KindString:
		return len(v.data.(*stringCell).runes)
	default:
		return 0
	}
}

// Same reports whether two values share the same mutable storage.
func (v Value) Same(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.data.(*stringCell) == other.data.(*stringCell)
	case KindArray:
		return v.data.(*arrayCell) == other.data.(*arrayCell)
	case KindObject:
		return v.data.(*Object) == other.data.(*Object)
	case KindFunction:
		return v.data.(*Function) == other.data.(*Function)
	default:
		return false
	}
}
