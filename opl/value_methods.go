package opl

import (
	"fmt"
	"maps"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindFunction:
		return "Function"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String is the stringify operation used by Print and string concatenation.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindBool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case KindInteger, KindFloat:
		return v.data.(string)
	case KindString:
		return string(v.data.(*stringCell).runes)
	case KindArray:
		elems := v.data.(*arrayCell).elems
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		fn := v.data.(*Function)
		if fn.Name == "" {
			return "<function>"
		}
		return "<function " + fn.Name + ">"
	case KindObject:
		return "<" + v.data.(*Object).Class + " object>"
	default:
		return ""
	}
}

// Copy returns the value written by plain assignment. Strings get a fresh
// buffer, arrays and objects a fresh outer container whose elements or
// fields still alias the original's, functions are returned as is.
func (v Value) Copy() Value {
	switch v.kind {
	case KindString:
		runes := v.data.(*stringCell).runes
		return Value{kind: KindString, data: &stringCell{runes: append([]rune(nil), runes...)}}
	case KindArray:
		elems := v.data.(*arrayCell).elems
		return Value{kind: KindArray, data: &arrayCell{elems: append([]Value(nil), elems...)}}
	case KindObject:
		obj := v.data.(*Object)
		return Value{kind: KindObject, data: &Object{Class: obj.Class, Fields: maps.Clone(obj.Fields)}}
	default:
		return v
	}
}

// Equal implements `==`. Values of different kinds are never equal.
func (v Value) Equal(other Value) (bool, error) {
	switch v.kind {
	case KindNull:
		return other.kind == KindNull, nil
	case KindBool:
		return other.kind == KindBool && v.Bool() == other.Bool(), nil
	case KindInteger:
		if other.kind != KindInteger {
			return false, nil
		}
		a, err := integerOperand(v)
		if err != nil {
			return false, err
		}
		b, err := integerOperand(other)
		if err != nil {
			return false, err
		}
		return a == b, nil
	case KindFloat:
		if other.kind != KindFloat {
			return false, nil
		}
		a, err := floatOperand(v)
		if err != nil {
			return false, err
		}
		b, err := floatOperand(other)
		if err != nil {
			return false, err
		}
		return a == b, nil
	case KindString:
		return other.kind == KindString && v.String() == other.String(), nil
	default:
		return false, errUnsupported("==", v.kind)
	}
}
