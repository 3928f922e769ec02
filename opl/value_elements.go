package opl

func elementIndex(v, index Value) (int, error) {
	if index.kind != KindInteger {
		return 0, newKindError(IndexNotInteger, "index must be an Integer, got %s", index.kind)
	}
	n, err := integerOperand(index)
	if err != nil {
		return 0, err
	}
	if n < 0 || int(n) >= v.Len() {
		return 0, newKindError(IndexOutOfRange, "index %d out of range for %s of length %d", n, v.kind, v.Len())
	}
	return int(n), nil
}

// Element reads `v[index]`. Reading a String yields a one-character String.
func (v Value) Element(index Value) (Value, error) {
	switch v.kind {
	case KindArray:
		i, err := elementIndex(v, index)
		if err != nil {
			return NewNull(), err
		}
		return v.data.(*arrayCell).elems[i], nil
	case KindString:
		i, err := elementIndex(v, index)
		if err != nil {
			return NewNull(), err
		}
		return NewString(string(v.data.(*stringCell).runes[i])), nil
	default:
		return NewNull(), errUnsupported("[]", v.kind)
	}
}

// SetElement writes `v[index] = elem` in place, so every alias of v sees
// the change. A String element must be a one-character String.
func (v Value) SetElement(index, elem Value) error {
	switch v.kind {
	case KindArray:
		i, err := elementIndex(v, index)
		if err != nil {
			return err
		}
		v.data.(*arrayCell).elems[i] = elem
		return nil
	case KindString:
		i, err := elementIndex(v, index)
		if err != nil {
			return err
		}
		if elem.kind != KindString || elem.Len() != 1 {
			return errTypeMismatch("string element must be a one-character String, got %s %q", elem.kind, elem.String())
		}
		v.data.(*stringCell).runes[i] = elem.data.(*stringCell).runes[0]
		return nil
	default:
		return errUnsupported("[]=", v.kind)
	}
}

func (v Value) appendElements(elems ...Value) {
	cell := v.data.(*arrayCell)
	cell.elems = append(cell.elems, elems...)
}
