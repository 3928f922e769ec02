package opl

// lvalue is the read/write pair an assignment target resolves to.
type lvalue struct {
	read  func() (Value, error)
	write func(Value) error
}

func (exec *Execution) resolveLValue(target Expression, scope *Scope) (lvalue, error) {
	switch t := target.(type) {
	case *Identifier:
		return lvalue{
			read:  func() (Value, error) { return scope.Lookup(t.Name) },
			write: func(v Value) error { return scope.Assign(t.Name, v) },
		}, nil
	case *MemberExpr:
		obj, err := exec.evalExpression(t.Object, scope)
		if err != nil {
			return lvalue{}, err
		}
		o := obj.Object()
		if o == nil {
			return lvalue{}, exec.errorAt(MemberAccessOnNonObject, t.Pos(), "cannot assign member '%s' of %s", t.Property, obj.Kind())
		}
		return lvalue{
			read: func() (Value, error) {
				val, ok := o.Fields[t.Property]
				if !ok {
					return NewNull(), newKindError(UndefinedName, "name '%s' is not defined in object of class '%s'", t.Property, o.Class)
				}
				return val, nil
			},
			write: func(v Value) error {
				o.Fields[t.Property] = v
				return nil
			},
		}, nil
	case *IndexExpr:
		coll, err := exec.evalExpression(t.Object, scope)
		if err != nil {
			return lvalue{}, err
		}
		idx, err := exec.evalExpression(t.Index, scope)
		if err != nil {
			return lvalue{}, err
		}
		if idx.Kind() != KindInteger {
			return lvalue{}, exec.errorAt(IndexNotInteger, t.Index.Pos(), "index must be an Integer, got %s", idx.Kind())
		}
		return lvalue{
			read:  func() (Value, error) { return coll.Element(idx) },
			write: func(v Value) error { return coll.SetElement(idx, v) },
		}, nil
	default:
		return lvalue{}, exec.errorAt(UnknownNode, target.Pos(), "cannot assign to %T", target)
	}
}

// assign handles `=` and the compound operators. Plain assignment stores a
// copy of the value; compound assignment stores the operator's result.
func (exec *Execution) assign(stmt *AssignStmt, scope *Scope) (Value, error) {
	lv, err := exec.resolveLValue(stmt.Target, scope)
	if err != nil {
		return NewNull(), err
	}
	val, err := exec.evalExpression(stmt.Value, scope)
	if err != nil {
		return NewNull(), err
	}

	if stmt.Operator == tokenAssign {
		val = val.Copy()
	} else {
		op, ok := compoundOperators[stmt.Operator]
		if !ok {
			return NewNull(), exec.errorAt(OperatorNotSupported, stmt.Pos(), "unknown assignment operator '%s'", stmt.Operator)
		}
		current, err := lv.read()
		if err != nil {
			return NewNull(), exec.wrapError(err, stmt.Target.Pos())
		}
		if val, err = binaryOp(op, current, val); err != nil {
			return NewNull(), exec.wrapError(err, stmt.Pos())
		}
	}

	if err := lv.write(val); err != nil {
		return NewNull(), exec.wrapError(err, stmt.Target.Pos())
	}
	return val, nil
}

// evalIncDec adds or subtracts the float unit 1.0. An Integer target
// truncates the unit, so the target keeps its kind.
func (exec *Execution) evalIncDec(expr *IncDecExpr, scope *Scope) (Value, error) {
	lv, err := exec.resolveLValue(expr.Target, scope)
	if err != nil {
		return NewNull(), err
	}
	current, err := lv.read()
	if err != nil {
		return NewNull(), exec.wrapError(err, expr.Target.Pos())
	}

	op := tokenMinus
	if expr.Increment {
		op = tokenPlus
	}
	next, err := binaryOp(op, current, NewFloatText("1.0"))
	if err != nil {
		return NewNull(), exec.wrapError(err, expr.Pos())
	}
	if err := lv.write(next); err != nil {
		return NewNull(), exec.wrapError(err, expr.Target.Pos())
	}

	if expr.Prefix {
		return next.Copy(), nil
	}
	return current.Copy(), nil
}
