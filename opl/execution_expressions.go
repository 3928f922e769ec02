package opl

func (exec *Execution) evalExpression(expr Expression, scope *Scope) (Value, error) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		return NewIntegerText(e.Text), nil
	case *FloatLiteral:
		return NewFloatText(e.Text), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NullLiteral:
		return NewNull(), nil
	case *ArrayLiteral:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			val, err := exec.evalExpression(el, scope)
			if err != nil {
				return NewNull(), err
			}
			elems[i] = val
		}
		return NewArray(elems), nil
	case *Identifier:
		val, err := scope.Lookup(e.Name)
		if err != nil {
			return NewNull(), exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *MemberExpr:
		obj, err := exec.evalExpression(e.Object, scope)
		if err != nil {
			return NewNull(), err
		}
		return exec.getMember(obj, e.Property, e.Pos())
	case *IndexExpr:
		obj, err := exec.evalExpression(e.Object, scope)
		if err != nil {
			return NewNull(), err
		}
		idx, err := exec.evalExpression(e.Index, scope)
		if err != nil {
			return NewNull(), err
		}
		val, err := obj.Element(idx)
		if err != nil {
			return NewNull(), exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *BinaryExpr:
		left, err := exec.evalExpression(e.Left, scope)
		if err != nil {
			return NewNull(), err
		}
		right, err := exec.evalExpression(e.Right, scope)
		if err != nil {
			return NewNull(), err
		}
		val, err := binaryOp(e.Operator, left, right)
		if err != nil {
			return NewNull(), exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *NotExpr:
		return exec.evalUnary(e.Operand, notOp, e.Pos(), scope)
	case *BitNotExpr:
		return exec.evalUnary(e.Operand, bitNotOp, e.Pos(), scope)
	case *CallExpr:
		return exec.evalCall(e, scope)
	case *IncDecExpr:
		return exec.evalIncDec(e, scope)
	case *LambdaExpr:
		return NewFunction(&Function{Name: "lambda", Params: e.Params, ReturnTy: e.ReturnTy, Body: e.Body, Pos: e.Pos()}), nil
	case *NewExpr:
		return exec.instantiate(e, scope)
	default:
		return NewNull(), exec.errorAt(UnknownNode, expr.Pos(), "cannot evaluate expression %T", expr)
	}
}

func (exec *Execution) evalUnary(operand Expression, op func(Value) (Value, error), pos Position, scope *Scope) (Value, error) {
	val, err := exec.evalExpression(operand, scope)
	if err != nil {
		return NewNull(), err
	}
	result, err := op(val)
	if err != nil {
		return NewNull(), exec.wrapError(err, pos)
	}
	return result, nil
}

// getMember reads a field outside of call position. Only objects have
// members here; builtin methods on arrays and strings need a call.
func (exec *Execution) getMember(obj Value, name string, pos Position) (Value, error) {
	o := obj.Object()
	if o == nil {
		return NewNull(), exec.errorAt(MemberAccessOnNonObject, pos, "cannot read member '%s' of %s", name, obj.Kind())
	}
	val, ok := o.Fields[name]
	if !ok {
		return NewNull(), exec.errorAt(UndefinedName, pos, "name '%s' is not defined in object of class '%s'", name, o.Class)
	}
	return val, nil
}
