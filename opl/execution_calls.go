package opl

type callTarget struct {
	fn          Value
	receiver    Value
	hasReceiver bool
}

func (exec *Execution) evalCall(call *CallExpr, scope *Scope) (Value, error) {
	target, err := exec.resolveCallTarget(call.Callee, scope)
	if err != nil {
		return NewNull(), err
	}

	args := make([]Value, len(call.Args))
	for i, arg := range call.Args {
		val, err := exec.evalExpression(arg, scope)
		if err != nil {
			return NewNull(), err
		}
		args[i] = val
	}

	return exec.callFunction(target, args, call.Pos())
}

// resolveCallTarget evaluates the callee. A member access evaluates its
// receiver once and keeps it for binding `this`.
func (exec *Execution) resolveCallTarget(callee Expression, scope *Scope) (callTarget, error) {
	member, ok := callee.(*MemberExpr)
	if !ok {
		fn, err := exec.evalExpression(callee, scope)
		return callTarget{fn: fn}, err
	}

	receiver, err := exec.evalExpression(member.Object, scope)
	if err != nil {
		return callTarget{}, err
	}
	fn, err := exec.method(receiver, member.Property, member.Pos())
	if err != nil {
		return callTarget{}, err
	}
	return callTarget{fn: fn, receiver: receiver, hasReceiver: true}, nil
}

// method finds the callable for receiver.name. Arrays and strings borrow
// global builtins, so `list.Append(4)` calls Append with `this` = list.
func (exec *Execution) method(receiver Value, name string, pos Position) (Value, error) {
	switch receiver.Kind() {
	case KindObject:
		return exec.getMember(receiver, name, pos)
	case KindArray, KindString:
		if fn, ok := exec.global.values[name]; ok && fn.Kind() == KindFunction && fn.Function().IsBuiltin() {
			return fn, nil
		}
		return NewNull(), exec.errorAt(MemberAccessOnNonObject, pos, "%s has no method '%s'", receiver.Kind(), name)
	default:
		return NewNull(), exec.errorAt(MemberAccessOnNonObject, pos, "cannot call member '%s' of %s", name, receiver.Kind())
	}
}

// callFunction runs fn in a new frame whose parent is the global scope.
// The argument count is checked before anything is bound or run.
func (exec *Execution) callFunction(target callTarget, args []Value, pos Position) (Value, error) {
	fn := target.fn.Function()
	if fn == nil {
		return NewNull(), exec.errorAt(TypeMismatch, pos, "value of kind %s is not callable", target.fn.Kind())
	}

	expected := fn.Arity
	if !fn.IsBuiltin() {
		expected = len(fn.Params)
	}
	if expected >= 0 && len(args) != expected {
		return NewNull(), exec.errorAt(ArityMismatch, pos, "function '%s' expects %d arguments, got %d", fn.Name, expected, len(args))
	}

	frame := newCallScope(exec.global, fn.Name)
	if target.hasReceiver {
		frame.bindThis(target.receiver)
	}

	if err := exec.pushFrame(fn.Name, pos); err != nil {
		return NewNull(), err
	}
	defer exec.popFrame()

	if fn.IsBuiltin() {
		result, err := fn.Builtin(exec, frame, args)
		if err != nil {
			return NewNull(), exec.wrapError(err, pos)
		}
		return result, nil
	}

	exec.logger.Debug("call", "function", fn.Name, "args", len(args), "depth", len(exec.callStack))
	for i, param := range fn.Params {
		if err := frame.Declare(param.Name, args[i]); err != nil {
			return NewNull(), exec.wrapError(err, fn.Pos)
		}
	}

	val, sig, err := exec.evalStatements(fn.Body.Statements, frame)
	if err != nil {
		return NewNull(), err
	}
	if sig == SignalReturn {
		return val, nil
	}
	return NewNull(), nil
}
