package opl

// declareClass evaluates every member into the prototype's field map and
// declares the prototype under the class name in the global scope.
func (exec *Execution) declareClass(stmt *ClassStmt, scope *Scope) (Value, error) {
	fields := make(map[string]Value, len(stmt.Members))
	for _, member := range stmt.Members {
		if _, exists := fields[member.Name]; exists {
			return NewNull(), exec.errorAt(DoubleDefinition, member.Node.Pos(), "member '%s' is already defined in class '%s'", member.Name, stmt.Name)
		}
		switch node := member.Node.(type) {
		case *VarDecl:
			val := NewNull()
			if node.Value != nil {
				var err error
				if val, err = exec.evalExpression(node.Value, scope); err != nil {
					return NewNull(), err
				}
			}
			fields[member.Name] = val
		case *FunctionStmt:
			fields[member.Name] = NewFunction(&Function{
				Name:     node.Name,
				Params:   node.Params,
				ReturnTy: node.ReturnTy,
				Body:     node.Body,
				Pos:      node.Pos(),
			})
		default:
			return NewNull(), exec.errorAt(UnknownNode, member.Node.Pos(), "cannot evaluate class member %T", member.Node)
		}
	}

	proto := NewObject(stmt.Name, fields)
	if err := exec.global.Declare(stmt.Name, proto); err != nil {
		return NewNull(), exec.wrapError(err, stmt.Pos())
	}
	exec.logger.Debug("class declared", "class", stmt.Name, "members", len(fields))
	return proto, nil
}

// instantiate implements `new C(args)`: a shallow copy of the prototype,
// then the constructor when there is one and arguments were given.
func (exec *Execution) instantiate(expr *NewExpr, scope *Scope) (Value, error) {
	proto, err := scope.Lookup(expr.ClassName)
	if err != nil {
		return NewNull(), exec.wrapError(err, expr.Pos())
	}
	if proto.Kind() != KindObject {
		return NewNull(), exec.errorAt(TypeMismatch, expr.Pos(), "'%s' is not a class, got %s", expr.ClassName, proto.Kind())
	}

	instance := proto.Copy()
	ctor, ok := instance.Object().Fields["constructor"]
	if !ok || len(expr.Args) == 0 {
		return instance, nil
	}
	if ctor.Kind() != KindFunction {
		return NewNull(), exec.errorAt(TypeMismatch, expr.Pos(), "constructor of '%s' is %s, not a Function", expr.ClassName, ctor.Kind())
	}

	args := make([]Value, len(expr.Args))
	for i, arg := range expr.Args {
		if args[i], err = exec.evalExpression(arg, scope); err != nil {
			return NewNull(), err
		}
	}
	if _, err := exec.callFunction(callTarget{fn: ctor, receiver: instance, hasReceiver: true}, args, expr.Pos()); err != nil {
		return NewNull(), err
	}
	return instance, nil
}
