package opl

func (exec *Execution) evalCondition(expr Expression, scope *Scope) (bool, error) {
	val, err := exec.evalExpression(expr, scope)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, exec.errorAt(TypeMismatch, expr.Pos(), "condition must be Bool, got %s", val.Kind())
	}
	return val.Bool(), nil
}

func (exec *Execution) evalIf(stmt *IfStmt, scope *Scope) (Value, Signal, error) {
	ok, err := exec.evalCondition(stmt.Condition, scope)
	if err != nil {
		return NewNull(), SignalNone, err
	}
	if ok {
		return exec.evalStatements(stmt.Consequent.Statements, newScope(scope, "<if>"))
	}
	if stmt.Alternate != nil {
		return exec.evalStatements(stmt.Alternate.Statements, newScope(scope, "<else>"))
	}
	return NewNull(), SignalNone, nil
}

func (exec *Execution) evalWhile(stmt *WhileStmt, scope *Scope) (Value, Signal, error) {
	loopScope := newScope(scope, "<while>")
	for {
		ok, err := exec.evalCondition(stmt.Condition, loopScope)
		if err != nil {
			return NewNull(), SignalNone, err
		}
		if !ok {
			return NewNull(), SignalNone, nil
		}
		val, sig, err := exec.evalStatements(stmt.Body.Statements, newScope(loopScope, "<while body>"))
		if err != nil {
			return NewNull(), SignalNone, err
		}
		switch sig {
		case SignalBreak:
			return NewNull(), SignalNone, nil
		case SignalReturn:
			return val, SignalReturn, nil
		}
		if err := exec.step(stmt.Pos()); err != nil {
			return NewNull(), SignalNone, err
		}
	}
}

// evalFor runs a counted loop. After a continue the advance step still runs
// before the condition is tested again.
func (exec *Execution) evalFor(stmt *ForStmt, scope *Scope) (Value, Signal, error) {
	loopScope := newScope(scope, "<for>")
	if stmt.Init != nil {
		if _, _, err := exec.evalStatement(stmt.Init, loopScope); err != nil {
			return NewNull(), SignalNone, err
		}
	}
	for {
		ok, err := exec.evalCondition(stmt.Condition, loopScope)
		if err != nil {
			return NewNull(), SignalNone, err
		}
		if !ok {
			return NewNull(), SignalNone, nil
		}
		val, sig, err := exec.evalStatements(stmt.Body.Statements, newScope(loopScope, "<for body>"))
		if err != nil {
			return NewNull(), SignalNone, err
		}
		switch sig {
		case SignalBreak:
			return NewNull(), SignalNone, nil
		case SignalReturn:
			return val, SignalReturn, nil
		}
		if stmt.Advance != nil {
			if _, _, err := exec.evalStatement(stmt.Advance, loopScope); err != nil {
				return NewNull(), SignalNone, err
			}
		} else if err := exec.step(stmt.Pos()); err != nil {
			return NewNull(), SignalNone, err
		}
	}
}
