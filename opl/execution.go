package opl

import (
	"context"
	"io"
	"log/slog"
)

// Execution is the state of one run: the global scope, the call stack and
// the step budget.
type Execution struct {
	engine       *Engine
	ctx          context.Context
	source       string
	quota        int
	steps        int
	recursionCap int
	callStack    []callFrame
	global       *Scope
	logger       *slog.Logger
}

func (exec *Execution) Stdout() io.Writer { return exec.engine.config.Stdout }

func (exec *Execution) Context() context.Context { return exec.ctx }

// evalStatements runs stmts in order. The first signal other than
// SignalNone stops the sequence and is handed to the caller.
func (exec *Execution) evalStatements(stmts []Statement, scope *Scope) (Value, Signal, error) {
	result := NewNull()
	for _, stmt := range stmts {
		val, sig, err := exec.evalStatement(stmt, scope)
		if err != nil {
			return NewNull(), SignalNone, err
		}
		if sig != SignalNone {
			return val, sig, nil
		}
		result = val
	}
	return result, SignalNone, nil
}

func (exec *Execution) evalStatement(stmt Statement, scope *Scope) (Value, Signal, error) {
	if err := exec.step(stmt.Pos()); err != nil {
		return NewNull(), SignalNone, err
	}

	switch s := stmt.(type) {
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, scope)
		return val, SignalNone, err
	case *AssignStmt:
		val, err := exec.assign(s, scope)
		return val, SignalNone, err
	case *VarStmt:
		return NewNull(), SignalNone, exec.declareVars(s, scope)
	case *FunctionStmt:
		fn := NewFunction(&Function{Name: s.Name, Params: s.Params, ReturnTy: s.ReturnTy, Body: s.Body, Pos: s.Pos()})
		if err := scope.Declare(s.Name, fn); err != nil {
			return NewNull(), SignalNone, exec.wrapError(err, s.Pos())
		}
		return fn, SignalNone, nil
	case *ClassStmt:
		val, err := exec.declareClass(s, scope)
		return val, SignalNone, err
	case *IfStmt:
		return exec.evalIf(s, scope)
	case *WhileStmt:
		return exec.evalWhile(s, scope)
	case *ForStmt:
		return exec.evalFor(s, scope)
	case *ReturnStmt:
		if s.Value == nil {
			return NewNull(), SignalReturn, nil
		}
		val, err := exec.evalExpression(s.Value, scope)
		if err != nil {
			return NewNull(), SignalNone, err
		}
		return val, SignalReturn, nil
	case *BreakStmt:
		return NewNull(), SignalBreak, nil
	case *ContinueStmt:
		return NewNull(), SignalContinue, nil
	case *BlockStmt:
		return exec.evalStatements(s.Statements, newScope(scope, "<block>"))
	case *ImportStmt:
		exec.logger.Debug("import ignored", "path", s.Path, "line", s.Pos().Line)
		return NewNull(), SignalNone, nil
	default:
		return NewNull(), SignalNone, exec.errorAt(UnknownNode, stmt.Pos(), "cannot evaluate statement %T", stmt)
	}
}

// declareVars binds each name to its initializer value in the current
// scope. The value is bound as is, without the copy plain assignment makes.
func (exec *Execution) declareVars(stmt *VarStmt, scope *Scope) error {
	for _, decl := range stmt.Decls {
		val := NewNull()
		if decl.Value != nil {
			var err error
			if val, err = exec.evalExpression(decl.Value, scope); err != nil {
				return err
			}
		}
		if err := scope.Declare(decl.Name, val); err != nil {
			return exec.wrapError(err, decl.Pos())
		}
	}
	return nil
}
