package opl

import (
	"context"
	"time"
)

// Session keeps a global scope alive across runs, which is what a REPL
// needs. A Session must not be used from more than one goroutine at a time.
type Session struct {
	engine *Engine
	global *Scope
}

func (s *Session) Global() *Scope { return s.global }

// Eval compiles and executes source against the session's globals. The
// result is the value of the last top-level statement, or the value of a
// top-level return.
func (s *Session) Eval(ctx context.Context, source string) (Value, error) {
	script, err := s.engine.Compile(source)
	if err != nil {
		return NewNull(), err
	}
	return s.Exec(ctx, script)
}

// Exec runs a compiled script against the session's globals.
func (s *Session) Exec(ctx context.Context, script *Script) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := &Execution{
		engine:       s.engine,
		ctx:          ctx,
		source:       script.source,
		quota:        s.engine.config.StepQuota,
		recursionCap: s.engine.config.RecursionLimit,
		callStack:    make([]callFrame, 0, 8),
		global:       s.global,
		logger:       s.engine.logger,
	}

	started := time.Now()
	result, _, err := exec.evalStatements(script.program.Statements, s.global)
	exec.logger.Debug("run finished",
		"steps", exec.steps,
		"duration", time.Since(started),
		"failed", err != nil,
	)
	if err != nil {
		return NewNull(), err
	}
	return result, nil
}

// Variables returns the user bindings of the global scope, leaving out
// builtins that have not been redefined.
func (s *Session) Variables() map[string]Value {
	vars := s.global.Bindings()
	for name, builtin := range s.engine.builtins {
		if v, ok := vars[name]; ok && v.Same(builtin) {
			delete(vars, name)
		}
	}
	return vars
}

// Reset discards every user binding.
func (s *Session) Reset() {
	s.global = s.engine.NewSession().global
}
