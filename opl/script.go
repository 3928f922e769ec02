package opl

import "context"

// Script is a parsed program bound to the engine that compiled it.
type Script struct {
	engine  *Engine
	program *Program
	source  string
}

func (s *Script) Program() *Program { return s.program }

func (s *Script) Source() string { return s.source }

// Run executes the script in a fresh session.
func (s *Script) Run(ctx context.Context) error {
	_, err := s.engine.NewSession().Exec(ctx, s)
	return err
}
