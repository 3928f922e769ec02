package opl

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
)

// Config controls interpreter I/O and execution bounds.
type Config struct {
	// StepQuota caps the number of evaluated statements per run; 0 means
	// unlimited.
	StepQuota int
	// RecursionLimit caps the call depth. Zero selects the default.
	RecursionLimit int
	Stdout         io.Writer
	Stdin          io.Reader
	Logger         *slog.Logger
}

const defaultRecursionLimit = 1000

// Engine holds configuration and the builtin table. It is not modified by
// running scripts and may be shared; each Session owns its own globals.
type Engine struct {
	config   Config
	builtins map[string]Value
	stdin    *bufio.Reader
	logger   *slog.Logger
}

// NewEngine constructs an Engine with defaults applied and the standard
// builtins registered.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 {
		return nil, errors.New("step quota must not be negative")
	}
	if cfg.RecursionLimit < 0 {
		return nil, errors.New("recursion limit must not be negative")
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engine := &Engine{
		config:   cfg,
		builtins: make(map[string]Value),
		stdin:    bufio.NewReader(cfg.Stdin),
		logger:   logger,
	}
	registerStandardBuiltins(engine)
	return engine, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// RegisterBuiltin exposes a host function to scripts under name. An arity
// of -1 accepts any number of arguments.
func (e *Engine) RegisterBuiltin(name string, arity int, fn BuiltinFunc) {
	e.builtins[name] = NewBuiltin(name, arity, fn)
}

// Builtins lists the registered builtin names in sorted order.
func (e *Engine) Builtins() []string {
	return slices.Sorted(maps.Keys(e.builtins))
}

// Compile parses source into a runnable Script.
func (e *Engine) Compile(source string) (*Script, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &Script{engine: e, program: program, source: source}, nil
}

// NewSession creates a fresh global scope with the builtins declared.
func (e *Engine) NewSession() *Session {
	global := NewGlobalScope()
	for name, builtin := range e.builtins {
		global.values[name] = builtin
	}
	return &Session{engine: e, global: global}
}
