package opl

import (
	"maps"
	"slices"
)

// Scope is one level of the name chain. Blocks, branches and loop bodies
// push a child of the enclosing scope; calls push a frame whose parent is
// always the global scope, so a callee never sees its caller's locals.
type Scope struct {
	name   string
	parent *Scope
	values map[string]Value

	// receiver is set on method frames. Its fields resolve as names after
	// the frame's own bindings and before the global scope.
	receiver *Object
}

func newScope(parent *Scope, name string) *Scope {
	return &Scope{name: name, parent: parent, values: make(map[string]Value)}
}

// NewGlobalScope returns an empty root scope.
func NewGlobalScope() *Scope {
	return newScope(nil, "<global>")
}

// newCallScope builds a call frame rooted at the global scope of s.
func newCallScope(s *Scope, name string) *Scope {
	return newScope(s.Global(), name)
}

func (s *Scope) Name() string { return s.name }

func (s *Scope) Global() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Declare adds a binding to this level.
func (s *Scope) Declare(name string, val Value) error {
	if _, exists := s.values[name]; exists {
		return newKindError(DoubleDefinition, "name '%s' is already defined in scope '%s'", name, s.name)
	}
	s.values[name] = val
	return nil
}

// bindThis declares `this` and, for objects, exposes the receiver's fields.
func (s *Scope) bindThis(receiver Value) {
	s.values["this"] = receiver
	s.receiver = receiver.Object()
}

// Lookup resolves name at the nearest level that holds it.
func (s *Scope) Lookup(name string) (Value, error) {
	for level := s; level != nil; level = level.parent {
		if val, ok := level.values[name]; ok {
			return val, nil
		}
		if level.receiver != nil {
			if val, ok := level.receiver.Fields[name]; ok {
				return val, nil
			}
		}
	}
	return NewNull(), newKindError(UndefinedName, "name '%s' is not defined in scope '%s'", name, s.name)
}

// Assign rebinds name at the nearest level that holds it.
func (s *Scope) Assign(name string, val Value) error {
	for level := s; level != nil; level = level.parent {
		if _, ok := level.values[name]; ok {
			level.values[name] = val
			return nil
		}
		if level.receiver != nil {
			if _, ok := level.receiver.Fields[name]; ok {
				level.receiver.Fields[name] = val
				return nil
			}
		}
	}
	return newKindError(UndefinedName, "name '%s' is not defined in scope '%s'", name, s.name)
}

// Bindings returns a copy of this level's own bindings.
func (s *Scope) Bindings() map[string]Value {
	return maps.Clone(s.values)
}

// Names lists this level's own names in sorted order.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.values))
}
