package terse

import "sort"

// Env is one variable scope. Lookups walk outward to the parent; writes
// always land in the scope they are issued from.
type Env struct {
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

// Get returns NULL and false for unbound names.
func (e *Env) Get(name string) (Value, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return NewNull(), false
}

func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Set binds name in this scope, shadowing any outer binding. Plain
// assignment inside a function never reaches the global scope; GLOBAL does.
func (e *Env) Set(name string, val Value) {
	e.values[name] = val
}

// Names lists the names bound directly in this scope, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
