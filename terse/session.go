package terse

import (
	"context"
	"sort"
)

// Session evaluates source chunks one after another against shared state,
// as a REPL does. Globals, user functions, the output log and the implicit
// stack all carry over between chunks.
type Session struct {
	exec    *Execution
	arities map[string]int
}

func (e *Engine) NewSession() *Session {
	return &Session{
		exec:    e.newExecution(context.Background(), ""),
		arities: e.builtinArities(),
	}
}

// Eval parses and runs chunk. It returns the value of the chunk's last
// expression statement, or the value of a top-level RETURN. A chunk that
// fails to parse leaves the session untouched.
func (s *Session) Eval(ctx context.Context, chunk string) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	program, arities, err := parseSource(chunk, s.arities)
	if err != nil {
		return NewNull(), err
	}
	s.arities = arities

	exec := s.exec
	exec.ctx = ctx
	exec.source = chunk
	exec.callStack = exec.callStack[:0]
	exec.registerFunctions(collectFunctions(program.Statements))
	return exec.runTopLevel(program.Statements)
}

// Output returns a copy of everything PRINT has produced so far.
func (s *Session) Output() []string {
	return s.exec.Output()
}

func (s *Session) Globals() *Env {
	return s.exec.globals
}

// Functions lists the user-defined function names, sorted.
func (s *Session) Functions() []string {
	var names []string
	for name, fn := range s.exec.functions {
		if fn.Decl != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Reset discards all state, as if the session were new.
func (s *Session) Reset() {
	engine := s.exec.engine
	s.exec = engine.newExecution(context.Background(), "")
	s.arities = engine.builtinArities()
}
