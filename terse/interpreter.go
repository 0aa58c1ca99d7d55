package terse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
)

// Config controls interpreter execution bounds and host collaborators.
type Config struct {
	// StepQuota caps the number of statements and loop iterations a run may
	// execute. Zero means unlimited.
	StepQuota int
	// RecursionLimit caps user-function call depth. Zero selects the default.
	RecursionLimit int
	// Random returns values in [0, 1) for RAND. Defaults to math/rand/v2.
	Random func() float64
	// Runner backs EXEC, EXEC2 and EXEC_COMBINED. Without one those builtins
	// fail.
	Runner ProcessRunner
	Logger *slog.Logger
	// Stdout, when set, receives each PRINT line as it is produced.
	Stdout io.Writer
}

const defaultRecursionLimit = 4096

// Engine holds configuration and the builtin catalogue shared by every
// script it compiles.
type Engine struct {
	config   Config
	builtins map[string]*Function
}

// Function is an entry in the function table: either a Go builtin or a
// user function declared with FUNC.
type Function struct {
	Name    string
	Arity   int
	Builtin BuiltinFunc
	Decl    *FuncStmt
}

type BuiltinFunc func(exec *Execution, args []Value) (Value, error)

// NewEngine constructs an Engine with defaults applied and the core
// builtins registered.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("step quota must be >= 0, got %d", cfg.StepQuota)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("recursion limit must be >= 0, got %d", cfg.RecursionLimit)
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Random == nil {
		cfg.Random = rand.Float64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	engine := &Engine{
		config:   cfg,
		builtins: make(map[string]*Function),
	}
	engine.registerCoreBuiltins()
	return engine, nil
}

func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// RegisterBuiltin adds or replaces a builtin. It affects scripts compiled
// afterwards.
func (e *Engine) RegisterBuiltin(name string, arity int, fn BuiltinFunc) {
	e.builtins[name] = &Function{Name: name, Arity: arity, Builtin: fn}
}

func (e *Engine) builtinArities() map[string]int {
	arities := make(map[string]int, len(e.builtins))
	for name, fn := range e.builtins {
		arities[name] = fn.Arity
	}
	return arities
}

// Builtins lists the registered builtin names, sorted.
func (e *Engine) Builtins() []string {
	names := make([]string, 0, len(e.builtins))
	for name := range e.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Script is a parsed program ready to run. A Script can be run any number
// of times; each run starts from an empty global scope.
type Script struct {
	engine    *Engine
	program   *Program
	functions []*FuncStmt
	source    string
}

// Result is the outcome of a completed run.
type Result struct {
	Globals *Env
	Output  []string
}

func (e *Engine) Compile(source string) (*Script, error) {
	program, _, err := parseSource(source, e.builtinArities())
	if err != nil {
		return nil, err
	}
	return &Script{
		engine:    e,
		program:   program,
		functions: collectFunctions(program.Statements),
		source:    source,
	}, nil
}

// Program exposes the parsed tree for tooling such as the analyzer.
func (s *Script) Program() *Program {
	return s.program
}

func (s *Script) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	exec := s.engine.newExecution(ctx, s.source)
	exec.registerFunctions(s.functions)

	logger := s.engine.config.Logger
	logger.Debug("run started", "functions", len(s.functions))

	if _, err := exec.runTopLevel(s.program.Statements); err != nil {
		logger.Debug("run failed", "steps", exec.steps, "error", err)
		return nil, err
	}

	logger.Debug("run finished", "steps", exec.steps, "output_lines", len(exec.output))
	return &Result{Globals: exec.globals, Output: exec.Output()}, nil
}

// RunScript compiles and runs source with a fresh engine.
func RunScript(ctx context.Context, source string, cfg Config) (*Result, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	script, err := engine.Compile(source)
	if err != nil {
		return nil, err
	}
	return script.Run(ctx)
}

// collectFunctions finds every FUNC declaration, including ones nested in
// control-flow bodies, in source order.
func collectFunctions(stmts []Statement) []*FuncStmt {
	var out []*FuncStmt
	var walk func([]Statement)
	walk = func(stmts []Statement) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *FuncStmt:
				out = append(out, s)
				walk(s.Body)
			case *IfStmt:
				for _, branch := range s.Branches {
					walk(branch.Body)
				}
				walk(s.Alternate)
			case *WhileStmt:
				walk(s.Body)
			case *ForStmt:
				walk(s.Body)
			case *ForEachStmt:
				walk(s.Body)
			}
		}
	}
	walk(stmts)
	return out
}
