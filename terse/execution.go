package terse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Execution is the state of one run or one REPL session: the global scope,
// function table, output log and implicit value stack. It is not safe for
// concurrent use.
type Execution struct {
	engine    *Engine
	ctx       context.Context
	source    string
	functions map[string]*Function
	globals   *Env

	stack  []Value
	output []string

	callStack    []callFrame
	steps        int
	quota        int
	recursionCap int

	random func() float64
	runner ProcessRunner
	logger *slog.Logger
	stdout io.Writer
}

type callFrame struct {
	Function string
	Pos      Position
}

func (e *Engine) newExecution(ctx context.Context, source string) *Execution {
	functions := make(map[string]*Function, len(e.builtins))
	for name, fn := range e.builtins {
		functions[name] = fn
	}
	return &Execution{
		engine:       e,
		ctx:          ctx,
		source:       source,
		functions:    functions,
		globals:      newEnv(nil),
		quota:        e.config.StepQuota,
		recursionCap: e.config.RecursionLimit,
		random:       e.config.Random,
		runner:       e.config.Runner,
		logger:       e.config.Logger,
		stdout:       e.config.Stdout,
	}
}

// registerFunctions adds user functions to the table. Later declarations
// replace earlier ones and user functions replace builtins of the same
// name.
func (exec *Execution) registerFunctions(decls []*FuncStmt) {
	for _, decl := range decls {
		exec.functions[decl.Name] = &Function{Name: decl.Name, Arity: len(decl.Params), Decl: decl}
	}
}

func (exec *Execution) Context() context.Context {
	return exec.ctx
}

func (exec *Execution) Globals() *Env {
	return exec.globals
}

// Output returns a copy of the output log.
func (exec *Execution) Output() []string {
	out := make([]string, len(exec.output))
	copy(out, exec.output)
	return out
}

func (exec *Execution) print(line string) {
	exec.output = append(exec.output, line)
	if exec.stdout != nil {
		fmt.Fprintln(exec.stdout, line)
	}
}

func (exec *Execution) pushValue(v Value) {
	exec.stack = append(exec.stack, v)
}

// popValue removes the top of the implicit stack, or returns NULL when the
// stack is empty.
func (exec *Execution) popValue() Value {
	if len(exec.stack) == 0 {
		return NewNull()
	}
	top := exec.stack[len(exec.stack)-1]
	exec.stack = exec.stack[:len(exec.stack)-1]
	return top
}

// StackDepth reports how many values sit on the implicit stack.
func (exec *Execution) StackDepth() int {
	return len(exec.stack)
}

func (exec *Execution) step(pos Position) error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return exec.errorAt(ErrLimit, pos, "step quota exceeded (%d)", exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			err := exec.ctx.Err()
			return exec.newError(ErrRuntime, err.Error(), pos, err)
		default:
		}
	}
	return nil
}

func (exec *Execution) pushFrame(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(ErrLimit, pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

// runTopLevel executes a program body in the global scope. A RETURN ends
// the run normally; any other escaping jump is fatal.
func (exec *Execution) runTopLevel(stmts []Statement) (Value, error) {
	sig, err := exec.execBlock(stmts, exec.globals)
	if err != nil {
		return NewNull(), err
	}
	if err := exec.checkEscapedSignal(sig, "<script>"); err != nil {
		return NewNull(), err
	}
	return sig.value, nil
}

func (exec *Execution) execBlock(stmts []Statement, env *Env) (signal, error) {
	labels := make(map[string]int)
	for i, stmt := range stmts {
		if label, ok := statementLabel(stmt); ok {
			labels[label] = i
		}
	}

	last := NewNull()
	for i := 0; i < len(stmts); i++ {
		stmt := stmts[i]
		sig, err := exec.execStatement(stmt, env)
		if err != nil {
			return signal{}, err
		}

		switch sig.kind {
		case signalReturn, signalBreak, signalContinue:
			return sig, nil
		case signalGoto:
			target, ok := labels[sig.label]
			if !ok {
				return sig, nil
			}
			exec.logger.Debug("goto", "label", sig.label, "line", stmts[target].Pos().Line)
			i = target - 1
			continue
		}

		if _, ok := stmt.(*ExprStmt); ok {
			last = sig.value
		}
	}
	return okSignal(last), nil
}

func (exec *Execution) execStatement(stmt Statement, env *Env) (signal, error) {
	if err := exec.step(stmt.Pos()); err != nil {
		return signal{}, err
	}

	switch s := stmt.(type) {
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, env)
		if err != nil {
			return signal{}, err
		}
		exec.pushValue(val)
		return okSignal(val), nil
	case *AssignStmt:
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return signal{}, err
		}
		if err := exec.assign(s.Target, val, env); err != nil {
			return signal{}, err
		}
		return okSignal(val), nil
	case *GlobalAssignStmt:
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return signal{}, err
		}
		exec.globals.Set(s.Name, val)
		return okSignal(val), nil
	case *IfStmt:
		return exec.execIf(s, env)
	case *WhileStmt:
		return exec.execWhile(s, env)
	case *ForStmt:
		return exec.execFor(s, env)
	case *ForEachStmt:
		return exec.execForEach(s, env)
	case *ReturnStmt:
		if s.Value == nil {
			return signal{kind: signalReturn, value: NewNull(), pos: s.Pos()}, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: signalReturn, value: val, pos: s.Pos()}, nil
	case *GotoStmt:
		return signal{kind: signalGoto, label: s.Label, value: NewNull(), pos: s.Pos()}, nil
	case *BreakStmt:
		return signal{kind: signalBreak, label: s.Label, value: NewNull(), pos: s.Pos()}, nil
	case *ContinueStmt:
		return signal{kind: signalContinue, label: s.Label, value: NewNull(), pos: s.Pos()}, nil
	case *FuncStmt, *LabelStmt:
		return okSignal(NewNull()), nil
	default:
		return signal{}, exec.errorAt(ErrRuntime, stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		return NewNumber(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NullLiteral:
		return NewNull(), nil
	case *Identifier:
		val, _ := env.Get(e.Name)
		return val, nil
	case *ArrayLiteral:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			val, err := exec.evalExpression(el, env)
			if err != nil {
				return NewNull(), err
			}
			elems[i] = val
		}
		return NewArray(elems), nil
	case *ObjectLiteral:
		m := newMap()
		for _, pair := range e.Pairs {
			val, err := exec.evalExpression(pair.Value, env)
			if err != nil {
				return NewNull(), err
			}
			m.Set(pair.Key, val)
		}
		return NewMapValue(m), nil
	case *CallExpr:
		return exec.evalCall(e, env)
	case *MemberExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNull(), err
		}
		return memberValue(obj, e.Property), nil
	case *IndexExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNull(), err
		}
		idx, err := exec.evalExpression(e.Index, env)
		if err != nil {
			return NewNull(), err
		}
		return indexValue(obj, idx), nil
	case *UnaryExpr:
		right, err := exec.evalExpression(e.Right, env)
		if err != nil {
			return NewNull(), err
		}
		return exec.evalUnary(e, right)
	case *BinaryExpr:
		return exec.evalBinary(e, env)
	default:
		return NewNull(), exec.errorAt(ErrRuntime, expr.Pos(), "unsupported expression %T", expr)
	}
}

// memberValue reads key from a map. Every other receiver yields NULL.
func memberValue(obj Value, key string) Value {
	m := obj.Map()
	if m == nil {
		return NewNull()
	}
	val, _ := m.Get(key)
	return val
}

// indexValue reads a 1-based position from an array or string. Out of range
// positions and other receivers yield NULL.
func indexValue(obj Value, idx Value) Value {
	switch obj.Kind() {
	case KindArray:
		return obj.Array().At(toIndex(idx))
	case KindString:
		runes := []rune(obj.data.(string))
		i := toIndex(idx)
		if i < 0 || i >= len(runes) {
			return NewNull()
		}
		return NewString(string(runes[i]))
	default:
		return NewNull()
	}
}
