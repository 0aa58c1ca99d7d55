package terse

// evalCall evaluates a call node. Explicit arguments fill the rightmost
// parameters; any missing leading arguments come off the implicit stack in
// push order, so "5", "3", "F" calls F(5, 3).
func (exec *Execution) evalCall(call *CallExpr, env *Env) (Value, error) {
	fn, ok := exec.functions[call.Name]
	if !ok {
		return NewNull(), exec.errorAt(ErrName, call.Pos(), "unknown function %s", call.Name)
	}

	args := make([]Value, 0, fn.Arity)
	for _, argExpr := range call.Args {
		val, err := exec.evalExpression(argExpr, env)
		if err != nil {
			return NewNull(), err
		}
		args = append(args, val)
	}

	if missing := fn.Arity - len(args); missing > 0 {
		if len(exec.stack) < missing {
			return NewNull(), exec.errorAt(ErrArity, call.Pos(), "not enough stack values for %s: need %d, have %d", call.Name, missing, len(exec.stack))
		}
		split := len(exec.stack) - missing
		pulled := make([]Value, 0, fn.Arity)
		pulled = append(pulled, exec.stack[split:]...)
		exec.stack = exec.stack[:split]
		args = append(pulled, args...)
	}
	if len(args) > fn.Arity {
		return NewNull(), exec.errorAt(ErrArity, call.Pos(), "too many arguments for %s: expected %d, got %d", call.Name, fn.Arity, len(args))
	}

	if fn.Builtin != nil {
		val, err := fn.Builtin(exec, args)
		if err != nil {
			return NewNull(), exec.wrapError(ErrRuntime, err, call.Pos())
		}
		return val, nil
	}
	return exec.callFunction(fn, args, call.Pos())
}

// callFunction runs a user function in a fresh scope whose parent is the
// global scope. Falling off the end yields NULL.
func (exec *Execution) callFunction(fn *Function, args []Value, pos Position) (Value, error) {
	if err := exec.pushFrame(fn.Name, pos); err != nil {
		return NewNull(), err
	}
	defer exec.popFrame()

	exec.logger.Debug("call", "function", fn.Name, "args", len(args), "depth", len(exec.callStack))

	local := newEnv(exec.globals)
	for i, param := range fn.Decl.Params {
		local.Define(param, args[i])
	}

	sig, err := exec.execBlock(fn.Decl.Body, local)
	if err != nil {
		return NewNull(), err
	}
	if sig.kind == signalReturn {
		return sig.value, nil
	}
	if err := exec.checkEscapedSignal(sig, fn.Name); err != nil {
		return NewNull(), err
	}
	return NewNull(), nil
}
