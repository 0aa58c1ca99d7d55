package terse

func (exec *Execution) processRunner(name string) (ProcessRunner, error) {
	if exec.runner == nil {
		return nil, builtinError(ErrExec, nil, "%s: no process runner configured", name)
	}
	return exec.runner, nil
}

func builtinExec(exec *Execution, args []Value) (Value, error) {
	runner, err := exec.processRunner("EXEC")
	if err != nil {
		return NewNull(), err
	}
	command := args[0].String()
	exec.logger.Debug("exec", "mode", "checked", "command", command)
	out, err := runner.ExecuteChecked(exec.ctx, command)
	if err != nil {
		return NewNull(), builtinError(ErrExec, err, "%s", err.Error())
	}
	return NewString(out), nil
}

// builtinExec2 reports failures as data: {stdout, stderr, exit_code}.
func builtinExec2(exec *Execution, args []Value) (Value, error) {
	runner, err := exec.processRunner("EXEC2")
	if err != nil {
		return NewNull(), err
	}
	command := args[0].String()
	exec.logger.Debug("exec", "mode", "raw", "command", command)
	res := runner.ExecuteRaw(exec.ctx, command)
	return NewMap(
		[]string{"stdout", "stderr", "exit_code"},
		[]Value{NewString(res.Stdout), NewString(res.Stderr), NewNumber(float64(res.ExitCode))},
	), nil
}

func builtinExecCombined(exec *Execution, args []Value) (Value, error) {
	runner, err := exec.processRunner("EXEC_COMBINED")
	if err != nil {
		return NewNull(), err
	}
	command := args[0].String()
	exec.logger.Debug("exec", "mode", "combined", "command", command)
	out, err := runner.ExecuteCombined(exec.ctx, command)
	if err != nil {
		return NewNull(), builtinError(ErrExec, err, "%s", err.Error())
	}
	return NewString(out), nil
}
