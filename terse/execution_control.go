package terse

type signalKind int

const (
	signalOK signalKind = iota
	signalReturn
	signalBreak
	signalContinue
	signalGoto
)

func (k signalKind) keyword() string {
	switch k {
	case signalReturn:
		return "RETURN"
	case signalBreak:
		return "BREAK"
	case signalContinue:
		return "CONTINUE"
	case signalGoto:
		return "GOTO"
	default:
		return "OK"
	}
}

// signal is the control outcome of a statement or block. It travels as a
// return value; errors are reserved for fatal conditions.
type signal struct {
	kind  signalKind
	value Value
	label string
	pos   Position
}

func okSignal(v Value) signal {
	return signal{kind: signalOK, value: v}
}

type loopAction int

const (
	loopNext loopAction = iota
	loopExit
	loopPropagate
)

// loopActionFor decides how a loop labeled label reacts to the signal its
// body produced.
func loopActionFor(sig signal, label string) loopAction {
	switch sig.kind {
	case signalBreak:
		if sig.label == "" || sig.label == label {
			return loopExit
		}
		return loopPropagate
	case signalContinue:
		if sig.label == "" || sig.label == label {
			return loopNext
		}
		return loopPropagate
	case signalReturn, signalGoto:
		return loopPropagate
	default:
		return loopNext
	}
}

// checkEscapedSignal turns a jump that left a function body or the top
// level into a fatal error. RETURN and OK are fine.
func (exec *Execution) checkEscapedSignal(sig signal, scope string) error {
	switch sig.kind {
	case signalGoto:
		return exec.errorAt(ErrLabel, sig.pos, "unknown label %s", sig.label)
	case signalBreak, signalContinue:
		if sig.label != "" {
			return exec.errorAt(ErrLabel, sig.pos, "%s %s does not match any enclosing loop in %s", sig.kind.keyword(), sig.label, scope)
		}
		return exec.errorAt(ErrLabel, sig.pos, "%s outside of a loop in %s", sig.kind.keyword(), scope)
	default:
		return nil
	}
}

func (exec *Execution) execIf(stmt *IfStmt, env *Env) (signal, error) {
	for _, branch := range stmt.Branches {
		cond, err := exec.evalExpression(branch.Condition, env)
		if err != nil {
			return signal{}, err
		}
		if cond.Truthy() {
			return exec.finishIf(stmt, branch.Body, env)
		}
	}
	if stmt.Alternate != nil {
		return exec.finishIf(stmt, stmt.Alternate, env)
	}
	return okSignal(NewNull()), nil
}

// finishIf runs the chosen branch. A BREAK naming the IF's own label leaves
// the IF; a CONTINUE naming it is an error.
func (exec *Execution) finishIf(stmt *IfStmt, body []Statement, env *Env) (signal, error) {
	sig, err := exec.execBlock(body, env)
	if err != nil {
		return signal{}, err
	}
	if stmt.Label != "" && sig.label == stmt.Label {
		switch sig.kind {
		case signalBreak:
			return okSignal(NewNull()), nil
		case signalContinue:
			return signal{}, exec.errorAt(ErrLabel, sig.pos, "CONTINUE cannot target IF label %s", stmt.Label)
		}
	}
	if sig.kind != signalOK {
		return sig, nil
	}
	return okSignal(NewNull()), nil
}

func (exec *Execution) execWhile(stmt *WhileStmt, env *Env) (signal, error) {
	for {
		cond, err := exec.evalExpression(stmt.Condition, env)
		if err != nil {
			return signal{}, err
		}
		if !cond.Truthy() {
			break
		}
		sig, err := exec.execBlock(stmt.Body, env)
		if err != nil {
			return signal{}, err
		}
		switch loopActionFor(sig, stmt.Label) {
		case loopExit:
			return okSignal(NewNull()), nil
		case loopPropagate:
			return sig, nil
		}
		if err := exec.step(stmt.Pos()); err != nil {
			return signal{}, err
		}
	}
	return okSignal(NewNull()), nil
}

// execFor counts from start to end inclusive, upward when start <= end and
// downward otherwise. The iterator is rebound in the enclosing scope on
// every pass.
func (exec *Execution) execFor(stmt *ForStmt, env *Env) (signal, error) {
	startVal, err := exec.evalExpression(stmt.Start, env)
	if err != nil {
		return signal{}, err
	}
	endVal, err := exec.evalExpression(stmt.End, env)
	if err != nil {
		return signal{}, err
	}
	start := startVal.ToNumber()
	end := endVal.ToNumber()

	step := 1.0
	if start > end {
		step = -1
	}
	for i := start; (step > 0 && i <= end) || (step < 0 && i >= end); i += step {
		env.Set(stmt.Iterator, NewNumber(i))
		sig, err := exec.execBlock(stmt.Body, env)
		if err != nil {
			return signal{}, err
		}
		switch loopActionFor(sig, stmt.Label) {
		case loopExit:
			return okSignal(NewNull()), nil
		case loopPropagate:
			return sig, nil
		}
		if err := exec.step(stmt.Pos()); err != nil {
			return signal{}, err
		}
	}
	return okSignal(NewNull()), nil
}

// execForEach walks arrays by live length, binding the key variable to the
// 1-based position, and maps by a snapshot of their keys. Other values
// produce no iterations.
func (exec *Execution) execForEach(stmt *ForEachStmt, env *Env) (signal, error) {
	iterable, err := exec.evalExpression(stmt.Iterable, env)
	if err != nil {
		return signal{}, err
	}

	iteration := func(key, val Value) (signal, bool, error) {
		if stmt.KeyVar != "" {
			env.Set(stmt.KeyVar, key)
		}
		env.Set(stmt.ValueVar, val)
		sig, err := exec.execBlock(stmt.Body, env)
		if err != nil {
			return signal{}, true, err
		}
		switch loopActionFor(sig, stmt.Label) {
		case loopExit:
			return okSignal(NewNull()), true, nil
		case loopPropagate:
			return sig, true, nil
		}
		if err := exec.step(stmt.Pos()); err != nil {
			return signal{}, true, err
		}
		return signal{}, false, nil
	}

	switch iterable.Kind() {
	case KindArray:
		arr := iterable.Array()
		for i := 0; i < arr.Len(); i++ {
			if sig, done, err := iteration(NewNumber(float64(i+1)), arr.At(i)); done {
				return sig, err
			}
		}
	case KindMap:
		m := iterable.Map()
		for _, key := range m.Keys() {
			val, _ := m.Get(key)
			if sig, done, err := iteration(NewString(key), val); done {
				return sig, err
			}
		}
	}
	return okSignal(NewNull()), nil
}
