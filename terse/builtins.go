package terse

import (
	"math"
	"strings"
	"unicode/utf8"
)

func (e *Engine) registerCoreBuiltins() {
	e.RegisterBuiltin("PRINT", 1, builtinPrint)
	e.RegisterBuiltin("LEN", 1, builtinLen)
	e.RegisterBuiltin("SUM_ARRAY", 1, builtinSumArray)
	e.RegisterBuiltin("SUBSTR", 3, builtinSubstr)
	e.RegisterBuiltin("SLICE", 3, builtinSlice)
	e.RegisterBuiltin("STRING", 1, builtinString)
	e.RegisterBuiltin("TRIM", 1, builtinTrim)
	e.RegisterBuiltin("STARTS_WITH", 2, builtinStartsWith)
	e.RegisterBuiltin("ENDS_WITH", 2, builtinEndsWith)
	e.RegisterBuiltin("SPLIT", 2, builtinSplit)
	e.RegisterBuiltin("JOIN", 2, builtinJoin)
	e.RegisterBuiltin("UPPER", 1, builtinUpper)
	e.RegisterBuiltin("RAND", 2, builtinRand)
	e.RegisterBuiltin("PUSH", 2, builtinPush)
	e.RegisterBuiltin("POP", 1, builtinPop)
	e.RegisterBuiltin("UNSHIFT", 2, builtinUnshift)
	e.RegisterBuiltin("SHIFT", 1, builtinShift)
	e.RegisterBuiltin("IT", 0, builtinIt)
	e.RegisterBuiltin("EXEC", 1, builtinExec)
	e.RegisterBuiltin("EXEC2", 1, builtinExec2)
	e.RegisterBuiltin("EXEC_COMBINED", 1, builtinExecCombined)
}

func builtinPrint(exec *Execution, args []Value) (Value, error) {
	exec.print(args[0].String())
	return args[0], nil
}

func builtinLen(exec *Execution, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind() {
	case KindArray:
		return NewNumber(float64(v.Array().Len())), nil
	case KindString:
		return NewNumber(float64(utf8.RuneCountInString(v.String()))), nil
	case KindMap:
		return NewNumber(float64(v.Map().Len())), nil
	default:
		return NewNumber(0), nil
	}
}

func builtinSumArray(exec *Execution, args []Value) (Value, error) {
	arr := args[0].Array()
	if arr == nil {
		return NewNumber(0), nil
	}
	sum := 0.0
	for _, elem := range arr.elems {
		sum += elem.ToNumber()
	}
	return NewNumber(sum), nil
}

func builtinString(exec *Execution, args []Value) (Value, error) {
	return NewString(args[0].String()), nil
}

func builtinTrim(exec *Execution, args []Value) (Value, error) {
	return NewString(strings.TrimSpace(args[0].String())), nil
}

func builtinStartsWith(exec *Execution, args []Value) (Value, error) {
	return NewBool(strings.HasPrefix(args[0].String(), args[1].String())), nil
}

func builtinEndsWith(exec *Execution, args []Value) (Value, error) {
	return NewBool(strings.HasSuffix(args[0].String(), args[1].String())), nil
}

// builtinSplit splits into characters when the delimiter is empty.
func builtinSplit(exec *Execution, args []Value) (Value, error) {
	return NewStringArray(strings.Split(args[0].String(), args[1].String())), nil
}

func builtinJoin(exec *Execution, args []Value) (Value, error) {
	arr := args[0].Array()
	if arr == nil {
		return NewString(""), nil
	}
	parts := make([]string, arr.Len())
	for i, elem := range arr.elems {
		parts[i] = elem.String()
	}
	return NewString(strings.Join(parts, args[1].String())), nil
}

func builtinUpper(exec *Execution, args []Value) (Value, error) {
	return NewString(strings.ToUpper(args[0].String())), nil
}

// builtinRand draws an integer in [lo, hi] where lo and hi are the floored
// arguments in ascending order.
func builtinRand(exec *Execution, args []Value) (Value, error) {
	a := math.Floor(args[0].ToNumber())
	b := math.Floor(args[1].ToNumber())
	lo, hi := math.Min(a, b), math.Max(a, b)
	return NewNumber(lo + math.Floor(exec.random()*(hi-lo+1))), nil
}

// builtinPush appends in place and returns the new length. Non-arrays are
// left alone and report 0.
func builtinPush(exec *Execution, args []Value) (Value, error) {
	arr := args[0].Array()
	if arr == nil {
		return NewNumber(0), nil
	}
	return NewNumber(float64(arr.Push(args[1]))), nil
}

func builtinPop(exec *Execution, args []Value) (Value, error) {
	arr := args[0].Array()
	if arr == nil {
		return NewNull(), nil
	}
	val, _ := arr.Pop()
	return val, nil
}

func builtinUnshift(exec *Execution, args []Value) (Value, error) {
	arr := args[0].Array()
	if arr == nil {
		return NewNumber(0), nil
	}
	return NewNumber(float64(arr.Unshift(args[1]))), nil
}

func builtinShift(exec *Execution, args []Value) (Value, error) {
	arr := args[0].Array()
	if arr == nil {
		return NewNull(), nil
	}
	val, _ := arr.Shift()
	return val, nil
}

func builtinIt(exec *Execution, args []Value) (Value, error) {
	return exec.popValue(), nil
}
