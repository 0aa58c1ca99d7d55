package terse

import "math"

// SUBSTR and SLICE share one range computation over a length, then apply
// it to either runes or array elements.

func builtinSubstr(exec *Execution, args []Value) (Value, error) {
	return sliceValue(args[0], func(length int) (int, int) {
		return substrBounds(length, floorInt(args[1]), floorInt(args[2]))
	}), nil
}

func builtinSlice(exec *Execution, args []Value) (Value, error) {
	return sliceValue(args[0], func(length int) (int, int) {
		return sliceBounds(length, floorInt(args[1]), floorInt(args[2]))
	}), nil
}

func sliceValue(v Value, bounds func(length int) (int, int)) Value {
	if arr := v.Array(); arr != nil {
		lo, hi := bounds(arr.Len())
		return NewArray(arr.elems[lo:hi])
	}
	runes := []rune(v.String())
	lo, hi := bounds(len(runes))
	return NewString(string(runes[lo:hi]))
}

// substrBounds resolves a 1-based start and a count into a half-open
// zero-based range. A negative count selects the whole value regardless of
// start. Otherwise negative starts count from the end and starts below 1
// clamp to 1.
func substrBounds(length, start, count int) (int, int) {
	if count < 0 {
		return 0, length
	}
	if start < 0 {
		start = length + start + 1
	}
	if start < 1 {
		start = 1
	}
	lo := start - 1
	if lo >= length {
		return length, length
	}
	return lo, min(lo+count, length)
}

// sliceBounds resolves inclusive 1-based start and end positions. Negative
// positions count from the end and an inverted range is empty.
func sliceBounds(length, start, end int) (int, int) {
	if start < 0 {
		start = length + start + 1
	}
	if end < 0 {
		end = length + end + 1
	}
	if start < 1 {
		start = 1
	}
	if end > length {
		end = length
	}
	if end < start {
		return 0, 0
	}
	return start - 1, end
}

// floorInt floors a numeric argument into a bounded int. NaN becomes 0.
func floorInt(v Value) int {
	n := math.Floor(v.ToNumber())
	switch {
	case math.IsNaN(n):
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	default:
		return int(n)
	}
}
