package terse

func NewNull() Value               { return Value{kind: KindNull} }
func NewBool(b bool) Value         { return Value{kind: KindBool, data: b} }
func NewNumber(f float64) Value    { return Value{kind: KindNumber, data: f} }
func NewString(s string) Value     { return Value{kind: KindString, data: s} }
func NewArrayValue(a *Array) Value { return Value{kind: KindArray, data: a} }
func NewMapValue(m *Map) Value     { return Value{kind: KindMap, data: m} }

// NewArray wraps a fresh array holding elems. The slice is copied.
func NewArray(elems []Value) Value {
	a := &Array{elems: make([]Value, len(elems))}
	copy(a.elems, elems)
	return NewArrayValue(a)
}

// NewMap builds a map from parallel key and value slices, in key order.
// Keys without a matching value map to NULL.
func NewMap(keys []string, values []Value) Value {
	m := newMap()
	for i, key := range keys {
		v := NewNull()
		if i < len(values) {
			v = values[i]
		}
		m.Set(key, v)
	}
	return NewMapValue(m)
}

func NewStringArray(items []string) Value {
	elems := make([]Value, len(items))
	for i, s := range items {
		elems[i] = NewString(s)
	}
	return NewArray(elems)
}
