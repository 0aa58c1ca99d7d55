package terse

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

// Number returns the raw number for KindNumber values and 0 otherwise. Use
// ToNumber for script coercion.
func (v Value) Number() float64 {
	if v.kind == KindNumber {
		return v.data.(float64)
	}
	return 0
}

func (v Value) Array() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*Array)
}

func (v Value) Map() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.data.(*Map)
}

// Native converts v into plain Go values: nil, bool, float64, string,
// []any and map[string]any. Cyclic references become nil.
func (v Value) Native() any {
	return v.native(make(map[any]struct{}))
}

func (v Value) native(seen map[any]struct{}) any {
	switch v.kind {
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number()
	case KindString:
		return v.data.(string)
	case KindArray:
		arr := v.Array()
		if _, ok := seen[arr]; ok {
			return nil
		}
		seen[arr] = struct{}{}
		defer delete(seen, arr)
		out := make([]any, arr.Len())
		for i, elem := range arr.elems {
			out[i] = elem.native(seen)
		}
		return out
	case KindMap:
		m := v.Map()
		if _, ok := seen[m]; ok {
			return nil
		}
		seen[m] = struct{}{}
		defer delete(seen, m)
		out := make(map[string]any, m.Len())
		for _, key := range m.Keys() {
			elem, _ := m.Get(key)
			out[key] = elem.native(seen)
		}
		return out
	default:
		return nil
	}
}
