package terse

import (
	"encoding/json"
	"math"

	"github.com/iancoleman/orderedmap"
)

// MarshalJSON encodes v with map keys in insertion order. Non-finite
// numbers and cyclic references encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.jsonTree(make(map[any]struct{})))
}

func (v Value) jsonTree(seen map[any]struct{}) any {
	switch v.kind {
	case KindNumber:
		n := v.Number()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return n
	case KindArray:
		arr := v.Array()
		if _, ok := seen[arr]; ok {
			return nil
		}
		seen[arr] = struct{}{}
		defer delete(seen, arr)
		out := make([]any, arr.Len())
		for i, elem := range arr.elems {
			out[i] = elem.jsonTree(seen)
		}
		return out
	case KindMap:
		m := v.Map()
		if _, ok := seen[m]; ok {
			return nil
		}
		seen[m] = struct{}{}
		defer delete(seen, m)
		out := orderedmap.New()
		for _, key := range m.Keys() {
			elem, _ := m.Get(key)
			out.Set(key, elem.jsonTree(seen))
		}
		return out
	default:
		return v.native(seen)
	}
}
