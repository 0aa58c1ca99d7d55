package terse

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a dynamically typed script value. Arrays and maps are held by
// pointer, so copies of a Value alias the same container.
type Value struct {
	kind ValueKind
	data any
}

// Array is a growable, 1-indexed-from-script sequence shared by reference.
type Array struct {
	elems []Value
}

func (a *Array) Len() int { return len(a.elems) }

// At returns the element at zero-based i, or NULL when out of range.
func (a *Array) At(i int) Value {
	if i < 0 || i >= len(a.elems) {
		return NewNull()
	}
	return a.elems[i]
}

// Set stores v at zero-based i, padding with NULL as needed.
func (a *Array) Set(i int, v Value) {
	for len(a.elems) <= i {
		a.elems = append(a.elems, NewNull())
	}
	a.elems[i] = v
}

func (a *Array) Push(v Value) int {
	a.elems = append(a.elems, v)
	return len(a.elems)
}

func (a *Array) Pop() (Value, bool) {
	if len(a.elems) == 0 {
		return NewNull(), false
	}
	last := a.elems[len(a.elems)-1]
	a.elems = a.elems[:len(a.elems)-1]
	return last, true
}

func (a *Array) Unshift(v Value) int {
	a.elems = append([]Value{v}, a.elems...)
	return len(a.elems)
}

func (a *Array) Shift() (Value, bool) {
	if len(a.elems) == 0 {
		return NewNull(), false
	}
	first := a.elems[0]
	a.elems = a.elems[1:]
	return first, true
}

// Values returns a copy of the elements.
func (a *Array) Values() []Value {
	out := make([]Value, len(a.elems))
	copy(out, a.elems)
	return out
}

// Map is a string-keyed container that remembers insertion order.
type Map struct {
	entries *orderedmap.OrderedMap
}

func newMap() *Map {
	return &Map{entries: orderedmap.New()}
}

func (m *Map) Len() int { return len(m.entries.Keys()) }

func (m *Map) Get(key string) (Value, bool) {
	raw, ok := m.entries.Get(key)
	if !ok {
		return NewNull(), false
	}
	return raw.(Value), true
}

// Set keeps an existing key in its original position.
func (m *Map) Set(key string, v Value) {
	m.entries.Set(key, v)
}

// Keys returns a snapshot of the keys in insertion order.
func (m *Map) Keys() []string {
	keys := m.entries.Keys()
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
