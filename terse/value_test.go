package terse

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{-0.5, "-0.5"},
		{123456789012, "123456789012"},
		{1e21, "1e+21"},
		{-2.5e22, "-2.5e+22"},
		{1e-7, "1e-7"},
		{0.0000015, "0.0000015"},
		{math.Copysign(0, -1), "0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Fatalf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"  12 ", 12},
		{"-2.5", -2.5},
		{"1e3", 1000},
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"inf", 0},
		{"nan", 0},
		{"abc", 0},
		{"12abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.in); got != tt.want {
			t.Fatalf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		val  Value
		want bool
	}{
		{NewNull(), false},
		{NewBool(false), false},
		{NewNumber(0), false},
		{NewNumber(math.NaN()), false},
		{NewString(""), false},
		{NewNumber(-1), true},
		{NewString("0"), true},
		{NewArray(nil), true},
		{NewMap(nil, nil), true},
	}
	for _, tt := range tests {
		if got := tt.val.Truthy(); got != tt.want {
			t.Fatalf("%v (%s): expected %v", tt.val, tt.val.Kind(), tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	arr := NewArray([]Value{NewNumber(1)})
	if !arr.Equal(arr) {
		t.Fatalf("expected array equal to itself")
	}
	if arr.Equal(NewArray([]Value{NewNumber(1)})) {
		t.Fatalf("expected distinct arrays to differ")
	}
	if NewNumber(1).Equal(NewString("1")) {
		t.Fatalf("expected kinds to matter")
	}
	if nan := NewNumber(math.NaN()); nan.Equal(nan) {
		t.Fatalf("expected NaN to differ from itself")
	}
	if !NewNull().Equal(NewNull()) {
		t.Fatalf("expected NULL equal to NULL")
	}
}

func TestDisplay(t *testing.T) {
	nested := NewArray([]Value{NewNumber(1), NewArray([]Value{NewNumber(2), NewString("x")}), NewNull(), NewBool(true)})
	if got := nested.String(); got != "1,2,x,NULL,TRUE" {
		t.Fatalf("unexpected display %q", got)
	}
	if got := NewMap([]string{"a"}, []Value{NewNumber(1)}).String(); got != "[object]" {
		t.Fatalf("unexpected map display %q", got)
	}

	cyclic := NewArray([]Value{NewNumber(1)})
	cyclic.Array().Push(cyclic)
	if got := cyclic.String(); got != "1," {
		t.Fatalf("unexpected cyclic display %q", got)
	}
}

func TestMarshalJSONKeepsKeyOrder(t *testing.T) {
	inner := NewArray([]Value{NewNumber(1), NewString("x"), NewNull(), NewBool(true), NewNumber(math.Inf(1))})
	val := NewMap([]string{"b", "a", "nested"}, []Value{
		NewNumber(1.5),
		inner,
		NewMap([]string{"z", "y"}, []Value{NewNumber(1), NewNumber(2)}),
	})

	data, err := json.Marshal(val)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"b":1.5,"a":[1,"x",null,true,null],"nested":{"z":1,"y":2}}`
	if string(data) != want {
		t.Fatalf("unexpected JSON:\n%s", cmp.Diff(want, string(data)))
	}
}

func TestMarshalJSONBreaksCycles(t *testing.T) {
	m := NewMap([]string{"name"}, []Value{NewString("loop")})
	m.Map().Set("self", m)
	arr := NewArray([]Value{NewNumber(1)})
	arr.Array().Push(arr)

	for _, tt := range []struct {
		val  Value
		want string
	}{
		{m, `{"name":"loop","self":null}`},
		{arr, `[1,null]`},
	} {
		data, err := json.Marshal(tt.val)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != tt.want {
			t.Fatalf("expected %s, got %s", tt.want, data)
		}
	}
}

func TestNative(t *testing.T) {
	val := NewMap([]string{"list", "flag", "none"}, []Value{
		NewStringArray([]string{"a", "b"}),
		NewBool(true),
	})
	want := map[string]any{"list": []any{"a", "b"}, "flag": true, "none": nil}
	if diff := cmp.Diff(want, val.Native()); diff != "" {
		t.Fatalf("native mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayPadding(t *testing.T) {
	var arr Array
	arr.Set(2, NewString("c"))
	if arr.Len() != 3 || !arr.At(0).IsNull() || arr.At(2).String() != "c" {
		t.Fatalf("unexpected padded array %v", NewArrayValue(&arr))
	}
	if !arr.At(-1).IsNull() || !arr.At(3).IsNull() {
		t.Fatalf("expected out of range reads to be NULL")
	}
}

func TestMapKeysAreSnapshots(t *testing.T) {
	m := newMap()
	m.Set("a", NewNumber(1))
	keys := m.Keys()
	m.Set("b", NewNumber(2))
	m.Set("a", NewNumber(3))
	if diff := cmp.Diff([]string{"a"}, keys); diff != "" {
		t.Fatalf("snapshot changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
