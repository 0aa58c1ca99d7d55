package terse

import (
	"math"
	"strconv"
	"strings"
)

// String renders v the way PRINT and string concatenation see it.
func (v Value) String() string {
	return formatValue(v, nil)
}

func formatValue(v Value, seen map[*Array]struct{}) string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		if v.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		return v.data.(string)
	case KindArray:
		arr := v.Array()
		if _, ok := seen[arr]; ok {
			return ""
		}
		if seen == nil {
			seen = make(map[*Array]struct{})
		}
		seen[arr] = struct{}{}
		defer delete(seen, arr)
		parts := make([]string, arr.Len())
		for i, elem := range arr.elems {
			parts[i] = formatValue(elem, seen)
		}
		return strings.Join(parts, ",")
	case KindMap:
		return "[object]"
	default:
		return ""
	}
}

// formatNumber prints integers without a fraction and switches to
// exponent form outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool()
	case KindNumber:
		n := v.Number()
		return n != 0 && !math.IsNaN(n)
	case KindString:
		return v.data.(string) != ""
	default:
		return true
	}
}

// Equal is strict: kinds must match, NaN is never equal, and containers
// compare by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray:
		return v.Array() == other.Array()
	case KindMap:
		return v.Map() == other.Map()
	default:
		return false
	}
}

// ToNumber coerces v for arithmetic. Strings that do not parse as a number
// become 0, as do arrays and maps.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case KindNumber:
		return v.Number()
	case KindBool:
		if v.Bool() {
			return 1
		}
		return 0
	case KindString:
		return parseNumber(v.data.(string))
	default:
		return 0
	}
}

func parseNumber(s string) float64 {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0
	}

	switch text {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			if strings.Contains(text, "_") {
				return 0
			}
			n, err := strconv.ParseUint(text, 0, 64)
			if err != nil {
				return 0
			}
			return float64(n)
		}
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		// ParseFloat accepts spellings like "inf" and "nan".
		lower := strings.ToLower(strings.TrimLeft(text, "+-"))
		if strings.HasPrefix(lower, "inf") || lower == "nan" {
			return 0
		}
	}
	return n
}

// toIndex floors a 1-based script index into a zero-based Go index.
func toIndex(v Value) int {
	n := math.Floor(v.ToNumber())
	if math.IsNaN(n) {
		return -1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n) - 1
}
