package terse

import (
	"regexp"
	"strings"
)

// Parameters end at the first ";" so one-line definitions such as
// "FUNC SQ x; RETURN x * x; END" count only x.
var funcDeclPattern = regexp.MustCompile(`^\s*FUNC\s+([A-Za-z_][A-Za-z0-9_]*)([^;]*)`)

// ParseArities builds the name-to-arity table the parser uses to decide how
// many arguments each call consumes. It starts from the builtin table and
// adds one entry per FUNC line in the preprocessed source; a user function
// with a builtin's name overrides that builtin's arity.
func ParseArities(preprocessed string, builtins map[string]int) map[string]int {
	arities := make(map[string]int, len(builtins))
	for name, arity := range builtins {
		arities[name] = arity
	}
	for _, line := range lineBreakPattern.Split(preprocessed, -1) {
		match := funcDeclPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		arities[match[1]] = len(strings.Fields(match[2]))
	}
	return arities
}
