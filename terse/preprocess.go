package terse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	stringKeyword     = "STRING"
	blockTerminator   = "END"
	placeholderFormat = "__MLSTR_%d__"
)

var lineBreakPattern = regexp.MustCompile(`\r?\n`)

// Preprocess strips comments and lifts STRING literals out of the source.
// It returns the rewritten text and the placeholder table the lexer uses to
// turn placeholders back into string tokens. Line numbers are preserved.
func Preprocess(source string) (string, map[string]string) {
	out, literals, _ := preprocess(source)
	return out, literals
}

// LiteralLines reports the 1-based lines that belong to a multi-line STRING
// block, from the first body line through the closing END. Their text is
// literal data, not code.
func LiteralLines(source string) map[int]bool {
	_, _, literal := preprocess(source)
	return literal
}

func preprocess(source string) (string, map[string]string, map[int]bool) {
	lines := lineBreakPattern.Split(source, -1)
	literal := make(map[int]bool)
	literals := make(map[string]string)
	out := make([]string, 0, len(lines))

	next := 0
	placeholder := func() string {
		name := fmt.Sprintf(placeholderFormat, next)
		next++
		return name
	}

	for i := 0; i < len(lines); i++ {
		line := stripComment(lines[i])
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}

		idx := findStringKeyword(line)
		if idx < 0 {
			out = append(out, line)
			continue
		}

		rest := line[idx+len(stringKeyword):]
		if strings.TrimSpace(rest) != "" {
			name := placeholder()
			literals[name] = strings.TrimSpace(rest)
			out = append(out, line[:idx]+stringKeyword+" "+name)
			continue
		}

		// Multi-line form: everything up to a lone END line is the literal.
		name := placeholder()
		var body []string
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != blockTerminator {
			i++
			body = append(body, lines[i])
		}
		consumed := len(body)
		if i+1 < len(lines) {
			i++
			consumed++
		}
		literals[name] = strings.Join(body, "\n")
		out = append(out, strings.TrimRightFunc(line, unicode.IsSpace)+" "+name)
		for range consumed {
			out = append(out, "")
			literal[len(out)] = true
		}
	}

	return strings.Join(out, "\n"), literals, literal
}

// stripComment cuts the line at the first # outside a double-quoted run.
// Quote state flips on every quote character, escaped or not.
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inString = !inString
		case '#':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

// findStringKeyword returns the byte offset of the first bare STRING word
// outside double quotes, or -1.
func findStringKeyword(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inString = !inString
			continue
		}
		if inString || c != 'S' || !strings.HasPrefix(line[i:], stringKeyword) {
			continue
		}
		end := i + len(stringKeyword)
		if i > 0 && isWordByte(line[i-1]) {
			continue
		}
		if end < len(line) && isWordByte(line[end]) {
			continue
		}
		return i
	}
	return -1
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
