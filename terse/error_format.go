package terse

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the offending source line, preceded by the line
// before it when that one has code, and marks the column. A word at the
// column (a call, keyword, variable or label) is underlined in full.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := lineBreakPattern.Split(source, -1)
	if pos.Line > len(lines) {
		return ""
	}

	lineText := lines[pos.Line-1]
	lineRunes := []rune(lineText)
	column := min(max(pos.Column, 1), len(lineRunes)+1)

	gutterWidth := len(strconv.Itoa(pos.Line))
	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d", pos.Line, column)
	if pos.Line > 1 {
		if prev := lines[pos.Line-2]; strings.TrimSpace(prev) != "" {
			fmt.Fprintf(&b, "\n %*d | %s", gutterWidth, pos.Line-1, prev)
		}
	}
	fmt.Fprintf(&b, "\n %*d | %s", gutterWidth, pos.Line, lineText)
	fmt.Fprintf(&b, "\n %s | %s%s", strings.Repeat(" ", gutterWidth), caretPadding(lineRunes[:column-1]), underline(lineRunes[column-1:]))
	return b.String()
}

// caretPadding keeps tabs so the marker lines up under tab-indented blocks.
func caretPadding(before []rune) string {
	var pad strings.Builder
	for _, r := range before {
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return pad.String()
}

func underline(rest []rune) string {
	if len(rest) == 0 || !isIdentifierStart(rest[0]) {
		return "^"
	}
	n := 1
	for n < len(rest) && isIdentifierRune(rest[n]) {
		n++
	}
	return strings.Repeat("^", n)
}
