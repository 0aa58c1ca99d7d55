package terse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const eof rune = -1

var twoCharOperators = map[string]struct{}{
	">=": {},
	"<=": {},
	"==": {},
	"!=": {},
}

const singleCharOperators = "+-*/=><.,:[]{}();"

type lexer struct {
	input    string
	literals map[string]string
	// source is the text before preprocessing, used for code frames.
	source string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string, literals map[string]string, source string) *lexer {
	l := &lexer{input: input, literals: literals, source: source, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = eof
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

// tokenize lexes the whole input. The slice always ends with an EOF token.
func (l *lexer) tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	pos := Position{Line: l.line, Column: l.column}
	switch {
	case l.ch == eof:
		return Token{Type: tokenEOF, Pos: pos}, nil
	case l.ch == '\n':
		l.readRune()
		return Token{Type: tokenNewline, Literal: "\n", Pos: pos}, nil
	case l.ch == '"':
		return Token{Type: tokenString, Literal: l.readString(), Pos: pos}, nil
	case isDigit(l.ch):
		literal := l.readNumber()
		value, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			value = math.NaN()
		}
		return Token{Type: tokenNumber, Literal: literal, Number: value, Pos: pos}, nil
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		if text, ok := l.literals[literal]; ok {
			return Token{Type: tokenString, Literal: text, Pos: pos}, nil
		}
		return Token{Type: tokenIdent, Literal: literal, Pos: pos}, nil
	}

	if next := l.peekRune(); next != eof {
		pair := string(l.ch) + string(next)
		if _, ok := twoCharOperators[pair]; ok {
			l.readRune()
			l.readRune()
			return Token{Type: tokenOp, Literal: pair, Pos: pos}, nil
		}
	}
	if strings.ContainsRune(singleCharOperators, l.ch) {
		literal := string(l.ch)
		l.readRune()
		return Token{Type: tokenOp, Literal: literal, Pos: pos}, nil
	}

	return Token{}, newSyntaxError(ErrLex, pos, fmt.Sprintf("unexpected character %q", l.ch), l.source)
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.ch) {
		l.readRune()
	}
	return l.input[start:l.currentOffset()]
}

func (l *lexer) readNumber() string {
	start := l.currentOffset()
	for isDigit(l.ch) || l.ch == '.' {
		l.readRune()
	}
	return l.input[start:l.currentOffset()]
}

// readString consumes a double-quoted literal. Unknown escapes keep their
// backslash; a missing closing quote ends the literal at end of input.
// Other bytes are copied as written, invalid UTF-8 included.
func (l *lexer) readString() string {
	var sb strings.Builder
	l.readRune()
	for l.ch != eof {
		switch l.ch {
		case '"':
			l.readRune()
			return sb.String()
		case '\\':
			switch next := l.peekRune(); next {
			case '"', '\\':
				sb.WriteRune(next)
				l.readRune()
				l.readRune()
			case 'n':
				sb.WriteByte('\n')
				l.readRune()
				l.readRune()
			case 't':
				sb.WriteByte('\t')
				l.readRune()
				l.readRune()
			default:
				sb.WriteByte('\\')
				l.readRune()
			}
		default:
			sb.WriteString(l.input[l.currentOffset():l.offset])
			l.readRune()
		}
	}
	return sb.String()
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
