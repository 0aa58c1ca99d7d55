package terse

import "fmt"

func (p *parser) errorExpected(tok Token, expected string) {
	p.fail(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.fail(tok.Pos, fmt.Sprintf("unexpected %s", tokenLabel(tok)))
}

// fail records the first parse error. Parsing stops once one is recorded.
func (p *parser) fail(pos Position, msg string) {
	if p.err != nil {
		return
	}
	p.err = newSyntaxError(ErrParse, pos, msg, p.source)
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "newline"
	case tokenString:
		return "string"
	case tokenNumber:
		return fmt.Sprintf("number %s", tok.Literal)
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}
