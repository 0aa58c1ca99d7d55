package terse

type parser struct {
	tokens  []Token
	index   int
	arities map[string]int
	source  string

	err error
}

// newParser takes the full token slice, which must end in an EOF token, and
// the arity table that decides how many arguments each call consumes.
func newParser(tokens []Token, arities map[string]int, source string) *parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenEOF {
		tokens = append(tokens, Token{Type: tokenEOF})
	}
	return &parser{tokens: tokens, arities: arities, source: source}
}

// parseSource runs the preprocessor, lexer, and parser over source.
func parseSource(source string, builtins map[string]int) (*Program, map[string]int, error) {
	preprocessed, literals := Preprocess(source)
	tokens, err := newLexer(preprocessed, literals, source).tokenize()
	if err != nil {
		return nil, nil, err
	}
	arities := ParseArities(preprocessed, builtins)
	program, err := newParser(tokens, arities, source).ParseProgram()
	if err != nil {
		return nil, nil, err
	}
	return program, arities, nil
}

func (p *parser) ParseProgram() (*Program, error) {
	program := &Program{}

	for p.err == nil {
		p.skipTerminators()
		tok := p.peek()
		if tok.Type == tokenEOF {
			break
		}
		if tok.isWord("ELSE") || tok.isWord(blockTerminator) {
			p.errorUnexpected(tok)
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

// parseBlock parses statements until one of the stop words begins a
// statement or input runs out. The stop word itself is left unconsumed.
func (p *parser) parseBlock(stop ...string) []Statement {
	stmts := []Statement{}
	for p.err == nil {
		p.skipTerminators()
		tok := p.peek()
		if tok.Type == tokenEOF || p.atWord(stop...) {
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) peek() Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(offset int) Token {
	i := p.index + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	return tok
}

func (p *parser) atWord(words ...string) bool {
	tok := p.peek()
	for _, w := range words {
		if tok.isWord(w) {
			return true
		}
	}
	return false
}

func (p *parser) matchWord(word string) bool {
	if p.peek().isWord(word) {
		p.next()
		return true
	}
	return false
}

func (p *parser) matchOp(op string) bool {
	if p.peek().isOp(op) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectOp(op string) bool {
	if p.matchOp(op) {
		return true
	}
	p.errorExpected(p.peek(), `"`+op+`"`)
	return false
}

func (p *parser) expectWord(word string) bool {
	if p.matchWord(word) {
		return true
	}
	p.errorExpected(p.peek(), word)
	return false
}

func (p *parser) expectIdent(what string) (string, bool) {
	tok := p.peek()
	if tok.Type != tokenIdent {
		p.errorExpected(tok, what)
		return "", false
	}
	p.next()
	return tok.Literal, true
}

func (p *parser) skipNewlines() {
	for p.peek().Type == tokenNewline {
		p.next()
	}
}

// skipTerminators consumes any run of newlines and semicolons.
func (p *parser) skipTerminators() {
	for {
		tok := p.peek()
		if tok.Type != tokenNewline && !tok.isOp(";") {
			return
		}
		p.next()
	}
}

func (p *parser) atStatementEnd() bool {
	tok := p.peek()
	return tok.Type == tokenNewline || tok.Type == tokenEOF || tok.isOp(";")
}

// atArgumentBoundary reports whether a call should stop collecting explicit
// arguments and leave the rest to the implicit stack.
func (p *parser) atArgumentBoundary() bool {
	tok := p.peek()
	switch tok.Type {
	case tokenNewline, tokenEOF:
		return true
	case tokenOp:
		switch tok.Literal {
		case ";", "]", ")", "}":
			return true
		}
	case tokenIdent:
		return tok.Literal == "ELSE" || tok.Literal == blockTerminator
	}
	return false
}
