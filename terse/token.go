package terse

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenNewline TokenType = "NEWLINE"
	tokenString  TokenType = "STRING"
	tokenNumber  TokenType = "NUMBER"
	tokenIdent   TokenType = "IDENT"
	tokenOp      TokenType = "OP"
	tokenEOF     TokenType = "EOF"
)

// Token captures lexical information for the parser. Keywords are plain
// identifiers at this layer; the parser decides what they mean.
type Token struct {
	Type    TokenType
	Literal string
	Number  float64
	Pos     Position
}

// Position identifies a line and column in the original source.
type Position struct {
	Line   int
	Column int
}

func (t Token) is(tt TokenType, literal string) bool {
	return t.Type == tt && t.Literal == literal
}

func (t Token) isOp(literal string) bool {
	return t.is(tokenOp, literal)
}

func (t Token) isWord(word string) bool {
	return t.is(tokenIdent, word)
}
