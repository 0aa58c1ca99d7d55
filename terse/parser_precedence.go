package terse

func isAssignable(expr Expression) bool {
	switch expr.(type) {
	case *Identifier, *MemberExpr, *IndexExpr:
		return true
	default:
		return false
	}
}

const (
	lowestPrec     = 0
	precOr         = 2
	precAnd        = 3
	precEquality   = 4
	precComparison = 5
	precSum        = 6
	precProduct    = 7
	// Unary operands and call arguments bind tighter than any binary
	// operator.
	precPrefix = 9
)

var precedences = map[string]int{
	"OR":   precOr,
	"AND":  precAnd,
	"IS":   precEquality,
	"ISNT": precEquality,
	"==":   precEquality,
	"!=":   precEquality,
	">":    precComparison,
	"<":    precComparison,
	">=":   precComparison,
	"<=":   precComparison,
	"+":    precSum,
	"-":    precSum,
	"*":    precProduct,
	"/":    precProduct,
}

// binaryOperator reports the operator at tok, if it is one. Word operators
// are identifiers at the lexical layer.
func binaryOperator(tok Token) (string, int, bool) {
	if tok.Type != tokenOp && tok.Type != tokenIdent {
		return "", lowestPrec, false
	}
	prec, ok := precedences[tok.Literal]
	if !ok {
		return "", lowestPrec, false
	}
	return tok.Literal, prec, true
}
