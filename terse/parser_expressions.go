package terse

func (p *parser) parseExpression(precedence int) Expression {
	left := p.parsePrefix()
	for p.err == nil {
		op, prec, ok := binaryOperator(p.peek())
		if !ok || prec <= precedence {
			break
		}
		tok := p.next()
		right := p.parseExpression(prec)
		left = &BinaryExpr{Left: left, Operator: op, Right: right, position: tok.Pos}
	}
	return left
}

func (p *parser) parsePrefix() Expression {
	tok := p.peek()

	switch tok.Type {
	case tokenNumber:
		p.next()
		return p.parsePostfix(&NumberLiteral{Value: tok.Number, position: tok.Pos})
	case tokenString:
		p.next()
		return p.parsePostfix(&StringLiteral{Value: tok.Literal, position: tok.Pos})
	case tokenIdent:
		return p.parseWord()
	case tokenOp:
		switch tok.Literal {
		case "(":
			p.next()
			expr := p.parseExpression(lowestPrec)
			if !p.expectOp(")") {
				return nil
			}
			return p.parsePostfix(expr)
		case "-":
			p.next()
			return &UnaryExpr{Operator: "-", Right: p.parseExpression(precPrefix), position: tok.Pos}
		case "[":
			return p.parsePostfix(p.parseArrayLiteral())
		case "{":
			return p.parsePostfix(p.parseObjectLiteral())
		}
	}

	p.errorUnexpected(tok)
	return nil
}

// parseWord turns an identifier into a literal, a unary NOT, a call, or a
// variable reference. Calls consume at most arity arguments and stop early
// at an argument boundary.
func (p *parser) parseWord() Expression {
	tok := p.next()
	switch tok.Literal {
	case "TRUE":
		return p.parsePostfix(&BoolLiteral{Value: true, position: tok.Pos})
	case "FALSE":
		return p.parsePostfix(&BoolLiteral{Value: false, position: tok.Pos})
	case "NULL":
		return p.parsePostfix(&NullLiteral{position: tok.Pos})
	case "NOT":
		return &UnaryExpr{Operator: "NOT", Right: p.parseExpression(precPrefix), position: tok.Pos}
	}

	arity, ok := p.arities[tok.Literal]
	if !ok {
		return p.parsePostfix(&Identifier{Name: tok.Literal, position: tok.Pos})
	}

	call := &CallExpr{Name: tok.Literal, position: tok.Pos}
	for i := 0; i < arity && p.err == nil; i++ {
		if p.atArgumentBoundary() {
			break
		}
		call.Args = append(call.Args, p.parseExpression(precPrefix))
	}
	return p.parsePostfix(call)
}

func (p *parser) parsePostfix(expr Expression) Expression {
	for p.err == nil {
		tok := p.peek()
		switch {
		case tok.isOp("."):
			p.next()
			name, ok := p.expectIdent("member name after .")
			if !ok {
				return nil
			}
			expr = &MemberExpr{Object: expr, Property: name, position: tok.Pos}
		case tok.isOp("["):
			p.next()
			index := p.parseExpression(lowestPrec)
			if !p.expectOp("]") {
				return nil
			}
			expr = &IndexExpr{Object: expr, Index: index, position: tok.Pos}
		default:
			return expr
		}
	}
	return expr
}

func (p *parser) parseArrayLiteral() Expression {
	tok := p.next()
	elems := []Expression{}
	for p.err == nil {
		p.skipNewlines()
		if p.matchOp("]") {
			return &ArrayLiteral{Elements: elems, position: tok.Pos}
		}
		if p.peek().Type == tokenEOF {
			p.errorExpected(p.peek(), `"]"`)
			break
		}
		elems = append(elems, p.parseExpression(lowestPrec))
		p.skipNewlines()
		p.matchOp(",")
	}
	return nil
}

func (p *parser) parseObjectLiteral() Expression {
	tok := p.next()
	pairs := []ObjectPair{}
	for p.err == nil {
		p.skipNewlines()
		if p.matchOp("}") {
			return &ObjectLiteral{Pairs: pairs, position: tok.Pos}
		}
		keyTok := p.peek()
		if keyTok.Type != tokenIdent && keyTok.Type != tokenString {
			p.fail(keyTok.Pos, "invalid object key "+tokenLabel(keyTok))
			break
		}
		p.next()
		if !p.expectOp(":") {
			break
		}
		p.skipNewlines()
		value := p.parseExpression(lowestPrec)
		pairs = append(pairs, ObjectPair{Key: keyTok.Literal, Value: value})
		p.skipNewlines()
		p.matchOp(",")
	}
	return nil
}
