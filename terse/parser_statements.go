package terse

func (p *parser) parseStatement() Statement {
	tok := p.peek()
	if tok.Type == tokenIdent && p.peekAt(1).isOp(":") {
		return p.parseLabeledStatement()
	}

	if tok.Type == tokenIdent {
		switch tok.Literal {
		case "IF":
			p.next()
			return p.parseIfStatement(tok.Pos, "")
		case "WHILE":
			p.next()
			return p.parseWhileStatement(tok.Pos, "")
		case "FOR":
			p.next()
			return p.parseForStatement(tok.Pos, "")
		case "FUNC":
			p.next()
			return p.parseFunctionStatement(tok.Pos)
		case "RETURN":
			p.next()
			return p.parseReturnStatement(tok.Pos)
		case "GOTO":
			p.next()
			return p.parseGotoStatement(tok.Pos)
		case "BREAK":
			p.next()
			label := p.parseOptionalLabel()
			p.consumeEnd()
			return &BreakStmt{Label: label, position: tok.Pos}
		case "CONTINUE":
			p.next()
			label := p.parseOptionalLabel()
			p.consumeEnd()
			return &ContinueStmt{Label: label, position: tok.Pos}
		case "GLOBAL":
			p.next()
			return p.parseGlobalStatement(tok.Pos)
		}
	}

	return p.parseExpressionOrAssignStatement()
}

func (p *parser) parseExpressionOrAssignStatement() Statement {
	pos := p.peek().Pos
	expr := p.parseExpression(lowestPrec)
	if p.err != nil {
		return nil
	}

	if p.peek().isOp("=") {
		if !isAssignable(expr) {
			p.fail(p.peek().Pos, "invalid assignment target")
			return nil
		}
		p.next()
		value := p.parseExpression(lowestPrec)
		p.consumeEnd()
		return &AssignStmt{Target: expr, Value: value, position: pos}
	}

	p.consumeEnd()
	return &ExprStmt{Expr: expr, position: pos}
}

func (p *parser) parseFunctionStatement(pos Position) Statement {
	name, ok := p.expectIdent("function name")
	if !ok {
		return nil
	}

	params := []string{}
	for p.err == nil && !p.atStatementEnd() {
		param, ok := p.expectIdent("parameter name")
		if !ok {
			return nil
		}
		params = append(params, param)
	}
	p.consumeEnd()

	body := p.parseBlock(blockTerminator)
	if !p.expectWord(blockTerminator) {
		return nil
	}
	p.consumeEnd()
	return &FuncStmt{Name: name, Params: params, Body: body, position: pos}
}

// parseReturnStatement accepts a bare RETURN, which yields NULL.
func (p *parser) parseReturnStatement(pos Position) Statement {
	if p.atStatementEnd() || p.atWord("ELSE", blockTerminator) {
		p.consumeEnd()
		return &ReturnStmt{position: pos}
	}
	value := p.parseExpression(lowestPrec)
	p.consumeEnd()
	return &ReturnStmt{Value: value, position: pos}
}

func (p *parser) parseGotoStatement(pos Position) Statement {
	label, ok := p.expectIdent("label")
	if !ok {
		return nil
	}
	p.consumeEnd()
	return &GotoStmt{Label: label, position: pos}
}

func (p *parser) parseGlobalStatement(pos Position) Statement {
	name, ok := p.expectIdent("variable name")
	if !ok {
		return nil
	}
	if !p.expectOp("=") {
		return nil
	}
	value := p.parseExpression(lowestPrec)
	p.consumeEnd()
	return &GlobalAssignStmt{Name: name, Value: value, position: pos}
}

// parseOptionalLabel reads the label after BREAK or CONTINUE when one is
// present on the same line.
func (p *parser) parseOptionalLabel() string {
	tok := p.peek()
	if tok.Type != tokenIdent || p.atWord("ELSE", blockTerminator) {
		return ""
	}
	p.next()
	return tok.Literal
}

func (p *parser) consumeEnd() {
	p.skipTerminators()
}
