package terse

// parseLabeledStatement handles "name:". A label in front of FOR, WHILE or
// IF is attached to that construct; otherwise it stands alone as a jump
// target and the rest of the line parses as the next statement.
func (p *parser) parseLabeledStatement() Statement {
	tok := p.next()
	p.next()

	switch next := p.peek(); {
	case next.isWord("FOR"):
		p.next()
		return p.parseForStatement(tok.Pos, tok.Literal)
	case next.isWord("WHILE"):
		p.next()
		return p.parseWhileStatement(tok.Pos, tok.Literal)
	case next.isWord("IF"):
		p.next()
		return p.parseIfStatement(tok.Pos, tok.Literal)
	}

	p.consumeEnd()
	return &LabelStmt{Label: tok.Literal, position: tok.Pos}
}

func (p *parser) parseIfStatement(pos Position, label string) Statement {
	condition := p.parseExpression(lowestPrec)
	p.consumeEnd()
	branches := []IfBranch{{Condition: condition, Body: p.parseBlock("ELSE", blockTerminator)}}

	var alternate []Statement
	for p.err == nil && p.matchWord("ELSE") {
		if p.matchWord("IF") {
			cond := p.parseExpression(lowestPrec)
			p.consumeEnd()
			branches = append(branches, IfBranch{Condition: cond, Body: p.parseBlock("ELSE", blockTerminator)})
			continue
		}
		p.consumeEnd()
		alternate = p.parseBlock(blockTerminator)
		break
	}

	if !p.expectWord(blockTerminator) {
		return nil
	}
	p.consumeEnd()
	return &IfStmt{Branches: branches, Alternate: alternate, Label: label, position: pos}
}

func (p *parser) parseWhileStatement(pos Position, label string) Statement {
	condition := p.parseExpression(lowestPrec)
	p.consumeEnd()
	body := p.parseBlock(blockTerminator)
	if !p.expectWord(blockTerminator) {
		return nil
	}
	p.consumeEnd()
	return &WhileStmt{Condition: condition, Body: body, Label: label, position: pos}
}

// parseForStatement covers both FOR name FROM a TO b and
// FOR EACH [key] value IN expr.
func (p *parser) parseForStatement(pos Position, label string) Statement {
	if p.matchWord("EACH") {
		return p.parseForEachStatement(pos, label)
	}

	iterator, ok := p.expectIdent("loop variable")
	if !ok {
		return nil
	}
	if !p.expectWord("FROM") {
		return nil
	}
	start := p.parseExpression(lowestPrec)
	if !p.expectWord("TO") {
		return nil
	}
	end := p.parseExpression(lowestPrec)
	p.consumeEnd()

	body := p.parseBlock(blockTerminator)
	if !p.expectWord(blockTerminator) {
		return nil
	}
	p.consumeEnd()
	return &ForStmt{Iterator: iterator, Start: start, End: end, Body: body, Label: label, position: pos}
}

func (p *parser) parseForEachStatement(pos Position, label string) Statement {
	first, ok := p.expectIdent("loop variable")
	if !ok {
		return nil
	}
	stmt := &ForEachStmt{ValueVar: first, Label: label, position: pos}
	if tok := p.peek(); tok.Type == tokenIdent && tok.Literal != "IN" {
		p.next()
		stmt.KeyVar = first
		stmt.ValueVar = tok.Literal
	}
	if !p.expectWord("IN") {
		return nil
	}
	stmt.Iterable = p.parseExpression(lowestPrec)
	p.consumeEnd()

	stmt.Body = p.parseBlock(blockTerminator)
	if !p.expectWord(blockTerminator) {
		return nil
	}
	p.consumeEnd()
	return stmt
}
