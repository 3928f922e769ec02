package opl

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != tokenSemicolon && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseIdentifier() Expression {
	return &Identifier{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseIntegerLiteral() Expression {
	return &IntegerLiteral{Text: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Expression {
	return &FloatLiteral{Text: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBoolLiteral() Expression {
	return &BoolLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseNullLiteral() Expression {
	return &NullLiteral{position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

func (p *parser) parseArrayLiteral() Expression {
	pos := p.curToken.Pos
	elems := p.parseExpressionList(tokenRBracket)
	if elems == nil {
		return nil
	}
	return &ArrayLiteral{Elements: elems, position: pos}
}

// parseExpressionList parses comma separated expressions up to end. The
// current token is the opening delimiter. A nil result means an error was
// recorded; an empty list is returned as a non-nil slice.
func (p *parser) parseExpressionList(end TokenType) []Expression {
	list := []Expression{}
	if p.peekToken.Type == end {
		p.nextToken()
		return list
	}

	p.nextToken()
	first := p.parseExpression(lowestPrec)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *parser) parseNotExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	operand := p.parseExpression(precPrefix)
	if operand == nil {
		return nil
	}
	return &NotExpr{Operand: operand, position: pos}
}

func (p *parser) parseBitNotExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	operand := p.parseExpression(precPrefix)
	if operand == nil {
		return nil
	}
	return &BitNotExpr{Operand: operand, position: pos}
}

// parseNegation folds a minus in front of a numeric literal into the
// literal. Any other operand becomes a multiplication by -1.0.
func (p *parser) parseNegation() Expression {
	pos := p.curToken.Pos
	switch p.peekToken.Type {
	case tokenInt:
		p.nextToken()
		return &IntegerLiteral{Text: "-" + p.curToken.Literal, position: pos}
	case tokenFloat:
		p.nextToken()
		return &FloatLiteral{Text: "-" + p.curToken.Literal, position: pos}
	}

	p.nextToken()
	operand := p.parseExpression(precPrefix)
	if operand == nil {
		return nil
	}
	return &BinaryExpr{
		Left:     &FloatLiteral{Text: "-1.0", position: pos},
		Operator: tokenAsterisk,
		Right:    operand,
		position: pos,
	}
}

func (p *parser) parsePrefixIncDec() Expression {
	pos := p.curToken.Pos
	increment := p.curToken.Type == tokenIncrement
	p.nextToken()
	target := p.parseExpression(precPrefix)
	if target == nil {
		return nil
	}
	if !isAssignable(target) {
		p.addParseError(Token{Type: tokenIllegal, Pos: target.Pos()}, "invalid increment or decrement target")
		return nil
	}
	return &IncDecExpr{Target: target, Prefix: true, Increment: increment, position: pos}
}

func (p *parser) parsePostfixIncDec(target Expression) Expression {
	if !isAssignable(target) {
		p.addParseError(p.curToken, "invalid increment or decrement target")
		return nil
	}
	return &IncDecExpr{
		Target:    target,
		Prefix:    false,
		Increment: p.curToken.Type == tokenIncrement,
		position:  target.Pos(),
	}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	expr := &BinaryExpr{Left: left, Operator: p.curToken.Type, position: p.curToken.Pos}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *parser) parseCallExpression(callee Expression) Expression {
	pos := p.curToken.Pos
	args := p.parseExpressionList(tokenRParen)
	if args == nil {
		return nil
	}
	return &CallExpr{Callee: callee, Args: args, position: pos}
}

func (p *parser) parseIndexExpression(object Expression) Expression {
	pos := p.curToken.Pos
	p.nextToken()
	index := p.parseExpression(lowestPrec)
	if index == nil {
		return nil
	}
	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return &IndexExpr{Object: object, Index: index, position: pos}
}

func (p *parser) parseMemberExpression(object Expression) Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	return &MemberExpr{Object: object, Property: p.curToken.Literal, position: pos}
}

func (p *parser) parseLambda() Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	var ret *TypeExpr
	if p.peekToken.Type == tokenArrow {
		p.nextToken()
		p.nextToken()
		if ret = p.parseType(); ret == nil {
			return nil
		}
	}
	body := p.parseFunctionBody()
	if body == nil {
		return nil
	}
	return &LambdaExpr{Params: params, ReturnTy: ret, Body: body, position: pos}
}

func (p *parser) parseNewExpression() Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	expr := &NewExpr{ClassName: p.curToken.Literal, Args: []Expression{}, position: pos}
	if p.peekToken.Type == tokenLParen {
		p.nextToken()
		args := p.parseExpressionList(tokenRParen)
		if args == nil {
			return nil
		}
		expr.Args = args
	}
	return expr
}
