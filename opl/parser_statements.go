package opl

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenSemicolon:
		return nil
	case tokenLBrace:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case tokenLet:
		return p.parseVarStatement()
	case tokenDef:
		return p.parseFunctionStatement()
	case tokenClass:
		return p.parseClassStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenFor:
		return p.parseForStatement()
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenBreak, tokenContinue:
		return p.parseLoopControl()
	case tokenImport:
		return p.parseImportStatement()
	default:
		stmt := p.parseSimpleStatement()
		if stmt == nil || !p.expectTerminator() {
			return nil
		}
		return stmt
	}
}

// expectTerminator consumes the semicolon ending a statement. The semicolon
// may be left out before a closing brace or at the end of input.
func (p *parser) expectTerminator() bool {
	switch p.peekToken.Type {
	case tokenSemicolon:
		p.nextToken()
		return true
	case tokenRBrace, tokenEOF:
		return true
	default:
		p.errorExpected(p.peekToken, "';'")
		return false
	}
}

// parseSimpleStatement parses an expression or assignment without its
// terminator. It is shared by expression statements and for-loop clauses.
func (p *parser) parseSimpleStatement() Statement {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}

	switch p.peekToken.Type {
	case tokenAssign, tokenPlusAssign, tokenMinusAssign, tokenStarAssign,
		tokenSlashAssign, tokenPercentAssign, tokenShlAssign, tokenShrAssign:
		if !isAssignable(expr) {
			p.addParseError(p.peekToken, "invalid assignment target")
			return nil
		}
		p.nextToken()
		op := p.curToken
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value == nil {
			return nil
		}
		return &AssignStmt{Operator: op.Type, Target: expr, Value: value, position: op.Pos}
	}

	return &ExprStmt{Expr: expr, position: expr.Pos()}
}

// parseBlock parses `{ ... }` or a single statement used as a body.
func (p *parser) parseBlock() *BlockStmt {
	block := &BlockStmt{Statements: []Statement{}, position: p.curToken.Pos}
	if p.curToken.Type != tokenLBrace {
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		return block
	}

	p.nextToken()
	for p.curToken.Type != tokenRBrace {
		if p.curToken.Type == tokenEOF {
			p.errorExpected(p.curToken, "'}'")
			return nil
		}
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseFunctionBody parses a body starting at the next token with a fresh
// loop context.
func (p *parser) parseFunctionBody() *BlockStmt {
	p.nextToken()
	saved := p.loopDepth
	p.loopDepth = 0
	body := p.parseBlock()
	p.loopDepth = saved
	return body
}

func (p *parser) parseLoopBody() *BlockStmt {
	p.nextToken()
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return body
}

func (p *parser) parseVarStatement() Statement {
	stmt := &VarStmt{position: p.curToken.Pos}
	for {
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		decl := p.parseVarDecl()
		if decl == nil {
			return nil
		}
		stmt.Decls = append(stmt.Decls, decl)
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}
	if !p.expectTerminator() {
		return nil
	}
	return stmt
}

// parseVarDecl parses `name[:Type][= value]` with the current token on name.
func (p *parser) parseVarDecl() *VarDecl {
	decl := &VarDecl{Name: p.curToken.Literal, position: p.curToken.Pos}
	if p.peekToken.Type == tokenColon {
		p.nextToken()
		p.nextToken()
		if decl.Type = p.parseType(); decl.Type == nil {
			return nil
		}
	}
	if p.peekToken.Type == tokenAssign {
		p.nextToken()
		p.nextToken()
		if decl.Value = p.parseExpression(lowestPrec); decl.Value == nil {
			return nil
		}
	}
	return decl
}

// parseType parses a type annotation starting at the current token.
func (p *parser) parseType() *TypeExpr {
	pos := p.curToken.Pos
	switch p.curToken.Type {
	case tokenIdent:
		return &TypeExpr{Name: p.curToken.Literal, position: pos}
	case tokenLBracket:
		p.nextToken()
		elem := p.parseType()
		if elem == nil || !p.expectPeek(tokenRBracket) {
			return nil
		}
		return &TypeExpr{Elem: elem, position: pos}
	case tokenFunc:
		if !p.expectPeek(tokenLParen) {
			return nil
		}
		fn := &TypeExpr{Name: "func", position: pos}
		if p.peekToken.Type == tokenRParen {
			p.nextToken()
		} else {
			for {
				p.nextToken()
				param := p.parseType()
				if param == nil {
					return nil
				}
				fn.Params = append(fn.Params, param)
				if p.peekToken.Type != tokenComma {
					break
				}
				p.nextToken()
			}
			if !p.expectPeek(tokenRParen) {
				return nil
			}
		}
		if p.peekToken.Type == tokenArrow {
			p.nextToken()
			p.nextToken()
			if fn.Return = p.parseType(); fn.Return == nil {
				return nil
			}
		}
		return fn
	default:
		p.errorExpected(p.curToken, "type")
		return nil
	}
}

// parseParams parses a parameter list; the current token is '('.
func (p *parser) parseParams() ([]Param, bool) {
	params := []Param{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return params, true
	}
	for {
		if !p.expectPeek(tokenIdent) {
			return nil, false
		}
		param := Param{Name: p.curToken.Literal}
		if p.peekToken.Type == tokenColon {
			p.nextToken()
			p.nextToken()
			if param.Type = p.parseType(); param.Type == nil {
				return nil, false
			}
		}
		params = append(params, param)
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(tokenRParen) {
		return nil, false
	}
	return params, true
}

func (p *parser) parseFunctionStatement() Statement {
	pos := p.curToken.Pos
	if p.peekToken.Type != tokenIdent && p.peekToken.Type != tokenConstructor {
		p.errorExpected(p.peekToken, "function name")
		return nil
	}
	p.nextToken()
	if fn := p.parseFunctionRest(pos); fn != nil {
		return fn
	}
	return nil
}

// parseFunctionRest parses from the function name onwards.
func (p *parser) parseFunctionRest(pos Position) *FunctionStmt {
	name := p.curToken.Literal
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
	return &FunctionStmt{Name: name, Params: params, ReturnTy: ret, Body: body, position: pos}
}

func (p *parser) parseClassStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	stmt := &ClassStmt{Name: p.curToken.Literal, position: pos}
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	p.nextToken()

	for p.curToken.Type != tokenRBrace {
		if p.curToken.Type == tokenEOF {
			p.errorExpected(p.curToken, "'}'")
			return nil
		}
		members := p.parseClassMembers()
		if p.failed() {
			return nil
		}
		stmt.Members = append(stmt.Members, members...)
		p.nextToken()
	}
	return stmt
}

func (p *parser) parseClassMembers() []*ClassMember {
	private := false
	switch p.curToken.Type {
	case tokenSemicolon:
		return nil
	case tokenPublic, tokenPrivate:
		private = p.curToken.Type == tokenPrivate
		p.nextToken()
	}

	switch p.curToken.Type {
	case tokenDef:
		fn, ok := p.parseFunctionStatement().(*FunctionStmt)
		if !ok {
			return nil
		}
		return []*ClassMember{{Name: fn.Name, Private: private, Node: fn}}
	case tokenConstructor:
		fn := p.parseFunctionRest(p.curToken.Pos)
		if fn == nil {
			return nil
		}
		return []*ClassMember{{Name: fn.Name, Private: private, Node: fn}}
	case tokenLet:
		stmt, ok := p.parseVarStatement().(*VarStmt)
		if !ok {
			return nil
		}
		members := make([]*ClassMember, 0, len(stmt.Decls))
		for _, decl := range stmt.Decls {
			members = append(members, &ClassMember{Name: decl.Name, Private: private, Node: decl})
		}
		return members
	case tokenIdent:
		decl := p.parseVarDecl()
		if decl == nil || !p.expectTerminator() {
			return nil
		}
		return []*ClassMember{{Name: decl.Name, Private: private, Node: decl}}
	default:
		p.errorExpected(p.curToken, "class member")
		return nil
	}
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}
	p.nextToken()
	consequent := p.parseBlock()
	if consequent == nil {
		return nil
	}
	stmt := &IfStmt{Condition: condition, Consequent: consequent, position: pos}
	if p.peekToken.Type == tokenElse {
		p.nextToken()
		p.nextToken()
		if stmt.Alternate = p.parseBlock(); stmt.Alternate == nil {
			return nil
		}
	}
	return stmt
}

// parseCondition parses a parenthesised condition after a keyword.
func (p *parser) parseCondition() Expression {
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil || !p.expectPeek(tokenRParen) {
		return nil
	}
	return condition
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.curToken.Pos
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}
	body := p.parseLoopBody()
	if body == nil {
		return nil
	}
	return &WhileStmt{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseForStatement() Statement {
	stmt := &ForStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()

	switch p.curToken.Type {
	case tokenSemicolon:
	case tokenLet:
		init := p.parseVarStatement()
		if init == nil {
			return nil
		}
		stmt.Init = init
	default:
		init := p.parseSimpleStatement()
		if init == nil || !p.expectPeek(tokenSemicolon) {
			return nil
		}
		stmt.Init = init
	}

	p.nextToken()
	if stmt.Condition = p.parseExpression(lowestPrec); stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}

	if p.peekToken.Type != tokenRParen {
		p.nextToken()
		if stmt.Advance = p.parseSimpleStatement(); stmt.Advance == nil {
			return nil
		}
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}

	if stmt.Body = p.parseLoopBody(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *parser) parseReturnStatement() Statement {
	stmt := &ReturnStmt{position: p.curToken.Pos}
	switch p.peekToken.Type {
	case tokenSemicolon:
		p.nextToken()
		return stmt
	case tokenRBrace, tokenEOF:
		return stmt
	}
	p.nextToken()
	if stmt.Value = p.parseExpression(lowestPrec); stmt.Value == nil {
		return nil
	}
	if !p.expectTerminator() {
		return nil
	}
	return stmt
}

func (p *parser) parseLoopControl() Statement {
	tok := p.curToken
	if p.loopDepth == 0 {
		p.addParseError(tok, tok.Literal+" outside of a loop")
		return nil
	}
	if !p.expectTerminator() {
		return nil
	}
	if tok.Type == tokenBreak {
		return &BreakStmt{position: tok.Pos}
	}
	return &ContinueStmt{position: tok.Pos}
}

func (p *parser) parseImportStatement() Statement {
	pos := p.curToken.Pos
	if p.peekToken.Type != tokenString && p.peekToken.Type != tokenIdent {
		p.errorExpected(p.peekToken, "module path")
		return nil
	}
	p.nextToken()
	stmt := &ImportStmt{Path: p.curToken.Literal, position: pos}
	if !p.expectTerminator() {
		return nil
	}
	return stmt
}
