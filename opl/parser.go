package opl

import "errors"

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	errors []error

	// loopDepth counts enclosing loops inside the current function body so
	// stray break/continue statements are rejected while parsing.
	loopDepth int

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

// Parse turns source text into a Program.
func Parse(source string) (*Program, error) {
	p := newParser(source)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return program, nil
}

func newParser(input string) *parser {
	l := newLexer(input)
	p := &parser{l: l}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenFloat, p.parseFloatLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBoolLiteral)
	p.registerPrefix(tokenFalse, p.parseBoolLiteral)
	p.registerPrefix(tokenNull, p.parseNullLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseArrayLiteral)
	p.registerPrefix(tokenBang, p.parseNotExpression)
	p.registerPrefix(tokenTilde, p.parseBitNotExpression)
	p.registerPrefix(tokenMinus, p.parseNegation)
	p.registerPrefix(tokenIncrement, p.parsePrefixIncDec)
	p.registerPrefix(tokenDecrement, p.parsePrefixIncDec)
	p.registerPrefix(tokenDollar, p.parseLambda)
	p.registerPrefix(tokenNew, p.parseNewExpression)

	for tt := range precedences {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression
	p.infixFns[tokenDot] = p.parseMemberExpression
	p.infixFns[tokenIncrement] = p.parsePostfixIncDec
	p.infixFns[tokenDecrement] = p.parsePostfixIncDec

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, expectedLabel(tt))
	return false
}

func (p *parser) ParseProgram() (*Program, []error) {
	program := &Program{}

	for p.curToken.Type != tokenEOF && !p.failed() {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program, p.errors
}

const (
	lowestPrec = iota
	precOr
	precAnd
	precCompare
	precSum
	precProduct
	precPrefix
	precPostfix
)

var precedences = map[TokenType]int{
	tokenOr:        precOr,
	tokenAnd:       precAnd,
	tokenEQ:        precCompare,
	tokenNotEQ:     precCompare,
	tokenLT:        precCompare,
	tokenLTE:       precCompare,
	tokenGT:        precCompare,
	tokenGTE:       precCompare,
	tokenPlus:      precSum,
	tokenMinus:     precSum,
	tokenAsterisk:  precProduct,
	tokenSlash:     precProduct,
	tokenPercent:   precProduct,
	tokenShl:       precProduct,
	tokenShr:       precProduct,
	tokenAmpersand: precProduct,
	tokenPipe:      precProduct,
}

var postfixPrecedences = map[TokenType]int{
	tokenLParen:    precPostfix,
	tokenLBracket:  precPostfix,
	tokenDot:       precPostfix,
	tokenIncrement: precPostfix,
	tokenDecrement: precPostfix,
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	if prec, ok := postfixPrecedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func isAssignable(expr Expression) bool {
	switch expr.(type) {
	case *Identifier, *MemberExpr, *IndexExpr:
		return true
	default:
		return false
	}
}
