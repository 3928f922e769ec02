package opl

import (
	"maps"
	"slices"
)

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenFloat  TokenType = "FLOAT"
	tokenString TokenType = "STRING"

	tokenAssign    TokenType = "="
	tokenPlus      TokenType = "+"
	tokenMinus     TokenType = "-"
	tokenBang      TokenType = "!"
	tokenTilde     TokenType = "~"
	tokenAsterisk  TokenType = "*"
	tokenSlash     TokenType = "/"
	tokenPercent   TokenType = "%"
	tokenShl       TokenType = "<<"
	tokenShr       TokenType = ">>"
	tokenAmpersand TokenType = "&"
	tokenPipe      TokenType = "|"
	tokenLT        TokenType = "<"
	tokenGT        TokenType = ">"
	tokenLTE       TokenType = "<="
	tokenGTE       TokenType = ">="
	tokenEQ        TokenType = "=="
	tokenNotEQ     TokenType = "!="
	tokenAnd       TokenType = "&&"
	tokenOr        TokenType = "||"
	tokenIncrement TokenType = "++"
	tokenDecrement TokenType = "--"

	tokenPlusAssign    TokenType = "+="
	tokenMinusAssign   TokenType = "-="
	tokenStarAssign    TokenType = "*="
	tokenSlashAssign   TokenType = "/="
	tokenPercentAssign TokenType = "%="
	tokenShlAssign     TokenType = "<<="
	tokenShrAssign     TokenType = ">>="

	tokenComma     TokenType = ","
	tokenSemicolon TokenType = ";"
	tokenColon     TokenType = ":"
	tokenDot       TokenType = "."
	tokenDollar    TokenType = "$"
	tokenArrow     TokenType = "->"
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenIf          TokenType = "IF"
	tokenElse        TokenType = "ELSE"
	tokenFor         TokenType = "FOR"
	tokenWhile       TokenType = "WHILE"
	tokenDef         TokenType = "DEF"
	tokenLet         TokenType = "LET"
	tokenClass       TokenType = "CLASS"
	tokenNew         TokenType = "NEW"
	tokenBreak       TokenType = "BREAK"
	tokenContinue    TokenType = "CONTINUE"
	tokenReturn      TokenType = "RETURN"
	tokenImport      TokenType = "IMPORT"
	tokenPublic      TokenType = "PUBLIC"
	tokenPrivate     TokenType = "PRIVATE"
	tokenConstructor TokenType = "CONSTRUCTOR"
	tokenFunc        TokenType = "FUNC"
	tokenTrue        TokenType = "TRUE"
	tokenFalse       TokenType = "FALSE"
	tokenNull        TokenType = "NULL"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source file.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"if":          tokenIf,
	"else":        tokenElse,
	"for":         tokenFor,
	"while":       tokenWhile,
	"def":         tokenDef,
	"let":         tokenLet,
	"class":       tokenClass,
	"new":         tokenNew,
	"break":       tokenBreak,
	"continue":    tokenContinue,
	"return":      tokenReturn,
	"import":      tokenImport,
	"public":      tokenPublic,
	"private":     tokenPrivate,
	"constructor": tokenConstructor,
	"func":        tokenFunc,
	"true":        tokenTrue,
	"false":       tokenFalse,
	"null":        tokenNull,
}

// Keywords lists the reserved words in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}
