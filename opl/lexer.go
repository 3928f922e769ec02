package opl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) peekRuneN(n int) rune {
	idx := l.offset
	for i := 0; ; i++ {
		if idx >= len(l.input) {
			return 0
		}
		r, w := utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
}

// operatorTable lists multi-rune operators longest first so the first match wins.
var operatorTable = []struct {
	text string
	tt   TokenType
}{
	{"<<=", tokenShlAssign},
	{">>=", tokenShrAssign},
	{"++", tokenIncrement},
	{"--", tokenDecrement},
	{"+=", tokenPlusAssign},
	{"-=", tokenMinusAssign},
	{"*=", tokenStarAssign},
	{"/=", tokenSlashAssign},
	{"%=", tokenPercentAssign},
	{"<<", tokenShl},
	{">>", tokenShr},
	{"==", tokenEQ},
	{"!=", tokenNotEQ},
	{"<=", tokenLTE},
	{">=", tokenGTE},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"->", tokenArrow},
}

var singleRuneTokens = map[rune]TokenType{
	'=': tokenAssign,
	'+': tokenPlus,
	'-': tokenMinus,
	'!': tokenBang,
	'~': tokenTilde,
	'*': tokenAsterisk,
	'/': tokenSlash,
	'%': tokenPercent,
	'&': tokenAmpersand,
	'|': tokenPipe,
	'<': tokenLT,
	'>': tokenGT,
	',': tokenComma,
	';': tokenSemicolon,
	':': tokenColon,
	'.': tokenDot,
	'$': tokenDollar,
	'(': tokenLParen,
	')': tokenRParen,
	'{': tokenLBrace,
	'}': tokenRBrace,
	'[': tokenLBracket,
	']': tokenRBracket,
}

func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch {
	case l.ch == 0:
		tok.Type = tokenEOF
		return tok
	case l.ch == '"' || l.ch == '\'':
		literal, err := l.readString(l.ch)
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
		return tok
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		tok.Type = lookupIdent(literal)
		tok.Literal = literal
		return tok
	case unicode.IsDigit(l.ch):
		literal, isFloat := l.readNumber()
		tok.Literal = literal
		if isFloat {
			tok.Type = tokenFloat
		} else {
			tok.Type = tokenInt
		}
		return tok
	}

	rest := l.input[l.offset-l.width:]
	for _, op := range operatorTable {
		if strings.HasPrefix(rest, op.text) {
			for range op.text {
				l.readRune()
			}
			tok.Type = op.tt
			tok.Literal = op.text
			return tok
		}
	}

	if tt, ok := singleRuneTokens[l.ch]; ok {
		tok.Type = tt
	} else {
		tok.Type = tokenIllegal
	}
	tok.Literal = string(l.ch)
	l.readRune()
	return tok
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readRune()
		case '#':
			for l.ch != 0 && l.ch != '\n' {
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *lexer) readIdentifier() string {
	start := l.offset - l.width
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() (string, bool) {
	start := l.offset - l.width
	hasDot := false
	for {
		r := l.peekRune()
		switch {
		case unicode.IsDigit(r):
			l.readRune()
		case r == '.' && !hasDot && unicode.IsDigit(l.peekRuneN(1)):
			hasDot = true
			l.readRune()
		default:
			literal := l.input[start:l.offset]
			l.readRune()
			return literal, hasDot
		}
	}
}

// readString consumes a quoted literal. There are no escape sequences; the
// literal ends at the next matching quote.
func (l *lexer) readString(quote rune) (string, string) {
	var sb strings.Builder
	for {
		l.readRune()
		switch l.ch {
		case 0:
			return "", "unterminated string"
		case quote:
			l.readRune()
			return sb.String(), ""
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
