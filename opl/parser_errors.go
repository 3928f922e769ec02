package opl

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a syntax error with its location and a code frame.
type ParseError struct {
	Pos Position
	Msg string

	atEOF  bool
	source string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// IsIncomplete reports whether err is a parse error caused by the input
// ending early, such as an unclosed block. Line-oriented front ends use it
// to keep reading.
func IsIncomplete(err error) bool {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return false
	}
	return perr.atEOF
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok, fmt.Sprintf("unexpected %s", tokenLabel(tok)))
}

func (p *parser) addParseError(tok Token, msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:    tok.Pos,
		Msg:    msg,
		atEOF:  tok.Type == tokenEOF,
		source: p.l.input,
	})
}

func (p *parser) failed() bool {
	return len(p.errors) > 0
}

func expectedLabel(tt TokenType) string {
	switch tt {
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string"
	default:
		return "'" + string(tt) + "'"
	}
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case tokenIllegal:
		if tok.Literal == "unterminated string" {
			return tok.Literal
		}
		return fmt.Sprintf("invalid character %q", tok.Literal)
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case tokenInt:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenString:
		return "string"
	default:
		return fmt.Sprintf("'%s'", tok.Literal)
	}
}
