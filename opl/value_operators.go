package opl

import (
	"math"
	"strings"
)

// binaryOp applies a binary operator. The left operand's kind selects the
// implementation; numeric results take the left operand's kind.
func binaryOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case tokenEQ, tokenNotEQ:
		eq, err := left.Equal(right)
		if err != nil {
			return NewNull(), err
		}
		return NewBool(eq == (op == tokenEQ)), nil
	case tokenAnd, tokenOr:
		return logicalOp(op, left, right)
	}

	switch left.kind {
	case KindInteger:
		return integerOp(op, left, right)
	case KindFloat:
		return floatOp(op, left, right)
	case KindString:
		return stringOp(op, left, right)
	default:
		return NewNull(), errUnsupported(string(op), left.kind)
	}
}

func logicalOp(op TokenType, left, right Value) (Value, error) {
	if left.kind != KindBool {
		return NewNull(), errUnsupported(string(op), left.kind)
	}
	if right.kind != KindBool {
		return NewNull(), errTypeMismatch("operator '%s' expects Bool operands, got %s", op, right.kind)
	}
	if op == tokenAnd {
		return NewBool(left.Bool() && right.Bool()), nil
	}
	return NewBool(left.Bool() || right.Bool()), nil
}

func integerOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case tokenPlus, tokenMinus, tokenAsterisk, tokenSlash, tokenPercent,
		tokenShl, tokenShr, tokenAmpersand, tokenPipe,
		tokenLT, tokenGT, tokenLTE, tokenGTE:
	default:
		return NewNull(), errUnsupported(string(op), KindInteger)
	}
	if !isNumeric(right) {
		return NewNull(), errTypeMismatch("operator '%s' expects a numeric right operand, got %s", op, right.kind)
	}
	a, err := integerOperand(left)
	if err != nil {
		return NewNull(), err
	}
	b, err := integerOperand(right)
	if err != nil {
		return NewNull(), err
	}

	switch op {
	case tokenPlus:
		return NewInteger(a + b), nil
	case tokenMinus:
		return NewInteger(a - b), nil
	case tokenAsterisk:
		return NewInteger(a * b), nil
	case tokenSlash:
		if b == 0 {
			return NewNull(), newKindError(DivisionByZero, "integer division by zero")
		}
		return NewInteger(a / b), nil
	case tokenPercent:
		if b == 0 {
			return NewNull(), newKindError(DivisionByZero, "integer modulo by zero")
		}
		return NewInteger(a % b), nil
	case tokenShl:
		return NewInteger(a << (uint32(b) & 31)), nil
	case tokenShr:
		return NewInteger(a >> (uint32(b) & 31)), nil
	case tokenAmpersand:
		return NewInteger(a & b), nil
	case tokenPipe:
		return NewInteger(a | b), nil
	case tokenLT:
		return NewBool(a < b), nil
	case tokenGT:
		return NewBool(a > b), nil
	case tokenLTE:
		return NewBool(a <= b), nil
	default:
		return NewBool(a >= b), nil
	}
}

func floatOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case tokenPlus, tokenMinus, tokenAsterisk, tokenSlash,
		tokenLT, tokenGT, tokenLTE, tokenGTE:
	default:
		return NewNull(), errUnsupported(string(op), KindFloat)
	}
	if !isNumeric(right) {
		return NewNull(), errTypeMismatch("operator '%s' expects a numeric right operand, got %s", op, right.kind)
	}
	a, err := floatOperand(left)
	if err != nil {
		return NewNull(), err
	}
	b, err := floatOperand(right)
	if err != nil {
		return NewNull(), err
	}

	switch op {
	case tokenPlus:
		return NewFloat(a + b), nil
	case tokenMinus:
		return NewFloat(a - b), nil
	case tokenAsterisk:
		return NewFloat(a * b), nil
	case tokenSlash:
		return NewFloat(a / b), nil
	case tokenLT:
		return NewBool(a < b), nil
	case tokenGT:
		return NewBool(a > b), nil
	case tokenLTE:
		return NewBool(a <= b), nil
	default:
		return NewBool(a >= b), nil
	}
}

func stringOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case tokenPlus:
		switch right.kind {
		case KindString, KindInteger, KindFloat:
			return NewString(left.String() + right.String()), nil
		default:
			return NewNull(), errTypeMismatch("cannot add %s to String", right.kind)
		}
	case tokenAsterisk:
		if right.kind != KindInteger {
			return NewNull(), errTypeMismatch("String can only be repeated by an Integer, got %s", right.kind)
		}
		n, err := integerOperand(right)
		if err != nil {
			return NewNull(), err
		}
		if n <= 0 {
			return NewString(""), nil
		}
		if int64(n)*int64(left.Len()) > math.MaxInt32 {
			return NewNull(), newKindError(InvalidNumber, "repeated string would be too long")
		}
		return NewString(strings.Repeat(left.String(), int(n))), nil
	default:
		return NewNull(), errUnsupported(string(op), KindString)
	}
}

func notOp(v Value) (Value, error) {
	if v.kind != KindBool {
		return NewNull(), errUnsupported("!", v.kind)
	}
	return NewBool(!v.Bool()), nil
}

func bitNotOp(v Value) (Value, error) {
	if v.kind != KindInteger {
		return NewNull(), errUnsupported("~", v.kind)
	}
	n, err := integerOperand(v)
	if err != nil {
		return NewNull(), err
	}
	return NewInteger(^n), nil
}

// compoundOperators maps compound assignment tokens to their operator.
var compoundOperators = map[TokenType]TokenType{
	tokenPlusAssign:    tokenPlus,
	tokenMinusAssign:   tokenMinus,
	tokenStarAssign:    tokenAsterisk,
	tokenSlashAssign:   tokenSlash,
	tokenPercentAssign: tokenPercent,
	tokenShlAssign:     tokenShl,
	tokenShrAssign:     tokenShr,
}
