package opl

import "strings"

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

// TypeExpr is a parsed type annotation. Annotations are kept for tooling
// and never checked at run time.
type TypeExpr struct {
	Name     string
	Elem     *TypeExpr
	Params   []*TypeExpr
	Return   *TypeExpr
	position Position
}

func (t *TypeExpr) String() string {
	if t == nil {
		return ""
	}
	switch {
	case t.Elem != nil:
		return "[" + t.Elem.String() + "]"
	case t.Name == "func":
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		out := "func(" + strings.Join(parts, ", ") + ")"
		if t.Return != nil {
			out += " -> " + t.Return.String()
		}
		return out
	default:
		return t.Name
	}
}

type Param struct {
	Name string
	Type *TypeExpr
}

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

// IntegerLiteral keeps the numeral exactly as written.
type IntegerLiteral struct {
	Text     string
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type FloatLiteral struct {
	Text     string
	position Position
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type NullLiteral struct {
	position Position
}

func (e *NullLiteral) exprNode()     {}
func (e *NullLiteral) Pos() Position { return e.position }

type ArrayLiteral struct {
	Elements []Expression
	position Position
}

func (e *ArrayLiteral) exprNode()     {}
func (e *ArrayLiteral) Pos() Position { return e.position }

// MemberExpr is `object.property`.
type MemberExpr struct {
	Object   Expression
	Property string
	position Position
}

func (e *MemberExpr) exprNode()     {}
func (e *MemberExpr) Pos() Position { return e.position }

// IndexExpr is `object[index]`.
type IndexExpr struct {
	Object   Expression
	Index    Expression
	position Position
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

// NotExpr is logical negation `!x`.
type NotExpr struct {
	Operand  Expression
	position Position
}

func (e *NotExpr) exprNode()     {}
func (e *NotExpr) Pos() Position { return e.position }

// BitNotExpr is bitwise complement `~x`.
type BitNotExpr struct {
	Operand  Expression
	position Position
}

func (e *BitNotExpr) exprNode()     {}
func (e *BitNotExpr) Pos() Position { return e.position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

// IncDecExpr covers `++x`, `x++`, `--x` and `x--`.
type IncDecExpr struct {
	Target    Expression
	Prefix    bool
	Increment bool
	position  Position
}

func (e *IncDecExpr) exprNode()     {}
func (e *IncDecExpr) Pos() Position { return e.position }

// LambdaExpr is an anonymous function literal `$(a:Int) { ... }`.
type LambdaExpr struct {
	Params   []Param
	ReturnTy *TypeExpr
	Body     *BlockStmt
	position Position
}

func (e *LambdaExpr) exprNode()     {}
func (e *LambdaExpr) Pos() Position { return e.position }

type NewExpr struct {
	ClassName string
	Args      []Expression
	position  Position
}

func (e *NewExpr) exprNode()     {}
func (e *NewExpr) Pos() Position { return e.position }
