package opl

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of program to w.
func Dump(w io.Writer, program *Program) error {
	d := &dumper{}
	d.line(0, "Program")
	for _, stmt := range program.Statements {
		d.node(1, stmt)
	}
	_, err := io.WriteString(w, d.b.String())
	return err
}

type dumper struct {
	b strings.Builder
}

func (d *dumper) line(depth int, format string, args ...any) {
	d.b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
}

func paramList(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		if p.Type != nil {
			parts[i] += ":" + p.Type.String()
		}
	}
	return strings.Join(parts, ", ")
}

func (d *dumper) block(depth int, label string, block *BlockStmt) {
	if block == nil {
		return
	}
	d.line(depth, "%s", label)
	for _, stmt := range block.Statements {
		d.node(depth+1, stmt)
	}
}

func (d *dumper) node(depth int, n Node) {
	if n == nil {
		return
	}
	switch n := n.(type) {
	case *ExprStmt:
		d.node(depth, n.Expr)
	case *AssignStmt:
		d.line(depth, "Assign %s", n.Operator)
		d.node(depth+1, n.Target)
		d.node(depth+1, n.Value)
	case *VarStmt:
		for _, decl := range n.Decls {
			d.node(depth, decl)
		}
	case *VarDecl:
		if n.Type != nil {
			d.line(depth, "Let %s:%s", n.Name, n.Type)
		} else {
			d.line(depth, "Let %s", n.Name)
		}
		d.node(depth+1, n.Value)
	case *FunctionStmt:
		d.line(depth, "Def %s(%s)", n.Name, paramList(n.Params))
		d.block(depth+1, "Body", n.Body)
	case *ClassStmt:
		d.line(depth, "Class %s", n.Name)
		for _, m := range n.Members {
			d.node(depth+1, m.Node)
		}
	case *IfStmt:
		d.line(depth, "If")
		d.node(depth+1, n.Condition)
		d.block(depth+1, "Then", n.Consequent)
		d.block(depth+1, "Else", n.Alternate)
	case *WhileStmt:
		d.line(depth, "While")
		d.node(depth+1, n.Condition)
		d.block(depth+1, "Body", n.Body)
	case *ForStmt:
		d.line(depth, "For")
		d.node(depth+1, n.Init)
		d.node(depth+1, n.Condition)
		d.node(depth+1, n.Advance)
		d.block(depth+1, "Body", n.Body)
	case *ReturnStmt:
		d.line(depth, "Return")
		d.node(depth+1, n.Value)
	case *BreakStmt:
		d.line(depth, "Break")
	case *ContinueStmt:
		d.line(depth, "Continue")
	case *BlockStmt:
		d.block(depth, "Block", n)
	case *ImportStmt:
		d.line(depth, "Import %q", n.Path)
	case *Identifier:
		d.line(depth, "Identifier %s", n.Name)
	case *IntegerLiteral:
		d.line(depth, "Integer %s", n.Text)
	case *FloatLiteral:
		d.line(depth, "Float %s", n.Text)
	case *StringLiteral:
		d.line(depth, "String %q", n.Value)
	case *BoolLiteral:
		d.line(depth, "Bool %t", n.Value)
	case *NullLiteral:
		d.line(depth, "Null")
	case *ArrayLiteral:
		d.line(depth, "Array")
		for _, el := range n.Elements {
			d.node(depth+1, el)
		}
	case *MemberExpr:
		d.line(depth, "Member .%s", n.Property)
		d.node(depth+1, n.Object)
	case *IndexExpr:
		d.line(depth, "Index")
		d.node(depth+1, n.Object)
		d.node(depth+1, n.Index)
	case *BinaryExpr:
		d.line(depth, "Binary %s", n.Operator)
		d.node(depth+1, n.Left)
		d.node(depth+1, n.Right)
	case *NotExpr:
		d.line(depth, "Not")
		d.node(depth+1, n.Operand)
	case *BitNotExpr:
		d.line(depth, "BitNot")
		d.node(depth+1, n.Operand)
	case *CallExpr:
		d.line(depth, "Call")
		d.node(depth+1, n.Callee)
		for _, arg := range n.Args {
			d.node(depth+1, arg)
		}
	case *IncDecExpr:
		op := "--"
		if n.Increment {
			op = "++"
		}
		if n.Prefix {
			d.line(depth, "Prefix %s", op)
		} else {
			d.line(depth, "Postfix %s", op)
		}
		d.node(depth+1, n.Target)
	case *LambdaExpr:
		d.line(depth, "Lambda (%s)", paramList(n.Params))
		d.block(depth+1, "Body", n.Body)
	case *NewExpr:
		d.line(depth, "New %s", n.ClassName)
		for _, arg := range n.Args {
			d.node(depth+1, arg)
		}
	default:
		d.line(depth, "%T", n)
	}
}
