package opl

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

// AssignStmt is `target op value` where op is `=` or a compound operator.
type AssignStmt struct {
	Operator TokenType
	Target   Expression
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type VarDecl struct {
	Name     string
	Type     *TypeExpr
	Value    Expression
	position Position
}

func (d *VarDecl) Pos() Position { return d.position }

// VarStmt is one `let` statement, which may declare several names.
type VarStmt struct {
	Decls    []*VarDecl
	position Position
}

func (s *VarStmt) stmtNode()     {}
func (s *VarStmt) Pos() Position { return s.position }

type FunctionStmt struct {
	Name     string
	Params   []Param
	ReturnTy *TypeExpr
	Body     *BlockStmt
	position Position
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.position }

type ClassMember struct {
	Name    string
	Private bool
	Node    Node
}

type ClassStmt struct {
	Name     string
	Members  []*ClassMember
	position Position
}

func (s *ClassStmt) stmtNode()     {}
func (s *ClassStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition  Expression
	Consequent *BlockStmt
	Alternate  *BlockStmt
	position   Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      *BlockStmt
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

// ForStmt is the counted loop `for (init; condition; advance) body`.
// Init and Advance may be nil.
type ForStmt struct {
	Init      Statement
	Condition Expression
	Advance   Statement
	Body      *BlockStmt
	position  Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ContinueStmt struct {
	position Position
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.position }

type BlockStmt struct {
	Statements []Statement
	position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }

type ImportStmt struct {
	Path     string
	position Position
}

func (s *ImportStmt) stmtNode()     {}
func (s *ImportStmt) Pos() Position { return s.position }
