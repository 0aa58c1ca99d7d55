package terse

type FuncStmt struct {
	Name     string
	Params   []string
	Body     []Statement
	position Position
}

func (s *FuncStmt) stmtNode()     {}
func (s *FuncStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type AssignStmt struct {
	Target   Expression
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

// GlobalAssignStmt binds a name in the global scope regardless of where it
// runs.
type GlobalAssignStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *GlobalAssignStmt) stmtNode()     {}
func (s *GlobalAssignStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type IfBranch struct {
	Condition Expression
	Body      []Statement
}

type IfStmt struct {
	Branches  []IfBranch
	Alternate []Statement
	Label     string
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	Label     string
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

// ForStmt is the inclusive numeric range loop FOR name FROM a TO b.
type ForStmt struct {
	Iterator string
	Start    Expression
	End      Expression
	Body     []Statement
	Label    string
	position Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

// ForEachStmt iterates arrays and maps. KeyVar is empty in the one-name form.
type ForEachStmt struct {
	KeyVar   string
	ValueVar string
	Iterable Expression
	Body     []Statement
	Label    string
	position Position
}

func (s *ForEachStmt) stmtNode()     {}
func (s *ForEachStmt) Pos() Position { return s.position }

type GotoStmt struct {
	Label    string
	position Position
}

func (s *GotoStmt) stmtNode()     {}
func (s *GotoStmt) Pos() Position { return s.position }

type BreakStmt struct {
	Label    string
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ContinueStmt struct {
	Label    string
	position Position
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.position }

type LabelStmt struct {
	Label    string
	position Position
}

func (s *LabelStmt) stmtNode()     {}
func (s *LabelStmt) Pos() Position { return s.position }

// statementLabel reports the label a statement registers in its block's
// jump table.
func statementLabel(stmt Statement) (string, bool) {
	var label string
	switch s := stmt.(type) {
	case *LabelStmt:
		label = s.Label
	case *IfStmt:
		label = s.Label
	case *WhileStmt:
		label = s.Label
	case *ForStmt:
		label = s.Label
	case *ForEachStmt:
		label = s.Label
	}
	return label, label != ""
}
