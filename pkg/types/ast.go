package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	// Expressions
	NodeNumber NodeType = "number"
	NodeString NodeType = "string"
	NodeIdent  NodeType = "ident"
	NodeBinary NodeType = "binary" // +, -, *, /
	NodeCall   NodeType = "call"   // f(a, b)

	// Statements
	NodeLet      NodeType = "let"
	NodeExprStmt NodeType = "expr"
	NodeFuncDef  NodeType = "func"
	NodePrint    NodeType = "print"
)

// Node is implemented by every expression and statement.
type Node interface {
	// Type reports the node variant.
	Type() NodeType
	// Pos is the byte offset of the node's first token in the source.
	Pos() int
}

// Expr is a closed set of expression variants:
// *NumberLit, *StringLit, *Ident, *Binary and *Call.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a closed set of statement variants:
// *LetStmt, *ExprStmt, *FuncDef and *PrintStmt.
type Stmt interface {
	Node
	stmtNode()
}

// BinaryOp is the operator of a binary expression.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
)

// String returns the operator's source spelling.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value    float64
	Position int
}

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	Value    string
	Position int
}

// Ident is a reference to a bound name.
type Ident struct {
	Name     string
	Position int
}

// Binary is a binary operation. Left is always evaluated before Right.
type Binary struct {
	Op       BinaryOp
	Left     Expr
	Right    Expr
	Position int
}

// Call invokes the function bound to Callee.
type Call struct {
	Callee   string
	Args     []Expr
	Position int
}

// LetStmt binds the value of an expression to a name.
type LetStmt struct {
	Name     string
	Value    Expr
	Position int
}

// ExprStmt evaluates an expression and discards the result.
type ExprStmt struct {
	X        Expr
	Position int
}

// FuncDef binds a function value to a name.
type FuncDef struct {
	Name     string
	Params   []string
	Body     []Stmt
	Position int
}

// PrintStmt writes the textual form of a value to the output sink.
type PrintStmt struct {
	Value    Expr
	Position int
}

func (*NumberLit) Type() NodeType { return NodeNumber }
func (*StringLit) Type() NodeType { return NodeString }
func (*Ident) Type() NodeType     { return NodeIdent }
func (*Binary) Type() NodeType    { return NodeBinary }
func (*Call) Type() NodeType      { return NodeCall }
func (*LetStmt) Type() NodeType   { return NodeLet }
func (*ExprStmt) Type() NodeType  { return NodeExprStmt }
func (*FuncDef) Type() NodeType   { return NodeFuncDef }
func (*PrintStmt) Type() NodeType { return NodePrint }

func (n *NumberLit) Pos() int { return n.Position }
func (n *StringLit) Pos() int { return n.Position }
func (n *Ident) Pos() int     { return n.Position }
func (n *Binary) Pos() int    { return n.Position }
func (n *Call) Pos() int      { return n.Position }
func (n *LetStmt) Pos() int   { return n.Position }
func (n *ExprStmt) Pos() int  { return n.Position }
func (n *FuncDef) Pos() int   { return n.Position }
func (n *PrintStmt) Pos() int { return n.Position }

func (*NumberLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*Ident) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Call) exprNode()      {}

func (*LetStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()  {}
func (*FuncDef) stmtNode()   {}
func (*PrintStmt) stmtNode() {}
