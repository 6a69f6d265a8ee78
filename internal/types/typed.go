package types

import "github.com/marax-lang/marax/internal/lexer"

// Program is the fully typed tree produced by semantic analysis. Every
// expression carries its resolved type; Auto never occurs here.
type Program struct {
	Scopes    *Arena
	Globals   []Global
	Functions []*Function
}

// Global is a top-level variable, implicitly zero-initialized.
type Global struct {
	Name string
	Type Type
}

// Function is a checked function: ordered formals, declared return
// type, and a typed body owning a scope seeded with the formals.
type Function struct {
	Name   string
	Params []Param
	Return Type
	Scope  ScopeID
	Body   *Block
}

// Param is one (type, name) formal.
type Param struct {
	Name string
	Type Type
}

// Stmt is a typed statement.
type Stmt interface {
	stmtNode()
}

// Block is a statement list with its owning scope.
type Block struct {
	Scope ScopeID
	Stmts []Stmt
}

func (*Block) stmtNode() {}

// VarDecl declares a local. Init is nil for plain declarations, which
// leave the slot zero-initialized.
type VarDecl struct {
	Name string
	Type Type
	Init *Expr
}

func (*VarDecl) stmtNode() {}

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	X *Expr
}

func (*ExprStmt) stmtNode() {}

// Return leaves the enclosing function. Value is nil for void
// returns.
type Return struct {
	Value *Expr
}

func (*Return) stmtNode() {}

// If is a checked conditional; Cond is Bool.
type If struct {
	Cond *Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (*If) stmtNode() {}

// While is a test-then-body loop; Cond is Bool.
type While struct {
	Cond *Expr
	Body Stmt
}

func (*While) stmtNode() {}

// For carries init/cond/update/body. Scope holds the init
// declaration; Update shares the body's scope. The generator desugars
// For into Block/While, so no backend ever sees it.
type For struct {
	Scope  ScopeID
	Init   Stmt // nil when the init expression is empty
	Cond   *Expr
	Update *Expr
	Body   *Block
}

func (*For) stmtNode() {}

// Expr pairs a resolved type with an expression variant. The type is
// fixed once by analysis and reused verbatim by generation.
type Expr struct {
	Type Type
	Kind ExprKind
}

// ExprKind is a typed expression variant.
type ExprKind interface {
	exprKind()
}

type IntLit struct {
	Value int64
}

func (*IntLit) exprKind() {}

type FloatLit struct {
	Value float64
}

func (*FloatLit) exprKind() {}

type BoolLit struct {
	Value bool
}

func (*BoolLit) exprKind() {}

type StringLit struct {
	Value string
}

func (*StringLit) exprKind() {}

// MatrixLit holds row-major element expressions; shape and element
// uniformity were validated against the carried Matrix type.
type MatrixLit struct {
	Elems [][]*Expr
}

func (*MatrixLit) exprKind() {}

// VarRef reads a variable; storage (local vs global) is re-resolved
// by the generator.
type VarRef struct {
	Name string
}

func (*VarRef) exprKind() {}

type Unary struct {
	Op lexer.TokenType
	X  *Expr
}

func (*Unary) exprKind() {}

type Binary struct {
	Op    lexer.TokenType
	Left  *Expr
	Right *Expr
}

func (*Binary) exprKind() {}

// Assign writes Value to the named variable and yields it.
type Assign struct {
	Name  string
	Value *Expr
}

func (*Assign) exprKind() {}

// Builtin identifies a built-in pseudo-function.
type Builtin int

const (
	BuiltinNone Builtin = iota
	BuiltinPrint
	BuiltinPrintStr
	BuiltinRows
	BuiltinCols
)

// Call invokes a user function (BuiltinNone) or a built-in.
type Call struct {
	Callee  string
	Builtin Builtin
	Args    []*Expr
}

func (*Call) exprKind() {}
