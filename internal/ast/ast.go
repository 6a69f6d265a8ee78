package ast

import "github.com/marax-lang/marax/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr represents a source-level type annotation. Types are
// carried verbatim by the parser, raw AUTO included; the semantic
// analyzer resolves and validates them.
type TypeExpr interface {
	Node
	typeNode()
}

// Program represents a parsed compilation unit: ordered top-level
// globals and functions.
type Program struct {
	Decls []Decl
	span  lexer.Span
}

func (p *Program) Span() lexer.Span { return p.span }

// NewProgram constructs a program node with the provided span.
func NewProgram(span lexer.Span) *Program {
	return &Program{span: span}
}

// SetSpan updates the program span.
func (p *Program) SetSpan(span lexer.Span) { p.span = span }

// GlobalDecl represents a top-level variable declaration. Globals are
// implicitly zero-initialized and take no initializer.
type GlobalDecl struct {
	Type TypeExpr
	Name *Ident
	span lexer.Span
}

func (d *GlobalDecl) Span() lexer.Span { return d.span }
func (*GlobalDecl) declNode()          {}

func NewGlobalDecl(typ TypeExpr, name *Ident, span lexer.Span) *GlobalDecl {
	return &GlobalDecl{Type: typ, Name: name, span: span}
}

// FnDecl represents a function declaration.
type FnDecl struct {
	Name       *Ident
	Params     []*Param
	ReturnType TypeExpr
	Body       *BlockStmt
	span       lexer.Span
}

func (d *FnDecl) Span() lexer.Span { return d.span }
func (*FnDecl) declNode()          {}

func NewFnDecl(name *Ident, params []*Param, returnType TypeExpr, body *BlockStmt, span lexer.Span) *FnDecl {
	return &FnDecl{Name: name, Params: params, ReturnType: returnType, Body: body, span: span}
}

// Param represents a function parameter.
type Param struct {
	Type TypeExpr
	Name *Ident
	span lexer.Span
}

func (p *Param) Span() lexer.Span { return p.span }

func NewParam(typ TypeExpr, name *Ident, span lexer.Span) *Param {
	return &Param{Type: typ, Name: name, span: span}
}

// PrimType is a primitive type annotation (INT, FLOAT, BOOL, STRING,
// VOID, or AUTO), identified by its keyword token.
type PrimType struct {
	Kind lexer.TokenType
	span lexer.Span
}

func (t *PrimType) Span() lexer.Span { return t.span }
func (*PrimType) typeNode()          {}

func NewPrimType(kind lexer.TokenType, span lexer.Span) *PrimType {
	return &PrimType{Kind: kind, span: span}
}

// MatrixType is a MAT[elem, rows, cols] annotation with compile-time
// fixed dimensions.
type MatrixType struct {
	Elem TypeExpr
	Rows int
	Cols int
	span lexer.Span
}

func (t *MatrixType) Span() lexer.Span { return t.span }
func (*MatrixType) typeNode()          {}

func NewMatrixType(elem TypeExpr, rows, cols int, span lexer.Span) *MatrixType {
	return &MatrixType{Elem: elem, Rows: rows, Cols: cols, span: span}
}

// BlockStmt represents a braced statement list owning one scope.
type BlockStmt struct {
	Stmts []Stmt
	span  lexer.Span
}

func (s *BlockStmt) Span() lexer.Span { return s.span }
func (*BlockStmt) stmtNode()          {}

func NewBlockStmt(span lexer.Span) *BlockStmt {
	return &BlockStmt{span: span}
}

// SetSpan updates the block span.
func (s *BlockStmt) SetSpan(span lexer.Span) { s.span = span }

// VarDeclStmt represents a local variable declaration with an
// optional initializer.
type VarDeclStmt struct {
	Type TypeExpr
	Name *Ident
	Init Expr // nil when absent
	span lexer.Span
}

func (s *VarDeclStmt) Span() lexer.Span { return s.span }
func (*VarDeclStmt) stmtNode()          {}

func NewVarDeclStmt(typ TypeExpr, name *Ident, init Expr, span lexer.Span) *VarDeclStmt {
	return &VarDeclStmt{Type: typ, Name: name, Init: init, span: span}
}

// ExprStmt represents an expression evaluated for effect.
type ExprStmt struct {
	X    Expr
	span lexer.Span
}

func (s *ExprStmt) Span() lexer.Span { return s.span }
func (*ExprStmt) stmtNode()          {}

func NewExprStmt(x Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{X: x, span: span}
}

// ReturnStmt represents a return with an optional value.
type ReturnStmt struct {
	Value Expr // nil for bare return
	span  lexer.Span
}

func (s *ReturnStmt) Span() lexer.Span { return s.span }
func (*ReturnStmt) stmtNode()          {}

func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, span: span}
}

// IfStmt represents a conditional with an optional else branch.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
	span lexer.Span
}

func (s *IfStmt) Span() lexer.Span { return s.span }
func (*IfStmt) stmtNode()          {}

func NewIfStmt(cond Expr, then, els Stmt, span lexer.Span) *IfStmt {
	return &IfStmt{Cond: cond, Then: then, Else: els, span: span}
}

// WhileStmt represents a test-then-body loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	span lexer.Span
}

func (s *WhileStmt) Span() lexer.Span { return s.span }
func (*WhileStmt) stmtNode()          {}

func NewWhileStmt(cond Expr, body Stmt, span lexer.Span) *WhileStmt {
	return &WhileStmt{Cond: cond, Body: body, span: span}
}

// ForStmt represents for(init; cond; update) body. Init is either a
// VarDeclStmt or an ExprStmt; the loop has no instruction form of its
// own and is desugared during generation.
type ForStmt struct {
	Init   Stmt
	Cond   Expr
	Update Expr
	Body   Stmt
	span   lexer.Span
}

func (s *ForStmt) Span() lexer.Span { return s.span }
func (*ForStmt) stmtNode()          {}

func NewForStmt(init Stmt, cond, update Expr, body Stmt, span lexer.Span) *ForStmt {
	return &ForStmt{Init: init, Cond: cond, Update: update, Body: body, span: span}
}

// Ident represents an identifier use.
type Ident struct {
	Name string
	span lexer.Span
}

func (i *Ident) Span() lexer.Span { return i.span }
func (*Ident) exprNode()          {}

func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

// IntLit represents a decoded integer literal.
type IntLit struct {
	Value int64
	Text  string
	span  lexer.Span
}

func (l *IntLit) Span() lexer.Span { return l.span }
func (*IntLit) exprNode()          {}

func NewIntLit(value int64, text string, span lexer.Span) *IntLit {
	return &IntLit{Value: value, Text: text, span: span}
}

// FloatLit represents a decoded float literal.
type FloatLit struct {
	Value float64
	Text  string
	span  lexer.Span
}

func (l *FloatLit) Span() lexer.Span { return l.span }
func (*FloatLit) exprNode()          {}

func NewFloatLit(value float64, text string, span lexer.Span) *FloatLit {
	return &FloatLit{Value: value, Text: text, span: span}
}

// BoolLit represents TRUE or FALSE.
type BoolLit struct {
	Value bool
	span  lexer.Span
}

func (l *BoolLit) Span() lexer.Span { return l.span }
func (*BoolLit) exprNode()          {}

func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

// StringLit represents a string literal (no escape processing).
type StringLit struct {
	Value string
	span  lexer.Span
}

func (l *StringLit) Span() lexer.Span { return l.span }
func (*StringLit) exprNode()          {}

func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

// MatrixLit represents a row-major matrix literal.
type MatrixLit struct {
	Rows [][]Expr
	span lexer.Span
}

func (l *MatrixLit) Span() lexer.Span { return l.span }
func (*MatrixLit) exprNode()          {}

func NewMatrixLit(rows [][]Expr, span lexer.Span) *MatrixLit {
	return &MatrixLit{Rows: rows, span: span}
}

// PrefixExpr represents a unary operator application.
type PrefixExpr struct {
	Op   lexer.TokenType
	X    Expr
	span lexer.Span
}

func (e *PrefixExpr) Span() lexer.Span { return e.span }
func (*PrefixExpr) exprNode()          {}

func NewPrefixExpr(op lexer.TokenType, x Expr, span lexer.Span) *PrefixExpr {
	return &PrefixExpr{Op: op, X: x, span: span}
}

// InfixExpr represents a binary operator application.
type InfixExpr struct {
	Op    lexer.TokenType
	Left  Expr
	Right Expr
	span  lexer.Span
}

func (e *InfixExpr) Span() lexer.Span { return e.span }
func (*InfixExpr) exprNode()          {}

func NewInfixExpr(op lexer.TokenType, left, right Expr, span lexer.Span) *InfixExpr {
	return &InfixExpr{Op: op, Left: left, Right: right, span: span}
}

// AssignExpr represents an assignment to a named variable.
type AssignExpr struct {
	Target *Ident
	Value  Expr
	span   lexer.Span
}

func (e *AssignExpr) Span() lexer.Span { return e.span }
func (*AssignExpr) exprNode()          {}

func NewAssignExpr(target *Ident, value Expr, span lexer.Span) *AssignExpr {
	return &AssignExpr{Target: target, Value: value, span: span}
}

// CallExpr represents a call to a user function or built-in
// pseudo-function.
type CallExpr struct {
	Callee *Ident
	Args   []Expr
	span   lexer.Span
}

func (e *CallExpr) Span() lexer.Span { return e.span }
func (*CallExpr) exprNode()          {}

func NewCallExpr(callee *Ident, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}
