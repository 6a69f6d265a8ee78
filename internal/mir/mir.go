package mir

import (
	"github.com/marax-lang/marax/internal/types"
)

// Module represents a lowered compilation unit: zero-initialized
// global slots in source order plus one function per source function.
type Module struct {
	Globals   []Global
	Functions []*Function
}

// Global represents a module-level storage slot.
type Global struct {
	Name string
	Type types.Type
}

// Function represents a function with a control-flow graph. Every
// block in Blocks ends in exactly one terminator.
type Function struct {
	Name       string
	Params     []Local
	ReturnType types.Type
	Locals     []Local
	Blocks     []*BasicBlock
	Entry      *BasicBlock
}

// Local represents a local variable, parameter, or temporary.
type Local struct {
	ID   int
	Name string
	Type types.Type
}

// BasicBlock represents a basic block in the CFG.
type BasicBlock struct {
	Label      string
	Statements []Statement
	Terminator Terminator
}

// Statement represents a non-terminating operation.
type Statement interface {
	stmtNode()
}

// Terminator represents control flow out of a block.
type Terminator interface {
	terminatorNode()
}

// Operand represents a value used in an operation.
type Operand interface {
	operandNode()
	OperandType() types.Type
}

// LocalRef represents a reference to a local variable.
type LocalRef struct {
	Local Local
}

func (*LocalRef) operandNode()              {}
func (l *LocalRef) OperandType() types.Type { return l.Local.Type }

// GlobalRef represents a reference to a module-level slot.
type GlobalRef struct {
	Name string
	Type types.Type
}

func (*GlobalRef) operandNode()              {}
func (g *GlobalRef) OperandType() types.Type { return g.Type }

// Literal represents a constant value. A nil Value of matrix type is
// the null matrix reference.
type Literal struct {
	Type  types.Type
	Value interface{} // int64, float64, bool, string, nil
}

func (*Literal) operandNode()              {}
func (l *Literal) OperandType() types.Type { return l.Type }

// Assign statement: local = operand.
type Assign struct {
	Local Local
	RHS   Operand
}

func (*Assign) stmtNode() {}

// SetGlobal statement: global slot = operand.
type SetGlobal struct {
	Name  string
	Value Operand
}

func (*SetGlobal) stmtNode() {}

// BinOp statement: result = op(left, right).
type BinOp struct {
	Result Local
	Op     Opcode
	Left   Operand
	Right  Operand
}

func (*BinOp) stmtNode() {}

// UnOp statement: result = op(operand).
type UnOp struct {
	Result Local
	Op     Opcode
	X      Operand
}

func (*UnOp) stmtNode() {}

// Call statement: result = call func(args...). Result is nil for
// calls to VOID functions.
type Call struct {
	Result *Local
	Func   string
	Args   []Operand
}

func (*Call) stmtNode() {}

// Print is the variadic formatted-output instruction backing PRINT
// and PRINTSTR.
type Print struct {
	Format string
	Args   []Operand
}

func (*Print) stmtNode() {}

// MakeMatrix constructs a matrix value from row-major elements.
type MakeMatrix struct {
	Result   Local
	Elements [][]Operand
}

func (*MakeMatrix) stmtNode() {}

// MatrixDim reads a matrix dimension. Value carries the statically
// known dimension; the backend contract is that a null matrix operand
// yields 0 instead of Value.
type MatrixDim struct {
	Result Local
	Matrix Operand
	Value  int
}

func (*MatrixDim) stmtNode() {}

// Return terminator. Value is nil for VOID returns.
type Return struct {
	Value Operand
}

func (*Return) terminatorNode() {}

// Goto terminator (unconditional jump).
type Goto struct {
	Target *BasicBlock
}

func (*Goto) terminatorNode() {}

// Branch terminator (conditional jump).
type Branch struct {
	Condition Operand
	True      *BasicBlock
	False     *BasicBlock
}

func (*Branch) terminatorNode() {}
