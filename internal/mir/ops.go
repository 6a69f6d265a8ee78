package mir

import (
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
	"github.com/marax-lang/marax/internal/types"
)

// Opcode identifies a lowered arithmetic, comparison, or logical
// operation.
type Opcode string

const (
	OpAddI Opcode = "add.i"
	OpSubI Opcode = "sub.i"
	OpMulI Opcode = "mul.i"
	OpDivI Opcode = "div.i"

	OpAddF Opcode = "add.f"
	OpSubF Opcode = "sub.f"
	OpMulF Opcode = "mul.f"
	OpDivF Opcode = "div.f"

	OpLtI Opcode = "lt.i"
	OpGtI Opcode = "gt.i"
	OpLeI Opcode = "le.i"
	OpGeI Opcode = "ge.i"
	OpEqI Opcode = "eq.i"
	OpNeI Opcode = "ne.i"

	OpLtF Opcode = "lt.f"
	OpGtF Opcode = "gt.f"
	OpLeF Opcode = "le.f"
	OpGeF Opcode = "ge.f"
	OpEqF Opcode = "eq.f"
	OpNeF Opcode = "ne.f"

	// Bool operands are single-bit, so logical connectives lower to
	// bitwise forms.
	OpAndB Opcode = "and.b"
	OpOrB  Opcode = "or.b"

	OpNegI Opcode = "neg.i"
	OpNegF Opcode = "neg.f"
	OpNotB Opcode = "not.b"
)

// opClass partitions operand types for opcode selection: Float picks
// floating-point forms, everything else integer forms.
type opClass int

const (
	classInt opClass = iota
	classFloat
)

func classify(t types.Type) opClass {
	if p, ok := t.(*types.Primitive); ok && p.Kind == types.Float {
		return classFloat
	}
	return classInt
}

// binOps is the single source of binary opcode selection, keyed by
// source operator and operand class.
var binOps = map[lexer.TokenType]map[opClass]Opcode{
	lexer.PLUS:     {classInt: OpAddI, classFloat: OpAddF},
	lexer.MINUS:    {classInt: OpSubI, classFloat: OpSubF},
	lexer.ASTERISK: {classInt: OpMulI, classFloat: OpMulF},
	lexer.SLASH:    {classInt: OpDivI, classFloat: OpDivF},
	lexer.LT:       {classInt: OpLtI, classFloat: OpLtF},
	lexer.GT:       {classInt: OpGtI, classFloat: OpGtF},
	lexer.LE:       {classInt: OpLeI, classFloat: OpLeF},
	lexer.GE:       {classInt: OpGeI, classFloat: OpGeF},
	lexer.EQ:       {classInt: OpEqI, classFloat: OpEqF},
	lexer.NOT_EQ:   {classInt: OpNeI, classFloat: OpNeF},
	lexer.AND:      {classInt: OpAndB, classFloat: OpAndB},
	lexer.OR:       {classInt: OpOrB, classFloat: OpOrB},
}

var unOps = map[lexer.TokenType]map[opClass]Opcode{
	lexer.MINUS: {classInt: OpNegI, classFloat: OpNegF},
	lexer.BANG:  {classInt: OpNotB, classFloat: OpNotB},
}

// selectBinOp picks the opcode for a binary operator from the left
// operand's static type. A missing entry is an internal error: the
// checker admits no such combination.
func selectBinOp(op lexer.TokenType, operand types.Type) (Opcode, error) {
	forms, ok := binOps[op]
	if !ok {
		return "", internalErrf(diag.CodeInternalUnknownType,
			"no lowering for binary operator %s", op)
	}
	opcode, ok := forms[classify(operand)]
	if !ok {
		return "", internalErrf(diag.CodeInternalUnknownType,
			"no %s form for operand type %s", op, operand)
	}
	return opcode, nil
}

func selectUnOp(op lexer.TokenType, operand types.Type) (Opcode, error) {
	forms, ok := unOps[op]
	if !ok {
		return "", internalErrf(diag.CodeInternalUnknownType,
			"no lowering for unary operator %s", op)
	}
	opcode, ok := forms[classify(operand)]
	if !ok {
		return "", internalErrf(diag.CodeInternalUnknownType,
			"no %s form for operand type %s", op, operand)
	}
	return opcode, nil
}

func internalErrf(code diag.Code, format string, args ...any) error {
	return diag.Errorf(diag.StageCodegen, code, diag.Span{}, format, args...)
}
