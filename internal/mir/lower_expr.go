package mir

import (
	"strings"

	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/types"
)

// lowerExpr lowers an expression to the operand holding its value.
// VOID calls yield a nil operand; the checker only admits those in
// statement position.
func (l *Lowerer) lowerExpr(expr *types.Expr) (Operand, error) {
	switch e := expr.Kind.(type) {
	case *types.IntLit:
		return &Literal{Type: expr.Type, Value: e.Value}, nil
	case *types.FloatLit:
		return &Literal{Type: expr.Type, Value: e.Value}, nil
	case *types.BoolLit:
		return &Literal{Type: expr.Type, Value: e.Value}, nil
	case *types.StringLit:
		return &Literal{Type: expr.Type, Value: e.Value}, nil
	case *types.VarRef:
		return l.resolve(e.Name)
	case *types.MatrixLit:
		return l.lowerMatrixLit(expr.Type, e)
	case *types.Unary:
		return l.lowerUnary(expr.Type, e)
	case *types.Binary:
		return l.lowerBinary(expr.Type, e)
	case *types.Assign:
		return l.lowerAssign(e)
	case *types.Call:
		return l.lowerCall(expr.Type, e)
	default:
		return nil, internalErrf(diag.CodeInternalUnknownType,
			"unsupported expression %T", expr.Kind)
	}
}

// lowerValue lowers an expression that must produce an operand. A nil
// operand here means a VOID call escaped the checker.
func (l *Lowerer) lowerValue(expr *types.Expr) (Operand, error) {
	op, err := l.lowerExpr(expr)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, internalErrf(diag.CodeInternalVoidValue,
			"VOID value reached a value position")
	}
	return op, nil
}

func (l *Lowerer) lowerMatrixLit(t types.Type, lit *types.MatrixLit) (Operand, error) {
	elements := make([][]Operand, 0, len(lit.Elems))
	for _, row := range lit.Elems {
		ops := make([]Operand, 0, len(row))
		for _, cell := range row {
			op, err := l.lowerValue(cell)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		elements = append(elements, ops)
	}

	result := l.newLocal("mat", t)
	l.currentFunc.Locals = append(l.currentFunc.Locals, result)
	l.emit(&MakeMatrix{Result: result, Elements: elements})
	return &LocalRef{Local: result}, nil
}

func (l *Lowerer) lowerUnary(t types.Type, e *types.Unary) (Operand, error) {
	x, err := l.lowerValue(e.X)
	if err != nil {
		return nil, err
	}
	opcode, err := selectUnOp(e.Op, e.X.Type)
	if err != nil {
		return nil, err
	}

	result := l.newLocal("", t)
	l.currentFunc.Locals = append(l.currentFunc.Locals, result)
	l.emit(&UnOp{Result: result, Op: opcode, X: x})
	return &LocalRef{Local: result}, nil
}

// lowerBinary selects the opcode from the left operand's static type;
// the checker guarantees both sides agree.
func (l *Lowerer) lowerBinary(t types.Type, e *types.Binary) (Operand, error) {
	left, err := l.lowerValue(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := l.lowerValue(e.Right)
	if err != nil {
		return nil, err
	}
	opcode, err := selectBinOp(e.Op, e.Left.Type)
	if err != nil {
		return nil, err
	}

	result := l.newLocal("", t)
	l.currentFunc.Locals = append(l.currentFunc.Locals, result)
	l.emit(&BinOp{Result: result, Op: opcode, Left: left, Right: right})
	return &LocalRef{Local: result}, nil
}

// lowerAssign stores into the resolved slot and yields the stored
// operand as the expression's value.
func (l *Lowerer) lowerAssign(e *types.Assign) (Operand, error) {
	value, err := l.lowerValue(e.Value)
	if err != nil {
		return nil, err
	}
	target, err := l.resolve(e.Name)
	if err != nil {
		return nil, err
	}

	switch tgt := target.(type) {
	case *LocalRef:
		l.emit(&Assign{Local: tgt.Local, RHS: value})
	case *GlobalRef:
		l.emit(&SetGlobal{Name: tgt.Name, Value: value})
	default:
		return nil, internalErrf(diag.CodeInternalUnboundSymbol,
			"assignment to unsupported storage for %s", e.Name)
	}
	return value, nil
}

func (l *Lowerer) lowerCall(t types.Type, e *types.Call) (Operand, error) {
	args := make([]Operand, 0, len(e.Args))
	for _, a := range e.Args {
		op, err := l.lowerValue(a)
		if err != nil {
			return nil, err
		}
		args = append(args, op)
	}

	switch e.Builtin {
	case types.BuiltinPrint, types.BuiltinPrintStr:
		format, err := printFormat(e.Args[0].Type)
		if err != nil {
			return nil, err
		}
		l.emit(&Print{Format: format, Args: args})
		return nil, nil
	case types.BuiltinRows, types.BuiltinCols:
		return l.lowerMatrixDim(e, args[0])
	}

	if types.IsVoid(t) {
		l.emit(&Call{Func: e.Callee, Args: args})
		return nil, nil
	}

	result := l.newLocal(strings.ToLower(e.Callee)+".ret", t)
	l.currentFunc.Locals = append(l.currentFunc.Locals, result)
	l.emit(&Call{Result: &result, Func: e.Callee, Args: args})
	return &LocalRef{Local: result}, nil
}

// lowerMatrixDim bakes the dimension from the argument's static type
// into the instruction. The operand rides along for the backend's
// null check: a null matrix reads as 0.
func (l *Lowerer) lowerMatrixDim(e *types.Call, arg Operand) (Operand, error) {
	mt, ok := e.Args[0].Type.(*types.Matrix)
	if !ok {
		return nil, internalErrf(diag.CodeInternalUnknownType,
			"%s applied to non-matrix type %s", e.Callee, e.Args[0].Type)
	}
	value := mt.Rows
	if e.Builtin == types.BuiltinCols {
		value = mt.Cols
	}

	result := l.newLocal(strings.ToLower(e.Callee), types.TypeInt)
	l.currentFunc.Locals = append(l.currentFunc.Locals, result)
	l.emit(&MatrixDim{Result: result, Matrix: arg, Value: value})
	return &LocalRef{Local: result}, nil
}

// printFormat picks the output format from the statically known
// argument kind. Bool prints as an integer bit.
func printFormat(t types.Type) (string, error) {
	p, ok := t.(*types.Primitive)
	if !ok {
		return "", internalErrf(diag.CodeInternalUnknownType,
			"no print format for type %s", t)
	}
	switch p.Kind {
	case types.Int, types.Bool:
		return "%d\n", nil
	case types.Float:
		return "%f\n", nil
	case types.String:
		return "%s\n", nil
	default:
		return "", internalErrf(diag.CodeInternalUnknownType,
			"no print format for type %s", t)
	}
}
