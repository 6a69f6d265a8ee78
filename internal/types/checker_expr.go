package types

import (
	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

// checkValueExpr checks e where a value is required, rejecting VOID
// results (calls to VOID functions are only legal as statements).
func (c *Checker) checkValueExpr(e ast.Expr, scope ScopeID) (*Expr, error) {
	x, err := c.checkExpr(e, scope)
	if err != nil {
		return nil, err
	}
	if IsVoid(x.Type) {
		return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
			"VOID value used where a value is required")
	}
	return x, nil
}

func (c *Checker) checkExpr(e ast.Expr, scope ScopeID) (*Expr, error) {
	switch ex := e.(type) {
	case *ast.IntLit:
		return &Expr{Type: TypeInt, Kind: &IntLit{Value: ex.Value}}, nil
	case *ast.FloatLit:
		return &Expr{Type: TypeFloat, Kind: &FloatLit{Value: ex.Value}}, nil
	case *ast.BoolLit:
		return &Expr{Type: TypeBool, Kind: &BoolLit{Value: ex.Value}}, nil
	case *ast.StringLit:
		return &Expr{Type: TypeString, Kind: &StringLit{Value: ex.Value}}, nil
	case *ast.Ident:
		t, ok := c.scopes.Lookup(scope, ex.Name)
		if !ok {
			return nil, semErrf(diag.CodeSemUndeclaredIdentifier, ex.Span(),
				"undeclared identifier %s", ex.Name)
		}
		return &Expr{Type: t, Kind: &VarRef{Name: ex.Name}}, nil
	case *ast.MatrixLit:
		return c.checkMatrixLit(ex, scope)
	case *ast.PrefixExpr:
		return c.checkPrefix(ex, scope)
	case *ast.InfixExpr:
		return c.checkInfix(ex, scope)
	case *ast.AssignExpr:
		return c.checkAssign(ex, scope)
	case *ast.CallExpr:
		return c.checkCall(ex, scope)
	default:
		return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
			"unsupported expression")
	}
}

// checkMatrixLit infers the literal's type: rectangular rows and one
// shared numeric element type.
func (c *Checker) checkMatrixLit(lit *ast.MatrixLit, scope ScopeID) (*Expr, error) {
	if len(lit.Rows) == 0 || len(lit.Rows[0]) == 0 {
		return nil, semErrf(diag.CodeSemMatrixShape, lit.Span(),
			"matrix literal must have at least one element")
	}
	cols := len(lit.Rows[0])
	var elem Type
	elems := make([][]*Expr, 0, len(lit.Rows))
	for _, row := range lit.Rows {
		if len(row) != cols {
			return nil, semErrf(diag.CodeSemMatrixShape, lit.Span(),
				"matrix literal rows have unequal lengths")
		}
		typedRow := make([]*Expr, 0, cols)
		for _, cell := range row {
			x, err := c.checkValueExpr(cell, scope)
			if err != nil {
				return nil, err
			}
			if !IsNumeric(x.Type) {
				return nil, semErrf(diag.CodeSemTypeMismatch, cell.Span(),
					"matrix element must be INT or FLOAT, got %s", x.Type)
			}
			if elem == nil {
				elem = x.Type
			} else if !Equal(elem, x.Type) {
				return nil, semErrf(diag.CodeSemTypeMismatch, cell.Span(),
					"matrix element type %s conflicts with %s", x.Type, elem)
			}
			typedRow = append(typedRow, x)
		}
		elems = append(elems, typedRow)
	}
	mt := &Matrix{Elem: elem, Rows: len(lit.Rows), Cols: cols}
	return &Expr{Type: mt, Kind: &MatrixLit{Elems: elems}}, nil
}

func (c *Checker) checkPrefix(e *ast.PrefixExpr, scope ScopeID) (*Expr, error) {
	x, err := c.checkValueExpr(e.X, scope)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case lexer.MINUS:
		if !IsNumeric(x.Type) {
			return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
				"unary - requires INT or FLOAT, got %s", x.Type)
		}
		return &Expr{Type: x.Type, Kind: &Unary{Op: e.Op, X: x}}, nil
	case lexer.BANG:
		if !IsBool(x.Type) {
			return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
				"unary ! requires BOOL, got %s", x.Type)
		}
		return &Expr{Type: TypeBool, Kind: &Unary{Op: e.Op, X: x}}, nil
	default:
		return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
			"unsupported unary operator %s", e.Op)
	}
}

func (c *Checker) checkInfix(e *ast.InfixExpr, scope ScopeID) (*Expr, error) {
	left, err := c.checkValueExpr(e.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := c.checkValueExpr(e.Right, scope)
	if err != nil {
		return nil, err
	}

	bin := &Binary{Op: e.Op, Left: left, Right: right}
	switch e.Op {
	case lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH:
		if !IsNumeric(left.Type) || !IsNumeric(right.Type) {
			return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
				"operator %s requires numeric operands, got %s and %s",
				e.Op, left.Type, right.Type)
		}
		if !Equal(left.Type, right.Type) {
			return nil, semErrf(diag.CodeSemTypeMismatch, e.Span(),
				"operator %s requires matching operand types, got %s and %s",
				e.Op, left.Type, right.Type)
		}
		return &Expr{Type: left.Type, Kind: bin}, nil
	case lexer.LT, lexer.GT, lexer.LE, lexer.GE, lexer.EQ, lexer.NOT_EQ:
		if !IsNumeric(left.Type) || !IsNumeric(right.Type) {
			return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
				"operator %s requires numeric operands, got %s and %s",
				e.Op, left.Type, right.Type)
		}
		if !Equal(left.Type, right.Type) {
			return nil, semErrf(diag.CodeSemTypeMismatch, e.Span(),
				"operator %s requires matching operand types, got %s and %s",
				e.Op, left.Type, right.Type)
		}
		return &Expr{Type: TypeBool, Kind: bin}, nil
	case lexer.AND, lexer.OR:
		if !IsBool(left.Type) || !IsBool(right.Type) {
			return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
				"operator %s requires BOOL operands, got %s and %s",
				e.Op, left.Type, right.Type)
		}
		return &Expr{Type: TypeBool, Kind: bin}, nil
	default:
		return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
			"unsupported binary operator %s", e.Op)
	}
}

func (c *Checker) checkAssign(e *ast.AssignExpr, scope ScopeID) (*Expr, error) {
	target, ok := c.scopes.Lookup(scope, e.Target.Name)
	if !ok {
		return nil, semErrf(diag.CodeSemUndeclaredIdentifier, e.Target.Span(),
			"undeclared identifier %s", e.Target.Name)
	}
	value, err := c.checkValueExpr(e.Value, scope)
	if err != nil {
		return nil, err
	}
	if !Equal(target, value.Type) {
		return nil, semErrf(diag.CodeSemTypeMismatch, e.Span(),
			"cannot assign %s to %s of type %s", value.Type, e.Target.Name, target)
	}
	return &Expr{Type: target, Kind: &Assign{Name: e.Target.Name, Value: value}}, nil
}

func (c *Checker) checkCall(e *ast.CallExpr, scope ScopeID) (*Expr, error) {
	name := e.Callee.Name

	args := make([]*Expr, 0, len(e.Args))
	for _, a := range e.Args {
		x, err := c.checkValueExpr(a, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, x)
	}

	if b, ok := builtinNames[name]; ok {
		ret, err := c.checkBuiltinCall(e, b, args)
		if err != nil {
			return nil, err
		}
		return &Expr{Type: ret, Kind: &Call{Callee: name, Builtin: b, Args: args}}, nil
	}

	fn, ok := c.funcs[name]
	if !ok {
		return nil, semErrf(diag.CodeSemUndeclaredIdentifier, e.Callee.Span(),
			"call to undeclared function %s", name)
	}
	if len(args) != len(fn.Params) {
		return nil, semErrf(diag.CodeSemArityMismatch, e.Span(),
			"%s takes %d argument(s), got %d", name, len(fn.Params), len(args))
	}
	for i, p := range fn.Params {
		if !Equal(p.Type, args[i].Type) {
			return nil, semErrf(diag.CodeSemTypeMismatch, e.Args[i].Span(),
				"argument %d of %s must be %s, got %s", i+1, name, p.Type, args[i].Type)
		}
	}
	return &Expr{Type: fn.Return, Kind: &Call{Callee: name, Args: args}}, nil
}

func (c *Checker) checkBuiltinCall(e *ast.CallExpr, b Builtin, args []*Expr) (Type, error) {
	name := e.Callee.Name
	if len(args) != 1 {
		return nil, semErrf(diag.CodeSemArityMismatch, e.Span(),
			"%s takes 1 argument, got %d", name, len(args))
	}
	arg := args[0]
	switch b {
	case BuiltinPrint:
		if !IsNumeric(arg.Type) && !IsBool(arg.Type) {
			return nil, semErrf(diag.CodeSemTypeMismatch, e.Args[0].Span(),
				"PRINT argument must be INT, FLOAT, or BOOL, got %s", arg.Type)
		}
		return TypeVoid, nil
	case BuiltinPrintStr:
		if !Equal(arg.Type, TypeString) {
			return nil, semErrf(diag.CodeSemTypeMismatch, e.Args[0].Span(),
				"PRINTSTR argument must be STRING, got %s", arg.Type)
		}
		return TypeVoid, nil
	case BuiltinRows, BuiltinCols:
		if _, ok := arg.Type.(*Matrix); !ok {
			return nil, semErrf(diag.CodeSemTypeMismatch, e.Args[0].Span(),
				"%s argument must be a matrix, got %s", name, arg.Type)
		}
		return TypeInt, nil
	default:
		return nil, semErrf(diag.CodeSemInvalidOperation, e.Span(),
			"unknown built-in %s", name)
	}
}
