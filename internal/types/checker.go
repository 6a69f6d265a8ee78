package types

import (
	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

// builtinNames maps built-in pseudo-functions to their variant. They
// live outside the user function namespace and are resolved specially
// at call sites.
var builtinNames = map[string]Builtin{
	"PRINT":    BuiltinPrint,
	"PRINTSTR": BuiltinPrintStr,
	"ROWS":     BuiltinRows,
	"COLS":     BuiltinCols,
}

// Checker performs semantic analysis on the AST, producing a fully
// typed tree. The first error aborts analysis; there is no recovery
// and no multi-error collection.
type Checker struct {
	scopes      *Arena
	globalScope ScopeID

	// Function names live in a namespace distinct from variables.
	funcs map[string]*Function

	// current is the function whose body is being checked, for
	// return-type validation.
	current *Function
}

// NewChecker creates a checker with a fresh scope arena.
func NewChecker() *Checker {
	c := &Checker{
		scopes: NewArena(),
		funcs:  make(map[string]*Function),
	}
	c.globalScope = c.scopes.NewScope(NoScope)
	return c
}

// Check validates prog and returns the typed tree or the first
// semantic error.
func (c *Checker) Check(prog *ast.Program) (*Program, error) {
	typed := &Program{Scopes: c.scopes}

	// Pass 1: collect globals and function signatures so forward
	// references resolve.
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.GlobalDecl:
			g, err := c.collectGlobal(d)
			if err != nil {
				return nil, err
			}
			typed.Globals = append(typed.Globals, g)
		case *ast.FnDecl:
			fn, err := c.collectFunction(d)
			if err != nil {
				return nil, err
			}
			typed.Functions = append(typed.Functions, fn)
		}
	}

	// Pass 2: check bodies in source order.
	for _, decl := range prog.Decls {
		d, ok := decl.(*ast.FnDecl)
		if !ok {
			continue
		}
		if err := c.checkFunctionBody(d); err != nil {
			return nil, err
		}
	}

	return typed, nil
}

func (c *Checker) collectGlobal(d *ast.GlobalDecl) (Global, error) {
	t, err := c.resolveType(d.Type)
	if err != nil {
		return Global{}, err
	}
	if IsAuto(t) {
		// Globals take no initializer, so there is nothing to infer
		// from.
		return Global{}, semErrf(diag.CodeSemAutoNoInitializer, d.Span(),
			"global %s declared AUTO without an initializer", d.Name.Name)
	}
	if IsVoid(t) {
		return Global{}, semErrf(diag.CodeSemInvalidOperation, d.Span(),
			"cannot declare variable %s of type VOID", d.Name.Name)
	}
	if !c.scopes.Insert(c.globalScope, d.Name.Name, t) {
		return Global{}, semErrf(diag.CodeSemDuplicateDeclaration, d.Name.Span(),
			"duplicate global declaration of %s", d.Name.Name)
	}
	return Global{Name: d.Name.Name, Type: t}, nil
}

func (c *Checker) collectFunction(d *ast.FnDecl) (*Function, error) {
	name := d.Name.Name
	if _, isBuiltin := builtinNames[name]; isBuiltin {
		return nil, semErrf(diag.CodeSemDuplicateDeclaration, d.Name.Span(),
			"%s is a built-in and cannot be redefined", name)
	}
	if _, exists := c.funcs[name]; exists {
		return nil, semErrf(diag.CodeSemDuplicateDeclaration, d.Name.Span(),
			"duplicate function declaration of %s", name)
	}

	ret, err := c.resolveType(d.ReturnType)
	if err != nil {
		return nil, err
	}
	if IsAuto(ret) {
		return nil, semErrf(diag.CodeSemInvalidOperation, d.Span(),
			"function %s cannot return AUTO", name)
	}

	fn := &Function{Name: name, Return: ret}
	for _, p := range d.Params {
		pt, err := c.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		if IsAuto(pt) || IsVoid(pt) {
			return nil, semErrf(diag.CodeSemInvalidOperation, p.Span(),
				"parameter %s of %s has invalid type %s", p.Name.Name, name, pt)
		}
		fn.Params = append(fn.Params, Param{Name: p.Name.Name, Type: pt})
	}

	c.funcs[name] = fn
	return fn, nil
}

func (c *Checker) checkFunctionBody(d *ast.FnDecl) error {
	fn := c.funcs[d.Name.Name]

	fnScope := c.scopes.NewScope(c.globalScope)
	for i, p := range fn.Params {
		if !c.scopes.Insert(fnScope, p.Name, p.Type) {
			return semErrf(diag.CodeSemDuplicateDeclaration, d.Params[i].Span(),
				"duplicate parameter %s in function %s", p.Name, fn.Name)
		}
	}
	fn.Scope = fnScope

	c.current = fn
	defer func() { c.current = nil }()

	body, err := c.checkBlock(d.Body, fnScope)
	if err != nil {
		return err
	}
	fn.Body = body
	return nil
}

// resolveType maps a source-level annotation to a semantic type. AUTO
// passes through; its resolution happens at the declaration that
// carries it.
func (c *Checker) resolveType(typ ast.TypeExpr) (Type, error) {
	switch t := typ.(type) {
	case *ast.PrimType:
		switch t.Kind {
		case lexer.INT:
			return TypeInt, nil
		case lexer.FLOAT:
			return TypeFloat, nil
		case lexer.BOOL:
			return TypeBool, nil
		case lexer.STRING:
			return TypeString, nil
		case lexer.VOID:
			return TypeVoid, nil
		case lexer.AUTO:
			return TypeAuto, nil
		}
		return nil, semErrf(diag.CodeSemInvalidOperation, t.Span(),
			"unknown type keyword %s", t.Kind)
	case *ast.MatrixType:
		elem, err := c.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}
		if !IsNumeric(elem) {
			return nil, semErrf(diag.CodeSemInvalidOperation, t.Span(),
				"matrix element type must be INT or FLOAT, got %s", elem)
		}
		return &Matrix{Elem: elem, Rows: t.Rows, Cols: t.Cols}, nil
	default:
		return nil, semErrf(diag.CodeSemInvalidOperation, typ.Span(),
			"unsupported type annotation")
	}
}

func semErrf(code diag.Code, span lexer.Span, format string, args ...any) error {
	return diag.Errorf(diag.StageSemantic, code, diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}, format, args...)
}
