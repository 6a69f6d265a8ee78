package types

import (
	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/diag"
)

// checkBlock opens a fresh scope under parent and checks the block's
// statements in order.
func (c *Checker) checkBlock(b *ast.BlockStmt, parent ScopeID) (*Block, error) {
	scope := c.scopes.NewScope(parent)
	block := &Block{Scope: scope}
	for _, s := range b.Stmts {
		stmt, err := c.checkStmt(s, scope)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, nil
}

func (c *Checker) checkStmt(s ast.Stmt, scope ScopeID) (Stmt, error) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		return c.checkBlock(st, scope)
	case *ast.VarDeclStmt:
		return c.checkVarDecl(st, scope)
	case *ast.ExprStmt:
		x, err := c.checkExpr(st.X, scope)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	case *ast.ReturnStmt:
		return c.checkReturn(st, scope)
	case *ast.IfStmt:
		return c.checkIf(st, scope)
	case *ast.WhileStmt:
		return c.checkWhile(st, scope)
	case *ast.ForStmt:
		return c.checkFor(st, scope)
	default:
		return nil, semErrf(diag.CodeSemInvalidOperation, s.Span(),
			"unsupported statement")
	}
}

func (c *Checker) checkVarDecl(d *ast.VarDeclStmt, scope ScopeID) (Stmt, error) {
	declared, err := c.resolveType(d.Type)
	if err != nil {
		return nil, err
	}
	if IsVoid(declared) {
		return nil, semErrf(diag.CodeSemInvalidOperation, d.Span(),
			"cannot declare variable %s of type VOID", d.Name.Name)
	}

	var init *Expr
	if d.Init != nil {
		init, err = c.checkValueExpr(d.Init, scope)
		if err != nil {
			return nil, err
		}
	}

	if IsAuto(declared) {
		if init == nil {
			return nil, semErrf(diag.CodeSemAutoNoInitializer, d.Span(),
				"AUTO variable %s requires an initializer", d.Name.Name)
		}
		declared = init.Type
	} else if init != nil && !Equal(declared, init.Type) {
		return nil, semErrf(diag.CodeSemTypeMismatch, d.Init.Span(),
			"cannot initialize %s of type %s with value of type %s",
			d.Name.Name, declared, init.Type)
	}

	if !c.scopes.Insert(scope, d.Name.Name, declared) {
		return nil, semErrf(diag.CodeSemDuplicateDeclaration, d.Name.Span(),
			"duplicate declaration of %s", d.Name.Name)
	}
	return &VarDecl{Name: d.Name.Name, Type: declared, Init: init}, nil
}

func (c *Checker) checkReturn(r *ast.ReturnStmt, scope ScopeID) (Stmt, error) {
	want := c.current.Return
	if r.Value == nil {
		if !IsVoid(want) {
			return nil, semErrf(diag.CodeSemReturnMismatch, r.Span(),
				"function %s must return %s", c.current.Name, want)
		}
		return &Return{}, nil
	}
	value, err := c.checkValueExpr(r.Value, scope)
	if err != nil {
		return nil, err
	}
	if IsVoid(want) {
		return nil, semErrf(diag.CodeSemReturnMismatch, r.Span(),
			"function %s returns VOID but return has a value", c.current.Name)
	}
	if !Equal(want, value.Type) {
		return nil, semErrf(diag.CodeSemReturnMismatch, r.Value.Span(),
			"function %s returns %s, got %s", c.current.Name, want, value.Type)
	}
	return &Return{Value: value}, nil
}

func (c *Checker) checkCond(e ast.Expr, scope ScopeID) (*Expr, error) {
	cond, err := c.checkValueExpr(e, scope)
	if err != nil {
		return nil, err
	}
	if !IsBool(cond.Type) {
		return nil, semErrf(diag.CodeSemTypeMismatch, e.Span(),
			"condition must be BOOL, got %s", cond.Type)
	}
	return cond, nil
}

func (c *Checker) checkIf(s *ast.IfStmt, scope ScopeID) (Stmt, error) {
	cond, err := c.checkCond(s.Cond, scope)
	if err != nil {
		return nil, err
	}
	then, err := c.checkStmt(s.Then, scope)
	if err != nil {
		return nil, err
	}
	var els Stmt
	if s.Else != nil {
		els, err = c.checkStmt(s.Else, scope)
		if err != nil {
			return nil, err
		}
	}
	return &If{Cond: cond, Then: then, Else: els}, nil
}

func (c *Checker) checkWhile(s *ast.WhileStmt, scope ScopeID) (Stmt, error) {
	cond, err := c.checkCond(s.Cond, scope)
	if err != nil {
		return nil, err
	}
	body, err := c.checkStmt(s.Body, scope)
	if err != nil {
		return nil, err
	}
	return &While{Cond: cond, Body: body}, nil
}

// checkFor gives the loop its own scope holding the init declaration;
// cond and update resolve against it. The body is always a block so
// the loop desugars uniformly.
func (c *Checker) checkFor(s *ast.ForStmt, scope ScopeID) (Stmt, error) {
	loopScope := c.scopes.NewScope(scope)

	var init Stmt
	var err error
	if s.Init != nil {
		init, err = c.checkStmt(s.Init, loopScope)
		if err != nil {
			return nil, err
		}
	}

	cond, err := c.checkCond(s.Cond, loopScope)
	if err != nil {
		return nil, err
	}
	update, err := c.checkExpr(s.Update, loopScope)
	if err != nil {
		return nil, err
	}

	var body *Block
	if b, ok := s.Body.(*ast.BlockStmt); ok {
		body, err = c.checkBlock(b, loopScope)
	} else {
		// Wrap a single-statement body so desugaring always sees a
		// block.
		var stmt Stmt
		stmt, err = c.checkStmt(s.Body, loopScope)
		if err == nil {
			body = &Block{Scope: c.scopes.NewScope(loopScope), Stmts: []Stmt{stmt}}
		}
	}
	if err != nil {
		return nil, err
	}

	return &For{Scope: loopScope, Init: init, Cond: cond, Update: update, Body: body}, nil
}
