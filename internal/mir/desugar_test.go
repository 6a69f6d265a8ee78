package mir

import (
	"testing"

	"github.com/marax-lang/marax/internal/types"
)

func TestDesugarFor_FullLoop(t *testing.T) {
	init := &types.VarDecl{Name: "I", Type: types.TypeInt}
	cond := &types.Expr{Type: types.TypeBool, Kind: &types.VarRef{Name: "C"}}
	update := &types.Expr{Type: types.TypeInt, Kind: &types.VarRef{Name: "I"}}
	body := &types.Block{Scope: 3, Stmts: []types.Stmt{&types.Return{}}}

	loop := &types.For{Scope: 2, Init: init, Cond: cond, Update: update, Body: body}

	got := desugarFor(loop)

	if got.Scope != 2 {
		t.Errorf("expected outer scope 2, got %d", got.Scope)
	}
	if len(got.Stmts) != 2 {
		t.Fatalf("expected [init while], got %d statements", len(got.Stmts))
	}
	if got.Stmts[0] != types.Stmt(init) {
		t.Error("init must lead the desugared block")
	}

	while, ok := got.Stmts[1].(*types.While)
	if !ok {
		t.Fatalf("expected While, got %T", got.Stmts[1])
	}
	if while.Cond != cond {
		t.Error("loop condition must carry over unchanged")
	}

	inner, ok := while.Body.(*types.Block)
	if !ok {
		t.Fatalf("expected Block body, got %T", while.Body)
	}
	if inner.Scope != 3 {
		t.Errorf("expected body scope 3, got %d", inner.Scope)
	}
	if len(inner.Stmts) != 2 {
		t.Fatalf("expected body plus update, got %d statements", len(inner.Stmts))
	}
	last, ok := inner.Stmts[1].(*types.ExprStmt)
	if !ok || last.X != update {
		t.Error("update must trail the loop body")
	}
}

func TestDesugarFor_OmittedClauses(t *testing.T) {
	cond := &types.Expr{Type: types.TypeBool, Kind: &types.BoolLit{Value: true}}
	loop := &types.For{
		Cond: cond,
		Body: &types.Block{Stmts: []types.Stmt{&types.Return{}}},
	}

	got := desugarFor(loop)

	if len(got.Stmts) != 1 {
		t.Fatalf("expected lone While, got %d statements", len(got.Stmts))
	}
	while := got.Stmts[0].(*types.While)
	inner := while.Body.(*types.Block)
	if len(inner.Stmts) != 1 {
		t.Errorf("expected body alone without update, got %d statements", len(inner.Stmts))
	}
}

func TestDesugarFor_DoesNotMutateInput(t *testing.T) {
	body := &types.Block{Stmts: []types.Stmt{&types.Return{}}}
	loop := &types.For{
		Init:   &types.VarDecl{Name: "I", Type: types.TypeInt},
		Cond:   &types.Expr{Type: types.TypeBool, Kind: &types.BoolLit{Value: true}},
		Update: &types.Expr{Type: types.TypeInt, Kind: &types.IntLit{Value: 1}},
		Body:   body,
	}

	desugarFor(loop)
	desugarFor(loop)

	if len(body.Stmts) != 1 {
		t.Errorf("input body grew to %d statements", len(body.Stmts))
	}
}
