package mir

import (
	"github.com/marax-lang/marax/internal/types"
)

// desugarFor rewrites a for loop into its while form:
//
//	Block[init; While(cond, Block[body...; update])]
//
// The rewrite is pure: it builds fresh nodes and leaves the input
// untouched. The update expression joins the body block, so it runs
// after the body on every iteration.
func desugarFor(f *types.For) *types.Block {
	bodyStmts := make([]types.Stmt, 0, len(f.Body.Stmts)+1)
	bodyStmts = append(bodyStmts, f.Body.Stmts...)
	if f.Update != nil {
		bodyStmts = append(bodyStmts, &types.ExprStmt{X: f.Update})
	}

	loop := &types.While{
		Cond: f.Cond,
		Body: &types.Block{Scope: f.Body.Scope, Stmts: bodyStmts},
	}

	stmts := make([]types.Stmt, 0, 2)
	if f.Init != nil {
		stmts = append(stmts, f.Init)
	}
	stmts = append(stmts, loop)

	return &types.Block{Scope: f.Scope, Stmts: stmts}
}
