package mir

import (
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/types"
)

func (l *Lowerer) lowerStmt(stmt types.Stmt) error {
	// A block holds exactly one terminator. Statements following a
	// return are unreachable but still lower; they go to a fresh
	// block of their own.
	if l.currentBlock.Terminator != nil {
		dead := l.newBlock("dead")
		l.addBlock(dead)
		l.currentBlock = dead
	}

	switch s := stmt.(type) {
	case *types.Block:
		return l.lowerBlock(s)
	case *types.VarDecl:
		return l.lowerVarDecl(s)
	case *types.ExprStmt:
		_, err := l.lowerExpr(s.X)
		return err
	case *types.Return:
		return l.lowerReturn(s)
	case *types.If:
		return l.lowerIf(s)
	case *types.While:
		return l.lowerWhile(s)
	case *types.For:
		// For has no instruction form of its own.
		return l.lowerBlock(desugarFor(s))
	default:
		return internalErrf(diag.CodeInternalUnknownType,
			"unsupported statement %T", stmt)
	}
}

func (l *Lowerer) lowerBlock(block *types.Block) error {
	l.pushScope()
	defer l.popScope()
	for _, stmt := range block.Stmts {
		if err := l.lowerStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerVarDecl(stmt *types.VarDecl) error {
	if types.IsAuto(stmt.Type) {
		return internalErrf(diag.CodeInternalAutoSurvived,
			"declaration of %s still typed AUTO after analysis", stmt.Name)
	}

	var rhs Operand
	if stmt.Init != nil {
		var err error
		rhs, err = l.lowerValue(stmt.Init)
		if err != nil {
			return err
		}
	} else {
		rhs = zeroValue(stmt.Type)
	}

	local := l.newLocal(stmt.Name, stmt.Type)
	l.currentFunc.Locals = append(l.currentFunc.Locals, local)
	l.declare(stmt.Name, local)

	l.emit(&Assign{Local: local, RHS: rhs})
	return nil
}

func (l *Lowerer) lowerReturn(stmt *types.Return) error {
	var value Operand
	if stmt.Value != nil {
		var err error
		value, err = l.lowerValue(stmt.Value)
		if err != nil {
			return err
		}
	}
	l.currentBlock.Terminator = &Return{Value: value}
	return nil
}

func (l *Lowerer) lowerIf(stmt *types.If) error {
	cond, err := l.lowerValue(stmt.Cond)
	if err != nil {
		return err
	}

	thenBlock := l.newBlock("if.then")
	mergeBlock := l.newBlock("if.merge")
	elseBlock := mergeBlock
	if stmt.Else != nil {
		elseBlock = l.newBlock("if.else")
	}

	l.currentBlock.Terminator = &Branch{
		Condition: cond,
		True:      thenBlock,
		False:     elseBlock,
	}

	l.addBlock(thenBlock)
	l.currentBlock = thenBlock
	if err := l.lowerStmt(stmt.Then); err != nil {
		return err
	}
	// Fall through to merge only when the branch did not already
	// terminate (say, with a return).
	if l.currentBlock.Terminator == nil {
		l.currentBlock.Terminator = &Goto{Target: mergeBlock}
	}

	if stmt.Else != nil {
		l.addBlock(elseBlock)
		l.currentBlock = elseBlock
		if err := l.lowerStmt(stmt.Else); err != nil {
			return err
		}
		if l.currentBlock.Terminator == nil {
			l.currentBlock.Terminator = &Goto{Target: mergeBlock}
		}
	}

	l.addBlock(mergeBlock)
	l.currentBlock = mergeBlock
	return nil
}

// lowerWhile emits test-then-body form: header evaluates the
// condition, the body loops back to the header, merge continues after
// the loop.
func (l *Lowerer) lowerWhile(stmt *types.While) error {
	header := l.newBlock("while.header")
	body := l.newBlock("while.body")
	merge := l.newBlock("while.merge")

	l.currentBlock.Terminator = &Goto{Target: header}

	l.addBlock(header)
	l.currentBlock = header
	cond, err := l.lowerValue(stmt.Cond)
	if err != nil {
		return err
	}
	l.currentBlock.Terminator = &Branch{
		Condition: cond,
		True:      body,
		False:     merge,
	}

	l.addBlock(body)
	l.currentBlock = body
	if err := l.lowerStmt(stmt.Body); err != nil {
		return err
	}
	if l.currentBlock.Terminator == nil {
		l.currentBlock.Terminator = &Goto{Target: header}
	}

	l.addBlock(merge)
	l.currentBlock = merge
	return nil
}
