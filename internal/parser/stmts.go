package parser

import (
	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/lexer"
)

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.curTok.Type == lexer.LBRACE:
		return p.parseBlockStmt()
	case p.curTok.Type == lexer.RETURN:
		return p.parseReturnStmt()
	case p.curTok.Type == lexer.IF:
		return p.parseIfStmt()
	case p.curTok.Type == lexer.WHILE:
		return p.parseWhileStmt()
	case p.curTok.Type == lexer.FOR:
		return p.parseForStmt()
	case isTypeStart(p.curTok.Type):
		stmt, err := p.parseVarDeclStmt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return stmt, nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlockStmt() (*ast.BlockStmt, error) {
	start := p.curTok.Span
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	block := ast.NewBlockStmt(start)
	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			return nil, p.unexpected("'}' to close block")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	block.SetSpan(mergeSpan(start, p.curTok.Span))
	p.nextToken() // consume '}'
	return block, nil
}

// parseVarDeclStmt parses `type NAME [= expr]` without the trailing
// semicolon, so for-loop initializers can share it.
func (p *Parser) parseVarDeclStmt() (ast.Stmt, error) {
	start := p.curTok.Span

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.parseDeclName()
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	end := name.Span()
	if p.curTok.Type == lexer.ASSIGN {
		p.nextToken()
		init, err = p.parseExpr(precedenceLowest)
		if err != nil {
			return nil, err
		}
		end = init.Span()
	}

	return ast.NewVarDeclStmt(typ, name, init, mergeSpan(start, end)), nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // consume RETURN

	if p.curTok.Type == lexer.SEMICOLON {
		end := p.curTok.Span
		p.nextToken()
		return ast.NewReturnStmt(nil, mergeSpan(start, end)), nil
	}

	value, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	end := p.curTok.Span
	if err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(value, mergeSpan(start, end)), nil
}

func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // consume IF

	cond, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	var els ast.Stmt
	end := then.Span()
	if p.curTok.Type == lexer.ELSE {
		p.nextToken()
		els, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
		end = els.Span()
	}

	return ast.NewIfStmt(cond, then, els, mergeSpan(start, end)), nil
}

func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // consume WHILE

	cond, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return ast.NewWhileStmt(cond, body, mergeSpan(start, body.Span())), nil
}

func (p *Parser) parseForStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // consume FOR

	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	if isTypeStart(p.curTok.Type) {
		init, err = p.parseVarDeclStmt()
	} else {
		init, err = p.parseForInitExpr()
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	update, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return ast.NewForStmt(init, cond, update, body, mergeSpan(start, body.Span())), nil
}

func (p *Parser) parseForInitExpr() (ast.Stmt, error) {
	x, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	return ast.NewExprStmt(x, x.Span()), nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	x, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	end := p.curTok.Span
	if err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return ast.NewExprStmt(x, mergeSpan(x.Span(), end)), nil
}

// parseParenExpr parses a parenthesized condition.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	x, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return x, nil
}
