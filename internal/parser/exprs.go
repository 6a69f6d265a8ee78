package parser

import (
	"strconv"

	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

// parseExpr is the Pratt core: parse a prefix form, then fold infix
// operators while their precedence binds tighter than prec.
func (p *Parser) parseExpr(prec int) (ast.Expr, error) {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		return nil, p.unexpected("expression")
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for prec < p.precedence(p.curTok.Type) {
		infix := p.infixFns[p.curTok.Type]
		if infix == nil {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expr, error) {
	ident := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	p.nextToken()
	return ident, nil
}

// parseIntLit decodes the literal with native signed 64-bit parsing;
// out-of-range runs are reported, never silently wrapped.
func (p *Parser) parseIntLit() (ast.Expr, error) {
	value, err := strconv.ParseInt(p.curTok.Literal, 10, 64)
	if err != nil {
		return nil, diag.Errorf(diag.StageParser, diag.CodeParseBadLiteral, diagSpan(p.curTok.Span),
			"integer literal %q out of range", p.curTok.Literal)
	}
	lit := ast.NewIntLit(value, p.curTok.Literal, p.curTok.Span)
	p.nextToken()
	return lit, nil
}

func (p *Parser) parseFloatLit() (ast.Expr, error) {
	value, err := strconv.ParseFloat(p.curTok.Literal, 64)
	if err != nil {
		return nil, diag.Errorf(diag.StageParser, diag.CodeParseBadLiteral, diagSpan(p.curTok.Span),
			"float literal %q out of range", p.curTok.Literal)
	}
	lit := ast.NewFloatLit(value, p.curTok.Literal, p.curTok.Span)
	p.nextToken()
	return lit, nil
}

func (p *Parser) parseStringLit() (ast.Expr, error) {
	lit := ast.NewStringLit(p.curTok.Literal, p.curTok.Span)
	p.nextToken()
	return lit, nil
}

func (p *Parser) parseBoolLit() (ast.Expr, error) {
	lit := ast.NewBoolLit(p.curTok.Type == lexer.TRUE, p.curTok.Span)
	p.nextToken()
	return lit, nil
}

func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	op := p.curTok.Type
	start := p.curTok.Span
	p.nextToken()

	x, err := p.parseExpr(precedencePrefix)
	if err != nil {
		return nil, err
	}
	return ast.NewPrefixExpr(op, x, mergeSpan(start, x.Span())), nil
}

func (p *Parser) parseGroupedExpr() (ast.Expr, error) {
	return p.parseParenExpr()
}

// parseMatrixLit parses [[e, e], [e, e]]. Shape and element types are
// validated by the semantic analyzer, not here.
func (p *Parser) parseMatrixLit() (ast.Expr, error) {
	start := p.curTok.Span
	if err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}

	var rows [][]ast.Expr
	for p.curTok.Type != lexer.RBRACKET {
		if len(rows) > 0 {
			if err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		row, err := p.parseMatrixRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	end := p.curTok.Span
	p.nextToken() // consume ']'

	return ast.NewMatrixLit(rows, mergeSpan(start, end)), nil
}

func (p *Parser) parseMatrixRow() ([]ast.Expr, error) {
	if err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var row []ast.Expr
	for p.curTok.Type != lexer.RBRACKET {
		if len(row) > 0 {
			if err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseExpr(precedenceLowest)
		if err != nil {
			return nil, err
		}
		row = append(row, elem)
	}
	p.nextToken() // consume ']'
	return row, nil
}

func (p *Parser) parseInfixExpr(left ast.Expr) (ast.Expr, error) {
	op := p.curTok.Type
	prec := p.precedence(op)
	p.nextToken()

	right, err := p.parseExpr(prec)
	if err != nil {
		return nil, err
	}
	return ast.NewInfixExpr(op, left, right, mergeSpan(left.Span(), right.Span())), nil
}

// parseAssignExpr parses right-associatively: A = B = C assigns C to B
// first. Only identifiers are assignable.
func (p *Parser) parseAssignExpr(left ast.Expr) (ast.Expr, error) {
	target, ok := left.(*ast.Ident)
	if !ok {
		return nil, diag.Errorf(diag.StageParser, diag.CodeParseUnexpectedToken, diagSpan(p.curTok.Span),
			"invalid assignment target")
	}
	p.nextToken() // consume '='

	value, err := p.parseExpr(precedenceAssign - 1)
	if err != nil {
		return nil, err
	}
	return ast.NewAssignExpr(target, value, mergeSpan(target.Span(), value.Span())), nil
}

func (p *Parser) parseCallExpr(left ast.Expr) (ast.Expr, error) {
	callee, ok := left.(*ast.Ident)
	if !ok {
		return nil, diag.Errorf(diag.StageParser, diag.CodeParseUnexpectedToken, diagSpan(p.curTok.Span),
			"call target must be a function name")
	}
	p.nextToken() // consume '('

	var args []ast.Expr
	for p.curTok.Type != lexer.RPAREN {
		if len(args) > 0 {
			if err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr(precedenceLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	end := p.curTok.Span
	p.nextToken() // consume ')'

	return ast.NewCallExpr(callee, args, mergeSpan(callee.Span(), end)), nil
}
