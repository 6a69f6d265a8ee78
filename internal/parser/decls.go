package parser

import (
	"strconv"

	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

// parseDecl parses one top-level declaration. Both forms start with a
// type and a name; a following '(' makes it a function, a ';' a
// global.
func (p *Parser) parseDecl() (ast.Decl, error) {
	start := p.curTok.Span

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	name, err := p.parseDeclName()
	if err != nil {
		return nil, err
	}

	switch p.curTok.Type {
	case lexer.LPAREN:
		return p.parseFnDecl(typ, name, start)
	case lexer.SEMICOLON:
		end := p.curTok.Span
		p.nextToken()
		return ast.NewGlobalDecl(typ, name, mergeSpan(start, end)), nil
	default:
		return nil, p.unexpected("'(' or ';' after declaration name")
	}
}

func (p *Parser) parseDeclName() (*ast.Ident, error) {
	if p.curTok.Type != lexer.IDENT {
		return nil, p.unexpected("identifier")
	}
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	p.nextToken()
	return name, nil
}

func (p *Parser) parseFnDecl(ret ast.TypeExpr, name *ast.Ident, start lexer.Span) (ast.Decl, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Param
	for p.curTok.Type != lexer.RPAREN {
		if len(params) > 0 {
			if err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}

	return ast.NewFnDecl(name, params, ret, body, mergeSpan(start, body.Span())), nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	start := p.curTok.Span
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.parseDeclName()
	if err != nil {
		return nil, err
	}
	return ast.NewParam(typ, name, mergeSpan(start, name.Span())), nil
}

// isTypeStart reports whether tt can begin a type annotation.
func isTypeStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.INT, lexer.FLOAT, lexer.BOOL, lexer.STRING, lexer.VOID, lexer.AUTO, lexer.MAT:
		return true
	default:
		return false
	}
}

// parseType parses a source-level type annotation, raw AUTO included.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	switch p.curTok.Type {
	case lexer.INT, lexer.FLOAT, lexer.BOOL, lexer.STRING, lexer.VOID, lexer.AUTO:
		t := ast.NewPrimType(p.curTok.Type, p.curTok.Span)
		p.nextToken()
		return t, nil
	case lexer.MAT:
		return p.parseMatrixType()
	default:
		return nil, p.unexpected("type")
	}
}

// parseMatrixType parses MAT[elem, rows, cols].
func (p *Parser) parseMatrixType() (ast.TypeExpr, error) {
	start := p.curTok.Span
	p.nextToken() // consume MAT

	if err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}
	rows, err := p.parseDimension()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}
	cols, err := p.parseDimension()
	if err != nil {
		return nil, err
	}
	end := p.curTok.Span
	if err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}

	return ast.NewMatrixType(elem, rows, cols, mergeSpan(start, end)), nil
}

// parseDimension parses one compile-time fixed matrix dimension.
func (p *Parser) parseDimension() (int, error) {
	if p.curTok.Type != lexer.INT_LIT {
		return 0, p.unexpected("matrix dimension")
	}
	dim, err := strconv.Atoi(p.curTok.Literal)
	if err != nil {
		return 0, diag.Errorf(diag.StageParser, diag.CodeParseBadLiteral, diagSpan(p.curTok.Span),
			"matrix dimension %q out of range", p.curTok.Literal)
	}
	p.nextToken()
	return dim, nil
}
