package parser

import (
	"github.com/marax-lang/marax/internal/ast"
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

type (
	prefixParseFn func() (ast.Expr, error)
	infixParseFn  func(ast.Expr) (ast.Expr, error)
)

type Option func(*options)

type options struct {
	filename string
	loader   lexer.Loader
}

// WithFilename attributes all emitted spans to the provided unit name.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLoader configures how the lexer resolves #INCLUDE targets.
func WithLoader(load lexer.Loader) Option {
	return func(o *options) {
		o.loader = load
	}
}

const (
	precedenceLowest = iota
	precedenceAssign
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedenceCall
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   precedenceAssign,
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.LPAREN:   precedenceCall,
}

// Parser implements a Pratt-style recursive descent parser. There is
// no recovery: the first lexical or syntactic error aborts parsing and
// is returned from ParseProgram, reporting the offending token.
//
// Invariants:
//   - curTok always reflects the token currently under examination;
//     peekTok mirrors the next token pulled from the lexer. The pair
//     forms the parser's sole lookahead window and is only mutated via
//     nextToken. Layout tokens never enter the window: nextToken
//     discards WHITESPACE and NEWLINE explicitly.
//   - Every parse function consumes its construct fully, leaving
//     curTok on the first token after it.
type Parser struct {
	lx      *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token

	lexErr error // first lexer diagnostic, takes precedence over parse errors

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var lexOpts []lexer.Option
	if cfg.filename != "" {
		lexOpts = append(lexOpts, lexer.WithFilename(cfg.filename))
	}
	if cfg.loader != nil {
		lexOpts = append(lexOpts, lexer.WithLoader(cfg.loader))
	}

	p := &Parser{
		lx:        lexer.New(input, lexOpts...),
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT_LIT, p.parseIntLit)
	p.registerPrefix(lexer.FLOAT_LIT, p.parseFloatLit)
	p.registerPrefix(lexer.STRING_LIT, p.parseStringLit)
	p.registerPrefix(lexer.TRUE, p.parseBoolLit)
	p.registerPrefix(lexer.FALSE, p.parseBoolLit)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseMatrixLit)

	p.registerInfix(lexer.ASSIGN, p.parseAssignExpr)
	p.registerInfix(lexer.OR, p.parseInfixExpr)
	p.registerInfix(lexer.AND, p.parseInfixExpr)
	p.registerInfix(lexer.EQ, p.parseInfixExpr)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(lexer.LT, p.parseInfixExpr)
	p.registerInfix(lexer.LE, p.parseInfixExpr)
	p.registerInfix(lexer.GT, p.parseInfixExpr)
	p.registerInfix(lexer.GE, p.parseInfixExpr)
	p.registerInfix(lexer.PLUS, p.parseInfixExpr)
	p.registerInfix(lexer.MINUS, p.parseInfixExpr)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpr)
	p.registerInfix(lexer.SLASH, p.parseInfixExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// ParseProgram parses a full compilation unit and returns its AST, or
// the first error encountered.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := ast.NewProgram(p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, p.firstError(err)
		}
		program.Decls = append(program.Decls, decl)
		program.SetSpan(mergeSpan(program.Span(), decl.Span()))
	}

	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return program, nil
}

// nextToken advances the parser's token window, discarding layout
// tokens so the grammar stays layout-insensitive.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	for {
		p.peekTok = p.lx.NextToken()
		if p.peekTok.Type != lexer.WHITESPACE && p.peekTok.Type != lexer.NEWLINE {
			break
		}
	}
	if p.lexErr == nil && len(p.lx.Errors) > 0 {
		p.lexErr = p.lx.Errors[0].ToDiagnostic()
	}
}

// expect consumes the current token if it matches the provided type
// and errors otherwise.
func (p *Parser) expect(tt lexer.TokenType) error {
	if p.curTok.Type != tt {
		return p.unexpected("'" + string(tt) + "'")
	}
	p.nextToken()
	return nil
}

// unexpected builds the fatal diagnostic for the offending token.
func (p *Parser) unexpected(wanted string) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	if p.curTok.Type == lexer.EOF {
		return diag.Errorf(diag.StageParser, diag.CodeParseUnexpectedEOF, diagSpan(p.curTok.Span),
			"unexpected end of input, expected %s", wanted)
	}
	return diag.Errorf(diag.StageParser, diag.CodeParseUnexpectedToken, diagSpan(p.curTok.Span),
		"unexpected token %q, expected %s", p.curTok.Literal, wanted)
}

// firstError prefers a pending lexer diagnostic over the syntactic
// error that followed from it.
func (p *Parser) firstError(err error) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	return err
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixFns[tokenType] = fn
}

func (p *Parser) precedence(tt lexer.TokenType) int {
	if prec, ok := precedences[tt]; ok {
		return prec
	}
	return precedenceLowest
}

func diagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// mergeSpan assumes start.End <= end.End and returns a span covering
// both, preserving monotonic growth for AST nodes.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start
	if span.Filename == "" {
		span.Filename = end.Filename
	}
	if span.Line == 0 && end.Line != 0 {
		span.Line = end.Line
		span.Column = end.Column
		span.Start = end.Start
	}
	if end.End > span.End {
		span.End = end.End
	}
	return span
}
