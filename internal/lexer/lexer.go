package lexer

import (
	"strconv"

	"github.com/marax-lang/marax/internal/diag"
)

type LexErrorKind int

const (
	ErrUnterminatedString LexErrorKind = iota
	ErrMalformedDirective
	ErrUnresolvedInclude
	ErrUnbalancedCondition
)

type LexError struct {
	Kind    LexErrorKind
	Message string
	Span    Span
}

func (k LexErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrMalformedDirective:
		return diag.CodeLexerMalformedDirective
	case ErrUnresolvedInclude:
		return diag.CodeLexerUnresolvedInclude
	case ErrUnbalancedCondition:
		return diag.CodeLexerUnbalancedCondition
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

type Option func(*Lexer)

// WithFilename attributes all emitted spans to the provided unit name.
func WithFilename(name string) Option {
	return func(l *Lexer) {
		l.name = name
	}
}

// WithLoader configures how #INCLUDE targets are resolved.
func WithLoader(load Loader) Option {
	return func(l *Lexer) {
		l.loader = load
	}
}

// Lexer turns one source unit into a token stream, resolving
// preprocessor directives along the way. Whitespace and line-ends are
// emitted as distinct tokens; consumers that do not care about layout
// must skip them explicitly.
type Lexer struct {
	name   string
	input  []rune
	pos    int  // index of the current rune
	ch     rune // current rune (0 = EOF)
	line   int  // current line number (1-based)
	column int  // current column number (1-based)

	loader    Loader
	macros    map[string]string // name -> body ("" for definedness-only flags)
	condDepth int               // open #IFDEF/#IFNDEF regions
	frames    []frame           // suspended sources (includes, macro expansions)
	including map[string]bool   // include targets on the active stack
	expanding map[string]bool   // macros currently being expanded

	Errors []LexError
}

// frame holds a suspended source while an include or macro expansion
// is being tokenized. The release fields name the inner source whose
// bookkeeping is cleared once it runs out.
type frame struct {
	name   string
	input  []rune
	pos    int
	ch     rune
	line   int
	column int

	releaseInclude string
	releaseMacro   string
}

// New creates a lexer for the given input. The macro table starts
// empty; it lives exactly as long as this lexer, so separate
// compilations never share definitions.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:     []rune(input),
		pos:       -1, // start before first rune
		line:      1,
		column:    0, // becomes 1 after the first read()
		macros:    make(map[string]string),
		including: make(map[string]bool),
		expanding: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.loader == nil {
		l.loader = FileLoader("")
	}
	l.read() // move to first character
	return l
}

func (l *Lexer) addError(kind LexErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// read advances the lexer to the next character.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1

	if prevPos >= 0 && prevPos < len(l.input) && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

// peek returns the next character without advancing.
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) spanFrom(startLine, startColumn, startPos int) Span {
	return Span{
		Filename: l.name,
		Line:     startLine,
		Column:   startColumn,
		Start:    startPos,
		End:      l.pos,
	}
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos int, literal string) Token {
	return Token{
		Type:    tokType,
		Literal: literal,
		Span:    l.spanFrom(startLine, startColumn, startPos),
	}
}

// single emits a one-character token and advances past it.
func (l *Lexer) single(tokType TokenType) Token {
	line, col, pos := l.line, l.column, l.pos
	lit := string(l.ch)
	l.read()
	return l.makeToken(tokType, line, col, pos, lit)
}

// pair emits a two-character token and advances past both characters.
func (l *Lexer) pair(tokType TokenType) Token {
	line, col, pos := l.line, l.column, l.pos
	lit := string(l.ch) + string(l.peek())
	l.read()
	l.read()
	return l.makeToken(tokType, line, col, pos, lit)
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	for {
		switch {
		case l.ch == 0:
			if l.popFrame() {
				continue
			}
			if l.condDepth > 0 {
				l.addError(
					ErrUnbalancedCondition,
					"missing #END for conditional region",
					l.spanFrom(l.line, l.column, l.pos),
				)
				l.condDepth = 0
			}
			return l.makeToken(EOF, l.line, l.column, l.pos, "")

		case l.ch == '\n' || l.ch == '\r':
			line, col, pos := l.line, l.column, l.pos
			raw := string(l.ch)
			l.read()
			if raw == "\r" && l.ch == '\n' {
				raw = "\r\n"
				l.read()
			}
			return l.makeToken(NEWLINE, line, col, pos, raw)

		case l.ch == ' ' || l.ch == '\t':
			line, col, pos := l.line, l.column, l.pos
			for l.ch == ' ' || l.ch == '\t' {
				l.read()
			}
			return l.makeToken(WHITESPACE, line, col, pos, string(l.input[pos:l.pos]))

		case l.ch == '#':
			l.handleDirective()
			continue

		case l.ch == '"':
			line, col, pos := l.line, l.column, l.pos
			value, terminated := l.readString()
			if !terminated {
				return l.makeToken(ILLEGAL, line, col, pos, value)
			}
			return l.makeToken(STRING_LIT, line, col, pos, value)

		case isIdentStart(l.ch):
			line, col, pos := l.line, l.column, l.pos
			literal := l.readIdentifier()
			if l.expandMacro(literal) {
				continue
			}
			return l.makeToken(LookupIdent(literal), line, col, pos, literal)

		case isDigit(l.ch):
			line, col, pos := l.line, l.column, l.pos
			literal, tokType := l.readNumber()
			return l.makeToken(tokType, line, col, pos, literal)

		default:
			return l.symbolToken()
		}
	}
}

func (l *Lexer) symbolToken() Token {
	switch l.ch {
	case '=':
		if l.peek() == '=' {
			return l.pair(EQ)
		}
		return l.single(ASSIGN)
	case '!':
		if l.peek() == '=' {
			return l.pair(NOT_EQ)
		}
		return l.single(BANG)
	case '<':
		if l.peek() == '=' {
			return l.pair(LE)
		}
		return l.single(LT)
	case '>':
		if l.peek() == '=' {
			return l.pair(GE)
		}
		return l.single(GT)
	case '&':
		if l.peek() == '&' {
			return l.pair(AND)
		}
	case '|':
		if l.peek() == '|' {
			return l.pair(OR)
		}
	case '+':
		return l.single(PLUS)
	case '-':
		return l.single(MINUS)
	case '*':
		return l.single(ASTERISK)
	case '/':
		return l.single(SLASH)
	case ',':
		return l.single(COMMA)
	case ';':
		return l.single(SEMICOLON)
	case '(':
		return l.single(LPAREN)
	case ')':
		return l.single(RPAREN)
	case '{':
		return l.single(LBRACE)
	case '}':
		return l.single(RBRACE)
	case '[':
		return l.single(LBRACKET)
	case ']':
		return l.single(RBRACKET)
	}

	// Anything unmatched, lowercase letters included, becomes a
	// single-character fallback token for the parser to reject.
	return l.single(ILLEGAL)
}

// readIdentifier reads an identifier or keyword. Identifier characters
// are uppercase letters, digits, and underscore; lowercase letters are
// not part of the identifier alphabet.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads a maximal digit run, extended to a float literal
// when a decimal point followed by a digit appears. The text is
// decoded by the parser with native signed 64-bit parsing, so
// out-of-range literals surface as parse errors instead of wrapping.
func (l *Lexer) readNumber() (string, TokenType) {
	start := l.pos
	for isDigit(l.ch) {
		l.read()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		l.read() // consume '.'
		for isDigit(l.ch) {
			l.read()
		}
		return string(l.input[start:l.pos]), FLOAT_LIT
	}
	return string(l.input[start:l.pos]), INT_LIT
}

// readString reads a string literal. There is no escape processing and
// no way to embed a double quote; the literal runs to the next quote
// on the same line.
func (l *Lexer) readString() (value string, terminated bool) {
	startLine, startColumn, startPos := l.line, l.column, l.pos
	l.read() // skip opening quote

	start := l.pos
	for {
		switch l.ch {
		case '"':
			value = string(l.input[start:l.pos])
			l.read() // consume closing quote
			return value, true
		case 0:
			l.addError(
				ErrUnterminatedString,
				"unterminated string literal",
				l.spanFrom(startLine, startColumn, startPos),
			)
			return string(l.input[start:l.pos]), false
		case '\n', '\r':
			l.addError(
				ErrUnterminatedString,
				"newline in string literal",
				l.spanFrom(startLine, startColumn, startPos),
			)
			return string(l.input[start:l.pos]), false
		}
		l.read()
	}
}

func isIdentStart(ch rune) bool {
	return (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func quoteRune(ch rune) string {
	return strconv.Quote(string(ch))
}
