package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // source unit the token came from
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the unit
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // decoded value (for strings, without quotes)
	Span    Span
}

// Token type constants
const (
	// ILLEGAL is the single-character fallback for any rune the lexer
	// does not recognize. Validity checking is deferred to the parser.
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT" // X, ROW_COUNT, M1, ...
	INT_LIT    TokenType = "INT_LIT"
	FLOAT_LIT  TokenType = "FLOAT_LIT"
	STRING_LIT TokenType = "STRING_LIT"

	// Layout tokens. The lexer always emits them; the parser discards
	// them explicitly.
	WHITESPACE TokenType = "WHITESPACE"
	NEWLINE    TokenType = "NEWLINE"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	BANG     TokenType = "!"
	AND      TokenType = "&&"
	OR       TokenType = "||"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	BOOL   TokenType = "BOOL"
	STRING TokenType = "STRING"
	VOID   TokenType = "VOID"
	AUTO   TokenType = "AUTO"
	MAT    TokenType = "MAT"

	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	WHILE  TokenType = "WHILE"
	FOR    TokenType = "FOR"
	RETURN TokenType = "RETURN"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"
)

var keywords = map[string]TokenType{
	"INT":    INT,
	"FLOAT":  FLOAT,
	"BOOL":   BOOL,
	"STRING": STRING,
	"VOID":   VOID,
	"AUTO":   AUTO,
	"MAT":    MAT,
	"IF":     IF,
	"ELSE":   ELSE,
	"WHILE":  WHILE,
	"FOR":    FOR,
	"RETURN": RETURN,
	"TRUE":   TRUE,
	"FALSE":  FALSE,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
