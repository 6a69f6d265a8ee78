package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageSemantic Stage = "semantic"
	StageCodegen  Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString  Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerMalformedDirective  Code = "LEXER_MALFORMED_DIRECTIVE"
	CodeLexerUnresolvedInclude   Code = "LEXER_UNRESOLVED_INCLUDE"
	CodeLexerUnbalancedCondition Code = "LEXER_UNBALANCED_CONDITION"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseUnexpectedEOF   Code = "PARSE_UNEXPECTED_EOF"
	CodeParseBadLiteral      Code = "PARSE_BAD_LITERAL"

	// Semantic errors
	CodeSemUndeclaredIdentifier Code = "SEM_UNDECLARED_IDENTIFIER"
	CodeSemDuplicateDeclaration Code = "SEM_DUPLICATE_DECLARATION"
	CodeSemTypeMismatch         Code = "SEM_TYPE_MISMATCH"
	CodeSemInvalidOperation     Code = "SEM_INVALID_OPERATION"
	CodeSemAutoNoInitializer    Code = "SEM_AUTO_NO_INITIALIZER"
	CodeSemReturnMismatch       Code = "SEM_RETURN_MISMATCH"
	CodeSemMatrixShape          Code = "SEM_MATRIX_SHAPE"
	CodeSemArityMismatch        Code = "SEM_ARITY_MISMATCH"

	// Internal errors signal an analyzer defect reaching generation,
	// never a user mistake.
	CodeInternalAutoSurvived  Code = "INTERNAL_AUTO_SURVIVED"
	CodeInternalVoidValue     Code = "INTERNAL_VOID_VALUE"
	CodeInternalUnknownType   Code = "INTERNAL_UNKNOWN_TYPE"
	CodeInternalUnboundSymbol Code = "INTERNAL_UNBOUND_SYMBOL"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users. The
// pipeline aborts on the first diagnostic, so Diagnostic doubles as
// the error value handed up through every stage.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// IsInternal reports whether the diagnostic signals a compiler defect
// rather than an error in the compiled program.
func (d Diagnostic) IsInternal() bool {
	switch d.Code {
	case CodeInternalAutoSurvived, CodeInternalVoidValue,
		CodeInternalUnknownType, CodeInternalUnboundSymbol:
		return true
	}
	return false
}

// Errorf builds an error-severity diagnostic with a formatted message.
func Errorf(stage Stage, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}
