package types

import (
	"errors"
	"testing"

	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/parser"
)

func check(t *testing.T, src string) (*Program, error) {
	t.Helper()
	prog, err := parser.New(src).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return NewChecker().Check(prog)
}

func mustCheck(t *testing.T, src string) *Program {
	t.Helper()
	typed, err := check(t, src)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	return typed
}

// checkDiag asserts analysis fails with the given code.
func checkDiag(t *testing.T, src string, code diag.Code) {
	t.Helper()
	_, err := check(t, src)
	if err == nil {
		t.Fatal("expected a semantic error, got none")
	}
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected a diagnostic, got %T: %v", err, err)
	}
	if d.Code != code {
		t.Fatalf("expected code %q, got %q (%s)", code, d.Code, d.Message)
	}
}

func TestCheck_GlobalsAndFunctions(t *testing.T) {
	typed := mustCheck(t, `
INT COUNTER;
INT BUMP(INT BY) {
	COUNTER = COUNTER + BY;
	RETURN COUNTER;
}
`)

	if len(typed.Globals) != 1 || typed.Globals[0].Name != "COUNTER" {
		t.Fatalf("expected global COUNTER, got %+v", typed.Globals)
	}
	if len(typed.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(typed.Functions))
	}
	fn := typed.Functions[0]
	if fn.Name != "BUMP" || !Equal(fn.Return, TypeInt) {
		t.Errorf("signature wrong: %s returns %s", fn.Name, fn.Return)
	}
	if len(fn.Params) != 1 || !Equal(fn.Params[0].Type, TypeInt) {
		t.Errorf("parameters wrong: %+v", fn.Params)
	}
}

func TestCheck_AutoInfersFromInitializer(t *testing.T) {
	typed := mustCheck(t, `
VOID F() {
	AUTO A = 3;
	AUTO B = 3.5;
	AUTO C = TRUE;
	AUTO D = [[1, 2], [3, 4]];
}
`)

	body := typed.Functions[0].Body
	wants := []Type{
		TypeInt,
		TypeFloat,
		TypeBool,
		&Matrix{Elem: TypeInt, Rows: 2, Cols: 2},
	}
	for i, want := range wants {
		decl, ok := body.Stmts[i].(*VarDecl)
		if !ok {
			t.Fatalf("stmt %d: expected VarDecl, got %T", i, body.Stmts[i])
		}
		if !Equal(decl.Type, want) {
			t.Errorf("stmt %d: expected %s, got %s", i, want, decl.Type)
		}
		if IsAuto(decl.Type) {
			t.Errorf("stmt %d: auto survived analysis", i)
		}
	}
}

func TestCheck_AutoWithoutInitializer(t *testing.T) {
	checkDiag(t, `
VOID F() {
	AUTO X;
}
`, diag.CodeSemAutoNoInitializer)
}

func TestCheck_AutoGlobalRejected(t *testing.T) {
	checkDiag(t, `AUTO X;`, diag.CodeSemAutoNoInitializer)
}

func TestCheck_UndeclaredIdentifier(t *testing.T) {
	checkDiag(t, `
VOID F() {
	X = 1;
}
`, diag.CodeSemUndeclaredIdentifier)
}

func TestCheck_DuplicateDeclarations(t *testing.T) {
	checkDiag(t, `
INT X;
FLOAT X;
`, diag.CodeSemDuplicateDeclaration)

	checkDiag(t, `
VOID F() {}
VOID F() {}
`, diag.CodeSemDuplicateDeclaration)

	checkDiag(t, `
VOID F() {
	INT X;
	FLOAT X;
}
`, diag.CodeSemDuplicateDeclaration)
}

func TestCheck_ShadowingInNestedBlock(t *testing.T) {
	mustCheck(t, `
VOID F() {
	INT X = 1;
	{
		FLOAT X = 2.0;
		X = 3.0;
	}
	X = 4;
}
`)
}

func TestCheck_BuiltinCannotBeRedefined(t *testing.T) {
	checkDiag(t, `
VOID PRINT(INT X) {}
`, diag.CodeSemDuplicateDeclaration)
}

func TestCheck_MixedArithmeticRejected(t *testing.T) {
	checkDiag(t, `
VOID F() {
	AUTO X = 1 + 2.0;
}
`, diag.CodeSemTypeMismatch)
}

func TestCheck_LogicalRequiresBool(t *testing.T) {
	checkDiag(t, `
VOID F() {
	AUTO X = 1 && 2;
}
`, diag.CodeSemInvalidOperation)
}

func TestCheck_ComparisonYieldsBool(t *testing.T) {
	typed := mustCheck(t, `
VOID F() {
	AUTO X = 1 < 2;
}
`)
	decl := typed.Functions[0].Body.Stmts[0].(*VarDecl)
	if !Equal(decl.Type, TypeBool) {
		t.Errorf("expected bool, got %s", decl.Type)
	}
}

func TestCheck_ConditionMustBeBool(t *testing.T) {
	checkDiag(t, `
VOID F() {
	IF (1) {}
}
`, diag.CodeSemTypeMismatch)

	checkDiag(t, `
VOID F() {
	WHILE (1) {}
}
`, diag.CodeSemTypeMismatch)
}

func TestCheck_UnaryOperators(t *testing.T) {
	mustCheck(t, `
VOID F(INT A, FLOAT B, BOOL C) {
	AUTO X = -A;
	AUTO Y = -B;
	AUTO Z = !C;
}
`)

	checkDiag(t, `
VOID F(BOOL C) {
	AUTO X = -C;
}
`, diag.CodeSemInvalidOperation)

	checkDiag(t, `
VOID F(INT A) {
	AUTO X = !A;
}
`, diag.CodeSemInvalidOperation)
}

func TestCheck_ReturnTypes(t *testing.T) {
	checkDiag(t, `
INT F() {
	RETURN;
}
`, diag.CodeSemReturnMismatch)

	checkDiag(t, `
VOID F() {
	RETURN 1;
}
`, diag.CodeSemReturnMismatch)

	checkDiag(t, `
INT F() {
	RETURN 1.5;
}
`, diag.CodeSemReturnMismatch)
}

func TestCheck_MatrixLiteralShape(t *testing.T) {
	checkDiag(t, `
VOID F() {
	AUTO M = [[1, 2], [3]];
}
`, diag.CodeSemMatrixShape)

	checkDiag(t, `
VOID F() {
	AUTO M = [];
}
`, diag.CodeSemMatrixShape)

	checkDiag(t, `
VOID F() {
	AUTO M = [[1, 2.0]];
}
`, diag.CodeSemTypeMismatch)
}

func TestCheck_MatrixDeclarationMustMatchLiteral(t *testing.T) {
	mustCheck(t, `
VOID F() {
	MAT[INT, 2, 2] M = [[1, 2], [3, 4]];
}
`)

	checkDiag(t, `
VOID F() {
	MAT[INT, 2, 2] M = [[1, 2, 3], [4, 5, 6]];
}
`, diag.CodeSemTypeMismatch)

	checkDiag(t, `
VOID F() {
	MAT[FLOAT, 2, 2] M = [[1, 2], [3, 4]];
}
`, diag.CodeSemTypeMismatch)
}

func TestCheck_MatrixAssignmentRequiresIdenticalShape(t *testing.T) {
	checkDiag(t, `
VOID F(MAT[INT, 2, 2] A, MAT[INT, 2, 3] B) {
	A = B;
}
`, diag.CodeSemTypeMismatch)
}

func TestCheck_MatrixElementMustBeNumeric(t *testing.T) {
	checkDiag(t, `
VOID F(MAT[BOOL, 2, 2] M) {}
`, diag.CodeSemInvalidOperation)
}

func TestCheck_CallResolution(t *testing.T) {
	mustCheck(t, `
INT TWICE(INT X) {
	RETURN CALLED(X) + CALLED(X);
}
INT CALLED(INT X) {
	RETURN X;
}
`)

	checkDiag(t, `
VOID F() {
	MISSING(1);
}
`, diag.CodeSemUndeclaredIdentifier)

	checkDiag(t, `
INT G(INT X) { RETURN X; }
VOID F() {
	G(1, 2);
}
`, diag.CodeSemArityMismatch)

	checkDiag(t, `
INT G(INT X) { RETURN X; }
VOID F() {
	G(1.5);
}
`, diag.CodeSemTypeMismatch)
}

func TestCheck_Builtins(t *testing.T) {
	mustCheck(t, `
VOID F(MAT[INT, 3, 4] M) {
	PRINT(1);
	PRINT(1.5);
	PRINT(TRUE);
	PRINTSTR("HI");
	PRINT(ROWS(M) + COLS(M));
}
`)

	checkDiag(t, `
VOID F() {
	PRINT("NOT NUMERIC");
}
`, diag.CodeSemTypeMismatch)

	checkDiag(t, `
VOID F() {
	PRINTSTR(1);
}
`, diag.CodeSemTypeMismatch)

	checkDiag(t, `
VOID F(INT X) {
	AUTO R = ROWS(X);
}
`, diag.CodeSemTypeMismatch)

	checkDiag(t, `
VOID F(MAT[INT, 2, 2] M) {
	PRINT(1, 2);
}
`, diag.CodeSemArityMismatch)
}

func TestCheck_VoidValueRejected(t *testing.T) {
	checkDiag(t, `
VOID NOP() {}
VOID F() {
	AUTO X = NOP();
}
`, diag.CodeSemInvalidOperation)
}

func TestCheck_VoidVariableRejected(t *testing.T) {
	checkDiag(t, `
VOID F() {
	VOID X;
}
`, diag.CodeSemInvalidOperation)
}

func TestCheck_ForLoopScoping(t *testing.T) {
	mustCheck(t, `
VOID F() {
	FOR (INT I = 0; I < 3; I = I + 1) {
		PRINT(I);
	}
}
`)

	// The loop variable does not leak past the loop.
	checkDiag(t, `
VOID F() {
	FOR (INT I = 0; I < 3; I = I + 1) {}
	PRINT(I);
}
`, diag.CodeSemUndeclaredIdentifier)
}

func TestCheck_ForwardReferenceToFunction(t *testing.T) {
	mustCheck(t, `
INT F(INT X) {
	RETURN G(X);
}
INT G(INT X) {
	RETURN X;
}
`)
}

func TestCheck_GlobalVisibleInFunctions(t *testing.T) {
	mustCheck(t, `
FLOAT SCALE;
FLOAT APPLY(FLOAT X) {
	RETURN X * SCALE;
}
`)
}
