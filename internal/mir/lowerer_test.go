package mir

import (
	"errors"
	"testing"

	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/parser"
	"github.com/marax-lang/marax/internal/types"
)

func lowerModule(t *testing.T, src string) *Module {
	t.Helper()

	prog, err := parser.New(src).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	typed, err := types.NewChecker().Check(prog)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	module, err := NewLowerer().Lower(typed)
	if err != nil {
		t.Fatalf("lowering error: %v", err)
	}
	return module
}

func lowerFn(t *testing.T, src string) *Function {
	t.Helper()
	module := lowerModule(t, src)
	if len(module.Functions) == 0 {
		t.Fatal("no function lowered")
	}
	return module.Functions[0]
}

func TestLower_SimpleVoid(t *testing.T) {
	fn := lowerFn(t, `
VOID MAIN() {
	RETURN;
}
`)

	if fn.Name != "MAIN" {
		t.Errorf("expected function name MAIN, got %q", fn.Name)
	}
	if fn.Entry == nil {
		t.Fatal("expected entry block")
	}
	ret, ok := fn.Entry.Terminator.(*Return)
	if !ok {
		t.Fatalf("expected Return terminator, got %T", fn.Entry.Terminator)
	}
	if ret.Value != nil {
		t.Errorf("expected bare return, got value %v", ret.Value)
	}
}

func TestLower_FallThroughSynthesizesVoidReturn(t *testing.T) {
	fn := lowerFn(t, `VOID F() {}`)

	ret, ok := fn.Entry.Terminator.(*Return)
	if !ok {
		t.Fatalf("expected synthesized Return, got %T", fn.Entry.Terminator)
	}
	if ret.Value != nil {
		t.Errorf("expected bare return, got %v", ret.Value)
	}
}

func TestLower_FallThroughSynthesizesZeroValue(t *testing.T) {
	tests := []struct {
		src  string
		want interface{}
	}{
		{`INT F() {}`, int64(0)},
		{`FLOAT F() {}`, float64(0)},
		{`BOOL F() {}`, false},
		{`STRING F() {}`, ""},
		{`MAT[INT, 2, 2] F() {}`, nil},
	}

	for _, tt := range tests {
		fn := lowerFn(t, tt.src)
		ret, ok := fn.Entry.Terminator.(*Return)
		if !ok {
			t.Fatalf("%s: expected Return terminator, got %T", tt.src, fn.Entry.Terminator)
		}
		lit, ok := ret.Value.(*Literal)
		if !ok {
			t.Fatalf("%s: expected Literal return value, got %T", tt.src, ret.Value)
		}
		if lit.Value != tt.want {
			t.Errorf("%s: expected zero value %v, got %v", tt.src, tt.want, lit.Value)
		}
	}
}

func TestLower_VarDeclWithoutInitIsZeroed(t *testing.T) {
	fn := lowerFn(t, `
VOID F() {
	INT X;
}
`)

	if len(fn.Entry.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Entry.Statements))
	}
	assign, ok := fn.Entry.Statements[0].(*Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", fn.Entry.Statements[0])
	}
	lit, ok := assign.RHS.(*Literal)
	if !ok || lit.Value != int64(0) {
		t.Errorf("expected zero literal init, got %#v", assign.RHS)
	}
}

func TestLower_BinOpFloatForm(t *testing.T) {
	fn := lowerFn(t, `
FLOAT F(FLOAT A, FLOAT B) {
	RETURN A + B;
}
`)

	bin := findBinOp(t, fn)
	if bin.Op != OpAddF {
		t.Errorf("expected %q, got %q", OpAddF, bin.Op)
	}
}

func TestLower_BinOpIntForm(t *testing.T) {
	fn := lowerFn(t, `
INT F(INT A, INT B) {
	RETURN A * B;
}
`)

	bin := findBinOp(t, fn)
	if bin.Op != OpMulI {
		t.Errorf("expected %q, got %q", OpMulI, bin.Op)
	}
}

func TestLower_LogicalOpsUseBitwiseForms(t *testing.T) {
	fn := lowerFn(t, `
BOOL F(BOOL A, BOOL B) {
	RETURN A && B || A;
}
`)

	var ops []Opcode
	for _, stmt := range fn.Entry.Statements {
		if bin, ok := stmt.(*BinOp); ok {
			ops = append(ops, bin.Op)
		}
	}
	if len(ops) != 2 || ops[0] != OpAndB || ops[1] != OpOrB {
		t.Errorf("expected [and.b or.b], got %v", ops)
	}
}

func TestLower_ComparisonPicksOperandClass(t *testing.T) {
	fn := lowerFn(t, `
BOOL F(FLOAT A, FLOAT B) {
	RETURN A < B;
}
`)

	bin := findBinOp(t, fn)
	if bin.Op != OpLtF {
		t.Errorf("expected %q, got %q", OpLtF, bin.Op)
	}
}

func TestLower_UnaryForms(t *testing.T) {
	fn := lowerFn(t, `
VOID F(INT A, FLOAT B, BOOL C) {
	AUTO X = -A;
	AUTO Y = -B;
	AUTO Z = !C;
}
`)

	var ops []Opcode
	for _, stmt := range fn.Entry.Statements {
		if un, ok := stmt.(*UnOp); ok {
			ops = append(ops, un.Op)
		}
	}
	want := []Opcode{OpNegI, OpNegF, OpNotB}
	if len(ops) != len(want) {
		t.Fatalf("expected %d unary ops, got %d", len(want), len(ops))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: expected %q, got %q", i, want[i], ops[i])
		}
	}
}

func TestLower_IfShape(t *testing.T) {
	fn := lowerFn(t, `
VOID F(BOOL C) {
	IF (C) {
		PRINT(1);
	} ELSE {
		PRINT(2);
	}
	RETURN;
}
`)

	if len(fn.Blocks) != 4 {
		t.Fatalf("expected entry/then/else/merge, got %d blocks", len(fn.Blocks))
	}

	br, ok := fn.Entry.Terminator.(*Branch)
	if !ok {
		t.Fatalf("expected Branch in entry, got %T", fn.Entry.Terminator)
	}

	thenGoto, ok := br.True.Terminator.(*Goto)
	if !ok {
		t.Fatalf("expected Goto ending then branch, got %T", br.True.Terminator)
	}
	elseGoto, ok := br.False.Terminator.(*Goto)
	if !ok {
		t.Fatalf("expected Goto ending else branch, got %T", br.False.Terminator)
	}
	if thenGoto.Target != elseGoto.Target {
		t.Error("both branches must converge on the same merge block")
	}
}

func TestLower_IfWithoutElseBranchesToMerge(t *testing.T) {
	fn := lowerFn(t, `
VOID F(BOOL C) {
	IF (C) {
		PRINT(1);
	}
}
`)

	br := fn.Entry.Terminator.(*Branch)
	thenGoto, ok := br.True.Terminator.(*Goto)
	if !ok {
		t.Fatalf("expected Goto ending then branch, got %T", br.True.Terminator)
	}
	if br.False != thenGoto.Target {
		t.Error("false edge must go straight to the merge block")
	}
}

func TestLower_ReturnInBranchSuppressesFallThrough(t *testing.T) {
	fn := lowerFn(t, `
INT F(BOOL C) {
	IF (C) {
		RETURN 1;
	}
	RETURN 2;
}
`)

	br := fn.Entry.Terminator.(*Branch)
	if _, ok := br.True.Terminator.(*Return); !ok {
		t.Fatalf("expected Return in then branch, got %T", br.True.Terminator)
	}
}

func TestLower_SecondReturnKeepsFirstTerminator(t *testing.T) {
	fn := lowerFn(t, `
INT F() {
	RETURN 1;
	RETURN 2;
}
`)

	ret, ok := fn.Entry.Terminator.(*Return)
	if !ok {
		t.Fatalf("expected Return terminator, got %T", fn.Entry.Terminator)
	}
	lit, ok := ret.Value.(*Literal)
	if !ok || lit.Value != int64(1) {
		t.Errorf("expected entry to keep ret 1, got %#v", ret.Value)
	}

	if len(fn.Blocks) != 2 {
		t.Fatalf("expected the second return in its own block, got %d blocks", len(fn.Blocks))
	}
	second, ok := fn.Blocks[1].Terminator.(*Return)
	if !ok {
		t.Fatalf("expected Return in trailing block, got %T", fn.Blocks[1].Terminator)
	}
	if lit, ok := second.Value.(*Literal); !ok || lit.Value != int64(2) {
		t.Errorf("expected trailing block to hold ret 2, got %#v", second.Value)
	}
}

func TestLower_StatementsAfterReturnLeaveTerminatedBlock(t *testing.T) {
	fn := lowerFn(t, `
INT F() {
	RETURN 1;
	PRINT(5);
}
`)

	if len(fn.Entry.Statements) != 0 {
		t.Errorf("expected no statements in the returned-from block, got %d",
			len(fn.Entry.Statements))
	}
	if _, ok := fn.Entry.Terminator.(*Return); !ok {
		t.Fatalf("expected Return terminator in entry, got %T", fn.Entry.Terminator)
	}

	if len(fn.Blocks) != 2 {
		t.Fatalf("expected unreachable code in its own block, got %d blocks", len(fn.Blocks))
	}
	trailing := fn.Blocks[1]
	if len(trailing.Statements) != 1 {
		t.Fatalf("expected the print in the trailing block, got %d statements",
			len(trailing.Statements))
	}
	if _, ok := trailing.Statements[0].(*Print); !ok {
		t.Errorf("expected Print, got %T", trailing.Statements[0])
	}
	if trailing.Terminator == nil {
		t.Error("trailing block must still terminate")
	}
}

func TestLower_WhileShape(t *testing.T) {
	fn := lowerFn(t, `
VOID F(BOOL C) {
	WHILE (C) {
		PRINT(1);
	}
}
`)

	entryGoto, ok := fn.Entry.Terminator.(*Goto)
	if !ok {
		t.Fatalf("expected entry Goto to header, got %T", fn.Entry.Terminator)
	}
	header := entryGoto.Target

	br, ok := header.Terminator.(*Branch)
	if !ok {
		t.Fatalf("expected Branch in header, got %T", header.Terminator)
	}
	backEdge, ok := br.True.Terminator.(*Goto)
	if !ok {
		t.Fatalf("expected body back edge, got %T", br.True.Terminator)
	}
	if backEdge.Target != header {
		t.Error("body must loop back to the header")
	}
}

func TestLower_ForMatchesEquivalentWhile(t *testing.T) {
	forSrc := `
VOID F() {
	FOR (INT I = 0; I < 3; I = I + 1) {
		PRINT(I);
	}
}
`
	whileSrc := `
VOID F() {
	INT I = 0;
	WHILE (I < 3) {
		PRINT(I);
		I = I + 1;
	}
}
`

	got := lowerFn(t, forSrc).PrettyPrint()
	want := lowerFn(t, whileSrc).PrettyPrint()
	if got != want {
		t.Errorf("for loop must lower exactly like its while form.\nfor:\n%s\nwhile:\n%s", got, want)
	}
}

func TestLower_EveryBlockTerminates(t *testing.T) {
	module := lowerModule(t, `
INT X;
INT F(INT N) {
	INT ACC = 0;
	FOR (INT I = 0; I < N; I = I + 1) {
		IF (I == 2) {
			ACC = ACC + X;
		} ELSE {
			ACC = ACC - 1;
		}
	}
	RETURN ACC;
}
VOID MAIN() {
	X = 10;
	PRINT(F(5));
}
`)

	for _, fn := range module.Functions {
		for _, block := range fn.Blocks {
			if block.Terminator == nil {
				t.Errorf("%s: block %s has no terminator", fn.Name, block.Label)
			}
		}
	}
}

func TestLower_MatrixDimUsesStaticType(t *testing.T) {
	fn := lowerFn(t, `
INT F(MAT[FLOAT, 3, 7] M) {
	RETURN ROWS(M) + COLS(M);
}
`)

	var dims []*MatrixDim
	for _, stmt := range fn.Entry.Statements {
		if d, ok := stmt.(*MatrixDim); ok {
			dims = append(dims, d)
		}
	}
	if len(dims) != 2 {
		t.Fatalf("expected 2 dimension reads, got %d", len(dims))
	}
	if dims[0].Value != 3 {
		t.Errorf("expected ROWS value 3, got %d", dims[0].Value)
	}
	if dims[1].Value != 7 {
		t.Errorf("expected COLS value 7, got %d", dims[1].Value)
	}
}

func TestLower_MatrixLiteral(t *testing.T) {
	fn := lowerFn(t, `
VOID F() {
	MAT[INT, 2, 2] M = [[1, 2], [3, 4]];
}
`)

	var mk *MakeMatrix
	for _, stmt := range fn.Entry.Statements {
		if m, ok := stmt.(*MakeMatrix); ok {
			mk = m
			break
		}
	}
	if mk == nil {
		t.Fatal("expected MakeMatrix statement")
	}
	if len(mk.Elements) != 2 || len(mk.Elements[0]) != 2 {
		t.Fatalf("expected 2x2 elements, got %d rows", len(mk.Elements))
	}
}

func TestLower_PrintFormats(t *testing.T) {
	fn := lowerFn(t, `
VOID F(INT A, FLOAT B, BOOL C) {
	PRINT(A);
	PRINT(B);
	PRINT(C);
	PRINTSTR("HI");
}
`)

	var formats []string
	for _, stmt := range fn.Entry.Statements {
		if p, ok := stmt.(*Print); ok {
			formats = append(formats, p.Format)
		}
	}
	want := []string{"%d\n", "%f\n", "%d\n", "%s\n"}
	if len(formats) != len(want) {
		t.Fatalf("expected %d prints, got %d", len(want), len(formats))
	}
	for i := range want {
		if formats[i] != want[i] {
			t.Errorf("print %d: expected format %q, got %q", i, want[i], formats[i])
		}
	}
}

func TestLower_GlobalAccess(t *testing.T) {
	module := lowerModule(t, `
INT COUNTER;
VOID BUMP() {
	COUNTER = COUNTER + 1;
}
`)

	if len(module.Globals) != 1 || module.Globals[0].Name != "COUNTER" {
		t.Fatalf("expected global COUNTER, got %+v", module.Globals)
	}

	fn := module.Functions[0]
	var sawLoad, sawStore bool
	for _, stmt := range fn.Entry.Statements {
		switch s := stmt.(type) {
		case *BinOp:
			if g, ok := s.Left.(*GlobalRef); ok && g.Name == "COUNTER" {
				sawLoad = true
			}
		case *SetGlobal:
			if s.Name == "COUNTER" {
				sawStore = true
			}
		}
	}
	if !sawLoad {
		t.Error("expected a read of the global slot")
	}
	if !sawStore {
		t.Error("expected a store to the global slot")
	}
}

func TestLower_CallResults(t *testing.T) {
	module := lowerModule(t, `
VOID NOP() {}
INT ID(INT X) { RETURN X; }
VOID F() {
	NOP();
	PRINT(ID(1));
}
`)

	fn := module.Functions[2]
	var calls []*Call
	for _, stmt := range fn.Entry.Statements {
		if c, ok := stmt.(*Call); ok {
			calls = append(calls, c)
		}
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Result != nil {
		t.Error("void call must not bind a result")
	}
	if calls[1].Result == nil {
		t.Error("value call must bind a result")
	}
}

func TestLower_ShadowedLocalsResolveInnermost(t *testing.T) {
	fn := lowerFn(t, `
VOID F() {
	INT X = 1;
	{
		FLOAT X = 2.0;
		X = 3.0;
	}
	X = 4;
}
`)

	// The inner store targets the float slot, the outer one the int
	// slot.
	var stores []*Assign
	for _, stmt := range fn.Entry.Statements {
		if a, ok := stmt.(*Assign); ok && a.Local.Name == "X" {
			stores = append(stores, a)
		}
	}
	if len(stores) != 4 {
		t.Fatalf("expected 4 stores to X slots, got %d", len(stores))
	}
	inner, outer := stores[2], stores[3]
	if inner.Local.ID == outer.Local.ID {
		t.Error("shadowed assignments must hit distinct slots")
	}
	if !types.Equal(inner.Local.Type, types.TypeFloat) {
		t.Errorf("inner assignment must target the float slot, got %s", inner.Local.Type)
	}
	if !types.Equal(outer.Local.Type, types.TypeInt) {
		t.Errorf("outer assignment must target the int slot, got %s", outer.Local.Type)
	}
}

func TestLower_VoidValueIsInternalError(t *testing.T) {
	// A VOID call in a value position never survives the checker, so
	// the tree is built by hand.
	prog := &types.Program{
		Functions: []*types.Function{{
			Name:   "F",
			Return: types.TypeVoid,
			Body: &types.Block{Stmts: []types.Stmt{
				&types.VarDecl{
					Name: "X",
					Type: types.TypeInt,
					Init: &types.Expr{
						Type: types.TypeVoid,
						Kind: &types.Call{Callee: "NOP"},
					},
				},
			}},
		}},
	}

	_, err := NewLowerer().Lower(prog)
	if err == nil {
		t.Fatal("expected an internal error")
	}
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected a diagnostic, got %T", err)
	}
	if d.Code != diag.CodeInternalVoidValue {
		t.Errorf("expected code %s, got %s", diag.CodeInternalVoidValue, d.Code)
	}
	if !d.IsInternal() {
		t.Error("void-value diagnostics must classify as internal")
	}
}

func findBinOp(t *testing.T, fn *Function) *BinOp {
	t.Helper()
	for _, block := range fn.Blocks {
		for _, stmt := range block.Statements {
			if bin, ok := stmt.(*BinOp); ok {
				return bin
			}
		}
	}
	t.Fatal("no BinOp found")
	return nil
}
