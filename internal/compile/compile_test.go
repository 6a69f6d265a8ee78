package compile

import (
	"errors"
	"strings"
	"testing"

	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

const sample = `
INT LIMIT;

INT SUM(INT N) {
	INT ACC = 0;
	FOR (INT I = 0; I < N; I = I + 1) {
		ACC = ACC + I;
	}
	RETURN ACC;
}

VOID MAIN() {
	LIMIT = 10;
	PRINT(SUM(LIMIT));
}
`

func TestCompile_FullProgram(t *testing.T) {
	out, err := Compile(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"global LIMIT: int",
		"fn SUM(N.0: int) -> int {",
		"fn MAIN() -> void {",
		"while.header",
		"add.i",
		`print "%d\n"`,
		"call SUM(@LIMIT)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompile_IsDeterministic(t *testing.T) {
	first, err := Compile(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compile(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("two compilations of the same source must print identically")
	}
}

func TestCompile_StagesReportDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage diag.Stage
	}{
		{"lexer", `VOID F() { PRINTSTR("open; }`, diag.StageLexer},
		{"parser", `INT X =`, diag.StageParser},
		{"types", `VOID F() { RETURN 1; }`, diag.StageSemantic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Compile(tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if out != "" {
				t.Errorf("expected empty output on error, got %q", out)
			}
			var d diag.Diagnostic
			if !errors.As(err, &d) {
				t.Fatalf("expected a diagnostic, got %T", err)
			}
			if d.Stage != tt.stage {
				t.Errorf("expected stage %v, got %v", tt.stage, d.Stage)
			}
		})
	}
}

func TestCompile_WithIncludeLoader(t *testing.T) {
	loader := lexer.MapLoader(map[string]string{
		"DEFS": "#DEFINE LIMIT 3\n",
	})

	out, err := Compile(`
#INCLUDE "DEFS"
#IFDEF LIMIT
VOID MAIN() {
	PRINT(LIMIT);
}
#END
`, WithLoader(loader))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `print "%d\n", 3`) {
		t.Errorf("macro value must reach the printed instruction:\n%s", out)
	}
}

func TestCompile_DiagnosticInIncludedUnitRendersSnippet(t *testing.T) {
	sources := make(map[string]string)
	loader := lexer.RecordingLoader(lexer.MapLoader(map[string]string{
		"BAD": "INT X =\n",
	}), sources)

	_, err := Compile("#INCLUDE \"BAD\"\n",
		WithFilename("main.mrx"), WithLoader(loader))
	if err == nil {
		t.Fatal("expected an error")
	}
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected a diagnostic, got %T", err)
	}
	if d.Span.Filename != "BAD" {
		t.Fatalf("expected span into the included unit, got %q", d.Span.Filename)
	}
	if _, ok := sources["BAD"]; !ok {
		t.Fatal("included unit missing from the capture")
	}

	var buf strings.Builder
	f := diag.NewFormatter(&buf)
	for name, src := range sources {
		f.AddSource(name, src)
	}
	f.Format(d)
	if !strings.Contains(buf.String(), "| INT X =") {
		t.Errorf("expected a snippet from the included unit:\n%s", buf.String())
	}
}

func TestCompile_FilenameReachesDiagnostics(t *testing.T) {
	_, err := Compile(`INT X =`, WithFilename("main.mrx"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected a diagnostic, got %T", err)
	}
	if d.Span.Filename != "main.mrx" {
		t.Errorf("expected filename main.mrx, got %q", d.Span.Filename)
	}
}
