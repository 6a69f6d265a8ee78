package diag

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders diagnostics with a source snippet and an underline
// marking the offending span.
type Formatter struct {
	out io.Writer

	sourceCache map[string]string
}

// NewFormatter creates a formatter writing to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers source text so spans into it can be rendered.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	src, ok := f.sourceCache[d.Span.Filename]
	if !ok || !d.Span.IsValid() {
		if d.Span.IsValid() {
			fmt.Fprintf(f.out, "  --> %s\n", d.Span)
		}
		return
	}

	lines := strings.Split(src, "\n")
	if d.Span.Line > len(lines) {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span)
		return
	}

	line := lines[d.Span.Line-1]
	gutter := fmt.Sprintf("%d", d.Span.Line)

	fmt.Fprintf(f.out, "  --> %s\n", d.Span)
	fmt.Fprintf(f.out, "%s |\n", strings.Repeat(" ", len(gutter)))
	fmt.Fprintf(f.out, "%s | %s\n", gutter, line)
	fmt.Fprintf(f.out, "%s | %s%s\n",
		strings.Repeat(" ", len(gutter)),
		strings.Repeat(" ", d.Span.Column-1),
		strings.Repeat("^", spanWidth(d.Span, line)))
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}
	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

func spanWidth(s Span, line string) int {
	width := s.End - s.Start
	if width < 1 {
		width = 1
	}
	if max := len(line) - (s.Column - 1); width > max && max >= 1 {
		width = max
	}
	return width
}
