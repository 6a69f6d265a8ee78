package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/marax-lang/marax/internal/compile"
	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/lexer"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: marax [file]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles one Marax source unit to IR on stdout.\n")
		fmt.Fprintf(os.Stderr, "Reads stdin when no file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	var (
		src     []byte
		err     error
		name    string
		baseDir string
	)
	if flag.NArg() == 1 {
		path := flag.Arg(0)
		src, err = os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marax: %v\n", err)
			os.Exit(1)
		}
		name = filepath.Base(path)
		baseDir = filepath.Dir(path)
	} else {
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marax: %v\n", err)
			os.Exit(1)
		}
		name = "<stdin>"
		baseDir = "."
	}

	// Included units are captured alongside the main unit so
	// diagnostics pointing into them still render a snippet.
	sources := map[string]string{name: string(src)}
	loader := lexer.RecordingLoader(lexer.FileLoader(baseDir), sources)

	out, err := compile.Compile(string(src),
		compile.WithFilename(name),
		compile.WithLoader(loader))
	if err != nil {
		report(err, sources)
		os.Exit(1)
	}
	fmt.Print(out)
}

func report(err error, sources map[string]string) {
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		fmt.Fprintf(os.Stderr, "marax: %v\n", err)
		return
	}
	f := diag.NewFormatter(os.Stderr)
	for name, src := range sources {
		f.AddSource(name, src)
	}
	f.Format(d)
}
