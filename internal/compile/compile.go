// Package compile drives the full pipeline: source text through the
// lexer, parser, semantic analyzer, and code generator. The first
// error from any stage aborts the run.
package compile

import (
	"github.com/marax-lang/marax/internal/lexer"
	"github.com/marax-lang/marax/internal/mir"
	"github.com/marax-lang/marax/internal/parser"
	"github.com/marax-lang/marax/internal/types"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	filename string
	loader   lexer.Loader
}

// WithFilename sets the unit name used in diagnostics.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLoader sets the resolver for #INCLUDE directives.
func WithLoader(load lexer.Loader) Option {
	return func(o *options) {
		o.loader = load
	}
}

// Module compiles one source unit into its lowered module.
func Module(src string, opts ...Option) (*mir.Module, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	popts := make([]parser.Option, 0, 2)
	if cfg.filename != "" {
		popts = append(popts, parser.WithFilename(cfg.filename))
	}
	if cfg.loader != nil {
		popts = append(popts, parser.WithLoader(cfg.loader))
	}

	prog, err := parser.New(src, popts...).ParseProgram()
	if err != nil {
		return nil, err
	}

	typed, err := types.NewChecker().Check(prog)
	if err != nil {
		return nil, err
	}

	return mir.NewLowerer().Lower(typed)
}

// Compile compiles one source unit and returns the textual IR.
// Identical input yields byte-identical output.
func Compile(src string, opts ...Option) (string, error) {
	module, err := Module(src, opts...)
	if err != nil {
		return "", err
	}
	return module.PrettyPrint(), nil
}
