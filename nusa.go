// Package nusa provides a Go implementation of NusaLang, a small dynamically
// typed scripting language with numbers, strings, variables, user-defined
// functions and a print statement.
//
// A script goes through three strictly ordered stages, each of which either
// completes or returns the first error it finds:
//   - Tokenize: source text to tokens (lexing errors)
//   - Compile: tokens to a Program (parse errors)
//   - Run / evaluator.Eval: executes the Program, printing to an io.Writer
//     (runtime errors)
//
// # Quick Start
//
//	// Run a script, printing to stdout
//	err := nusa.Run(ctx, "let x = 1 + 2 * 3; print x;", os.Stdout)
//
//	// Compile once, evaluate many times
//	prog, err := nusa.Compile(source)
//	ev := evaluator.New(evaluator.WithMaxDepth(500))
//	err = ev.Eval(ctx, prog, os.Stdout)
//
// Use types.StageOf to find which stage an error came from.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/nusa/pkg/parser
//   - Evaluator: github.com/sandrolain/nusa/pkg/evaluator
//   - Types: github.com/sandrolain/nusa/pkg/types
package nusa

import (
	"context"
	"fmt"
	"io"

	"github.com/sandrolain/nusa/pkg/evaluator"
	"github.com/sandrolain/nusa/pkg/parser"
	"github.com/sandrolain/nusa/pkg/types"
)

// Version returns the current version of NusaLang.
func Version() string {
	return "v0.1.0-alpha"
}

// Tokenize converts source text into its token sequence.
func Tokenize(source string, opts ...parser.CompileOption) ([]parser.Token, error) {
	return parser.Tokenize(source, opts...)
}

// Compile tokenizes and parses source into a Program.
//
// The returned Program is immutable and may be evaluated any number of times.
func Compile(source string, opts ...parser.CompileOption) (*types.Program, error) {
	return parser.Compile(source, opts...)
}

// MustCompile is like Compile but panics if the source cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(source string) *types.Program {
	prog, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("nusa: Compile(%q): %v", source, err))
	}
	return prog
}

// Run compiles and evaluates source, writing printed values to out.
//
// For repeated runs of the same script, use Compile and an evaluator.Evaluator.
func Run(ctx context.Context, source string, out io.Writer, opts ...evaluator.EvalOption) error {
	return evaluator.New(opts...).Run(ctx, source, out)
}
