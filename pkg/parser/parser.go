// Package parser implements the NusaLang lexer and parser.
//
// Source text is first tokenized in full by [Tokenize]; the token slice is then
// turned into a [types.Program] by a hand-written recursive descent parser
// ([Parse]). The two stages are strictly ordered: the parser never sees the
// tokens of a source that failed to lex.
//
// # Grammar
//
//	program   = { statement [ ";" ] } .
//	statement = "let" IDENT "=" expr
//	          | "func" IDENT "(" [ IDENT { "," IDENT } [ "," ] ] ")" "{" { statement [ ";" ] } "}"
//	          | "print" expr
//	          | expr .
//	expr      = term { ( "+" | "-" ) term } .
//	term      = primary { ( "*" | "/" ) primary } .
//	primary   = NUMBER | STRING | IDENT [ "(" [ expr { "," expr } [ "," ] ] ")" ] | "(" expr ")" .
//
// # Example
//
//	prog, err := parser.Compile("let x = 1 + 2 * 3; print x;")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(prog.Len()) // 2
package parser

import (
	"github.com/sandrolain/nusa/pkg/types"
)

// DefaultMaxDepth is the default limit on syntactic nesting
// (parentheses, call arguments and function bodies).
const DefaultMaxDepth = 1000

// Parse builds a Program from a token slice produced by Tokenize.
//
// The first structural error aborts the parse; no partial program is returned.
func Parse(tokens []Token, opts ...CompileOption) (*types.Program, error) {
	p := NewParser(tokens, opts...)
	return p.Parse()
}

// Compile tokenizes and parses source, in that order.
// The returned program remembers its source text.
func Compile(source string, opts ...CompileOption) (*types.Program, error) {
	tokens, err := Tokenize(source, opts...)
	if err != nil {
		return nil, err
	}
	prog, err := Parse(tokens, opts...)
	if err != nil {
		return nil, err
	}
	return prog.WithSource(source), nil
}

// CompileOption configures lexing and parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds lexer and parser configuration.
type CompileOptions struct {
	// StrictStrings makes a string literal that reaches the end of input
	// without its closing quote a lexing error. By default such a literal
	// silently ends at the end of input.
	StrictStrings bool
	// MaxDepth limits syntactic nesting to prevent stack overflow.
	MaxDepth int
}

func newOptions(opts []CompileOption) CompileOptions {
	options := CompileOptions{
		StrictStrings: false,
		MaxDepth:      DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithStrictStrings enables or disables strict string termination checking.
func WithStrictStrings(enable bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.StrictStrings = enable
	}
}

// WithMaxDepth sets the maximum nesting depth. Values <= 0 disable the limit.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
