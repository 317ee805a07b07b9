// Package types defines the data shared by the NusaLang parser and evaluator.
//
// This package contains type definitions for:
//   - Program: a parsed script, the parser's result and the evaluator's input
//   - Expr / Stmt: the closed sets of AST node variants
//   - Error types: structured errors with codes grouped by pipeline stage
//
// The AST is plain data. Nodes are never mutated after parsing, so a Program
// can be evaluated any number of times, concurrently if desired.
package types

// Program is an ordered sequence of top-level statements.
type Program struct {
	stmts  []Stmt
	source string
}

// NewProgram creates a Program from parsed statements. source may be empty
// when the program was parsed from a token slice rather than from text.
func NewProgram(stmts []Stmt, source string) *Program {
	return &Program{
		stmts:  stmts,
		source: source,
	}
}

// Statements returns the top-level statements in source order.
func (p *Program) Statements() []Stmt {
	return p.stmts
}

// Len returns the number of top-level statements.
func (p *Program) Len() int {
	return len(p.stmts)
}

// Source returns the source text the program was compiled from, if known.
func (p *Program) Source() string {
	return p.source
}

// WithSource returns a copy of p that remembers source.
// The statements are shared; they are immutable.
func (p *Program) WithSource(source string) *Program {
	return &Program{
		stmts:  p.stmts,
		source: source,
	}
}

// String returns the source text of the program.
func (p *Program) String() string {
	return p.source
}
