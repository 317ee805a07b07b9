// Package wasmio runs NusaLang scripts for the WebAssembly entrypoints and
// reports the outcome as a Response value.
//
// Script errors never escape as Go errors or panics: a Response carries the
// printed output together with the error message and stage, so a host can
// keep calling into the same module after a failing script.
package wasmio

import (
	"context"
	"strings"

	"github.com/sandrolain/nusa/pkg/evaluator"
	"github.com/sandrolain/nusa/pkg/parser"
	"github.com/sandrolain/nusa/pkg/types"
)

// Request describes one script run.
type Request struct {
	Source        string `json:"source"`
	MaxDepth      int    `json:"max_depth,omitempty"`
	StrictStrings bool   `json:"strict_strings,omitempty"`
}

// Response is the outcome of a run. Output holds one entry per print
// statement, including those executed before a runtime error.
type Response struct {
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
	Stage  string   `json:"stage,omitempty"`
}

// Failed reports whether the response carries an error.
func (r Response) Failed() bool {
	return r.Error != ""
}

// Fail returns a response for a problem with the request itself.
func Fail(msg string) Response {
	return Response{Output: []string{}, Error: msg}
}

// Evaluator returns an evaluator configured for req.
func (req Request) Evaluator() *evaluator.Evaluator {
	opts := []evaluator.EvalOption{
		evaluator.WithCompileOptions(parser.WithStrictStrings(req.StrictStrings)),
	}
	if req.MaxDepth > 0 {
		opts = append(opts, evaluator.WithMaxDepth(req.MaxDepth))
	}
	return evaluator.New(opts...)
}

// Compile parses source with ev. On failure the program is nil and the
// response describes the lexing or parse error.
func Compile(ev *evaluator.Evaluator, source string) (*types.Program, Response) {
	prog, err := ev.Compile(source)
	if err != nil {
		return nil, failure([]string{}, err)
	}
	return prog, Response{Output: []string{}}
}

// Eval runs prog with ev.
func Eval(ctx context.Context, ev *evaluator.Evaluator, prog *types.Program) Response {
	out := recorder{lines: []string{}}
	if err := ev.Eval(ctx, prog, &out); err != nil {
		return failure(out.lines, err)
	}
	return Response{Output: out.lines}
}

// Run compiles and evaluates req in one step.
func Run(ctx context.Context, req Request) Response {
	ev := req.Evaluator()
	prog, res := Compile(ev, req.Source)
	if prog == nil {
		return res
	}
	return Eval(ctx, ev, prog)
}

func failure(lines []string, err error) Response {
	return Response{
		Output: lines,
		Error:  err.Error(),
		Stage:  string(types.StageOf(err)),
	}
}

// recorder keeps one entry per print statement. The evaluator emits each
// printed value with a single Write ending in a newline.
type recorder struct {
	lines []string
}

func (r *recorder) Write(p []byte) (int, error) {
	r.lines = append(r.lines, strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
