package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/kr/pretty"

	"github.com/sandrolain/nusa/pkg/config"
	"github.com/sandrolain/nusa/pkg/evaluator"
	"github.com/sandrolain/nusa/pkg/parser"
	"github.com/sandrolain/nusa/pkg/types"
	"github.com/sandrolain/nusa/pkg/wasihost"
)

func (a *app) cmdRun(ctx context.Context, args []string) int {
	s := a.newFlagSet("run")
	wasmPath := s.fs.String("wasm", "", "run through the WASI build at this path instead of natively")
	cfg, code, ok := a.parse(s, args)
	if !ok {
		return code
	}
	path, src, code, ok := a.readScript(s.fs)
	if !ok {
		return code
	}

	if *wasmPath != "" {
		return a.runWASM(ctx, *wasmPath, cfg, path, src)
	}

	ev := evaluator.New(cfg.EvalOptions(a.logger(cfg))...)
	prog, err := ev.Compile(src)
	if err != nil {
		a.report(path, src, err)
		return exitError
	}
	if err := ev.Eval(ctx, prog, a.stdout); err != nil {
		a.report(path, src, err)
		return exitError
	}
	return exitOK
}

// runWASM executes src in the WASI build of the interpreter.
func (a *app) runWASM(ctx context.Context, wasmPath string, cfg *config.Config, path, src string) int {
	host, err := wasihost.Open(ctx, wasmPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", appName, err)
		return exitError
	}
	defer host.Close(ctx)

	res, err := host.Run(ctx, wasihost.Request{
		Source:        src,
		MaxDepth:      cfg.MaxDepth,
		StrictStrings: cfg.StrictStrings,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", appName, err)
		return exitError
	}
	for _, line := range res.Output {
		fmt.Fprintln(a.stdout, line)
	}
	if res.Error != "" {
		fmt.Fprintf(a.stderr, "%s Error: %s (%s)\n", types.Stage(res.Stage).Label(), res.Error, path)
		return exitError
	}
	return exitOK
}

func (a *app) cmdTokens(args []string) int {
	s := a.newFlagSet("tokens")
	cfg, code, ok := a.parse(s, args)
	if !ok {
		return code
	}
	path, src, code, ok := a.readScript(s.fs)
	if !ok {
		return code
	}

	tokens, err := parser.Tokenize(src, cfg.CompileOptions()...)
	if err != nil {
		a.report(path, src, err)
		return exitError
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, t := range tokens {
		line, col := types.LineCol(src, t.Position)
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", line, col, t.Type, t)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", appName, err)
		return exitError
	}
	return exitOK
}

func (a *app) cmdAST(args []string) int {
	s := a.newFlagSet("ast")
	cfg, code, ok := a.parse(s, args)
	if !ok {
		return code
	}
	path, src, code, ok := a.readScript(s.fs)
	if !ok {
		return code
	}

	prog, err := parser.Compile(src, cfg.CompileOptions()...)
	if err != nil {
		a.report(path, src, err)
		return exitError
	}
	for _, stmt := range prog.Statements() {
		if _, err := pretty.Fprintf(a.stdout, "%# v\n", stmt); err != nil {
			fmt.Fprintf(a.stderr, "%s: %v\n", appName, err)
			return exitError
		}
	}
	return exitOK
}
