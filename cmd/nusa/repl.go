package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sandrolain/nusa/pkg/config"
	"github.com/sandrolain/nusa/pkg/evaluator"
	"github.com/sandrolain/nusa/pkg/parser"
	"github.com/sandrolain/nusa/pkg/types"
)

const (
	banner     = "Welcome to NusaLang CLI Interpreter (Alpha)"
	promptMain = "nusa> "
	promptCont = "...> "
)

const replHelp = `REPL commands:
  :env     List the current bindings
  :reset   Forget every binding
  :help    Show this help
  :quit    Exit the REPL
Ctrl+C cancels input, Ctrl+D exits.
`

// lineReader is the part of *liner.State the REPL needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func (a *app) cmdRepl(ctx context.Context, args []string) int {
	s := a.newFlagSet("repl")
	cfg, code, ok := a.parse(s, args)
	if !ok {
		return code
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath(a.home)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	return a.repl(ctx, ln, cfg)
}

// repl runs the read-eval-print loop until end of input or :quit.
func (a *app) repl(ctx context.Context, ln lineReader, cfg *config.Config) int {
	fmt.Fprintln(a.stdout, banner)
	fmt.Fprintln(a.stdout, `Type :help for help, :quit to exit.`)

	ev := evaluator.New(cfg.EvalOptions(a.logger(cfg))...)
	session := ev.NewSession(a.stdout)
	copts := cfg.CompileOptions()

	for {
		e, ok := readEntry(ln, copts)
		if !ok {
			if e.err != nil {
				fmt.Fprintf(a.stderr, "%s: %v\n", appName, e.err)
				return exitError
			}
			fmt.Fprintln(a.stdout)
			return exitOK
		}

		src := e.src
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := a.replCommand(session, trimmed); quit {
				return exitOK
			}
			continue
		}

		if e.err != nil {
			a.report("", src, e.err)
			continue
		}
		if err := session.Exec(ctx, e.prog); err != nil {
			a.report("", src, err)
			if ctx.Err() != nil {
				return exitError
			}
		}
	}
}

// replCommand handles a ":" command and reports whether the REPL should exit.
func (a *app) replCommand(session *evaluator.Session, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":env":
		for _, name := range session.Names() {
			v, _ := session.Lookup(name)
			fmt.Fprintf(a.stdout, "%s = %s\n", name, describe(v))
		}
	case ":reset":
		session.Reset()
	case ":help":
		fmt.Fprint(a.stdout, replHelp)
	default:
		fmt.Fprintf(a.stdout, "unknown command %s. Type :help for help.\n", cmd)
	}
	return false
}

// describe renders a binding for :env. Strings are quoted so that they can
// be told apart from numbers.
func describe(v evaluator.Value) string {
	switch v := v.(type) {
	case evaluator.String:
		return fmt.Sprintf("%q", string(v))
	case *evaluator.Function:
		return fmt.Sprintf("func(%s)", strings.Join(v.Params, ", "))
	default:
		return evaluator.Format(v)
	}
}

// entry is one unit of REPL input: a command or a compiled program.
type entry struct {
	src  string
	prog *types.Program
	err  error // compile error, or a terminal error when ok is false
}

// readEntry reads lines until they form a complete program, i.e. until
// compiling them no longer fails for lack of input. ok is false at end of
// input or when the terminal fails.
func readEntry(ln lineReader, copts []parser.CompileOption) (entry, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			return entry{}, false
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl+C drops the pending input.
			b.Reset()
			continue
		case err != nil:
			return entry{err: err}, false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return entry{src: src}, true
		}
		prog, err := parser.Compile(src, copts...)
		// A blank line ends the entry even if it is incomplete.
		if isIncomplete(err) && strings.TrimSpace(line) != "" {
			continue
		}
		return entry{src: src, prog: prog, err: err}, true
	}
}

// isIncomplete reports whether err means the input stopped too early, so
// that more lines could complete it.
func isIncomplete(err error) bool {
	return types.IsCode(err, types.ErrUnexpectedEnd) || types.IsCode(err, types.ErrStringNotClosed)
}
