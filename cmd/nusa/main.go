// Command nusa runs NusaLang scripts.
//
// Usage:
//
//	nusa [run] [flags] FILE     run a script
//	nusa tokens [flags] FILE    print the script's tokens
//	nusa ast [flags] FILE       print the script's syntax tree
//	nusa repl [flags]           start an interactive session
//	nusa version                print the version
//
// Settings are read from ./nusa.yaml when present, or from the file named by
// -config; command-line flags take precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sandrolain/nusa"
	"github.com/sandrolain/nusa/pkg/config"
	"github.com/sandrolain/nusa/pkg/types"
)

const appName = "nusa"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// app holds the process streams so commands can be exercised in tests.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	home   string
}

func main() {
	home, _ := os.UserHomeDir()
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		home:   home,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := a.main(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func (a *app) main(ctx context.Context, args []string) int {
	if len(args) < 1 {
		a.usage()
		return exitUsage
	}

	switch cmd := args[0]; cmd {
	case "run":
		return a.cmdRun(ctx, args[1:])
	case "tokens":
		return a.cmdTokens(args[1:])
	case "ast":
		return a.cmdAST(args[1:])
	case "repl":
		return a.cmdRepl(ctx, args[1:])
	case "version":
		fmt.Fprintln(a.stdout, nusa.Version())
		return exitOK
	case "-h", "--help", "help":
		a.usage()
		return exitOK
	default:
		// "nusa FILE" is short for "nusa run FILE".
		return a.cmdRun(ctx, args)
	}
}

func (a *app) usage() {
	fmt.Fprintf(a.stderr, `Usage:
  %[1]s [run] [flags] FILE   run a script
  %[1]s tokens [flags] FILE  print the script's tokens
  %[1]s ast [flags] FILE     print the script's syntax tree
  %[1]s repl [flags]         start an interactive session
  %[1]s version              print the version

Run "%[1]s run -h" for the list of flags.
`, appName)
}

// settings are the flags shared by every command.
type settings struct {
	fs            *flag.FlagSet
	configPath    string
	maxDepth      int
	maxNesting    int
	strictStrings bool
	debug         bool
}

func (a *app) newFlagSet(name string) *settings {
	s := &settings{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	s.fs.SetOutput(a.stderr)
	s.fs.StringVar(&s.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	s.fs.IntVar(&s.maxDepth, "max-depth", 0, "maximum function call depth")
	s.fs.IntVar(&s.maxNesting, "max-nesting", 0, "maximum syntactic nesting depth")
	s.fs.BoolVar(&s.strictStrings, "strict-strings", false, "reject string literals without a closing quote")
	s.fs.BoolVar(&s.debug, "debug", false, "log evaluation steps to stderr")
	return s
}

// load reads the config file and applies the flags that were set explicitly.
func (s *settings) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if s.configPath != "" {
		cfg, err = config.Load(s.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return nil, err
	}

	s.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-depth":
			cfg.MaxDepth = s.maxDepth
		case "max-nesting":
			cfg.MaxNesting = s.maxNesting
		case "strict-strings":
			cfg.StrictStrings = s.strictStrings
		case "debug":
			cfg.Debug = s.debug
		}
	})
	return cfg, nil
}

// parse parses args and loads the configuration. ok is false when the
// command should stop with the returned exit code.
func (a *app) parse(s *settings, args []string) (cfg *config.Config, code int, ok bool) {
	if err := s.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitOK, false
		}
		return nil, exitUsage, false
	}
	cfg, err := s.load()
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", appName, err)
		return nil, exitError, false
	}
	return cfg, exitOK, true
}

// logger returns the slog logger for cfg, writing text records to stderr.
func (a *app) logger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// readScript reads the single FILE argument of a command. ok is false when
// the command should stop with the returned exit code.
func (a *app) readScript(fs *flag.FlagSet) (path, src string, code int, ok bool) {
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "Usage: %s %s [flags] <filename.nusa>\n", appName, fs.Name())
		return "", "", exitUsage, false
	}
	path = fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", appName, err)
		return "", "", exitError, false
	}
	return path, string(data), exitOK, true
}

// report writes a diagnostic for err in the form
// "<Stage> Error: <message> (line L, column C)".
func (a *app) report(path, source string, err error) {
	var e *types.Error
	if !errors.As(err, &e) {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}

	loc := ""
	if e.Position >= 0 && source != "" {
		line, col := types.LineCol(source, e.Position)
		if path != "" {
			loc = fmt.Sprintf(" (%s:%d:%d)", path, line, col)
		} else {
			loc = fmt.Sprintf(" (line %d, column %d)", line, col)
		}
	}
	fmt.Fprintf(a.stderr, "%s Error: %s%s\n", e.Stage().Label(), e.Message, loc)
}
