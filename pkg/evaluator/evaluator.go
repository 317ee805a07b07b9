// Package evaluator implements the NusaLang tree-walking interpreter.
//
// The evaluator receives a parsed [types.Program] and executes its statements
// in order against a fresh [Environment], writing one line to the output sink
// for every print statement. It supports:
//   - Variable and function bindings in a single namespace
//   - Number arithmetic and string concatenation
//   - Calls with copy-on-call scoping (callees never mutate the caller)
//   - A call depth limit that fails cleanly instead of overflowing the stack
//   - Timeout and cancellation via context.Context
//
// # Example
//
//	prog, err := parser.Compile("print 1 + 2;")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ev := evaluator.New()
//	if err := ev.Eval(ctx, prog, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// The first error of any kind aborts the whole program.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sandrolain/nusa/pkg/cache"
	"github.com/sandrolain/nusa/pkg/parser"
	"github.com/sandrolain/nusa/pkg/types"
)

// DefaultMaxDepth is the default limit on nested call activations.
const DefaultMaxDepth = 10000

// Evaluator executes NusaLang programs.
// An Evaluator holds no per-run state and is safe for concurrent use.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	cache  *cache.Cache // non-nil when Caching is enabled
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables compiled program caching for Run.
	// When true, programs are cached by source text.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached programs.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom program cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// MaxDepth limits nested call activations. Values <= 0 disable the limit.
	MaxDepth int
	// Timeout sets the evaluation timeout. Zero means no timeout.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// CompileOptions are passed to the parser by Run.
	CompileOptions []parser.CompileOption
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Caching:  false,
		MaxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		size := options.CacheSize
		if size <= 0 {
			size = 256
		}
		c = cache.New(size)
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		cache:  c,
	}
}

// Cache returns the program cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Eval executes prog against a fresh top-level environment, writing printed
// values to out.
func (e *Evaluator) Eval(ctx context.Context, prog *types.Program, out io.Writer) error {
	_, err := e.eval(ctx, prog, NewEnvironment(), out)
	return err
}

// Run compiles source, through the cache when enabled, and evaluates it.
func (e *Evaluator) Run(ctx context.Context, source string, out io.Writer) error {
	prog, err := e.Compile(source)
	if err != nil {
		return err
	}
	return e.Eval(ctx, prog, out)
}

// Compile compiles source with the evaluator's compile options, consulting
// the program cache when enabled.
func (e *Evaluator) Compile(source string) (*types.Program, error) {
	compile := func() (*types.Program, error) {
		return parser.Compile(source, e.opts.CompileOptions...)
	}
	if e.cache == nil {
		return compile()
	}
	return e.cache.GetOrCompile(source, compile)
}

// eval runs the top-level statements of prog against env.
func (e *Evaluator) eval(ctx context.Context, prog *types.Program, env *Environment, out io.Writer) (*Environment, error) {
	if prog == nil {
		return env, fmt.Errorf("invalid program")
	}
	if out == nil {
		out = io.Discard
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	x := &execution{Evaluator: e, out: out}
	if err := x.execBlock(ctx, prog.Statements(), env); err != nil {
		if e.opts.Debug {
			e.logger.Debug("evaluation failed", "error", err)
		}
		return env, err
	}
	return env, nil
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables compiled program caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached programs.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external program cache.
// The evaluator will use this cache regardless of the Caching flag.
// Programs are cached by source text only, so evaluators sharing a cache
// should use the same compile options.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum call depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithCompileOptions sets the parser options used by Run and Compile.
func WithCompileOptions(copts ...parser.CompileOption) EvalOption {
	return func(opts *EvalOptions) {
		opts.CompileOptions = append(opts.CompileOptions, copts...)
	}
}
