// Package wasihost runs the WebAssembly (wasip1) build of the interpreter
// in-process with wazero.
//
// The module speaks the protocol of cmd/wasm/wasi: one JSON request on stdin,
// one JSON response on stdout. The module is compiled once per Host and
// instantiated afresh for every Run, so runs share no state.
//
// Build the module with:
//
//	GOOS=wasip1 GOARCH=wasm go build -o nusa.wasm ./cmd/wasm/wasi/
package wasihost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// Request is the JSON document the module reads from stdin.
type Request struct {
	Source        string `json:"source"`
	MaxDepth      int    `json:"max_depth,omitempty"`
	StrictStrings bool   `json:"strict_strings,omitempty"`
}

// Result is the JSON document the module writes to stdout.
type Result struct {
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
	Stage  string   `json:"stage,omitempty"`
}

// Err returns the script error reported by the module, or nil.
func (r *Result) Err() error {
	if r.Error == "" {
		return nil
	}
	return &ScriptError{Stage: r.Stage, Message: r.Error}
}

// ScriptError is a lexing, parse or runtime error reported by the module.
type ScriptError struct {
	Stage   string
	Message string
}

func (e *ScriptError) Error() string {
	return e.Message
}

// Host owns a wazero runtime with the compiled interpreter module.
type Host struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// New compiles wasm and prepares a runtime with WASI preview1 imports.
func New(ctx context.Context, wasm []byte) (*Host, error) {
	r := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasihost: instantiate wasi: %w", err)
	}
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasihost: compile module: %w", err)
	}
	return &Host{runtime: r, compiled: compiled}, nil
}

// Open reads and compiles the module at path.
func Open(ctx context.Context, path string) (*Host, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wasihost: %w", err)
	}
	return New(ctx, wasm)
}

// Run executes source in a fresh module instance.
// A script error is reported through Result.Err, not through the returned
// error, which is reserved for failures of the host or the module itself.
func (h *Host) Run(ctx context.Context, req Request) (*Result, error) {
	in, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("wasihost: encode request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	config := wazero.NewModuleConfig().
		WithName("").
		WithArgs("nusa").
		WithStdin(bytes.NewReader(in)).
		WithStdout(&stdout).
		WithStderr(&stderr)

	mod, err := h.runtime.InstantiateModule(ctx, h.compiled, config)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("wasihost: run module: %w", err)
		}
		// Exit code 1 signals a script error; the response still describes it.
		if code := exitErr.ExitCode(); code > 1 {
			return nil, fmt.Errorf("wasihost: module exited with code %d: %s", code, stderr.String())
		}
	}

	var res Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, fmt.Errorf("wasihost: decode response %q: %w", stdout.String(), err)
	}
	return &res, nil
}

// Close releases the runtime and every module compiled in it.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}
