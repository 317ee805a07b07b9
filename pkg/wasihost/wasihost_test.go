package wasihost

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandrolain/nusa"
	"github.com/sandrolain/nusa/pkg/evaluator"
	"github.com/sandrolain/nusa/pkg/types"
)

// modulePath locates a prebuilt WASI module, from NUSA_WASM or the default
// build location.
func modulePath(t *testing.T) string {
	t.Helper()
	path := os.Getenv("NUSA_WASM")
	if path == "" {
		path = filepath.Join("..", "..", "cmd", "wasm", "wasi", "nusa.wasm")
	}
	if _, err := os.Stat(path); err != nil {
		t.Skipf("WASI module not built (GOOS=wasip1 GOARCH=wasm go build -o %s ./cmd/wasm/wasi/)", path)
	}
	return path
}

func TestResultErr(t *testing.T) {
	ok := &Result{Output: []string{"1"}}
	if ok.Err() != nil {
		t.Errorf("Err() = %v, want nil", ok.Err())
	}

	failed := &Result{Error: "R0301 at position 6: Undefined variable: 'y'", Stage: string(types.StageRuntime)}
	err := failed.Err()
	se, isScript := err.(*ScriptError)
	if !isScript {
		t.Fatalf("Err() = %T, want *ScriptError", err)
	}
	if se.Stage != "runtime" || se.Error() != failed.Error {
		t.Errorf("unexpected script error %+v", se)
	}
}

func TestOpenMissingModule(t *testing.T) {
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "none.wasm")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestNewInvalidModule(t *testing.T) {
	if _, err := New(context.Background(), []byte("not wasm")); err == nil {
		t.Fatal("expected a compile error")
	}
}

// TestParity runs the same scripts natively and in the WASI build and
// compares output and errors.
func TestParity(t *testing.T) {
	ctx := context.Background()
	host, err := Open(ctx, modulePath(t))
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close(ctx)

	scripts := []string{
		"let x = 1 + 2 * 3; print x;",
		"print 'a' + 'b'; print '';",
		"func f(a, b) { print a / b; } f(1, 0); f(0, 0); f(1, 4);",
		"let x = 1; func f() { let x = 2; } f(); print x;",
		"print 1; print y; print 2;",
		"print 'a' - 'b';",
		"func f(a) {} f();",
		"let x = 1.2.3;",
		"let = 1",
		"print 'multi\nline';",
	}

	for _, src := range scripts {
		t.Run(src, func(t *testing.T) {
			var native bytes.Buffer
			nativeErr := nusa.Run(ctx, src, &native, evaluator.WithMaxDepth(50))

			res, err := host.Run(ctx, Request{Source: src, MaxDepth: 50})
			if err != nil {
				t.Fatal(err)
			}

			var want []string
			if s := native.String(); s != "" {
				want = strings.Split(strings.TrimSuffix(s, "\n"), "\n")
			}
			if strings.Join(res.Output, "\n") != strings.Join(want, "\n") {
				t.Errorf("output = %q, native %q", res.Output, want)
			}

			wasmErr := res.Err()
			switch {
			case nativeErr == nil && wasmErr == nil:
			case nativeErr == nil || wasmErr == nil:
				t.Errorf("error mismatch: wasm %v, native %v", wasmErr, nativeErr)
			default:
				if wasmErr.Error() != nativeErr.Error() {
					t.Errorf("error = %q, native %q", wasmErr.Error(), nativeErr.Error())
				}
				if res.Stage != string(types.StageOf(nativeErr)) {
					t.Errorf("stage = %q, native %q", res.Stage, types.StageOf(nativeErr))
				}
			}
		})
	}
}

func TestRecursionLimitInModule(t *testing.T) {
	ctx := context.Background()
	host, err := Open(ctx, modulePath(t))
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close(ctx)

	res, err := host.Run(ctx, Request{Source: "func f() { f(); } f();", MaxDepth: 20})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != string(types.StageRuntime) || !strings.Contains(res.Error, string(types.ErrStackOverflow)) {
		t.Errorf("unexpected result %+v", res)
	}
}
