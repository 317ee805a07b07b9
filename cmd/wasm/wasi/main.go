//go:build wasip1

// Command nusa-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "source": "<script>", "max_depth": 100, "strict_strings": false }
//	stdout: { "output": ["line", ...] }                                on success
//	        { "output": [...], "error": "<message>", "stage": "<stage>" } on failure (exit code 1)
//
// "output" holds one entry per print statement; values printed before a
// runtime error are still reported.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o nusa.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"source":"print 1 + 2;"}' | wasmtime nusa.wasm
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sandrolain/nusa/pkg/wasmio"
)

func writeResponse(r wasmio.Response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req wasmio.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(wasmio.Fail("invalid request JSON: "+err.Error()), 2)
	}

	res := wasmio.Run(context.Background(), req)
	if res.Failed() {
		writeResponse(res, 1)
	}
	writeResponse(res, 0)
}
