//go:build js && wasm

// Command nusa-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `nusa` object with the following API:
//
//	nusa.version()         → string
//	nusa.run(source)       → { output: [...], error?, stage? }
//	nusa.compile(source)   → { run() → { output: [...], error?, stage? } }
//	                         or { output: [], error, stage } if compilation fails
//
// "output" holds one entry per print statement. A script error is reported
// through "error" and "stage" instead of being thrown, so the Go runtime keeps
// serving later calls.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o nusa.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	require('./wasm_exec.js')
//	const go = new Go()
//	const { instance } = await WebAssembly.instantiate(fs.readFileSync('nusa.wasm'), go.importObject)
//	go.run(instance)
//	const res = nusa.run("print 'a' + 'b';")
//	if (res.error) throw new Error(res.error)
//	console.log(res.output) // [ 'ab' ]
package main

import (
	"context"
	"syscall/js"

	"github.com/sandrolain/nusa"
	"github.com/sandrolain/nusa/pkg/wasmio"
)

// toJS converts a response into a plain JS object.
func toJS(r wasmio.Response) js.Value {
	output := make([]interface{}, len(r.Output))
	for i, line := range r.Output {
		output[i] = line
	}
	obj := map[string]interface{}{"output": output}
	if r.Failed() {
		obj["error"] = r.Error
		if r.Stage != "" {
			obj["stage"] = r.Stage
		}
	}
	return js.ValueOf(obj)
}

// sourceArg returns the source argument of fn, or a failed response.
func sourceArg(fn string, args []js.Value) (string, *wasmio.Response) {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		res := wasmio.Fail(fn + " requires 1 argument: source (string)")
		return "", &res
	}
	return args[0].String(), nil
}

// jsRun implements nusa.run(source).
func jsRun(_ js.Value, args []js.Value) interface{} {
	src, bad := sourceArg("nusa.run", args)
	if bad != nil {
		return toJS(*bad)
	}
	return toJS(wasmio.Run(context.Background(), wasmio.Request{Source: src}))
}

// jsCompile implements nusa.compile(source).
func jsCompile(_ js.Value, args []js.Value) interface{} {
	src, bad := sourceArg("nusa.compile", args)
	if bad != nil {
		return toJS(*bad)
	}
	ev := wasmio.Request{}.Evaluator()
	prog, res := wasmio.Compile(ev, src)
	if prog == nil {
		return toJS(res)
	}

	runFn := js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		return toJS(wasmio.Eval(context.Background(), ev, prog))
	})
	return js.ValueOf(map[string]interface{}{"run": runFn})
}

func main() {
	api := map[string]interface{}{
		"run":     js.FuncOf(jsRun),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return nusa.Version()
		}),
	}
	js.Global().Set("nusa", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
