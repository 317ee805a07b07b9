package wasmio_test

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/sandrolain/nusa/pkg/types"
	"github.com/sandrolain/nusa/pkg/wasmio"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		req    wasmio.Request
		output []string
		stage  types.Stage
		code   types.ErrorCode
	}{
		{
			name:   "success",
			req:    wasmio.Request{Source: "let x = 1 + 2 * 3; print x; print 'a' + 'b';"},
			output: []string{"7", "ab"},
		},
		{
			name:   "no output",
			req:    wasmio.Request{Source: "let x = 1;"},
			output: []string{},
		},
		{
			name:   "multi-line value is one entry",
			req:    wasmio.Request{Source: "print 'a\\nb';"},
			output: []string{"a\nb"},
		},
		{
			name:   "lexing error",
			req:    wasmio.Request{Source: "let x = 1.2.3;"},
			output: []string{},
			stage:  types.StageLex,
			code:   types.ErrInvalidNumber,
		},
		{
			name:   "parse error",
			req:    wasmio.Request{Source: "let = 1"},
			output: []string{},
			stage:  types.StageParse,
			code:   types.ErrUnexpectedToken,
		},
		{
			name:   "runtime error keeps earlier output",
			req:    wasmio.Request{Source: "print 1; print y; print 2;"},
			output: []string{"1"},
			stage:  types.StageRuntime,
			code:   types.ErrUndefinedVariable,
		},
		{
			name:   "strict strings",
			req:    wasmio.Request{Source: "print 'open", StrictStrings: true},
			output: []string{},
			stage:  types.StageLex,
			code:   types.ErrStringNotClosed,
		},
		{
			name:   "recursion limit",
			req:    wasmio.Request{Source: "func f() { f(); } f();", MaxDepth: 20},
			output: []string{},
			stage:  types.StageRuntime,
			code:   types.ErrStackOverflow,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := wasmio.Run(context.Background(), test.req)
			if !reflect.DeepEqual(res.Output, test.output) {
				t.Errorf("output = %q, want %q", res.Output, test.output)
			}
			if test.code == "" {
				if res.Failed() {
					t.Fatalf("unexpected error %q", res.Error)
				}
				return
			}
			if !res.Failed() {
				t.Fatal("expected an error")
			}
			if res.Stage != string(test.stage) {
				t.Errorf("stage = %q, want %q", res.Stage, test.stage)
			}
			if !strings.Contains(res.Error, string(test.code)) {
				t.Errorf("error = %q, want code %s", res.Error, test.code)
			}
		})
	}
}

// A failing script must leave the evaluator usable for later runs.
func TestCompiledProgramSurvivesErrors(t *testing.T) {
	ev := wasmio.Request{MaxDepth: 20}.Evaluator()
	prog, res := wasmio.Compile(ev, "print 'a'; print missing;")
	if prog == nil {
		t.Fatalf("compile failed: %q", res.Error)
	}
	for i := 0; i < 3; i++ {
		res := wasmio.Eval(context.Background(), ev, prog)
		if res.Stage != string(types.StageRuntime) || !reflect.DeepEqual(res.Output, []string{"a"}) {
			t.Fatalf("run %d: %+v", i, res)
		}
	}

	ok, _ := wasmio.Compile(ev, "print 'ok';")
	if res := wasmio.Eval(context.Background(), ev, ok); res.Failed() || res.Output[0] != "ok" {
		t.Errorf("after errors: %+v", res)
	}
}

func TestCompileError(t *testing.T) {
	prog, res := wasmio.Compile(wasmio.Request{}.Evaluator(), "print (1")
	if prog != nil {
		t.Fatal("expected no program")
	}
	if res.Stage != string(types.StageParse) || res.Output == nil {
		t.Errorf("unexpected response %+v", res)
	}
}

func TestResponseJSON(t *testing.T) {
	data, err := json.Marshal(wasmio.Run(context.Background(), wasmio.Request{Source: "let a = 1;"}))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"output":[]}` {
		t.Errorf("success JSON = %s", data)
	}

	data, err = json.Marshal(wasmio.Fail("invalid request JSON: EOF"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"output":[],"error":"invalid request JSON: EOF"}` {
		t.Errorf("failure JSON = %s", data)
	}
}

func TestRequestJSON(t *testing.T) {
	var req wasmio.Request
	if err := json.Unmarshal([]byte(`{"source":"print 1;","max_depth":5,"strict_strings":true}`), &req); err != nil {
		t.Fatal(err)
	}
	want := wasmio.Request{Source: "print 1;", MaxDepth: 5, StrictStrings: true}
	if req != want {
		t.Errorf("got %+v, want %+v", req, want)
	}
}
