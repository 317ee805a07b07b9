package types

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func TestErrorCodeStage(t *testing.T) {
	tests := []struct {
		code  ErrorCode
		stage Stage
		label string
	}{
		{ErrInvalidCharacter, StageLex, "Lexing"},
		{ErrStringNotClosed, StageLex, "Lexing"},
		{ErrUnexpectedToken, StageParse, "Parse"},
		{ErrNestingTooDeep, StageParse, "Parse"},
		{ErrUndefinedVariable, StageRuntime, "Runtime"},
		{ErrStackOverflow, StageRuntime, "Runtime"},
		{ErrorCode("X9999"), StageUnknown, "Internal"},
	}
	for _, test := range tests {
		if got := test.code.Stage(); got != test.stage {
			t.Errorf("%s.Stage() = %q, want %q", test.code, got, test.stage)
		}
		if got := test.code.Stage().Label(); got != test.label {
			t.Errorf("%s label = %q, want %q", test.code, got, test.label)
		}
	}
}

func TestErrorString(t *testing.T) {
	e := Errorf(ErrUndefinedVariable, 12, "Undefined variable: '%s'", "y")
	if got, want := e.Error(), "R0301 at position 12: Undefined variable: 'y'"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	e = NewError(ErrUnexpectedEnd, "Unexpected end of file", -1)
	if got, want := e.Error(), "S0202: Unexpected end of file"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorWrapping(t *testing.T) {
	_, cause := strconv.ParseFloat("1.2.3", 64)
	e := NewError(ErrInvalidNumber, "Invalid number format: '1.2.3'", 0).
		WithToken("1.2.3").
		WithCause(cause)

	if !errors.Is(e, strconv.ErrSyntax) {
		t.Error("expected the cause to be reachable with errors.Is")
	}
	if e.Token != "1.2.3" {
		t.Errorf("Token = %q", e.Token)
	}

	wrapped := fmt.Errorf("run: %w", e)
	if !IsCode(wrapped, ErrInvalidNumber) {
		t.Error("IsCode should see through wrapping")
	}
	if IsCode(wrapped, ErrInvalidCharacter) {
		t.Error("IsCode matched the wrong code")
	}
	if got := StageOf(wrapped); got != StageLex {
		t.Errorf("StageOf = %q, want %q", got, StageLex)
	}
	if got := StageOf(errors.New("plain")); got != StageUnknown {
		t.Errorf("StageOf(plain) = %q, want unknown", got)
	}
	if IsCode(nil, ErrInvalidNumber) {
		t.Error("IsCode(nil) should be false")
	}
}

func TestLineCol(t *testing.T) {
	src := "let a = 1;\nprint é + b;\n"
	tests := []struct {
		offset    int
		line, col int
	}{
		{-1, 1, 1},
		{0, 1, 1},
		{4, 1, 5},
		{10, 1, 11},
		{11, 2, 1},
		{17, 2, 7},
		{20, 2, 9}, // é is two bytes but one column
		{1000, 3, 1},
	}
	for _, test := range tests {
		line, col := LineCol(src, test.offset)
		if line != test.line || col != test.col {
			t.Errorf("LineCol(%d) = %d:%d, want %d:%d", test.offset, line, col, test.line, test.col)
		}
	}
}

func TestProgram(t *testing.T) {
	stmts := []Stmt{
		&LetStmt{Name: "x", Value: &NumberLit{Value: 1, Position: 8}},
		&PrintStmt{Value: &Ident{Name: "x", Position: 17}, Position: 11},
	}
	p := NewProgram(stmts, "")
	if p.Len() != 2 || p.Source() != "" {
		t.Fatalf("got len %d source %q", p.Len(), p.Source())
	}

	src := "let x = 1; print x"
	q := p.WithSource(src)
	if q == p {
		t.Fatal("WithSource should return a copy")
	}
	if q.String() != src || p.Source() != "" {
		t.Errorf("source not applied to the copy only: %q / %q", q.String(), p.Source())
	}
	if q.Statements()[1].Type() != NodePrint || q.Statements()[1].Pos() != 11 {
		t.Errorf("unexpected second statement %#v", q.Statements()[1])
	}
}

func TestBinaryOpString(t *testing.T) {
	for op, want := range map[BinaryOp]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", 0: "?"} {
		if got := op.String(); got != want {
			t.Errorf("BinaryOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}
