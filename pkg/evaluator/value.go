package evaluator

import (
	"math"
	"slices"
	"strconv"

	"github.com/sandrolain/nusa/pkg/types"
)

// Kind identifies the variant of a runtime Value.
type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindString
	KindFunction
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of variants is closed:
// Number, String and *Function.
type Value interface {
	Kind() Kind
	value()
}

// Number is a 64-bit floating point value.
type Number float64

// String is a text value.
type String string

// Function is a user-defined function. It owns its parameter list and refers
// to its (immutable) body; it captures nothing from the defining scope.
type Function struct {
	Name   string
	Params []string
	Body   []types.Stmt
}

// NewFunction builds a function value from a definition.
func NewFunction(def *types.FuncDef) *Function {
	return &Function{
		Name:   def.Name,
		Params: slices.Clone(def.Params),
		Body:   def.Body,
	}
}

// Arity returns the number of declared parameters.
func (f *Function) Arity() int {
	return len(f.Params)
}

func (Number) Kind() Kind    { return KindNumber }
func (String) Kind() Kind    { return KindString }
func (*Function) Kind() Kind { return KindFunction }

func (Number) value()    {}
func (String) value()    {}
func (*Function) value() {}

// FunctionPlaceholder is the printed form of a function value.
const FunctionPlaceholder = "<function>"

// Format returns the printed form of v: numbers in plain decimal notation
// without exponent, strings verbatim, functions as FunctionPlaceholder.
func Format(v Value) string {
	switch v := v.(type) {
	case Number:
		return formatNumber(float64(v))
	case String:
		return string(v)
	case *Function:
		return FunctionPlaceholder
	default:
		return FunctionPlaceholder
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
