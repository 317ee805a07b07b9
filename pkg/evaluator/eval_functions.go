package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/nusa/pkg/types"
)

// evalCall invokes a user-defined function.
//
// The callee runs against a copy of the caller's environment with the
// parameters bound to the argument values, so it can read everything the
// caller sees but cannot change any of the caller's bindings. A call has no
// result of its own and always evaluates to the number zero.
func (x *execution) evalCall(ctx context.Context, n *types.Call, env *Environment) (Value, error) {
	callee, ok := env.Get(n.Callee)
	if !ok {
		return nil, types.Errorf(types.ErrUndefinedFunction, n.Position, "Undefined function: '%s'", n.Callee).
			WithToken(n.Callee)
	}

	var fn *Function
	switch c := callee.(type) {
	case *Function:
		fn = c
	case Number, String:
		return nil, types.Errorf(types.ErrRuntime, n.Position,
			"Runtime error: Cannot call non-function '%s' (%s)", n.Callee, callee.Kind())
	default:
		return nil, fmt.Errorf("unsupported value type: %T", callee)
	}

	if fn.Arity() != len(n.Args) {
		return nil, types.Errorf(types.ErrArgumentCountMismatch, n.Position,
			"Function argument count mismatch: '%s' expects %d, got %d", n.Callee, fn.Arity(), len(n.Args)).
			WithToken(n.Callee)
	}

	child := env.Clone()
	if x.opts.MaxDepth > 0 && child.Depth() > x.opts.MaxDepth {
		return nil, types.Errorf(types.ErrStackOverflow, n.Position,
			"Runtime error: Maximum recursion depth of %d exceeded calling '%s'", x.opts.MaxDepth, n.Callee)
	}

	// Arguments see the caller's environment, never earlier parameters.
	for i, arg := range n.Args {
		v, err := x.evalExpr(ctx, arg, env)
		if err != nil {
			return nil, err
		}
		child.Set(fn.Params[i], v)
	}

	if x.opts.Debug {
		x.logger.Debug("calling function",
			"name", n.Callee,
			"arity", fn.Arity(),
			"depth", child.Depth())
	}

	if err := x.execBlock(ctx, fn.Body, child); err != nil {
		return nil, err
	}
	return Number(0), nil
}
