package evaluator

import (
	"context"

	"github.com/sandrolain/nusa/pkg/types"
)

// evalBinary evaluates a binary operation. Both operands are evaluated,
// left first, before the operand kinds are inspected.
func (x *execution) evalBinary(ctx context.Context, n *types.Binary, env *Environment) (Value, error) {
	left, err := x.evalExpr(ctx, n.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := x.evalExpr(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return arithmetic(n.Op, l, r), nil
		}
	case String:
		if r, ok := right.(String); ok {
			if n.Op != types.OpAdd {
				return nil, types.Errorf(types.ErrRuntime, n.Position,
					"Runtime error: Invalid operation for strings: '%s'", n.Op)
			}
			return l + r, nil
		}
	case *Function:
		// functions are never valid operands
	}

	return nil, types.Errorf(types.ErrRuntime, n.Position,
		"Runtime error: Expected numbers, got %s %s %s", left.Kind(), n.Op, right.Kind())
}

// arithmetic applies op to two numbers with IEEE 754 semantics;
// division by zero yields an infinity or NaN.
func arithmetic(op types.BinaryOp, l, r Number) Number {
	switch op {
	case types.OpAdd:
		return l + r
	case types.OpSub:
		return l - r
	case types.OpMul:
		return l * r
	case types.OpDiv:
		return l / r
	default:
		panic("evaluator: unknown binary operator " + op.String())
	}
}
