package evaluator

import (
	"context"
	"fmt"
	"io"

	"github.com/sandrolain/nusa/pkg/types"
)

// execution carries the state of one Eval call: the evaluator configuration
// and the output sink. Environments are passed explicitly.
type execution struct {
	*Evaluator
	out io.Writer
}

// execBlock executes statements in order, stopping at the first error.
func (x *execution) execBlock(ctx context.Context, stmts []types.Stmt, env *Environment) error {
	for _, stmt := range stmts {
		if err := x.execStmt(ctx, stmt, env); err != nil {
			return err
		}
	}
	return nil
}

// execStmt executes a single statement against env.
func (x *execution) execStmt(ctx context.Context, stmt types.Stmt, env *Environment) error {
	// Check context cancellation
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if x.opts.Debug {
		x.logger.Debug("executing statement",
			"type", stmt.Type(),
			"position", stmt.Pos(),
			"depth", env.Depth())
	}

	switch s := stmt.(type) {
	case *types.LetStmt:
		v, err := x.evalExpr(ctx, s.Value, env)
		if err != nil {
			return err
		}
		env.Set(s.Name, v)
		return nil

	case *types.PrintStmt:
		v, err := x.evalExpr(ctx, s.Value, env)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(x.out, Format(v)); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil

	case *types.ExprStmt:
		_, err := x.evalExpr(ctx, s.X, env)
		return err

	case *types.FuncDef:
		env.Set(s.Name, NewFunction(s))
		return nil

	default:
		return fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

// evalExpr evaluates an expression against env.
func (x *execution) evalExpr(ctx context.Context, expr types.Expr, env *Environment) (Value, error) {
	switch n := expr.(type) {
	case *types.NumberLit:
		return Number(n.Value), nil
	case *types.StringLit:
		return String(n.Value), nil
	case *types.Ident:
		return x.evalIdent(n, env)
	case *types.Binary:
		return x.evalBinary(ctx, n, env)
	case *types.Call:
		return x.evalCall(ctx, n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", expr)
	}
}

// evalIdent looks up a variable reference.
func (x *execution) evalIdent(n *types.Ident, env *Environment) (Value, error) {
	v, ok := env.Get(n.Name)
	if !ok {
		return nil, types.Errorf(types.ErrUndefinedVariable, n.Position, "Undefined variable: '%s'", n.Name).
			WithToken(n.Name)
	}
	return v, nil
}
