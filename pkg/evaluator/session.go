package evaluator

import (
	"context"
	"io"

	"github.com/sandrolain/nusa/pkg/types"
)

// Session evaluates a series of programs against one persistent top-level
// environment, as an interactive prompt does. Bindings made by statements
// that completed before an error are kept.
//
// A Session is not safe for concurrent use.
type Session struct {
	ev  *Evaluator
	env *Environment
	out io.Writer
}

// NewSession creates a session with an empty environment.
func (e *Evaluator) NewSession(out io.Writer) *Session {
	return &Session{
		ev:  e,
		env: NewEnvironment(),
		out: out,
	}
}

// Exec executes prog in the session's environment.
func (s *Session) Exec(ctx context.Context, prog *types.Program) error {
	env, err := s.ev.eval(ctx, prog, s.env, s.out)
	s.env = env
	return err
}

// Run compiles source and executes it in the session's environment.
func (s *Session) Run(ctx context.Context, source string) error {
	prog, err := s.ev.Compile(source)
	if err != nil {
		return err
	}
	return s.Exec(ctx, prog)
}

// Lookup returns the value currently bound to name.
func (s *Session) Lookup(name string) (Value, bool) {
	return s.env.Get(name)
}

// Names returns the names bound in the session, sorted.
func (s *Session) Names() []string {
	return s.env.Names()
}

// Reset discards every binding.
func (s *Session) Reset() {
	s.env = NewEnvironment()
}
