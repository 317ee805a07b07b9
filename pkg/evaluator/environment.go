package evaluator

import (
	"fmt"
	"maps"
	"slices"
)

// Environment maps names to values for one call activation (or for the
// top level of a program). Variables and functions share the namespace:
// binding a name replaces whatever was bound before, of any kind.
type Environment struct {
	// bindings stores variable and function bindings
	bindings map[string]Value

	// depth is the number of call activations below the top level
	depth int
}

// NewEnvironment creates an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{
		bindings: make(map[string]Value),
		depth:    0,
	}
}

// Clone returns an independent copy of the environment for a new call
// activation. The callee sees every binding of the caller; nothing it binds
// is visible to the caller afterwards.
func (env *Environment) Clone() *Environment {
	return &Environment{
		bindings: maps.Clone(env.bindings),
		depth:    env.depth + 1,
	}
}

// Depth returns the call depth of the activation owning this environment.
func (env *Environment) Depth() int {
	return env.depth
}

// Set binds name to value, replacing any previous binding.
func (env *Environment) Set(name string, value Value) {
	env.bindings[name] = value
}

// Get retrieves the value bound to name.
func (env *Environment) Get(name string) (Value, bool) {
	value, ok := env.bindings[name]
	return value, ok
}

// Len returns the number of bindings.
func (env *Environment) Len() int {
	return len(env.bindings)
}

// Names returns the bound names in sorted order.
func (env *Environment) Names() []string {
	return slices.Sorted(maps.Keys(env.bindings))
}

// String returns a string representation of the environment.
func (env *Environment) String() string {
	return fmt.Sprintf("Environment{depth=%d, bindings=%d}", env.depth, len(env.bindings))
}
