package guard

import "context"

// Operation is a unit of work wrapped by a guard.
type Operation func(ctx context.Context) error

// Guard intercepts a call to decide admission or retry before
// delegating to the wrapped operation.
//
// Contract: implementations must be safe for concurrent use, must run
// the operation outside any internal lock, and must report the outcome
// to the immediate caller without swallowing errors.
type Guard interface {
	Execute(ctx context.Context, op Operation) error
}

// Chain composes guards so that the first wraps the second, the second
// wraps the third, and so on down to the operation itself.
func Chain(guards ...Guard) Guard {
	return chain(guards)
}

type chain []Guard

func (c chain) Execute(ctx context.Context, op Operation) error {
	execute := op
	for i := len(c) - 1; i >= 0; i-- {
		g := c[i]
		inner := execute
		execute = func(ctx context.Context) error {
			return g.Execute(ctx, inner)
		}
	}
	return execute(ctx)
}

// Run executes value-returning work through a guard. The returned value
// is the zero value of T whenever the guard reports an error.
func Run[T any](ctx context.Context, g Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
