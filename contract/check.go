package contract

import (
	"context"

	"github.com/jonwraymond/guardops/guard"
)

// Hook runs one side of a contract around an operation. Returning an
// error, typically built with Require or Ensure, fails the call.
type Hook func(ctx context.Context) error

// Check wraps op so that pre runs before the work and post runs after
// the work succeeds. A nil hook is skipped. A pre failure suppresses
// the work entirely, and a work failure suppresses post.
//
// The wrapped operation is an ordinary guard.Operation, so it can be
// handed to any guard or executor.
func Check(op guard.Operation, pre, post Hook) guard.Operation {
	return func(ctx context.Context) error {
		if pre != nil {
			if err := pre(ctx); err != nil {
				return err
			}
		}
		if err := op(ctx); err != nil {
			return err
		}
		if post != nil {
			return post(ctx)
		}
		return nil
	}
}
