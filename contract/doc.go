// Package contract provides runtime assertion helpers for stating the
// preconditions, postconditions, and invariants an operation depends
// on.
//
// Require, Ensure, and Invariant turn a boolean condition into a
// *ViolationError carrying the violated side of the contract:
//
//	func Withdraw(acct *Account, amount int64) error {
//	    if err := contract.Require(amount > 0, "amount %d must be positive", amount); err != nil {
//	        return err
//	    }
//	    acct.Balance -= amount
//	    return contract.Ensure(acct.Balance >= 0, "balance %d overdrawn", acct.Balance)
//	}
//
// Check wraps a guard.Operation with hooks that run before the work and
// after it succeeds, so contracts ride through an executor stack
// unchanged:
//
//	op := contract.Check(charge, preAuth, postAudit)
//	err := executor.Execute(ctx, op)
//
// Every violation matches ErrViolation under errors.Is. A violation is
// a programming error, not a transient fault; callers that compose with
// a retrier should leave violations out of the retry classifier or
// mark them with guard.NonRetriable.
package contract
