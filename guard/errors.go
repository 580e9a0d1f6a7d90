package guard

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for guard rejections. The typed errors below match
// these through errors.Is while carrying call-site detail.
var (
	// ErrCircuitOpen is returned when a breaker rejects a call.
	ErrCircuitOpen = errors.New("guard: circuit breaker is open")

	// ErrRetriesExhausted is returned when the retry budget is spent.
	ErrRetriesExhausted = errors.New("guard: retries exhausted")

	// ErrNonRetriable marks errors that must never be retried.
	ErrNonRetriable = errors.New("guard: non-retriable error")

	// ErrThrottled is returned when a throttle rejects a call.
	ErrThrottled = errors.New("guard: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("guard: bulkhead at capacity")

	// ErrTimeout is returned when an operation exceeds its time budget.
	ErrTimeout = errors.New("guard: operation timed out")
)

// RetriesExhaustedError reports that every permitted attempt failed. It
// wraps the last observed error.
type RetriesExhaustedError struct {
	// Attempts is the total number of invocations performed, including
	// the initial call.
	Attempts int
	// Err is the error returned by the final attempt.
	Err error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("guard: retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

func (e *RetriesExhaustedError) Is(target error) bool { return target == ErrRetriesExhausted }

// NonRetriableError wraps an error that a Retrier must propagate on
// first occurrence regardless of its classifier.
type NonRetriableError struct {
	Err error
}

func (e *NonRetriableError) Error() string {
	return fmt.Sprintf("guard: non-retriable: %v", e.Err)
}

func (e *NonRetriableError) Unwrap() error { return e.Err }

func (e *NonRetriableError) Is(target error) bool { return target == ErrNonRetriable }

// NonRetriable marks err so that no Retrier will retry it. A nil err
// stays nil.
func NonRetriable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetriableError{Err: err}
}

// CircuitOpenError reports a call rejected by a breaker without invoking
// the wrapped work.
type CircuitOpenError struct {
	// Name identifies the breaker.
	Name string
	// State is the breaker state at rejection time: StateOpen, or
	// StateHalfOpen when the probe slot was already taken.
	State State
	// Failures is the consecutive-failure count at rejection time.
	Failures int
	// RetryAfter is the remaining cool-down when State is StateOpen.
	RetryAfter time.Duration
}

func (e *CircuitOpenError) Error() string {
	if e.State == StateHalfOpen {
		return fmt.Sprintf("guard: circuit breaker %q is half-open with a probe in flight", e.Name)
	}
	return fmt.Sprintf("guard: circuit breaker %q is open (failures=%d, retry after %s)", e.Name, e.Failures, e.RetryAfter)
}

func (e *CircuitOpenError) Is(target error) bool { return target == ErrCircuitOpen }

// ThrottledError reports a call rejected by a throttle in reject mode.
type ThrottledError struct {
	// Name identifies the throttle.
	Name string
	// Wait estimates how long until a token would have been available.
	Wait time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("guard: throttle %q rejected call (token in %s)", e.Name, e.Wait)
}

func (e *ThrottledError) Is(target error) bool { return target == ErrThrottled }

// BulkheadFullError reports a call rejected because too many executions
// were already in flight.
type BulkheadFullError struct {
	// Name identifies the bulkhead.
	Name string
	// Active is the in-flight count at rejection time.
	Active int
}

func (e *BulkheadFullError) Error() string {
	return fmt.Sprintf("guard: bulkhead %q at capacity (%d active)", e.Name, e.Active)
}

func (e *BulkheadFullError) Is(target error) bool { return target == ErrBulkheadFull }

// TimeoutError reports that the wrapped work exceeded its time budget.
type TimeoutError struct {
	// Name identifies the timeout guard.
	Name string
	// After is the budget that was exceeded.
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("guard: operation %q timed out after %s", e.Name, e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
