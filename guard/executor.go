package guard

import (
	"context"
	"time"
)

// Executor composes the guards in this package into one stack.
type Executor struct {
	throttle *Throttle
	bulkhead *Bulkhead
	breaker  *CircuitBreaker
	retrier  *Retrier
	timeout  *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from the given guards. Unconfigured
// layers are skipped.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithThrottle adds rate limiting to the executor.
func WithThrottle(t *Throttle) ExecutorOption {
	return func(e *Executor) {
		e.throttle = t
	}
}

// WithBulkhead adds concurrency capping to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retrier) ExecutorOption {
	return func(e *Executor) {
		e.retrier = r
	}
}

// WithTimeout adds a time budget to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithTimeoutGuard adds a configured timeout guard to the executor.
func WithTimeoutGuard(t *Timeout) ExecutorOption {
	return func(e *Executor) {
		e.timeout = t
	}
}

// Execute runs the operation through the configured layers.
//
// The order, outermost first:
//  1. Throttle - keeps the stack below the admission rate
//  2. Bulkhead - caps concurrency
//  3. Circuit breaker - stops calls to a failing dependency
//  4. Retry - repeats classified failures
//  5. Timeout - bounds each attempt
//
// Each layer classifies errors surfacing from the layer below it, so a
// rejection by an inner breaker is retriable by the retry layer when
// its classifier says so.
func (e *Executor) Execute(ctx context.Context, op Operation) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retrier != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retrier.Execute(ctx, inner)
		}
	}

	if e.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.breaker.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.throttle != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.throttle.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// Breaker returns the configured circuit breaker, or nil.
func (e *Executor) Breaker() *CircuitBreaker { return e.breaker }

// Throttle returns the configured throttle, or nil.
func (e *Executor) Throttle() *Throttle { return e.throttle }

// Bulkhead returns the configured bulkhead, or nil.
func (e *Executor) Bulkhead() *Bulkhead { return e.bulkhead }

// Retrier returns the configured retrier, or nil.
func (e *Executor) Retrier() *Retrier { return e.retrier }
