// Package guard provides composable reliability primitives for wrapping
// fallible operations.
//
// Each primitive wraps a unit of work, decides whether and when it may
// run, observes the outcome, and updates its own state. Primitives can be
// used independently or stacked so that an outer guard delegates to an
// inner one.
//
// # Primitives
//
// The package provides the following guards:
//
//   - Retrier: repeats a failing operation according to a backoff policy,
//     classifying which errors are worth retrying.
//
//   - CircuitBreaker: stops calling a failing dependency after a
//     threshold of consecutive classified failures, probing for recovery
//     after a cool-down.
//
//   - Throttle: admits calls from a token bucket at a configured steady
//     rate with burst capacity, either waiting for a token or rejecting.
//
//   - Bulkhead: caps concurrent in-flight executions to contain resource
//     exhaustion.
//
//   - Timeout: bounds the execution time of the wrapped work.
//
// # Usage
//
// Each guard can be used on its own:
//
//	r := guard.NewRetrier(guard.RetryConfig{
//	    MaxRetries: 3,
//	    Backoff: guard.BackoffConfig{
//	        BaseDelay: 100 * time.Millisecond,
//	        MaxDelay:  5 * time.Second,
//	        Jitter:    true,
//	    },
//	})
//
//	err := r.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// or composed through an Executor:
//
//	ex := guard.NewExecutor(
//	    guard.WithThrottle(guard.NewThrottle(guard.ThrottleConfig{Calls: 100, Period: time.Second})),
//	    guard.WithCircuitBreaker(guard.NewCircuitBreaker(guard.BreakerConfig{FailureThreshold: 5})),
//	    guard.WithRetry(guard.NewRetrier(guard.RetryConfig{MaxRetries: 3})),
//	    guard.WithTimeout(2*time.Second),
//	)
//
//	err := ex.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// Time, sleeping, and randomness are injectable through the Clock,
// Sleeper, and Source types so that every transition rule is testable
// with a deterministic schedule.
package guard
