// Package chaos provides failure and latency injection for reliability
// testing.
//
// Injectors implement guard.Guard, so they compose with the other
// reliability primitives through guard.Chain or by wrapping an
// operation directly:
//
//	inject := chaos.NewFailureInjector(chaos.FailureConfig{Rate: 0.05})
//	stack := guard.Chain(inject, breaker)
//
//	err := stack.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService(ctx)
//	})
//
// Injectors start enabled but a zero rate never injects, so they are
// safe to leave wired in production configs and raise only when a rate
// is set. Disable suspends an injector at runtime without rewiring the
// stack.
//
// Randomness comes from the same pluggable Source the guard package
// uses for backoff jitter, so tests can pin every injection decision.
package chaos
