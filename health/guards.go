package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/guardops/guard"
)

// BreakerChecker reports breaker state as component health: an open
// breaker is unhealthy, a half-open breaker is degraded, a closed one
// is healthy.
type BreakerChecker struct {
	name    string
	breaker *guard.CircuitBreaker
}

// NewBreakerChecker creates a checker for br. An empty name falls back
// to the breaker's own name.
func NewBreakerChecker(name string, br *guard.CircuitBreaker) *BreakerChecker {
	if name == "" {
		name = br.Snapshot().Name
	}
	return &BreakerChecker{name: name, breaker: br}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reads the breaker's state. It never invokes the guarded work,
// so checking health cannot trip or probe the breaker.
func (c *BreakerChecker) Check(_ context.Context) error {
	snap := c.breaker.Snapshot()
	switch snap.State {
	case guard.StateOpen:
		return fmt.Errorf("%w: breaker %s open after %d consecutive failures",
			ErrCheckFailed, snap.Name, snap.Failures)
	case guard.StateHalfOpen:
		return fmt.Errorf("%w: breaker %s half-open, probe in flight",
			ErrDegraded, snap.Name)
	default:
		return nil
	}
}

// ThrottleChecker reports a saturated token bucket as degraded. A
// bucket below one token means callers are being slowed or rejected,
// but the component itself is not failing.
type ThrottleChecker struct {
	name     string
	throttle *guard.Throttle
}

// NewThrottleChecker creates a checker for th. An empty name falls back
// to the throttle's own name.
func NewThrottleChecker(name string, th *guard.Throttle) *ThrottleChecker {
	if name == "" {
		name = th.Snapshot().Name
	}
	return &ThrottleChecker{name: name, throttle: th}
}

// Name returns the name of this checker.
func (c *ThrottleChecker) Name() string {
	return c.name
}

// Check projects the bucket's current token count without taking any.
func (c *ThrottleChecker) Check(_ context.Context) error {
	snap := c.throttle.Snapshot()
	if snap.Tokens < 1 {
		return fmt.Errorf("%w: throttle %s saturated (%.2f of %.0f tokens)",
			ErrDegraded, snap.Name, snap.Tokens, snap.Capacity)
	}
	return nil
}
