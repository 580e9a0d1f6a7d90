package guard

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through and failures are counted.
	StateClosed State = iota
	// StateOpen means calls are rejected without running the work.
	StateOpen
	// StateHalfOpen means a single probe call is testing recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// Name labels the breaker in errors and metrics.
	// Default: "breaker"
	Name string

	// FailureThreshold is the number of consecutive classified failures
	// that opens the circuit.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is the cool-down before an open breaker admits a
	// probe. The transition is evaluated lazily when a call arrives,
	// never by a background timer.
	// Default: 30 seconds
	RecoveryTimeout time.Duration

	// FailureIf decides whether an error counts as the dependency
	// failing. Errors it does not match pass through without touching
	// breaker state in either direction.
	// Default: every non-nil error counts.
	FailureIf Classifier

	// OnStateChange is called after each transition, outside the
	// breaker lock.
	OnStateChange func(from, to State)

	// Clock supplies cool-down timing.
	// Default: SystemClock()
	Clock Clock

	// Collector receives state and failure observations. Optional.
	Collector MetricsCollector
}

// CircuitBreaker is a Closed/Open/HalfOpen state machine protecting a
// unit of work from repeated calls to a failing dependency. One
// instance is shared by every caller of the guarded call-site; a single
// mutex covers state reads and transitions, never the work itself.
type CircuitBreaker struct {
	config BreakerConfig

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewCircuitBreaker creates a circuit breaker in the closed state.
func NewCircuitBreaker(config BreakerConfig) *CircuitBreaker {
	if config.Name == "" {
		config.Name = "breaker"
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.FailureIf == nil {
		config.FailureIf = AnyError
	}
	if config.Clock == nil {
		config.Clock = SystemClock()
	}

	cb := &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
	if config.Collector != nil {
		config.Collector.SetGauge(metricCircuitState, stateGaugeValue(StateClosed), cb.labels())
	}
	return cb
}

// Execute runs the operation through the breaker. Open breakers and
// half-open breakers with a probe in flight reject with a
// *CircuitOpenError without invoking the work.
func (cb *CircuitBreaker) Execute(ctx context.Context, op Operation) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the current state. It never performs the lazy
// open-to-half-open transition itself; an expired open breaker reports
// open until a call arrives.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive classified-failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Snapshot returns a copy of the breaker's observable state.
func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return BreakerSnapshot{
		Name:     cb.config.Name,
		State:    cb.state,
		Failures: cb.failures,
		OpenedAt: cb.openedAt,
	}
}

// Reset returns the breaker to closed with a zeroed failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
	cb.openedAt = time.Time{}
	cb.mu.Unlock()

	if from != StateClosed {
		cb.notify(from, StateClosed)
	}
}

// beforeCall admits or rejects the call. The open-to-half-open check
// and the single-probe rule share one critical section so concurrent
// callers cannot both claim the probe.
func (cb *CircuitBreaker) beforeCall() error {
	now := cb.config.Clock.Now()

	cb.mu.Lock()

	var probeReady bool
	if cb.state == StateOpen && now.Sub(cb.openedAt) >= cb.config.RecoveryTimeout {
		cb.state = StateHalfOpen
		cb.probing = false
		probeReady = true
	}

	switch cb.state {
	case StateOpen:
		rejection := &CircuitOpenError{
			Name:       cb.config.Name,
			State:      StateOpen,
			Failures:   cb.failures,
			RetryAfter: cb.config.RecoveryTimeout - now.Sub(cb.openedAt),
		}
		cb.mu.Unlock()
		cb.countRejection()
		return rejection

	case StateHalfOpen:
		if cb.probing {
			rejection := &CircuitOpenError{
				Name:     cb.config.Name,
				State:    StateHalfOpen,
				Failures: cb.failures,
			}
			cb.mu.Unlock()
			cb.countRejection()
			return rejection
		}
		cb.probing = true
	}

	cb.mu.Unlock()
	if probeReady {
		cb.notify(StateOpen, StateHalfOpen)
	}
	return nil
}

// afterCall applies the outcome of an admitted call.
func (cb *CircuitBreaker) afterCall(err error) {
	failure := err != nil && cb.config.FailureIf(err)

	cb.mu.Lock()
	from := cb.state

	switch cb.state {
	case StateClosed:
		switch {
		case err == nil:
			cb.failures = 0
		case failure:
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.state = StateOpen
				cb.openedAt = cb.config.Clock.Now()
			}
		}
		// Unclassified errors are not the dependency failing; leave the
		// count alone.

	case StateHalfOpen:
		cb.probing = false
		switch {
		case err == nil:
			cb.state = StateClosed
			cb.failures = 0
		case failure:
			cb.state = StateOpen
			cb.openedAt = cb.config.Clock.Now()
		}
		// An unclassified probe outcome proves nothing about recovery;
		// stay half-open and let the next caller probe.

	case StateOpen:
		// The call was admitted before the breaker opened; its outcome
		// no longer changes anything.
	}

	to := cb.state
	cb.mu.Unlock()

	if failure && cb.config.Collector != nil {
		cb.config.Collector.IncrementCounter(metricCircuitFailures, cb.labels())
	}
	if from != to {
		cb.notify(from, to)
	}
}

func (cb *CircuitBreaker) notify(from, to State) {
	if cb.config.Collector != nil {
		cb.config.Collector.SetGauge(metricCircuitState, stateGaugeValue(to), cb.labels())
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

func (cb *CircuitBreaker) countRejection() {
	if cb.config.Collector != nil {
		cb.config.Collector.IncrementCounter(metricCircuitRejected, cb.labels())
	}
}

func (cb *CircuitBreaker) labels() map[string]string {
	return map[string]string{"name": cb.config.Name}
}

// BreakerSnapshot is a point-in-time copy of breaker state, suitable
// for health checks and persistence.
type BreakerSnapshot struct {
	Name     string    `json:"name"`
	State    State     `json:"state"`
	Failures int       `json:"failures"`
	OpenedAt time.Time `json:"opened_at,omitzero"`
}
