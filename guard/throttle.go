package guard

import (
	"context"
	"math"
	"sync"
	"time"
)

// ThrottleMode selects what happens when no token is available.
type ThrottleMode int

const (
	// ThrottleSleep suspends the caller until a token is available.
	ThrottleSleep ThrottleMode = iota
	// ThrottleReject fails immediately with a *ThrottledError.
	ThrottleReject
)

// ThrottleConfig configures a throttle.
type ThrottleConfig struct {
	// Name labels the throttle in errors and metrics.
	// Default: "throttle"
	Name string

	// Calls is the number of admissions allowed per Period at steady
	// state.
	// Default: 100
	Calls int

	// Period is the window over which Calls is measured.
	// Default: 1 second
	Period time.Duration

	// Burst is the bucket capacity, allowing short bursts above the
	// steady rate.
	// Default: Calls
	Burst int

	// Mode selects sleeping or rejecting when the bucket is empty.
	// Default: ThrottleSleep
	Mode ThrottleMode

	// Clock supplies refill timing.
	// Default: SystemClock()
	Clock Clock

	// Sleeper suspends callers in ThrottleSleep mode.
	// Default: StandardSleeper()
	Sleeper Sleeper

	// Collector receives admission observations. Optional.
	Collector MetricsCollector
}

// Throttle is a token-bucket rate limiter. The bucket refills lazily
// from elapsed time on each admission check; there is no background
// timer. All callers of one guarded call-site share one instance, and
// one mutex makes each read-modify-write of the bucket atomic.
type Throttle struct {
	config   ThrottleConfig
	rate     float64 // tokens per second
	capacity float64

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewThrottle creates a throttle with a full bucket.
func NewThrottle(config ThrottleConfig) *Throttle {
	if config.Name == "" {
		config.Name = "throttle"
	}
	if config.Calls <= 0 {
		config.Calls = 100
	}
	if config.Period <= 0 {
		config.Period = time.Second
	}
	if config.Burst <= 0 {
		config.Burst = config.Calls
	}
	if config.Clock == nil {
		config.Clock = SystemClock()
	}
	if config.Sleeper == nil {
		config.Sleeper = StandardSleeper()
	}

	return &Throttle{
		config:     config,
		rate:       float64(config.Calls) / config.Period.Seconds(),
		capacity:   float64(config.Burst),
		tokens:     float64(config.Burst),
		lastRefill: config.Clock.Now(),
	}
}

// TryAcquire takes a token if one is available. It never blocks.
func (t *Throttle) TryAcquire() bool {
	ok, _ := t.tryAcquire()
	return ok
}

// Acquire takes a token, suspending the caller until one is available
// or ctx is cancelled. After each wait the caller re-competes for the
// token, so concurrent acquirers can never overdraw the bucket.
func (t *Throttle) Acquire(ctx context.Context) error {
	for {
		ok, wait := t.tryAcquire()
		if ok {
			return nil
		}
		if err := t.config.Sleeper.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Execute admits the operation through the bucket according to the
// configured mode, then runs it. The work runs outside the bucket lock.
func (t *Throttle) Execute(ctx context.Context, op Operation) error {
	switch t.config.Mode {
	case ThrottleReject:
		ok, wait := t.tryAcquire()
		if !ok {
			t.count(metricThrottleRejected)
			return &ThrottledError{Name: t.config.Name, Wait: wait}
		}
	default:
		if err := t.Acquire(ctx); err != nil {
			return err
		}
	}

	t.count(metricThrottleAdmitted)
	return op(ctx)
}

// AvailableTokens returns the token count the bucket would hold right
// now. It is a read-only projection and never mutates the bucket.
func (t *Throttle) AvailableTokens() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := t.config.Clock.Now().Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return t.tokens
	}
	return math.Min(t.capacity, t.tokens+elapsed*t.rate)
}

// Snapshot returns a copy of the bucket's observable state. Like
// AvailableTokens it is a read-only projection and never mutates the
// bucket.
func (t *Throttle) Snapshot() ThrottleSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	tokens := t.tokens
	if elapsed := t.config.Clock.Now().Sub(t.lastRefill).Seconds(); elapsed > 0 {
		tokens = math.Min(t.capacity, t.tokens+elapsed*t.rate)
	}
	return ThrottleSnapshot{
		Name:     t.config.Name,
		Tokens:   tokens,
		Capacity: t.capacity,
	}
}

// Reset refills the bucket to capacity.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens = t.capacity
	t.lastRefill = t.config.Clock.Now()
}

// tryAcquire refills from elapsed time and takes a token if it can.
// When it cannot, it reports how long until one token accrues. One
// critical section covers the whole read-modify-write.
func (t *Throttle) tryAcquire() (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refillLocked()

	if t.tokens >= 1 {
		t.tokens--
		return true, 0
	}

	wait := time.Duration((1 - t.tokens) / t.rate * float64(time.Second))
	return false, wait
}

func (t *Throttle) refillLocked() {
	now := t.config.Clock.Now()
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed > 0 {
		t.tokens = math.Min(t.capacity, t.tokens+elapsed*t.rate)
	}
	t.lastRefill = now
}

func (t *Throttle) count(metric string) {
	if t.config.Collector != nil {
		t.config.Collector.IncrementCounter(metric, map[string]string{"name": t.config.Name})
	}
}

// ThrottleSnapshot is a point-in-time copy of bucket state, suitable
// for health checks and persistence.
type ThrottleSnapshot struct {
	Name     string  `json:"name"`
	Tokens   float64 `json:"tokens"`
	Capacity float64 `json:"capacity"`
}
