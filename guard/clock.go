package guard

import (
	"context"
	"math/rand/v2"
	"time"
)

// Clock supplies the current time. All elapsed-time decisions in this
// package (breaker cool-down, bucket refill, attempt timing) go through
// a Clock so tests can substitute a deterministic one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Sleeper suspends the calling goroutine. Implementations must return
// early with ctx.Err() when the context is cancelled; they must never
// hold package locks while suspended.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StandardSleeper returns a Sleeper backed by a cancellable timer.
func StandardSleeper() Sleeper { return timerSleeper{} }

// Source draws uniform values from [0, 1). It feeds backoff jitter and
// chaos injection so tests can pin the sequence.
type Source func() float64

// DefaultSource returns a Source backed by the shared math/rand/v2
// generator.
func DefaultSource() Source {
	// #nosec G404 -- jitter and injection need speed, not unpredictability.
	return rand.Float64
}
