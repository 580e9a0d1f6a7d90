package guard

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures a Retrier.
type RetryConfig struct {
	// Name labels the retrier in metrics.
	// Default: "retry"
	Name string

	// MaxRetries is the number of retries after the initial call, so a
	// Retrier performs at most MaxRetries+1 invocations.
	// Default: 3
	MaxRetries int

	// Backoff computes the delay before each retry.
	Backoff BackoffConfig

	// RetryIf decides whether an error is worth retrying.
	// Default: every non-nil error is retriable.
	RetryIf Classifier

	// OnRetry is called before each retry suspension.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Clock times attempts for the collector.
	// Default: SystemClock()
	Clock Clock

	// Sleeper suspends between attempts.
	// Default: StandardSleeper()
	Sleeper Sleeper

	// Collector receives attempt observations. Optional.
	Collector MetricsCollector
}

// Retrier repeats a failing operation according to a backoff policy.
// It keeps no state between calls; concurrent callers retry
// independently with their own attempt counters.
type Retrier struct {
	config  RetryConfig
	backoff *Backoff
}

// NewRetrier creates a retrier.
func NewRetrier(config RetryConfig) *Retrier {
	if config.Name == "" {
		config.Name = "retry"
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryIf == nil {
		config.RetryIf = AnyError
	}
	if config.Clock == nil {
		config.Clock = SystemClock()
	}
	if config.Sleeper == nil {
		config.Sleeper = StandardSleeper()
	}

	return &Retrier{
		config:  config,
		backoff: NewBackoff(config.Backoff),
	}
}

// Execute runs the operation, retrying classified failures until the
// retry budget is spent. It returns nil on the first success, the
// original error for a non-retriable failure, ctx.Err() if cancelled
// while suspended, and a *RetriesExhaustedError wrapping the last error
// once MaxRetries retries have failed.
func (r *Retrier) Execute(ctx context.Context, op Operation) error {
	for attempt := 1; ; attempt++ {
		start := r.config.Clock.Now()
		err := op(ctx)
		r.observe(start, err)

		if err == nil {
			return nil
		}

		var nonRetriable *NonRetriableError
		if errors.As(err, &nonRetriable) {
			return err
		}
		if !r.config.RetryIf(err) {
			return err
		}

		// Retries performed so far is attempt-1.
		if attempt > r.config.MaxRetries {
			if r.config.Collector != nil {
				r.config.Collector.IncrementCounter(metricRetryExhausted, map[string]string{"name": r.config.Name})
			}
			return &RetriesExhaustedError{Attempts: attempt, Err: err}
		}

		delay := r.backoff.Delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}
		if serr := r.config.Sleeper.Sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

func (r *Retrier) observe(start time.Time, err error) {
	if r.config.Collector == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.config.Collector.RecordDuration(r.config.Name, r.config.Clock.Now().Sub(start))
	r.config.Collector.IncrementCounter(metricRetryAttempts, map[string]string{
		"name":    r.config.Name,
		"outcome": outcome,
	})
}

// Config returns the retry configuration with defaults applied.
func (r *Retrier) Config() RetryConfig {
	return r.config
}
