package guard

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures a timeout guard.
type TimeoutConfig struct {
	// Name labels the timeout in errors.
	// Default: "timeout"
	Name string

	// Timeout is the maximum duration for the operation.
	// Default: 30 seconds
	Timeout time.Duration

	// Fallback, when set, is consulted instead of returning the
	// *TimeoutError. Returning nil swallows the timeout.
	Fallback func(err error) error
}

// Timeout bounds the execution time of the wrapped work through a child
// context deadline. The work keeps running on its goroutine after the
// budget expires; its eventual result is discarded.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout guard.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Name == "" {
		config.Name = "timeout"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Timeout{config: config}
}

// Execute runs the operation under the time budget.
func (t *Timeout) Execute(ctx context.Context, op Operation) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return t.expired()
		}
		return ctx.Err()
	}
}

func (t *Timeout) expired() error {
	err := error(&TimeoutError{Name: t.config.Name, After: t.config.Timeout})
	if t.config.Fallback != nil {
		return t.config.Fallback(err)
	}
	return err
}

// Config returns the timeout configuration with defaults applied.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout runs one operation under a time budget without
// constructing a reusable guard.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op Operation) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}
