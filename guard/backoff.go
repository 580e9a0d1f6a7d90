package guard

import (
	"math"
	"time"
)

// BackoffStrategy defines how delays grow between attempts.
type BackoffStrategy int

const (
	// BackoffExponential doubles the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear grows the delay proportionally to the attempt number.
	BackoffLinear
	// BackoffConstant uses the base delay for every attempt.
	BackoffConstant
)

// BackoffConfig configures a backoff policy.
type BackoffConfig struct {
	// Strategy selects how the delay grows with the attempt number.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the computed delay before jitter is applied.
	// Default: 30s
	MaxDelay time.Duration

	// Jitter multiplies the capped delay by a factor drawn uniformly
	// from [0.5, 1.5) on every call, so a jittered delay may exceed
	// MaxDelay by up to half.
	// Default: false
	Jitter bool

	// Rand supplies jitter randomness.
	// Default: DefaultSource()
	Rand Source
}

// Backoff computes the delay before a numbered retry attempt. It holds
// no mutable state; with Jitter disabled the same attempt always yields
// the same delay.
type Backoff struct {
	config BackoffConfig
}

// NewBackoff creates a backoff policy.
func NewBackoff(config BackoffConfig) *Backoff {
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.MaxDelay < config.BaseDelay {
		config.MaxDelay = config.BaseDelay
	}
	if config.Rand == nil {
		config.Rand = DefaultSource()
	}

	return &Backoff{config: config}
}

// Delay returns the suspension before retry number attempt. Attempts
// are numbered from 1 (the initial call); values below 1 are treated
// as 1.
func (b *Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	// Compute in float space so a huge attempt number clamps instead of
	// overflowing the duration.
	var raw float64
	switch b.config.Strategy {
	case BackoffLinear:
		raw = float64(b.config.BaseDelay) * float64(attempt)
	case BackoffConstant:
		raw = float64(b.config.BaseDelay)
	default:
		raw = float64(b.config.BaseDelay) * math.Pow(2, float64(attempt-1))
	}

	if raw > float64(b.config.MaxDelay) {
		raw = float64(b.config.MaxDelay)
	}

	// Jitter applies after the cap.
	if b.config.Jitter {
		raw *= 0.5 + b.config.Rand()
	}

	return time.Duration(raw)
}

// Config returns the backoff configuration with defaults applied.
func (b *Backoff) Config() BackoffConfig {
	return b.config
}
