package chaos

import (
	"context"
	"sync/atomic"

	"github.com/jonwraymond/guardops/guard"
)

// Metric names emitted by the injectors in this package.
const (
	metricFailuresInjected = "chaos_failures_injected"
	metricLatencyInjected  = "chaos_latency_injected"
)

// FailureConfig configures a FailureInjector.
type FailureConfig struct {
	// Name labels the injector in metrics.
	// Default: "chaos-failure"
	Name string

	// Rate is the probability in [0, 1] that a call fails instead of
	// running. Values outside the range are clamped. A zero rate never
	// injects.
	Rate float64

	// Err is the error returned for injected failures.
	// Default: ErrInjected
	Err error

	// Source draws injection decisions.
	// Default: guard.DefaultSource()
	Source guard.Source

	// Collector receives injection counts. Optional.
	Collector guard.MetricsCollector
}

// FailureInjector fails a configured fraction of calls with a
// configured error, without invoking the work. Injectors start
// enabled; a disabled injector delegates every call untouched.
type FailureInjector struct {
	config  FailureConfig
	enabled atomic.Bool
}

// NewFailureInjector creates a failure injector.
func NewFailureInjector(config FailureConfig) *FailureInjector {
	if config.Name == "" {
		config.Name = "chaos-failure"
	}
	if config.Rate < 0 {
		config.Rate = 0
	}
	if config.Rate > 1 {
		config.Rate = 1
	}
	if config.Err == nil {
		config.Err = ErrInjected
	}
	if config.Source == nil {
		config.Source = guard.DefaultSource()
	}

	f := &FailureInjector{config: config}
	f.enabled.Store(true)
	return f
}

// Execute fails with the configured error at the configured rate,
// otherwise delegates to the operation.
func (f *FailureInjector) Execute(ctx context.Context, op guard.Operation) error {
	if f.enabled.Load() && f.config.Rate > 0 && f.config.Source() < f.config.Rate {
		f.count(metricFailuresInjected)
		return f.config.Err
	}
	return op(ctx)
}

// Enable turns injection on.
func (f *FailureInjector) Enable() { f.enabled.Store(true) }

// Disable turns injection off. Every call delegates until Enable.
func (f *FailureInjector) Disable() { f.enabled.Store(false) }

// Enabled reports whether injection is on.
func (f *FailureInjector) Enabled() bool { return f.enabled.Load() }

// Rate returns the injection probability with clamping applied.
func (f *FailureInjector) Rate() float64 { return f.config.Rate }

func (f *FailureInjector) count(metric string) {
	if f.config.Collector != nil {
		f.config.Collector.IncrementCounter(metric, map[string]string{"name": f.config.Name})
	}
}

var _ guard.Guard = (*FailureInjector)(nil)
