package chaos

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/guardops/guard"
)

// LatencyConfig configures a LatencyInjector.
type LatencyConfig struct {
	// Name labels the injector in metrics.
	// Default: "chaos-latency"
	Name string

	// Rate is the probability in [0, 1] that a call is delayed before
	// running. Values outside the range are clamped. A zero rate never
	// injects.
	Rate float64

	// Min is the lower bound of the injected delay.
	// Default: 100ms
	Min time.Duration

	// Max is the upper bound of the injected delay. A value below Min
	// is raised to Min.
	// Default: 1 second
	Max time.Duration

	// Source draws injection decisions and the delay within [Min, Max].
	// Default: guard.DefaultSource()
	Source guard.Source

	// Sleeper suspends the caller for the injected delay.
	// Default: guard.StandardSleeper()
	Sleeper guard.Sleeper

	// Collector receives injection counts. Optional.
	Collector guard.MetricsCollector
}

// LatencyInjector delays a configured fraction of calls by a uniform
// duration in [Min, Max] before delegating. The suspension is
// cancellable; a cancelled delay returns ctx.Err() without invoking
// the work. Injectors start enabled.
type LatencyInjector struct {
	config  LatencyConfig
	enabled atomic.Bool
}

// NewLatencyInjector creates a latency injector.
func NewLatencyInjector(config LatencyConfig) *LatencyInjector {
	if config.Name == "" {
		config.Name = "chaos-latency"
	}
	if config.Rate < 0 {
		config.Rate = 0
	}
	if config.Rate > 1 {
		config.Rate = 1
	}
	if config.Min <= 0 {
		config.Min = 100 * time.Millisecond
	}
	if config.Max <= 0 {
		config.Max = time.Second
	}
	if config.Max < config.Min {
		config.Max = config.Min
	}
	if config.Source == nil {
		config.Source = guard.DefaultSource()
	}
	if config.Sleeper == nil {
		config.Sleeper = guard.StandardSleeper()
	}

	l := &LatencyInjector{config: config}
	l.enabled.Store(true)
	return l
}

// Execute delays at the configured rate, then delegates.
func (l *LatencyInjector) Execute(ctx context.Context, op guard.Operation) error {
	if d := l.delay(); d > 0 {
		l.count(metricLatencyInjected)
		if err := l.config.Sleeper.Sleep(ctx, d); err != nil {
			return err
		}
	}
	return op(ctx)
}

// Enable turns injection on.
func (l *LatencyInjector) Enable() { l.enabled.Store(true) }

// Disable turns injection off. Every call delegates until Enable.
func (l *LatencyInjector) Disable() { l.enabled.Store(false) }

// Enabled reports whether injection is on.
func (l *LatencyInjector) Enabled() bool { return l.enabled.Load() }

// Rate returns the injection probability with clamping applied.
func (l *LatencyInjector) Rate() float64 { return l.config.Rate }

// delay draws the suspension for one call, zero when the draw says no.
func (l *LatencyInjector) delay() time.Duration {
	if !l.enabled.Load() || l.config.Rate <= 0 || l.config.Source() >= l.config.Rate {
		return 0
	}
	spread := l.config.Max - l.config.Min
	return l.config.Min + time.Duration(l.config.Source()*float64(spread))
}

func (l *LatencyInjector) count(metric string) {
	if l.config.Collector != nil {
		l.config.Collector.IncrementCounter(metric, map[string]string{"name": l.config.Name})
	}
}

var _ guard.Guard = (*LatencyInjector)(nil)
