package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/guardops/guard"
)

// Collector bridges guard.MetricsCollector onto OpenTelemetry instruments:
// Float64Histogram for durations, Int64Counter for counters, Float64Gauge
// for gauges. Instruments are created lazily per metric name and cached.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: recording is best-effort; instrument creation failures drop
//   the observation and must not panic.
// - A nil Collector or a Collector without a meter records nothing.
type Collector struct {
	meter metric.Meter

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewCollector creates a Collector recording through the given meter.
// A nil meter yields a collector that records nothing.
func NewCollector(meter metric.Meter) *Collector {
	return &Collector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

var _ guard.MetricsCollector = (*Collector)(nil)

// RecordDuration records one invocation duration under the named histogram,
// in milliseconds.
func (c *Collector) RecordDuration(name string, d time.Duration) {
	if c == nil || c.meter == nil {
		return
	}

	hist := c.histogram(name)
	if hist == nil {
		return
	}

	ms := float64(d) / float64(time.Millisecond)
	hist.Record(context.Background(), ms)
}

// IncrementCounter adds one to the named counter.
func (c *Collector) IncrementCounter(name string, labels map[string]string) {
	if c == nil || c.meter == nil {
		return
	}

	counter := c.counter(name)
	if counter == nil {
		return
	}

	counter.Add(context.Background(), 1, metric.WithAttributes(labelAttrs(labels)...))
}

// SetGauge sets the named gauge to value.
func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	if c == nil || c.meter == nil {
		return
	}

	gauge := c.gauge(name)
	if gauge == nil {
		return
	}

	gauge.Record(context.Background(), value, metric.WithAttributes(labelAttrs(labels)...))
}

func (c *Collector) histogram(name string) metric.Float64Histogram {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hist, ok := c.histograms[name]; ok {
		return hist
	}

	hist, err := c.meter.Float64Histogram(name, metric.WithUnit("ms"))
	if err != nil {
		return nil
	}
	c.histograms[name] = hist
	return hist
}

func (c *Collector) counter(name string) metric.Int64Counter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[name]; ok {
		return counter
	}

	counter, err := c.meter.Int64Counter(name)
	if err != nil {
		return nil
	}
	c.counters[name] = counter
	return counter
}

func (c *Collector) gauge(name string) metric.Float64Gauge {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gauge, ok := c.gauges[name]; ok {
		return gauge
	}

	gauge, err := c.meter.Float64Gauge(name)
	if err != nil {
		return nil
	}
	c.gauges[name] = gauge
	return gauge
}

// labelAttrs converts a label map into OpenTelemetry attributes.
func labelAttrs(labels map[string]string) []attribute.KeyValue {
	if len(labels) == 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
