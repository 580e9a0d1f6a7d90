package observe

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/guardops/observe/exporters"
)

// Config selects which telemetry subsystems an Observer runs and how
// each one exports. Subsystems are independent: a config with only
// logging enabled yields an Observer whose tracer and meter are no-ops.
type Config struct {
	// ServiceName identifies the process in exported telemetry.
	// Required.
	ServiceName string

	// Version is recorded on the telemetry resource next to the
	// service name. Optional.
	Version string

	Tracing TracingConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled bool

	// Exporter names the span destination: otlp, stdout, or none.
	// Empty behaves as none.
	Exporter string

	// SamplePct is the fraction of traces to sample, in [0, 1].
	SamplePct float64
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled bool

	// Exporter names the metric destination: otlp, prometheus,
	// stdout, or none. Empty behaves as none.
	Exporter string
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool

	// Level is the minimum severity to emit: debug, info, warn, or
	// error. Empty behaves as info.
	Level string
}

// Validate reports the first configuration problem. Disabled
// subsystems are not inspected, so a config can carry a bad exporter
// name for a subsystem it never turns on.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}
	if c.Tracing.Enabled {
		if err := c.Tracing.validate(); err != nil {
			return err
		}
	}
	if c.Metrics.Enabled {
		if err := c.Metrics.validate(); err != nil {
			return err
		}
	}
	if c.Logging.Enabled {
		if err := c.Logging.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c TracingConfig) validate() error {
	if !slices.Contains(ValidTracingExporters, c.Exporter) {
		return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Exporter)
	}
	if c.SamplePct < MinSamplePct || c.SamplePct > MaxSamplePct {
		return fmt.Errorf("%w: got %f", ErrInvalidSamplePct, c.SamplePct)
	}
	return nil
}

func (c MetricsConfig) validate() error {
	if !slices.Contains(ValidMetricsExporters, c.Exporter) {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Exporter)
	}
	return nil
}

func (c LoggingConfig) validate() error {
	if !slices.Contains(ValidLogLevels, c.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Level)
	}
	return nil
}

// Observer bundles the process-wide telemetry handles that guard
// middleware and application code draw on.
//
// Contract:
// - Concurrency: all methods are safe for concurrent use.
// - Context: Shutdown honors cancellation and deadlines.
// - Errors: Shutdown flushes what it can and joins the failures.
type Observer interface {
	// Tracer returns the tracer spans are started from.
	Tracer() trace.Tracer

	// Meter returns the meter instruments are built from.
	Meter() metric.Meter

	// Logger returns the structured logger.
	Logger() Logger

	// Shutdown flushes and stops the telemetry pipelines.
	Shutdown(ctx context.Context) error
}

// Logger is the minimal structured logging surface the rest of the
// module logs through.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging is best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)

	// WithOp returns a logger that stamps every record with the
	// operation's identity.
	WithOp(meta OpMeta) Logger
}

// Field is one structured log attribute.
type Field struct {
	Key   string
	Value any
}

type observer struct {
	tracer    trace.Tracer
	meter     metric.Meter
	logger    Logger
	shutdowns []func(context.Context) error
}

// NewObserver builds an Observer from cfg. Disabled subsystems get
// no-op handles, so callers never branch on what is enabled. Enabled
// tracing and metrics providers are also installed as the otel
// globals.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observe: build resource: %w", err)
	}

	obs := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer("noop"),
		meter:  noop.NewMeterProvider().Meter("noop"),
		logger: &noopLogger{},
	}

	if cfg.Tracing.Enabled {
		tp, err := newTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("observe: setup tracing: %w", err)
		}
		otel.SetTracerProvider(tp)
		obs.tracer = tp.Tracer(cfg.ServiceName)
		obs.shutdowns = append(obs.shutdowns, tp.Shutdown)
	}

	if cfg.Metrics.Enabled {
		mp, err := newMeterProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("observe: setup metrics: %w", err)
		}
		otel.SetMeterProvider(mp)
		obs.meter = mp.Meter(cfg.ServiceName)
		obs.shutdowns = append(obs.shutdowns, mp.Shutdown)
	}

	if cfg.Logging.Enabled {
		obs.logger = NewLogger(cfg.Logging.Level)
	}

	return obs, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := exporters.NewTracingExporter(ctx, cfg.Tracing.Exporter)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.Tracing.SamplePct)),
		sdktrace.WithBatcher(exporter),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	reader, err := exporters.NewMetricsReader(ctx, cfg.Metrics.Exporter)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}

// samplerFor maps the configured fraction onto an SDK sampler, with
// the endpoints short-circuited to the constant samplers.
func samplerFor(pct float64) sdktrace.Sampler {
	switch {
	case pct >= 1:
		return sdktrace.AlwaysSample()
	case pct <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(pct)
	}
}

func (o *observer) Tracer() trace.Tracer { return o.tracer }

func (o *observer) Meter() metric.Meter { return o.meter }

func (o *observer) Logger() Logger { return o.logger }

// Shutdown stops every pipeline that was started, in start order, and
// joins whatever errors they return.
func (o *observer) Shutdown(ctx context.Context) error {
	var errs []error
	for _, stop := range o.shutdowns {
		if err := stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// noopLogger discards every record.
type noopLogger struct{}

func (l *noopLogger) Info(context.Context, string, ...Field)  {}
func (l *noopLogger) Warn(context.Context, string, ...Field)  {}
func (l *noopLogger) Error(context.Context, string, ...Field) {}
func (l *noopLogger) Debug(context.Context, string, ...Field) {}
func (l *noopLogger) WithOp(OpMeta) Logger                    { return l }
