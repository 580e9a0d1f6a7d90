package observe

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"
)

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_Info_MultipleFields measures logging with multiple fields.
func BenchmarkLogger_Info_MultipleFields(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	fields := []Field{
		{Key: "field1", Value: "value1"},
		{Key: "field2", Value: 42},
		{Key: "field3", Value: true},
		{Key: "field4", Value: 3.14},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", fields...)
	}
}

// BenchmarkLogger_WithOp measures creating operation-scoped loggers.
func BenchmarkLogger_WithOp(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	meta := OpMeta{
		Name:      "bench_op",
		Namespace: "ns",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.WithOp(meta)
	}
}

// BenchmarkLogger_WithOp_ThenLog measures the full pattern of creating
// an operation logger and logging.
func BenchmarkLogger_WithOp_ThenLog(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	meta := OpMeta{
		Name:      "bench_op",
		Namespace: "ns",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		opLogger := logger.WithOp(meta)
		opLogger.Info(ctx, "operation executed", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_LevelFiltering measures overhead of level filtering.
func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard) // Only error level
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// These should be filtered out (no actual logging)
		logger.Debug(ctx, "filtered debug")
		logger.Info(ctx, "filtered info")
		logger.Warn(ctx, "filtered warn")
	}
}

// BenchmarkOpMeta_SpanName measures span name generation.
func BenchmarkOpMeta_SpanName(b *testing.B) {
	meta := OpMeta{
		Name:      "charge",
		Namespace: "billing",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.SpanName()
	}
}

// BenchmarkOpMeta_SpanName_NoNamespace measures span name without namespace.
func BenchmarkOpMeta_SpanName_NoNamespace(b *testing.B) {
	meta := OpMeta{
		Name: "fetch",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.SpanName()
	}
}

// BenchmarkOpMeta_OpID measures operation ID generation.
func BenchmarkOpMeta_OpID(b *testing.B) {
	meta := OpMeta{
		Name:      "charge",
		Namespace: "billing",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.OpID()
	}
}

// BenchmarkTracer_StartEndSpan measures tracer span lifecycle (noop).
func BenchmarkTracer_StartEndSpan(b *testing.B) {
	tracer := newNoopTracer()
	ctx := context.Background()
	meta := OpMeta{
		Name:      "bench_op",
		Namespace: "ns",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, span := tracer.StartSpan(ctx, meta)
		tracer.EndSpan(span, nil)
		_ = ctx
	}
}

// BenchmarkCollector_RecordDuration measures duration recording.
func BenchmarkCollector_RecordDuration(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	c := NewCollector(obs.Meter())
	duration := 100 * time.Millisecond

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.RecordDuration("bench_op", duration)
	}
}

// BenchmarkCollector_IncrementCounter measures counter recording.
func BenchmarkCollector_IncrementCounter(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	c := NewCollector(obs.Meter())
	labels := map[string]string{"name": "bench_op"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.IncrementCounter("retry_attempts", labels)
	}
}

// BenchmarkCollector_SetGauge measures gauge recording.
func BenchmarkCollector_SetGauge(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	c := NewCollector(obs.Meter())
	labels := map[string]string{"name": "bench_op"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SetGauge("circuit_state", float64(i%3), labels)
	}
}

// BenchmarkMiddleware_Wrap measures full middleware wrapping.
func BenchmarkMiddleware_Wrap(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	mw := MiddlewareFromObserver(obs)
	meta := OpMeta{Name: "bench_op", Namespace: "ns"}

	wrapped := mw.Wrap(meta, func(ctx context.Context) error {
		return nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = wrapped(ctx)
	}
}

// BenchmarkMiddleware_Wrap_WithLogging measures middleware with logging enabled.
func BenchmarkMiddleware_Wrap_WithLogging(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	// Replace logger with discard writer
	obsImpl := obs.(*observer)
	obsImpl.logger = NewLoggerWithWriter("info", io.Discard)

	mw := MiddlewareFromObserver(obs)
	meta := OpMeta{Name: "bench_op", Namespace: "ns"}

	wrapped := mw.Wrap(meta, func(ctx context.Context) error {
		return nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = wrapped(ctx)
	}
}

// BenchmarkConcurrent_Logger measures concurrent logging.
func BenchmarkConcurrent_Logger(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			logger.Info(ctx, "concurrent message", Field{Key: "iteration", Value: i})
			i++
		}
	})
}

// BenchmarkConcurrent_Middleware measures concurrent middleware execution.
func BenchmarkConcurrent_Middleware(b *testing.B) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "bench",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false},
	})
	if err != nil {
		b.Fatalf("failed to create observer: %v", err)
	}
	defer obs.Shutdown(ctx)

	mw := MiddlewareFromObserver(obs)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			meta := OpMeta{
				Name:      fmt.Sprintf("op_%d", i%100),
				Namespace: fmt.Sprintf("ns_%d", i%10),
			}
			wrapped := mw.Wrap(meta, func(ctx context.Context) error {
				return nil
			})
			_ = wrapped(ctx)
			i++
		}
	})
}

// BenchmarkConfig_Validate measures configuration validation.
func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "bench-service",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
