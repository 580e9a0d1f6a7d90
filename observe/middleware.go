package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/guardops/guard"
)

// Metric names emitted by the middleware.
const (
	metricOpCalls  = "op_calls"
	metricOpErrors = "op_errors"
)

// Middleware wraps guarded operations with observability (tracing, metrics,
// logging). It composes with guards: instrument the operation, then hand it
// to an Executor, or instrument the already-guarded operation to capture
// retries and rejections in a single span.
//
// Contract:
//   - Concurrency: Wrap() returns an Operation safe for concurrent use.
//   - Context: propagates context through tracing spans.
//   - Errors: errors from the wrapped operation are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer    Tracer
	collector guard.MetricsCollector
	logger    Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. A nil collector skips metrics.
func NewMiddleware(tracer Tracer, collector guard.MetricsCollector, logger Logger) *Middleware {
	return &Middleware{
		tracer:    tracer,
		collector: collector,
		logger:    logger,
	}
}

// Wrap instruments an operation with tracing, metrics, and logging.
func (m *Middleware) Wrap(meta OpMeta, op guard.Operation) guard.Operation {
	return func(ctx context.Context) error {
		// Start span
		ctx, span := m.tracer.StartSpan(ctx, meta)

		// Record start time
		start := time.Now()

		// Execute the operation
		err := op(ctx)

		// Calculate duration
		duration := time.Since(start)

		// End span (records error status if err != nil)
		m.tracer.EndSpan(span, err)

		// Record metrics
		if m.collector != nil {
			labels := map[string]string{"name": meta.OpID()}
			m.collector.RecordDuration(meta.OpID(), duration)
			m.collector.IncrementCounter(metricOpCalls, labels)
			if err != nil {
				m.collector.IncrementCounter(metricOpErrors, labels)
			}
		}

		// Log the execution
		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration) / float64(time.Millisecond)},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "operation failed", fields...)
		} else {
			opLogger.Info(ctx, "operation completed", fields...)
		}

		return err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) *Middleware {
	return NewMiddleware(newTracer(obs.Tracer()), NewCollector(obs.Meter()), obs.Logger())
}
