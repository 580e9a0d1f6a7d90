package guard

import "time"

// MetricsCollector receives observations from guards. Supplying one is
// optional: guards behave identically without a collector, they only
// skip observation.
//
// Contract: implementations must be safe for concurrent use and should
// not block; guards call them outside their internal locks.
type MetricsCollector interface {
	// RecordDuration records how long one invocation of the named
	// operation took.
	RecordDuration(name string, d time.Duration)

	// IncrementCounter adds one to the named counter.
	IncrementCounter(name string, labels map[string]string)

	// SetGauge sets the named gauge to value.
	SetGauge(name string, value float64, labels map[string]string)
}

// Metric names emitted by the guards in this package.
const (
	metricRetryAttempts    = "retry_attempts"
	metricRetryExhausted   = "retry_exhausted"
	metricCircuitState     = "circuit_state"
	metricCircuitFailures  = "circuit_failures"
	metricCircuitRejected  = "circuit_rejected"
	metricThrottleAdmitted = "throttle_admitted"
	metricThrottleRejected = "throttle_rejected"
	metricBulkheadRejected = "bulkhead_rejected"
)

// Breaker state gauge values: 0 open, 1 half-open, 2 closed. Lower means
// less available.
func stateGaugeValue(s State) float64 {
	switch s {
	case StateOpen:
		return 0
	case StateHalfOpen:
		return 1
	default:
		return 2
	}
}
