// Package health surfaces guard state as component health.
//
// This package implements a small health checking framework for
// processes that run guarded operations. It provides checkers for
// circuit breakers, throttles, and snapshot stores, a registry for
// named checkers, concurrent aggregation into an overall status, and
// HTTP handlers for the usual probe endpoints.
//
// # Core Concepts
//
// A Checker probes one component. A nil check error is healthy, an
// error wrapping ErrDegraded is degraded, and any other error is
// unhealthy.
//
// # Basic Usage
//
//	exec := guard.NewExecutor(
//	    guard.WithCircuitBreaker(guard.NewCircuitBreaker(guard.BreakerConfig{Name: "payment-api"})),
//	    guard.WithThrottle(guard.NewThrottle(guard.ThrottleConfig{Name: "payment-api", Calls: 50})),
//	)
//
//	reg := health.NewRegistry()
//	reg.Register("payment-breaker", health.NewBreakerChecker("", exec.Breaker()))
//	reg.Register("payment-throttle", health.NewThrottleChecker("", exec.Throttle()))
//
//	report := health.Aggregate(ctx, reg)
//	if report.Status == health.StatusUnhealthy {
//	    log.Printf("not ready: %+v", report.Checks)
//	}
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(reg))
//
//	// Detailed health status
//	http.Handle("/health", health.Handler(reg))
package health
