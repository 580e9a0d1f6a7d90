package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one checker run.
type Result struct {
	// Status is the health status derived from the check error.
	Status Status

	// Error is the error returned by the check, nil when healthy.
	Error error

	// Duration is how long the check took.
	Duration time.Duration
}

// Report is the folded outcome of an Aggregate run.
type Report struct {
	// Status is the overall status across all checks.
	Status Status

	// Timestamp is when the report was taken.
	Timestamp time.Time

	// Checks holds the per-checker results by name.
	Checks map[string]Result
}

// Aggregate runs every registered checker concurrently and folds the
// results into an overall status. The context bounds the whole run;
// checks still in flight when it expires report ErrCheckTimeout.
func Aggregate(ctx context.Context, reg *Registry) Report {
	checkers := reg.snapshot()
	report := Report{
		Timestamp: time.Now(),
		Checks:    make(map[string]Result, len(checkers)),
	}
	if len(checkers) == 0 {
		return report
	}

	var g errgroup.Group
	var mu sync.Mutex
	for name, checker := range checkers {
		g.Go(func() error {
			result := runCheck(ctx, checker)
			mu.Lock()
			report.Checks[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.Status = Overall(report.Checks)
	return report
}

// Overall computes the overall health status from a set of results.
// Returns Unhealthy if any check is unhealthy.
// Returns Degraded if any check is degraded but none are unhealthy.
// Returns Healthy if all checks are healthy.
func Overall(checks map[string]Result) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, result := range checks {
		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// runCheck runs one checker, racing it against ctx so a stuck checker
// cannot hang the whole report. The result channel is buffered so a
// late finisher exits cleanly.
func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	done := make(chan error, 1)

	go func() {
		done <- checker.Check(ctx)
	}()

	select {
	case err := <-done:
		return Result{
			Status:   StatusOf(err),
			Error:    err,
			Duration: time.Since(start),
		}
	case <-ctx.Done():
		return Result{
			Status:   StatusUnhealthy,
			Error:    ErrCheckTimeout,
			Duration: time.Since(start),
		}
	}
}
