package health

import (
	"context"
	"errors"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its string form for JSON reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Checker is the interface for health checks. A nil error is healthy,
// an error wrapping ErrDegraded is degraded, and any other error is
// unhealthy.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check probes the component.
	Check(ctx context.Context) error
}

// StatusOf maps a check error to its status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusHealthy
	case errors.Is(err, ErrDegraded):
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) error) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check probes the component.
func (f *CheckerFunc) Check(ctx context.Context) error {
	return f.fn(ctx)
}
