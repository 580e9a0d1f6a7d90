package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrDegraded marks a check error as degraded rather than unhealthy.
	// Checkers wrap it: fmt.Errorf("%w: probing", health.ErrDegraded).
	ErrDegraded = errors.New("health: degraded")

	// ErrCheckTimeout indicates a health check did not finish before its
	// context expired.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
