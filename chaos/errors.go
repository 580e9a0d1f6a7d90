package chaos

import "errors"

// ErrInjected is the default error returned for injected failures.
// Classifiers can match it with errors.Is to exclude injected faults
// from breaker and retry accounting.
var ErrInjected = errors.New("chaos: injected failure")
