package contract

import (
	"errors"
	"fmt"
)

// Kind identifies which side of a contract was violated.
type Kind int

const (
	// KindPre marks a precondition, checked before the work runs.
	KindPre Kind = iota
	// KindPost marks a postcondition, checked after the work succeeds.
	KindPost
	// KindInvariant marks a condition that must hold at any point.
	KindInvariant
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPre:
		return "precondition"
	case KindPost:
		return "postcondition"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// ErrViolation matches every contract violation under errors.Is.
var ErrViolation = errors.New("contract: violation")

// ViolationError reports a failed contract check.
type ViolationError struct {
	// Kind is the side of the contract that failed.
	Kind Kind
	// Detail describes the violated condition.
	Detail string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("contract: %s violated: %s", e.Kind, e.Detail)
}

func (e *ViolationError) Is(target error) bool { return target == ErrViolation }

// Require returns a precondition violation when cond is false, nil
// otherwise. The detail is built with fmt.Sprintf.
func Require(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &ViolationError{Kind: KindPre, Detail: fmt.Sprintf(format, args...)}
}

// Ensure returns a postcondition violation when cond is false, nil
// otherwise.
func Ensure(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &ViolationError{Kind: KindPost, Detail: fmt.Sprintf(format, args...)}
}

// Invariant returns an invariant violation when cond is false, nil
// otherwise.
func Invariant(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &ViolationError{Kind: KindInvariant, Detail: fmt.Sprintf(format, args...)}
}
