package guard

import "errors"

// Classifier reports whether an error belongs to a configured set.
// Retriers use one to decide what is worth retrying; breakers use one to
// decide what counts as the dependency failing.
type Classifier func(err error) bool

// MatchErrors builds a Classifier that matches an error against targets
// using errors.Is. With no targets it matches nothing.
func MatchErrors(targets ...error) Classifier {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// AnyError classifies every non-nil error as a match.
func AnyError(err error) bool { return err != nil }
