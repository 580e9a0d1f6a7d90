package health

import (
	"context"
	"sync"
)

// Registry holds named health checkers. The zero value is not usable;
// construct with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // Maintains registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a checker under name. Registering an existing name
// replaces the checker and keeps its original position.
func (r *Registry) Register(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checkers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.checkers[name] = checker
}

// Unregister removes a checker from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.checkers, name)

	// Remove from order
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Names returns the names of all registered checkers in registration
// order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Check runs a single named health check.
func (r *Registry) Check(ctx context.Context, name string) (Result, error) {
	r.mu.RLock()
	checker, ok := r.checkers[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	return runCheck(ctx, checker), nil
}

// snapshot copies the checker set so Aggregate runs against a stable
// view while registrations continue.
func (r *Registry) snapshot() map[string]Checker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkers := make(map[string]Checker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	return checkers
}
