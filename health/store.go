package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/guardops/state"
)

// probeKey is read on every store check. It does not need to exist; a
// miss proves the backend answered.
const probeKey = "health-probe"

// StoreChecker probes a snapshot store backend with a read. Only
// transport or decode failures mark the backend unhealthy.
type StoreChecker struct {
	name  string
	store state.Store
}

// NewStoreChecker creates a checker that probes store.
func NewStoreChecker(name string, store state.Store) *StoreChecker {
	return &StoreChecker{name: name, store: store}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check reads the probe key. A missing key is healthy.
func (c *StoreChecker) Check(ctx context.Context) error {
	if _, err := c.store.Get(ctx, probeKey); err != nil && !errors.Is(err, state.ErrNotFound) {
		return fmt.Errorf("store probe: %w", err)
	}
	return nil
}
