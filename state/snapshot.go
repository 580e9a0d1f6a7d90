package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/guardops/guard"
)

// Key layout for persisted guard snapshots.
const (
	breakerKeyPrefix  = "breaker:"
	throttleKeyPrefix = "throttle:"
)

// SaveBreaker persists a JSON snapshot of the breaker's observable
// state under "breaker:<name>". Snapshots are observational only: a
// loaded snapshot never feeds back into admission decisions, and a
// shared store is never a coordination channel between processes.
func SaveBreaker(ctx context.Context, store Store, name string, br *guard.CircuitBreaker) error {
	data, err := json.Marshal(br.Snapshot())
	if err != nil {
		return fmt.Errorf("state: encode breaker snapshot: %w", err)
	}
	return store.Set(ctx, breakerKeyPrefix+name, data)
}

// LoadBreaker reads back the breaker snapshot saved under name. A
// snapshot that was never saved returns ErrNotFound.
func LoadBreaker(ctx context.Context, store Store, name string) (guard.BreakerSnapshot, error) {
	data, err := store.Get(ctx, breakerKeyPrefix+name)
	if err != nil {
		return guard.BreakerSnapshot{}, err
	}

	var snap guard.BreakerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return guard.BreakerSnapshot{}, fmt.Errorf("state: decode breaker snapshot: %w", err)
	}
	return snap, nil
}

// SaveThrottle persists a JSON snapshot of the bucket's observable
// state under "throttle:<name>". Observational only, like SaveBreaker.
func SaveThrottle(ctx context.Context, store Store, name string, th *guard.Throttle) error {
	data, err := json.Marshal(th.Snapshot())
	if err != nil {
		return fmt.Errorf("state: encode throttle snapshot: %w", err)
	}
	return store.Set(ctx, throttleKeyPrefix+name, data)
}

// LoadThrottle reads back the bucket snapshot saved under name. A
// snapshot that was never saved returns ErrNotFound.
func LoadThrottle(ctx context.Context, store Store, name string) (guard.ThrottleSnapshot, error) {
	data, err := store.Get(ctx, throttleKeyPrefix+name)
	if err != nil {
		return guard.ThrottleSnapshot{}, err
	}

	var snap guard.ThrottleSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return guard.ThrottleSnapshot{}, fmt.Errorf("state: decode throttle snapshot: %w", err)
	}
	return snap, nil
}
