package state

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory store implementation. It is the default
// backend for tests and single-process use; contents do not survive the
// process.
type Memory struct {
	namespace string

	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store bound to namespace.
func NewMemory(namespace string) (*Memory, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	return &Memory{
		namespace: namespace,
		values:    make(map[string][]byte),
	}, nil
}

// Get retrieves the value stored under key. Returns ErrNotFound on miss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	value, ok := m.values[fullKey(m.namespace, key)]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.values[fullKey(m.namespace, key)] = stored
	m.mu.Unlock()
	return nil
}

// Delete removes the value stored under key. Idempotent - no error on miss.
func (m *Memory) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.values, fullKey(m.namespace, key))
	m.mu.Unlock()
	return nil
}

// Keys lists the keys present in the store's namespace, sorted.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	prefix := fullKey(m.namespace, "")

	m.mu.RLock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k[len(prefix):])
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)
