package state

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a store key.
const MaxKeyLength = 512

// Sentinel errors for store operations.
var (
	ErrNotFound         = errors.New("state: key not found")
	ErrInvalidKey       = errors.New("state: key is invalid")
	ErrKeyTooLong       = errors.New("state: key exceeds max length")
	ErrInvalidNamespace = errors.New("state: namespace is invalid")
)

// Store is a namespaced key-value store for guard state snapshots and
// other small documents. Every store is bound to one namespace at
// construction; keys from other namespaces are invisible to it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get returns ErrNotFound (possibly wrapped) for a missing key.
//   Delete is idempotent and does not error on a missing key.
type Store interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key.
	Delete(ctx context.Context, key string) error

	// Keys lists the keys present in the store's namespace.
	Keys(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// ValidateKey checks if a key is valid for storage.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// ValidateNamespace checks if a namespace is usable as a key prefix and,
// for the file store, as a file name. Letters, digits, dot, dash, and
// underscore only.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return ErrInvalidNamespace
	}
	for _, r := range namespace {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return ErrInvalidNamespace
		}
	}
	return nil
}

// fullKey joins a namespace and key into the form stored by prefix-based
// backends. The namespace alphabet excludes ':' so the prefix is
// unambiguous.
func fullKey(namespace, key string) string {
	return namespace + ":" + key
}
