package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// File is a file-backed store implementation. Each namespace is one
// JSON document (<dir>/<namespace>.json) holding every key in that
// namespace; values are base64-encoded by the JSON codec. Writes
// replace the document through a temp file and an atomic rename, so a
// reader never observes a partial document.
//
// The mutex serializes writers within one process only. Two processes
// writing the same namespace will not corrupt the document, but one of
// them loses the race.
type File struct {
	namespace string
	path      string

	mu sync.Mutex
}

// NewFile creates a file store for namespace under dir, creating dir if
// needed. The document itself is created lazily on first Set.
func NewFile(dir, namespace string) (*File, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state: create dir %s: %w", dir, err)
	}

	return &File{
		namespace: namespace,
		path:      filepath.Join(dir, namespace+".json"),
	}, nil
}

// Path returns the location of the namespace document.
func (f *File) Path() string {
	return f.path
}

// Get retrieves the value stored under key. A missing document and a
// missing key both return ErrNotFound.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	value, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set stores value under key, replacing any previous value. The whole
// read-modify-write runs under the store lock.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	doc[key] = stored
	return f.save(doc)
}

// Delete removes the value stored under key. Idempotent - no error on
// miss, and a miss does not rewrite the document.
func (f *File) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.save(doc)
}

// Keys lists the keys present in the namespace document, sorted.
func (f *File) Keys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for the file store; nothing is held open between
// operations.
func (f *File) Close() error {
	return nil
}

// load reads the namespace document. A document that does not exist yet
// reads as empty.
func (f *File) load() (map[string][]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", f.path, err)
	}

	doc := make(map[string][]byte)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("state: decode %s: %w", f.path, err)
	}
	return doc, nil
}

// save writes the document to a temp file in the same directory and
// renames it over the destination, so readers see the old document or
// the new one, never a prefix of either.
func (f *File) save(doc map[string][]byte) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("state: write %s: %w", f.path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("state: write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: write %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: write %s: %w", f.path, err)
	}
	return nil
}

// Ensure File implements Store
var _ Store = (*File)(nil)
