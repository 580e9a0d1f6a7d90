package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type reloadResult struct {
	m   *Manifest
	err error
}

func writeManifest(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestWatch_ReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guards.yaml")
	writeManifest(t, path, "guards:\n  a:\n    timeout:\n      duration: 1s\n")

	results := make(chan reloadResult, 4)
	w, err := Watch(path, func(m *Manifest, err error) {
		results <- reloadResult{m, err}
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeManifest(t, path, "guards:\n  a:\n    timeout:\n      duration: 2s\n")

	select {
	case r := <-results:
		if r.err != nil {
			t.Fatalf("reload error = %v", r.err)
		}
		if got := r.m.Guards["a"].Timeout.Duration; got != 2*time.Second {
			t.Fatalf("reloaded duration = %v, want 2s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reload never delivered")
	}
}

// Editors such as vim save by writing a temporary file and renaming it
// over the original. The directory watch must survive that.
func TestWatch_RenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guards.yaml")
	writeManifest(t, path, "guards:\n  a:\n    timeout:\n      duration: 1s\n")

	results := make(chan reloadResult, 4)
	w, err := Watch(path, func(m *Manifest, err error) {
		results <- reloadResult{m, err}
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	tmp := filepath.Join(dir, "guards.yaml.tmp")
	writeManifest(t, tmp, "guards:\n  a:\n    timeout:\n      duration: 3s\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case r := <-results:
		if r.err != nil {
			t.Fatalf("reload error = %v", r.err)
		}
		if got := r.m.Guards["a"].Timeout.Duration; got != 3*time.Second {
			t.Fatalf("reloaded duration = %v, want 3s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reload never delivered")
	}
}

func TestWatch_DeliversLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guards.yaml")
	writeManifest(t, path, "guards: {}\n")

	results := make(chan reloadResult, 4)
	w, err := Watch(path, func(m *Manifest, err error) {
		results <- reloadResult{m, err}
	}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeManifest(t, path, "guards: [broken\n")

	select {
	case r := <-results:
		if r.m != nil {
			t.Fatalf("expected nil manifest on failed reload")
		}
		if !errors.Is(r.err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reload never delivered")
	}
}

func TestWatch_DebounceFoldsBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guards.yaml")
	writeManifest(t, path, "guards: {}\n")

	var mu sync.Mutex
	reloads := 0
	w, err := Watch(path, func(m *Manifest, err error) {
		mu.Lock()
		defer mu.Unlock()
		reloads++
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	for i := 0; i < 5; i++ {
		writeManifest(t, path, "guards: {}\n")
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	count := reloads
	mu.Unlock()
	if count == 0 {
		t.Fatalf("expected at least one reload")
	}
	if count >= 5 {
		t.Fatalf("reloads = %d, expected the burst to fold", count)
	}
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guards.yaml")
	writeManifest(t, path, "guards: {}\n")

	var mu sync.Mutex
	reloads := 0
	w, err := Watch(path, func(m *Manifest, err error) {
		mu.Lock()
		defer mu.Unlock()
		reloads++
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeManifest(t, filepath.Join(dir, "other.yaml"), "guards: {}\n")
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	count := reloads
	mu.Unlock()
	if count != 0 {
		t.Fatalf("reloads = %d, expected sibling writes to be ignored", count)
	}
}

func TestWatch_StopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guards.yaml")
	writeManifest(t, path, "guards: {}\n")

	w, err := Watch(path, func(m *Manifest, err error) {})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}

// Stop drops a reload that is still inside its debounce window.
func TestWatch_StopCancelsPendingReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guards.yaml")
	writeManifest(t, path, "guards: {}\n")

	var mu sync.Mutex
	reloaded := false
	w, err := Watch(path, func(m *Manifest, err error) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = true
	}, WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeManifest(t, path, "guards: {}\n")
	time.Sleep(50 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	called := reloaded
	mu.Unlock()
	if called {
		t.Fatalf("reload fired after Stop")
	}
}

func TestWatch_UnknownExtension(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "guards.toml"), func(m *Manifest, err error) {})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWatch_NilFuncSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guards.yaml")
	writeManifest(t, path, "guards: {}\n")

	w, err := Watch(path, nil, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeManifest(t, path, "guards: {}\n")
	time.Sleep(100 * time.Millisecond)
}
