package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchFunc receives each reload result. A failed reload delivers a
// nil manifest alongside the error; the caller decides whether to keep
// the previously built set.
type WatchFunc func(m *Manifest, err error)

// WatchOption adjusts watcher behavior.
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
	}
}

// WithDebounce sets the quiet period between the last filesystem event
// and the reload. Editors that save through a temporary file emit
// several events per save; the debounce folds them into one reload.
//
// Default: 100ms.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// Watcher reloads a manifest file whenever it changes on disk.
type Watcher struct {
	path     string
	fn       WatchFunc
	debounce time.Duration

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu      sync.Mutex
	stopped bool
	timer   *time.Timer
}

// Watch reloads the manifest at path on every change and delivers the
// result to fn. The watch runs in a background goroutine until Stop is
// called.
//
// The parent directory is watched rather than the file itself. Editors
// that write a temporary file and rename it over the original would
// orphan a watch on the file at the first save.
func Watch(path string, fn WatchFunc, opts ...WatchOption) (*Watcher, error) {
	if _, err := detectFormat(path); err != nil {
		return nil, err
	}

	options := defaultWatchOptions()
	for _, opt := range opts {
		opt(options)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("config: watch directory %s: %w", dir, err),
			fsWatcher.Close(),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		fn:       fn,
		debounce: options.debounce,
		watcher:  fsWatcher,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Stop ends the watch and releases the filesystem watcher. A reload
// still debouncing is dropped. Stop is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	w.cancel()
	err := w.watcher.Close()
	w.mu.Unlock()

	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}

	// Write covers in-place saves. Create and Rename cover editors
	// that write a temporary file and move it over the original.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	// Each event resets the timer, so the reload fires once per burst.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		m, err := Load(w.path)
		if w.fn != nil {
			w.fn(m, err)
		}
	})
}

func (w *Watcher) handleError(err error) {
	if w.fn != nil {
		w.fn(nil, fmt.Errorf("config: watch: %w", err))
	}
}
