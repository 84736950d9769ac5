package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/logging"
)

// DefaultWatchDebounce is how long the watcher waits for writes to settle.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher reloads a registry file when it changes on disk and passes the
// fresh registry to a single callback.
//
// The parent directory is watched, not the file: Save replaces the file with
// a rename, which would drop a watch held on the file itself.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Registry)
	onError  func(error)

	fs       *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long writes must be quiet before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler is called when a changed file fails to load. Load errors
// are logged either way.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewRegistryWatcher creates a watcher for the registry at path. onReload
// runs on the watcher's goroutine.
func NewRegistryWatcher(path string, onReload func(*Registry), opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultWatchDebounce,
		onReload: onReload,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The file's directory must exist.
func (w *Watcher) Start() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.fs = fs

	logging.Debug("Config watcher started", zap.String("path", w.path), zap.Duration("debounce", w.debounce))
	go w.run()
	return nil
}

// Stop ends watching and waits for the watcher goroutine. It is safe to call
// more than once, and on a watcher that never started.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		if w.fs == nil {
			return
		}
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	settle := time.NewTimer(w.debounce)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-w.stop:
			logging.Debug("Config watcher stopped")
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.touches(ev) {
				logging.Debug("Config file change detected", zap.String("op", ev.Op.String()))
				settle.Reset(w.debounce)
			}

		case <-settle.C:
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Warn("Config watcher error", zap.Error(err))
		}
	}
}

// touches reports whether ev rewrote the watched file. Editors and Save
// replace the file, so creates and renames count as well as writes.
func (w *Watcher) touches(ev fsnotify.Event) bool {
	return filepath.Clean(ev.Name) == w.path &&
		ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) reload() {
	r, err := LoadFile(w.path)
	if err != nil {
		logging.Warn("Failed to reload config", zap.String("path", w.path), zap.Error(err))
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	logging.Info("Config reloaded", zap.String("path", w.path), zap.Strings("pattern_order", r.Preferences.PatternOrderOrDefault()))
	if w.onReload != nil {
		w.onReload(r)
	}
}
