package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"clausewitz-hq/almanac/pkg/config"
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Path is the directory tree to watch
	Path string

	// Debounce is how long to wait after the last event before reloading
	Debounce time.Duration

	// Extensions lists the file extensions that trigger a reload
	Extensions []string

	// SkipHidden ignores dot files and directories
	SkipHidden bool
}

// WatcherConfigFrom builds a watcher configuration for path.
func WatcherConfigFrom(cfg *config.Config, path string) *WatcherConfig {
	return &WatcherConfig{
		Path:       path,
		Debounce:   cfg.Watch.Debounce,
		Extensions: cfg.Aggregate.Extensions,
		SkipHidden: cfg.Aggregate.SkipHidden,
	}
}

// Watcher calls a function whenever script files under a directory change.
// Bursts of events are coalesced by a Debouncer.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *WatcherConfig
	debounce *Debouncer

	mu        sync.Mutex
	running   bool
	closeOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewWatcher creates a watcher. Call Watch to start it.
func NewWatcher(cfg *WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("watch path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher: fw,
		logger:  logger.With("component", "watcher"),
		config:  cfg,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, invoking onChange
// after each debounced burst of relevant events. Errors returned by onChange
// are logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func(context.Context) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher is already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	w.debounce = NewDebouncer(w.config.Debounce, func() {
		w.logger.Info("Files changed, reloading", "path", w.config.Path)
		if err := onChange(ctx); err != nil {
			w.logger.Error("Reload failed", "path", w.config.Path, "error", err)
		}
	})
	defer w.debounce.Stop()

	if err := w.addRecursive(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.config.Path, err)
	}

	w.logger.Info("Watching for changes",
		"path", w.config.Path,
		"debounce", w.config.Debounce,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped", "reason", "context cancelled")
			return ctx.Err()

		case <-w.stopCh:
			w.logger.Info("Watcher stopped", "reason", "stop requested")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop stops a running Watch and releases the underlying watcher.
// It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})

	if running {
		select {
		case <-w.doneCh:
		case <-time.After(5 * time.Second):
			return errors.New("timeout waiting for watcher to stop")
		}
	}
	return err
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if w.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	// New directories must be added explicitly; their files are picked up by
	// the reload triggered here.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
			w.debounce.Trigger()
			return
		}
	}

	ext := filepath.Ext(event.Name)
	removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	if !w.hasValidExtension(ext) && !(removed && ext == "") {
		return
	}

	w.logger.Debug("File event", "path", event.Name, "op", event.Op.String())
	w.debounce.Trigger()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.config.SkipHidden && path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		w.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

func (w *Watcher) hasValidExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// Debouncer runs a callback once events stop arriving for an interval.
type Debouncer struct {
	interval time.Duration
	callback func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer calling callback after interval of quiet.
func NewDebouncer(interval time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
	}
}

// Trigger restarts the quiet interval.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped {
		d.callback()
	}
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
