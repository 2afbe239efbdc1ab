// Package watch re-runs conversions when their input files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Config contains configuration for the watcher.
type Config struct {
	// Files are the inputs to watch.
	Files []string

	// Debounce is the time to wait after the last change to a file before
	// calling back for it.
	Debounce time.Duration
}

// Watcher watches a set of files. Their parent directories are watched
// instead of the files, so editors that save by renaming a temporary file
// over the original are seen too.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	files    map[string]bool
	dirs     []string
	debounce *Debouncer

	mu      sync.Mutex
	running bool
}

// New creates a watcher for cfg.Files.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("watch: no files")
	}
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}

	files := make(map[string]bool, len(cfg.Files))
	seen := map[string]bool{}
	var dirs []string
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fs:       fsw,
		logger:   logger,
		files:    files,
		dirs:     dirs,
		debounce: NewDebouncer(interval),
	}, nil
}

// Run calls onChange with the absolute path of every watched file that was
// written or recreated, once per burst of events. An error from onChange is
// logged and watching continues. Run blocks until ctx is cancelled and
// releases the watcher before returning, so a Watcher runs once.
func (w *Watcher) Run(ctx context.Context, onChange func(path string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		_ = w.fs.Close()
	}()

	for _, dir := range w.dirs {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		w.logger.Debug("Watching directory", "path", dir)
	}
	w.logger.Info("File watcher started", "files", len(w.files))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			path := event.Name
			w.logger.Debug("File event detected", "path", path, "op", event.Op.String())

			w.debounce.Trigger(path, func() {
				if err := onChange(path); err != nil {
					w.logger.Error("Conversion failed", "path", path, "error", err)
				}
			})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

// Debouncer delays callbacks until events for the same key stop arriving
// for one interval. Only the last callback of a burst runs.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval, timers: map[string]*time.Timer{}}
}

// Trigger (re)starts the timer for key. After Stop it does nothing.
func (d *Debouncer) Trigger(key string, callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		current := d.timers[key] == t && !d.stopped
		if current {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		if current {
			callback()
		}
	})
	d.timers[key] = t
}

// Stop cancels every pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
