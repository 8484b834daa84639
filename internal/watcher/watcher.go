// Package watcher reloads configuration when its file changes on disk.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"todos/internal/config"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
}

// New creates a new file watcher
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch starts watching the file for changes.
// It blocks until the context is cancelled or an error occurs.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory so editors that replace the file are still seen
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := fw.Add(dir); err != nil {
		return err
	}

	log.Printf("Watching %s for changes", w.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				stop()
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				log.Printf("File changed: %s", w.path)
				w.onChange()
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				stop()
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			stop()
			return ctx.Err()
		}
	}
}

// ConfigReloader re-reads a config file and hands the result to apply.
// A file that fails to load or validate is logged and the previous
// settings stay in effect.
func ConfigReloader(path string, apply func(*config.Config)) func() {
	return func() {
		cfg, _, err := config.LoadFromPath(path)
		if err != nil {
			log.Printf("Config reload failed, keeping previous settings: %v", err)
			return
		}
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			log.Printf("Config reload rejected, keeping previous settings: %v", err)
			return
		}
		apply(cfg)
	}
}

// WatchConfig watches path and applies every valid revision of it
func WatchConfig(ctx context.Context, path string, apply func(*config.Config)) error {
	return New(path, ConfigReloader(path, apply)).Watch(ctx)
}
