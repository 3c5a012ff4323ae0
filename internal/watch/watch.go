// Package watch keeps the reference-data cache in sync with the files on
// disk. The UI re-imports reference data from elsewhere; when table files
// change, the watcher invalidates the cache so the next lookup reloads.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debouncer collapses rapid successive triggers into a single callback after
// a quiet period. Imports and editors touch many table files back to back;
// one invalidation at the end is enough.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	callback func()
}

func newDebouncer(delay time.Duration, callback func()) *debouncer {
	return &debouncer{delay: delay, callback: callback}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.callback)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Dir watches dir for table file changes and calls onChange at most once per
// quiet period. It returns once the watch is installed and stops when ctx is
// cancelled. A missing directory is not an error for the caller to handle;
// it is reported as-is from fsnotify.
func Dir(ctx context.Context, dir string, delay time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}
	deb := newDebouncer(delay, onChange)
	go func() {
		defer func() {
			deb.stop()
			_ = w.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".json" {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					slog.DebugContext(ctx, "Reference data changed on disk", "file", event.Name, "op", event.Op)
					deb.trigger()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching reference data", "err", err)
			}
		}
	}()
	return nil
}
