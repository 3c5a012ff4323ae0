package refdata

import (
	"context"
	"errors"
	"log/slog"
)

// PreloadName is the pseudo table name carried by the load-error event when
// enumerating the backing storage itself fails.
const PreloadName = "<preload>"

// StartPreload kicks off the one-shot background preload pass: every
// discoverable table is loaded sequentially through the same single-flight
// path as ad-hoc requests. No-op when a pass already ran or is running, or
// when the backing storage location does not exist.
//
// Per-table failures are reported through the notifier and do not stop the
// pass; AllTablesLoaded fires exactly once after every discovered table has
// been attempted. A failure enumerating the storage location aborts the pass
// and resets the phase so a later call may retry.
func (c *Cache) StartPreload(ctx context.Context) {
	if !c.store.beginPreload() {
		return
	}
	go c.preload(ctx)
}

func (c *Cache) preload(ctx context.Context) {
	names, err := c.src.List()
	if err != nil {
		c.store.abortPreload()
		var le *LoadError
		if errors.As(err, &le) && le.Code == ErrorCodeNotFound {
			// Storage location absent: nothing to preload.
			slog.Debug("Reference data directory does not exist, skipping preload")
			return
		}
		slog.Warn("Failed to enumerate reference tables", "err", err)
		c.notifier.loadError(PreloadName, err)
		return
	}

	// Sequential on purpose: bounds decode-time resource usage and keeps
	// first-appearance event order deterministic for observers.
	for _, name := range names {
		if ctx.Err() != nil {
			c.store.abortPreload()
			return
		}
		// Load failures were already reported through the notifier;
		// a partial preload is a supported outcome.
		_, _ = c.EnsureLoaded(ctx, name)
	}

	if c.store.finishPreload() {
		slog.Info("Reference data preload complete", "tables", len(names))
		c.notifier.allTablesLoaded()
	}
}
