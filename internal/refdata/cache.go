package refdata

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Cache is the reference-data cache: a Store fronted by single-flight lazy
// loading from a Source. Create one per application at startup and share it;
// there is no hidden global instance.
type Cache struct {
	store    *Store
	src      Source
	notifier *Notifier
	sf       singleflight.Group
}

// New returns a cache loading from src.
func New(src Source) *Cache {
	return &Cache{
		store:    NewStore(),
		src:      src,
		notifier: NewNotifier(),
	}
}

// Get returns the published table without triggering a load.
func (c *Cache) Get(name string) (*Table, bool) { return c.store.Get(name) }

// Contains reports whether the named table is published.
func (c *Cache) Contains(name string) bool { return c.store.Contains(name) }

// LoadedNames returns the sorted names of all published tables.
func (c *Cache) LoadedNames() []string { return c.store.LoadedNames() }

// InvalidateAll clears every published table and resets the preload phase.
// Call it after reference data is re-imported from elsewhere.
func (c *Cache) InvalidateAll() { c.store.InvalidateAll() }

// Phase returns the preload phase.
func (c *Cache) Phase() Phase { return c.store.Phase() }

// Subscribe registers an observer for load-lifecycle events and returns a
// func that unregisters it.
func (c *Cache) Subscribe(o Observer) func() { return c.notifier.Subscribe(o) }

// EnsureLoaded returns the named table, loading it if necessary. Concurrent
// callers for the same name share a single load: the owner decodes and
// publishes, the rest suspend until the result is ready. A failed load is
// reported once through the notifier, returned to every waiter, and never
// cached, so a later call retries.
//
// Cancelling ctx detaches this caller without affecting the in-flight load or
// other waiters.
func (c *Cache) EnsureLoaded(ctx context.Context, name string) (*Table, error) {
	if t, ok := c.store.Get(name); ok {
		return t, nil
	}
	ch := c.sf.DoChan(name, func() (any, error) {
		return c.load(name)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	}
}

// load runs at most once per name at any instant. It owns the decode; waiter
// cancellation never interrupts it. The generation snapshot orders the publish
// against InvalidateAll: a load that raced an invalidation keeps its result
// out of the store instead of resurrecting stale data.
func (c *Cache) load(name string) (*Table, error) {
	// A caller can start a fresh flight right after the previous one
	// published; re-check the store before touching the source.
	if t, ok := c.store.Get(name); ok {
		return t, nil
	}
	gen := c.store.generation()
	t, err := c.src.Load(name)
	if err != nil {
		slog.Warn("Failed to load reference table", "table", name, "err", err)
		c.notifier.loadError(name, err)
		return nil, err
	}
	if !c.store.publishAt(name, t, gen) {
		// Invalidated while decoding. The waiters still get a consistent
		// snapshot, but it stays out of the store; the next request reloads.
		slog.Debug("Dropped reference table publish after invalidation", "table", name)
		return t, nil
	}
	slog.Debug("Loaded reference table", "table", name, "rows", t.Len())
	c.notifier.tableLoaded(name)
	return t, nil
}
