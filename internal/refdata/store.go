package refdata

import (
	"slices"
	"sync"
)

// Phase is the cache-wide preload lifecycle. It is independent of individual
// per-table load states: a table can be published via an ad-hoc request
// before or after the global preload completes.
type Phase int

const (
	// PhaseNotStarted means no preload has run since creation or the last
	// invalidation.
	PhaseNotStarted Phase = iota
	// PhasePreloading means the background preload pass is in progress.
	PhasePreloading
	// PhasePreloaded means the preload pass attempted every discovered table.
	PhasePreloaded
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhasePreloading:
		return "preloading"
	case PhasePreloaded:
		return "preloaded"
	default:
		return "unknown"
	}
}

// Store is the authoritative mapping from table name to its published Table.
// All operations are safe under unbounded concurrent callers and never block
// on I/O; loading is the Cache's concern.
//
// The generation counter orders InvalidateAll against in-flight loads: a load
// snapshots the generation when it starts and its publish is dropped if an
// invalidation happened in between, so stale data is never resurrected.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*Table
	gen    uint64
	phase  Phase
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*Table)}
}

// Get returns the published table, if any. Never blocks on I/O.
func (s *Store) Get(name string) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	return t, ok
}

// Contains reports whether the named table is published.
func (s *Store) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[name]
	return ok
}

// Publish atomically replaces the entry for name. Idempotent overwrite;
// readers holding the prior *Table keep seeing consistent old data.
func (s *Store) Publish(name string, t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t
}

// publishAt publishes only if no invalidation happened since gen was taken.
// Reports whether the table was published.
func (s *Store) publishAt(name string, t *Table, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.tables[name] = t
	return true
}

// InvalidateAll clears every entry and resets the preload phase, bumping the
// generation so that in-flight loads cannot publish stale data afterwards.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]*Table)
	s.gen++
	s.phase = PhaseNotStarted
}

// LoadedNames returns the sorted names of all published tables.
func (s *Store) LoadedNames() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (s *Store) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Phase returns the current preload phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// beginPreload transitions not-started to preloading. Reports whether this
// caller owns the preload pass.
func (s *Store) beginPreload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseNotStarted {
		return false
	}
	s.phase = PhasePreloading
	return true
}

// finishPreload transitions preloading to preloaded. Reports whether the
// transition happened; it does not when an invalidation reset the phase
// mid-pass.
func (s *Store) finishPreload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePreloading {
		return false
	}
	s.phase = PhasePreloaded
	return true
}

// abortPreload returns the phase to not-started so a later pass may retry.
func (s *Store) abortPreload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhasePreloading {
		s.phase = PhaseNotStarted
	}
}
