package refdata

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestStartPreload(t *testing.T) {
	t.Run("loads every table, tolerating failures", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "A", `[{"Name":"a"}]`)
		writeTable(t, dir, "B", `not json at all`)
		writeTable(t, dir, "C", `[{"Name":"c"}]`)

		c := New(NewDirSource(dir))
		log := &eventLog{}
		done := make(chan struct{})
		defer c.Subscribe(log)()
		defer c.Subscribe(ObserverFuncs{OnAllTablesLoaded: func() { close(done) }})()

		c.StartPreload(context.Background())
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("preload did not complete")
		}

		if got := log.loadedNames(); !slices.Equal(got, []string{"A", "C"}) {
			t.Errorf("table-loaded events = %v, want [A C]", got)
		}
		if got := log.erroredNames(); !slices.Equal(got, []string{"B"}) {
			t.Errorf("load-error events = %v, want [B]", got)
		}
		if got := log.allDoneCount(); got != 1 {
			t.Errorf("all-tables-loaded fired %d times, want 1", got)
		}
		if got := c.Phase(); got != PhasePreloaded {
			t.Errorf("Phase() = %v, want preloaded", got)
		}
		if got := c.LoadedNames(); !slices.Equal(got, []string{"A", "C"}) {
			t.Errorf("LoadedNames() = %v, want [A C]", got)
		}

		// A second pass is a no-op.
		c.StartPreload(context.Background())
		if got := log.allDoneCount(); got != 1 {
			t.Errorf("all-tables-loaded fired %d times after repeat call, want 1", got)
		}
	})

	t.Run("missing data directory is a no-op", func(t *testing.T) {
		c := New(NewDirSource(filepath.Join(t.TempDir(), "nope")))
		log := &eventLog{}
		defer c.Subscribe(log)()

		c.StartPreload(context.Background())
		waitFor(t, "preload to reset", func() bool { return c.Phase() == PhaseNotStarted })
		if got := log.erroredNames(); len(got) != 0 {
			t.Errorf("load-error events = %v, want none", got)
		}
		if got := log.allDoneCount(); got != 0 {
			t.Errorf("all-tables-loaded fired %d times, want 0", got)
		}
	})

	t.Run("enumeration failure aborts with pseudo-name", func(t *testing.T) {
		src := newStubSource()
		src.listErr = &LoadError{Table: "refdata", Code: ErrorCodeIO, Err: errors.New("permission denied")}
		c := New(src)
		errored := make(chan string, 1)
		defer c.Subscribe(ObserverFuncs{OnLoadError: func(name string, err error) { errored <- name }})()

		c.StartPreload(context.Background())
		select {
		case name := <-errored:
			if name != PreloadName {
				t.Errorf("load-error pseudo-name = %q, want %q", name, PreloadName)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no load-error event for enumeration failure")
		}
		waitFor(t, "preload to reset", func() bool { return c.Phase() == PhaseNotStarted })
	})

	t.Run("cancelled context stops the pass", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "A", `[{"Name":"a"}]`)
		c := New(NewDirSource(dir))
		log := &eventLog{}
		defer c.Subscribe(log)()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c.StartPreload(ctx)
		waitFor(t, "preload to reset", func() bool { return c.Phase() == PhaseNotStarted })
		if got := log.allDoneCount(); got != 0 {
			t.Errorf("all-tables-loaded fired %d times after cancellation, want 0", got)
		}
	})

	t.Run("ad-hoc load before preload still works", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "A", `[{"Name":"a"}]`)
		writeTable(t, dir, "B", `[{"Name":"b"}]`)
		c := New(NewDirSource(dir))

		if _, err := c.EnsureLoaded(context.Background(), "B"); err != nil {
			t.Fatalf("ad-hoc EnsureLoaded failed: %v", err)
		}
		done := make(chan struct{})
		defer c.Subscribe(ObserverFuncs{OnAllTablesLoaded: func() { close(done) }})()
		c.StartPreload(context.Background())
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("preload did not complete")
		}
		if got := c.LoadedNames(); !slices.Equal(got, []string{"A", "B"}) {
			t.Errorf("LoadedNames() = %v, want [A B]", got)
		}
	})
}
