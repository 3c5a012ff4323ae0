package refdata

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// writeTable writes one table file into dir.
func writeTable(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+tableExt), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write table %s: %v", name, err)
	}
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// stubSource is an in-memory Source that counts Load calls and can block
// in-flight loads behind a gate.
type stubSource struct {
	mu      sync.Mutex
	loads   map[string]int
	tables  map[string]string // name -> JSON document
	listErr error

	gate    chan struct{} // when non-nil, Load blocks until closed
	entered chan string   // when non-nil, receives the name on Load entry
}

func newStubSource() *stubSource {
	return &stubSource{
		loads:  make(map[string]int),
		tables: make(map[string]string),
	}
}

func (s *stubSource) Load(name string) (*Table, error) {
	s.mu.Lock()
	s.loads[name]++
	doc, ok := s.tables[name]
	gate := s.gate
	entered := s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- name
	}
	if gate != nil {
		<-gate
	}
	if !ok {
		return nil, &LoadError{Table: name, Code: ErrorCodeNotFound, Err: os.ErrNotExist}
	}
	t, err := decodeTable(name, []byte(doc))
	if err != nil {
		return nil, &LoadError{Table: name, Code: ErrorCodeDecode, Err: err}
	}
	return t, nil
}

func (s *stubSource) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names, nil
}

func (s *stubSource) loadCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[name]
}

// eventLog is an Observer recording every event it sees.
type eventLog struct {
	mu      sync.Mutex
	loaded  []string
	errored []string
	allDone int
}

func (l *eventLog) TableLoaded(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = append(l.loaded, name)
}

func (l *eventLog) AllTablesLoaded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allDone++
}

func (l *eventLog) LoadError(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errored = append(l.errored, name)
}

func (l *eventLog) loadedNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loaded...)
}

func (l *eventLog) erroredNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errored...)
}

func (l *eventLog) allDoneCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allDone
}
