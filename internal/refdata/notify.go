package refdata

import "sync"

// Observer receives load-lifecycle events. Callbacks fire synchronously from
// whichever goroutine triggered the condition and must not call back into the
// cache for the same table name; do not assume any particular goroutine.
type Observer interface {
	// TableLoaded fires once per successful publish of a table.
	TableLoaded(name string)
	// AllTablesLoaded fires once when the preload pass completes, whether or
	// not individual tables failed.
	AllTablesLoaded()
	// LoadError fires once per failed load or decode attempt.
	LoadError(name string, err error)
}

// ObserverFuncs adapts closures to Observer. Nil funcs are skipped.
type ObserverFuncs struct {
	OnTableLoaded     func(name string)
	OnAllTablesLoaded func()
	OnLoadError       func(name string, err error)
}

// TableLoaded implements Observer.
func (o ObserverFuncs) TableLoaded(name string) {
	if o.OnTableLoaded != nil {
		o.OnTableLoaded(name)
	}
}

// AllTablesLoaded implements Observer.
func (o ObserverFuncs) AllTablesLoaded() {
	if o.OnAllTablesLoaded != nil {
		o.OnAllTablesLoaded()
	}
}

// LoadError implements Observer.
func (o ObserverFuncs) LoadError(name string, err error) {
	if o.OnLoadError != nil {
		o.OnLoadError(name, err)
	}
}

// Notifier fans load-lifecycle events out to registered observers.
type Notifier struct {
	mu   sync.RWMutex
	next int
	subs map[int]Observer
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]Observer)}
}

// Subscribe registers o and returns a func that unregisters it. Safe to call
// concurrently with event delivery.
func (n *Notifier) Subscribe(o Observer) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = o
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// snapshot copies the subscriber set so events are delivered without holding
// the lock; an observer unsubscribing from within a callback cannot deadlock.
func (n *Notifier) snapshot() []Observer {
	n.mu.RLock()
	defer n.mu.RUnlock()
	subs := make([]Observer, 0, len(n.subs))
	for _, o := range n.subs {
		subs = append(subs, o)
	}
	return subs
}

func (n *Notifier) tableLoaded(name string) {
	for _, o := range n.snapshot() {
		o.TableLoaded(name)
	}
}

func (n *Notifier) allTablesLoaded() {
	for _, o := range n.snapshot() {
		o.AllTablesLoaded()
	}
}

func (n *Notifier) loadError(name string, err error) {
	for _, o := range n.snapshot() {
		o.LoadError(name, err)
	}
}
