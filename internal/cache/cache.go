// Package cache is an in-memory mirror of server entities for a presentation
// layer. It is never authoritative: the store always wins, and every
// optimistic patch hands back an undo so a failed mutation can restore the
// exact pre-mutation state instead of leaving a stale entry behind.
//
// The container is injected, not a package global, so tests and callers
// never share hidden state.
package cache

import (
	"sync"

	"github.com/quietbill/quietbill/internal/models"
)

// Mirror holds the last-fetched set of one entity type plus loading/error
// flags, and notifies subscribers on every visible change.
//
// Mutations are last-write-wins: two concurrent patches on the same id are
// not serialized, and the later Reset or Put simply overwrites. That matches
// the server's own concurrency stance and is documented here rather than
// papered over with locking per id.
type Mirror[T any] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	err     error
	keyOf   func(T) string
	subs    map[int]func()
	nextSub int
}

// NewMirror builds a mirror keyed by keyOf (typically the entity id).
func NewMirror[T any](keyOf func(T) string) *Mirror[T] {
	return &Mirror[T]{keyOf: keyOf, subs: make(map[int]func())}
}

// Snapshot returns a copy of the current items; callers may not mutate the
// mirror through it.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Get returns the item with the given key, if mirrored.
func (m *Mirror[T]) Get(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if m.keyOf(it) == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of mirrored items.
func (m *Mirror[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Reset replaces the full collection after a fetch and clears the error.
func (m *Mirror[T]) Reset(items []T) {
	m.mu.Lock()
	m.items = make([]T, len(items))
	copy(m.items, items)
	m.loading = false
	m.err = nil
	m.mu.Unlock()
	m.notify()
}

// Put applies an optimistic upsert and returns an undo that restores the
// exact prior state (previous value, or absence) for rollback on mutation
// failure.
func (m *Mirror[T]) Put(item T) (undo func()) {
	key := m.keyOf(item)
	m.mu.Lock()
	idx := -1
	var prev T
	for i, it := range m.items {
		if m.keyOf(it) == key {
			idx, prev = i, it
			break
		}
	}
	if idx >= 0 {
		m.items[idx] = item
	} else {
		m.items = append(m.items, item)
	}
	m.mu.Unlock()
	m.notify()

	if idx >= 0 {
		return func() { m.Put(prev) }
	}
	return func() { m.Remove(key) }
}

// Remove applies an optimistic delete and returns an undo that reinserts the
// removed value. Removing an absent key is a no-op undo.
func (m *Mirror[T]) Remove(key string) (undo func()) {
	m.mu.Lock()
	idx := -1
	var prev T
	for i, it := range m.items {
		if m.keyOf(it) == key {
			idx, prev = i, it
			break
		}
	}
	if idx >= 0 {
		m.items = append(m.items[:idx], m.items[idx+1:]...)
	}
	m.mu.Unlock()
	m.notify()

	if idx < 0 {
		return func() {}
	}
	return func() { m.Put(prev) }
}

// SetLoading flips the loading flag around a fetch.
func (m *Mirror[T]) SetLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
	m.notify()
}

// Loading reports whether a fetch is in flight.
func (m *Mirror[T]) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Fail records a fetch/mutation error for the presentation layer to surface.
// It does not touch the items; callers roll back optimistic patches via the
// undo they already hold.
func (m *Mirror[T]) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.loading = false
	m.mu.Unlock()
	m.notify()
}

// Err returns the last recorded error, cleared by the next Reset.
func (m *Mirror[T]) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Subscribe registers fn to run after every visible change and returns an
// unsubscribe func.
func (m *Mirror[T]) Subscribe(fn func()) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Mirror[T]) notify() {
	m.mu.RLock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// State groups the mirrors a client session holds, one per entity type.
type State struct {
	Clients   *Mirror[models.Client]
	Invoices  *Mirror[models.Invoice]
	LineItems *Mirror[models.LineItem]
	Settings  *Mirror[models.Settings]
}

// NewState builds an empty mirror set keyed by entity id.
func NewState() *State {
	return &State{
		Clients:   NewMirror(func(c models.Client) string { return c.ID }),
		Invoices:  NewMirror(func(i models.Invoice) string { return i.ID }),
		LineItems: NewMirror(func(li models.LineItem) string { return li.ID }),
		Settings:  NewMirror(func(s models.Settings) string { return s.UserID }),
	}
}
