// Package memory keeps form sessions in process memory. Nothing outlives the
// process: a restart is equivalent to every applicant reloading the page.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry[S any] struct {
	session  S
	lastSeen time.Time
}

// Store maps opaque session IDs to sessions and forgets sessions idle for
// longer than ttl. Expiry is lazy: it happens on Create and Get.
type Store[S any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry[S]
	onEvict func(S)
}

// New returns an empty store. A zero ttl disables expiry. onEvict, when
// non-nil, runs for every session removed by expiry or Delete.
func New[S any](ttl time.Duration, onEvict func(S)) *Store[S] {
	return &Store[S]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry[S]),
		onEvict: onEvict,
	}
}

// SetClock replaces the time source; used by tests.
func (st *Store[S]) SetClock(now func() time.Time) { st.now = now }

func (st *Store[S]) Create(s S) string {
	id := uuid.NewString()
	st.mu.Lock()
	evicted := st.sweep()
	st.entries[id] = &entry[S]{session: s, lastSeen: st.now()}
	st.mu.Unlock()
	st.evict(evicted)
	return id
}

func (st *Store[S]) Get(id string) (S, bool) {
	st.mu.Lock()
	evicted := st.sweep()
	e, ok := st.entries[id]
	if ok {
		e.lastSeen = st.now()
	}
	st.mu.Unlock()
	st.evict(evicted)
	if !ok {
		var zero S
		return zero, false
	}
	return e.session, true
}

func (st *Store[S]) Delete(id string) {
	st.mu.Lock()
	e, ok := st.entries[id]
	delete(st.entries, id)
	st.mu.Unlock()
	if ok {
		st.evict([]S{e.session})
	}
}

// Len reports the number of live sessions.
func (st *Store[S]) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// sweep must be called with st.mu held.
func (st *Store[S]) sweep() []S {
	if st.ttl <= 0 {
		return nil
	}
	var out []S
	cutoff := st.now().Add(-st.ttl)
	for id, e := range st.entries {
		if e.lastSeen.Before(cutoff) {
			out = append(out, e.session)
			delete(st.entries, id)
		}
	}
	return out
}

func (st *Store[S]) evict(sessions []S) {
	if st.onEvict == nil {
		return
	}
	for _, s := range sessions {
		st.onEvict(s)
	}
}
