/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package replica

import (
	"sync"

	"github.com/YF-George/group-web/internal/entity"
)

// Store is the in-memory replica of one watched collection: an
// order-preserving mapping from id to the current known state. It is the
// single owner of entity state on the client side and its lock is the one
// choke point every mutation goes through, so a reader can never observe a
// half-applied merge.
//
// Values are cloned on the way in and on the way out; callers never share
// memory with the cache. Insertion order is preserved for display only,
// it carries no meaning.
type Store[K comparable, V any] struct {
	key   func(V) K
	clone func(V) V

	lock    sync.Mutex
	order   []K
	items   map[K]V
	nextSub int
	subs    map[int]func([]V)
}

func NewStore[K comparable, V any](key func(V) K, clone func(V) V) *Store[K, V] {
	return &Store[K, V]{
		key:   key,
		clone: clone,
		items: make(map[K]V),
		subs:  make(map[int]func([]V)),
	}
}

// Get returns a copy of the entity with the given id, if present
func (s *Store[K, V]) Get(id K) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	v, ok := s.items[id]
	if !ok {
		var zero V
		return zero, false
	}
	return s.clone(v), true
}

// Upsert inserts the entity or replaces the one sharing its id.
// Subscribers are notified synchronously before Upsert returns.
func (s *Store[K, V]) Upsert(v V) {
	id := s.key(v)

	s.lock.Lock()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = s.clone(v)
	snapshot, subs := s.snapshotAndSubsLocked()
	s.lock.Unlock()

	notify(snapshot, subs)
}

// Remove deletes the entity with the given id. Removing an absent id is a
// no-op and triggers no notification.
func (s *Store[K, V]) Remove(id K) {
	s.lock.Lock()
	if _, ok := s.items[id]; !ok {
		s.lock.Unlock()
		return
	}
	delete(s.items, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	snapshot, subs := s.snapshotAndSubsLocked()
	s.lock.Unlock()

	notify(snapshot, subs)
}

// Replace swaps the whole collection for the given one, preserving the
// order of the slice. Used when loading the initial state from the authority.
func (s *Store[K, V]) Replace(vs []V) {
	s.lock.Lock()
	s.order = s.order[:0]
	clear(s.items)
	for _, v := range vs {
		id := s.key(v)
		if _, ok := s.items[id]; !ok {
			s.order = append(s.order, id)
		}
		s.items[id] = s.clone(v)
	}
	snapshot, subs := s.snapshotAndSubsLocked()
	s.lock.Unlock()

	notify(snapshot, subs)
}

// Snapshot returns a copy of the whole collection in insertion order
func (s *Store[K, V]) Snapshot() []V {
	s.lock.Lock()
	defer s.lock.Unlock()
	snapshot, _ := s.snapshotAndSubsLocked()
	return snapshot
}

// Len returns how many entities the cache currently holds
func (s *Store[K, V]) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.items)
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// mutation. The returned function removes the subscription.
func (s *Store[K, V]) Subscribe(cb func([]V)) func() {
	s.lock.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = cb
	s.lock.Unlock()

	return func() {
		s.lock.Lock()
		delete(s.subs, id)
		s.lock.Unlock()
	}
}

func (s *Store[K, V]) snapshotAndSubsLocked() ([]V, []func([]V)) {
	snapshot := make([]V, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.clone(s.items[id]))
	}
	subs := make([]func([]V), 0, len(s.subs))
	for _, cb := range s.subs {
		subs = append(subs, cb)
	}
	return snapshot, subs
}

func notify[V any](snapshot []V, subs []func([]V)) {
	for _, cb := range subs {
		cb(snapshot)
	}
}

// NewMemberStore builds the replica cache for roster members
func NewMemberStore() *Store[uint, *entity.Member] {
	return NewStore(
		func(m *entity.Member) uint { return m.ID },
		func(m *entity.Member) *entity.Member { return m.Clone() },
	)
}

// NewFieldStore builds the replica cache for form fields
func NewFieldStore() *Store[string, *entity.FormField] {
	return NewStore(
		func(f *entity.FormField) string { return f.ID },
		func(f *entity.FormField) *entity.FormField { return f.Clone() },
	)
}
