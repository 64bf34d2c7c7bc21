/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package replica

import (
	"testing"

	"github.com/YF-George/group-web/internal/entity"
)

func TestStoreUpsertAndGet(t *testing.T) {
	store := NewMemberStore()

	store.Upsert(testMember(7, ""))
	m, ok := store.Get(7)
	if !ok {
		t.Fatal("Member 7 was not found after upsert")
	}
	if m.Nickname != "" {
		t.Errorf("Expected empty nickname, got %q", m.Nickname)
	}

	store.Upsert(testMember(7, "Tank"))
	m, _ = store.Get(7)
	if m.Nickname != "Tank" {
		t.Errorf("Expected nickname Tank after replace, got %q", m.Nickname)
	}
	if store.Len() != 1 {
		t.Errorf("Expected one entry, got %d", store.Len())
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewMemberStore()
	store.Upsert(testMember(1, "Alice"))

	m, _ := store.Get(1)
	m.Nickname = "mutated"

	again, _ := store.Get(1)
	if again.Nickname != "Alice" {
		t.Errorf("Cache was mutated through a returned copy, got %q", again.Nickname)
	}
}

func TestStorePreservesInsertionOrder(t *testing.T) {
	store := NewMemberStore()
	store.Upsert(testMember(3, "c"))
	store.Upsert(testMember(1, "a"))
	store.Upsert(testMember(2, "b"))

	// Replacing an existing entry must not move it
	store.Upsert(testMember(3, "c2"))

	snapshot := store.Snapshot()
	want := []uint{3, 1, 2}
	for i, m := range snapshot {
		if m.ID != want[i] {
			t.Fatalf("Position %d holds member %d, expected %d", i, m.ID, want[i])
		}
	}
}

func TestStoreRemove(t *testing.T) {
	store := NewMemberStore()
	store.Upsert(testMember(1, "a"))
	store.Remove(1)

	if _, ok := store.Get(1); ok {
		t.Error("Member 1 still present after remove")
	}

	// Removing an absent id is a no-op
	store.Remove(99)
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", store.Len())
	}
}

func TestStoreSubscribeNotifiesOnEveryMutation(t *testing.T) {
	store := NewMemberStore()

	var notifications int
	var lastSize int
	unsubscribe := store.Subscribe(func(snapshot []*entity.Member) {
		notifications++
		lastSize = len(snapshot)
	})

	store.Upsert(testMember(1, "a"))
	store.Upsert(testMember(2, "b"))
	store.Remove(1)

	if notifications != 3 {
		t.Errorf("Expected 3 notifications, got %d", notifications)
	}
	if lastSize != 1 {
		t.Errorf("Last snapshot should hold 1 member, got %d", lastSize)
	}

	unsubscribe()
	store.Upsert(testMember(3, "c"))
	if notifications != 3 {
		t.Errorf("Subscriber was notified after unsubscribe, count %d", notifications)
	}
}

func TestStoreRemoveAbsentDoesNotNotify(t *testing.T) {
	store := NewFieldStore()
	notified := false
	store.Subscribe(func([]*entity.FormField) { notified = true })

	store.Remove("nope")
	if notified {
		t.Error("Removing an absent id must not notify subscribers")
	}
}
