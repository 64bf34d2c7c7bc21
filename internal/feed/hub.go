/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/YF-George/group-web/internal/nlog"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before the hub starts dropping events for it
const subscriberBuffer = 64

// Hub is the in-process distribution point of the change feed.
// Services publish accepted mutations into it and every subscriber of the
// matching table receives them. It implements both Publisher and Source.
type Hub struct {
	logger nlog.Logger

	lock        sync.RWMutex
	nextID      uint64
	subscribers map[string]map[uint64]chan ChangeEvent // table -> subscriber id -> delivery channel
}

func NewHub(logger nlog.Logger) *Hub {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]map[uint64]chan ChangeEvent),
	}
}

// Publish delivers the event to every current subscriber of its table.
// A subscriber that has fallen more than subscriberBuffer events behind has
// the event dropped; the replica's version gate absorbs the gap once a
// fresher event arrives.
func (h *Hub) Publish(event ChangeEvent) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	for id, ch := range h.subscribers[event.Table] {
		select {
		case ch <- event:
		default:
			h.logger.Logf("Subscriber %d on table %s is lagging, dropping event %s", id, event.Table, event.EventID)
		}
	}
}

// Subscribe registers a new subscriber for one table.
// The returned function removes the subscription and closes the channel;
// calling it more than once is harmless. The subscription is also torn down
// when ctx is cancelled.
func (h *Hub) Subscribe(ctx context.Context, table string) (<-chan ChangeEvent, func() error, error) {
	if table != TableMembers && table != TableForms {
		return nil, nil, fmt.Errorf("Unknown feed table {%s}", table)
	}

	ch := make(chan ChangeEvent, subscriberBuffer)

	h.lock.Lock()
	h.nextID++
	id := h.nextID
	if h.subscribers[table] == nil {
		h.subscribers[table] = make(map[uint64]chan ChangeEvent)
	}
	h.subscribers[table][id] = ch
	h.lock.Unlock()

	var once sync.Once
	unsubscribe := func() error {
		once.Do(func() {
			h.lock.Lock()
			delete(h.subscribers[table], id)
			h.lock.Unlock()
			close(ch)
		})
		return nil
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return ch, unsubscribe, nil
}

// SubscriberCount returns how many subscribers are registered on a table
func (h *Hub) SubscriberCount(table string) int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.subscribers[table])
}
