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
	"encoding/json"
	"fmt"
)

// EventType represents what happened to a row of a watched table
type EventType uint8

const (
	INSERT EventType = iota // A new row appeared
	UPDATE                  // An existing row changed
	DELETE                  // A row was removed
)

func (t EventType) String() string {
	switch t {
	case INSERT:
		return "INSERT"
	case UPDATE:
		return "UPDATE"
	case DELETE:
		return "DELETE"
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Watched table names. These are the only collections the feed carries.
const (
	TableMembers = "members"
	TableForms   = "forms"
)

// ChangeEvent is the single message shape of the change feed.
// For INSERT and UPDATE, New holds the full fresh row as JSON.
// For DELETE, only OldID is set.
// The feed gives no delivery guarantee beyond what the transport provides;
// consumers deduplicate through their own version gating, not here.
type ChangeEvent struct {
	EventID string          `json:"event-id"`          // Unique identifier of the event
	Table   string          `json:"table"`             // Watched table the event belongs to
	Type    EventType       `json:"type"`              // INSERT, UPDATE or DELETE
	New     json.RawMessage `json:"new,omitempty"`     // Fresh row, absent on DELETE
	OldID   string          `json:"old-id,omitempty"`  // Identifier of the removed row, set on DELETE
}

// Source is the subscription side of the feed, as seen by a replica.
// Subscribe returns a channel of events for one table plus an unsubscribe
// function. The channel is closed when the subscription ends, for whatever
// reason; it is the caller's job to notice and react.
type Source interface {
	Subscribe(ctx context.Context, table string) (<-chan ChangeEvent, func() error, error)
}

// Publisher is the emission side of the feed, as seen by the authority's
// services. Publishing never blocks on slow consumers.
type Publisher interface {
	Publish(event ChangeEvent)
}
