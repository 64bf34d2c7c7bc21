/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package replica

import (
	"context"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"
)

// Authority is the backend holding the durable, conflict-resolving copy of
// every entity. The replica never decides a conflict itself: it sends the
// whole intended state and the authority accepts or rejects it.
//
// Error contract: a (result, nil) return with result.Success == false is a
// business rejection. A non-nil error is a transport or interface failure;
// implementations must wrap ErrEndpointMismatch into errors that mean "the
// entry point is missing or its shape drifted", so the replica can classify
// without looking at message text.
type Authority interface {
	// Persists a slot edit atomically, all fields named explicitly.
	// Two simultaneous claims of a free slot must end with exactly one winner.
	AtomicSaveMember(ctx context.Context, memberID uint, nickname string, vocationID *int, gearScore int, editor string) (protocol.SaveResult, error)

	// Best-effort direct patch of a member row. Only used as the fallback
	// when the atomic entry point is unavailable; carries no claim check.
	UpdateMemberFields(ctx context.Context, memberID uint, nickname string, vocationID *int, gearScore int, editor string) (protocol.SaveResult, error)

	// Takes the pessimistic lock on a field for locker
	AcquireLock(ctx context.Context, fieldID, locker string) (protocol.LockResult, error)

	// Releases the pessimistic lock held by locker
	ReleaseLock(ctx context.Context, fieldID, locker string) (protocol.LockResult, error)

	// Writes a locked field's value, guarded by the version the client last
	// observed. On success the fresh full row is returned; on a version or
	// ownership rejection the row is nil and the result carries the reason.
	AtomicUpdateField(ctx context.Context, fieldID, newValue, editor string, expectedVersion int64) (*entity.FormField, protocol.SaveResult, error)
}

// EditorSource yields the identity every write is attributed to.
// An empty string means nobody is logged in on this session, which every
// write path treats as a local precondition failure.
type EditorSource interface {
	CurrentEditor() string
}

// StaticEditor is the trivial EditorSource, useful in tests and tools
type StaticEditor string

func (s StaticEditor) CurrentEditor() string { return string(s) }
