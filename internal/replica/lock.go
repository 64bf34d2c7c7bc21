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
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/nlog"
)

// DefaultLockExpiry is how long a held lock is honored before other editors
// may treat it as abandoned. The authority enforces the same window, so a
// write from an expired holder fails its version or ownership check there
// instead of silently clobbering.
const DefaultLockExpiry = 5 * time.Minute

// LockManager runs the pessimistic per-field locking protocol on top of the
// field cache. Each field cycles Unlocked -> LockedBy(E) -> Unlocked for its
// whole lifetime. The manager owns no field data: it only asserts the lock
// precondition over the cache before letting a mutation go remote, and every
// row the authority returns is folded back through the reconciler's version
// gate like any other observation.
type LockManager struct {
	fields     *Store[string, *entity.FormField]
	reconciler *Reconciler
	authority  Authority
	editor     EditorSource
	expiry     time.Duration
	now        func() time.Time
	logger     nlog.Logger
}

func NewLockManager(fields *Store[string, *entity.FormField], reconciler *Reconciler, authority Authority, editor EditorSource, logger nlog.Logger) *LockManager {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &LockManager{
		fields:     fields,
		reconciler: reconciler,
		authority:  authority,
		editor:     editor,
		expiry:     DefaultLockExpiry,
		now:        time.Now,
		logger:     logger,
	}
}

// SetExpiry overrides the staleness window after which a held lock no
// longer blocks an acquire
func (l *LockManager) SetExpiry(expiry time.Duration) {
	l.expiry = expiry
}

// Acquire tries to take the lock on a field for the current editor.
//
// Allowed from Unlocked, idempotently from LockedBy(self), and from a lock
// whose holder went stale past the expiry window. When the field is held by
// someone else, Acquire returns false without touching the cache and
// without a remote call.
func (l *LockManager) Acquire(ctx context.Context, fieldID string) (bool, error) {
	locker := l.editor.CurrentEditor()
	if locker == "" {
		return false, ErrNoEditor
	}

	field, ok := l.fields.Get(fieldID)
	if !ok {
		return false, ErrFieldMissing
	}

	if field.LockedByOther(locker) && !field.LockExpired(l.now(), l.expiry) {
		return false, nil
	}

	result, err := l.authority.AcquireLock(ctx, fieldID, locker)
	if err != nil {
		l.logger.Logf("Acquire of field %s failed {%v}", fieldID, err)
		return false, err
	}
	if !result.Success {
		l.logger.Logf("Acquire of field %s refused {%s}", fieldID, result.Reason)
		return false, nil
	}

	now := l.now()
	field.LockedBy = &locker
	field.LockedAt = &now
	l.fields.Upsert(field)
	return true, nil
}

// Release gives the lock back. It is permitted only when the local cache
// believes the field is LockedBy(self); anything else is a local
// precondition failure with no remote call.
func (l *LockManager) Release(ctx context.Context, fieldID string) (bool, error) {
	locker := l.editor.CurrentEditor()
	if locker == "" {
		return false, ErrNoEditor
	}

	field, ok := l.fields.Get(fieldID)
	if !ok {
		return false, ErrFieldMissing
	}
	if field.LockedBy == nil || *field.LockedBy != locker {
		return false, ErrNotLockOwner
	}

	result, err := l.authority.ReleaseLock(ctx, fieldID, locker)
	if err != nil {
		l.logger.Logf("Release of field %s failed {%v}", fieldID, err)
		return false, err
	}
	if !result.Success {
		l.logger.Logf("Release of field %s refused {%s}", fieldID, result.Reason)
		return false, nil
	}

	field.LockedBy = nil
	field.LockedAt = nil
	l.fields.Upsert(field)
	return true, nil
}

// UpdateValue writes a locked field's value through the authority.
//
// Precondition, checked fail-fast against the cache with no remote call:
// the field exists and is LockedBy(self). The remote write carries the
// locally observed version as the expected one, so a lock that was force
// released and re-taken elsewhere is caught by the authority even though
// this client still believes it holds it. The fresh row from a successful
// write is folded back through the version gate.
func (l *LockManager) UpdateValue(ctx context.Context, fieldID, newValue string) error {
	locker := l.editor.CurrentEditor()
	if locker == "" {
		return ErrNoEditor
	}

	field, ok := l.fields.Get(fieldID)
	if !ok {
		return ErrFieldMissing
	}
	if field.LockedBy == nil || *field.LockedBy != locker {
		return ErrNotLockOwner
	}

	row, result, err := l.authority.AtomicUpdateField(ctx, fieldID, newValue, locker, field.Version)
	if err != nil {
		l.logger.Logf("Update of field %s failed {%v}", fieldID, err)
		return err
	}
	if !result.Success {
		l.logger.Logf("Update of field %s rejected {%s: %s}", fieldID, result.Reason, result.Message)
		return &ConflictError{Reason: result.Reason, Message: result.Message}
	}

	if row != nil {
		l.reconciler.ApplyField(row)
	}
	return nil
}
