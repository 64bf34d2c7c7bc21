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
	"sync"
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/protocol"
)

// DefaultQuietPeriod is how long a member id has to stay untouched before
// its pending edit is sent to the authority
const DefaultQuietPeriod = time.Second

// SaveOutcome is what the coordinator reports after a scheduled save ran.
// Either Result carries the authority's structured answer (Err nil), or Err
// carries the failure; in every failure case the cache was already rolled
// back to the pre-edit snapshot before the outcome is delivered.
type SaveOutcome struct {
	MemberID   uint
	Result     protocol.SaveResult
	Err        error
	RolledBack bool
}

// pendingEdit is one member id's open quiet window: the timer that will
// flush it and the snapshot taken before the first optimistic mutation.
type pendingEdit struct {
	timer    *time.Timer
	snapshot *entity.Member // Pre-edit state, nil when the id was absent from the cache
}

// WriteCoordinator buffers rapid local edits per member id, coalesces them,
// and issues exactly one remote save per quiet period. The local cache is
// mutated optimistically on every edit; a failed save restores the snapshot
// captured before the first edit of the window.
//
// Invariants: one timer per id at any moment (a new edit swaps the old one
// out atomically under the coordinator lock), and one in-flight remote save
// per id (a successor fire blocks until its predecessor reconciled).
// Different ids proceed independently.
//
// A save that fails while a successor window for the same id is already
// open still restores its own pre-edit snapshot, overwriting the
// successor's optimistic value; the successor's fire then sends the
// rolled-back state. Edits queued behind a failure are grounded on
// confirmed state, never on a value the authority already refused.
type WriteCoordinator struct {
	ctx     context.Context
	members *Store[uint, *entity.Member]
	saver   *Saver
	editor  EditorSource
	quiet   time.Duration
	logger  nlog.Logger

	onOutcome func(SaveOutcome) // Surfaces every save result to the owner, never nil

	lock     sync.Mutex
	pending  map[uint]*pendingEdit
	inflight map[uint]*sync.Mutex
}

func NewWriteCoordinator(ctx context.Context, members *Store[uint, *entity.Member], saver *Saver, editor EditorSource, quiet time.Duration, onOutcome func(SaveOutcome), logger nlog.Logger) *WriteCoordinator {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if onOutcome == nil {
		onOutcome = func(SaveOutcome) {}
	}
	if logger == nil {
		logger = nlog.Discard()
	}
	return &WriteCoordinator{
		ctx:       ctx,
		members:   members,
		saver:     saver,
		editor:    editor,
		quiet:     quiet,
		logger:    logger,
		onOutcome: onOutcome,
		pending:   make(map[uint]*pendingEdit),
		inflight:  make(map[uint]*sync.Mutex),
	}
}

// EditNickname applies the edit to the cache at once and (re)schedules the
// remote save for after the quiet period. Each new edit to the same id
// cancels and restarts the pending timer, so only the final value of a
// quiet window is ever sent.
func (w *WriteCoordinator) EditNickname(memberID uint, newNickname string) error {
	return w.editMember(memberID, func(m *entity.Member) { m.Nickname = newNickname })
}

// EditVocation is the same optimistic-plus-debounce path for the vocation picker
func (w *WriteCoordinator) EditVocation(memberID uint, vocationID *int) error {
	return w.editMember(memberID, func(m *entity.Member) { m.VocationID = vocationID })
}

// EditGearScore is the same optimistic-plus-debounce path for the gear score
func (w *WriteCoordinator) EditGearScore(memberID uint, gearScore int) error {
	return w.editMember(memberID, func(m *entity.Member) { m.GearScore = gearScore })
}

func (w *WriteCoordinator) editMember(memberID uint, mutate func(*entity.Member)) error {
	if w.editor.CurrentEditor() == "" {
		return ErrNoEditor
	}

	current, ok := w.members.Get(memberID)
	if !ok {
		return ErrMemberMissing
	}

	w.lock.Lock()
	entry, open := w.pending[memberID]
	if open {
		// Restarting the window: stop the old timer, keep the original
		// snapshot so a rollback lands on the last confirmed state.
		entry.timer.Stop()
	} else {
		entry = &pendingEdit{snapshot: current.Clone()}
		w.pending[memberID] = entry
	}
	entry.timer = time.AfterFunc(w.quiet, func() { w.fire(memberID) })
	w.lock.Unlock()

	edited := current.Clone()
	mutate(edited)
	w.members.Upsert(edited)

	return nil
}

// PendingCount returns how many member ids currently have an open quiet window
func (w *WriteCoordinator) PendingCount() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return len(w.pending)
}

// fire runs when a quiet window elapses: it closes the window, serializes
// behind any in-flight save for the same id, and persists the member's
// current cached fields.
func (w *WriteCoordinator) fire(memberID uint) {
	w.lock.Lock()
	entry, ok := w.pending[memberID]
	if !ok {
		w.lock.Unlock()
		return
	}
	delete(w.pending, memberID)
	gate, ok := w.inflight[memberID]
	if !ok {
		gate = &sync.Mutex{}
		w.inflight[memberID] = gate
	}
	w.lock.Unlock()

	gate.Lock()
	defer gate.Unlock()

	current, ok := w.members.Get(memberID)
	if !ok {
		// The row vanished under us (external delete); nothing to persist.
		w.logger.Logf("Member %d disappeared before its save fired", memberID)
		return
	}

	editor := w.editor.CurrentEditor()
	result, err := w.saver.Save(w.ctx, memberID, current.Nickname, current.VocationID, current.GearScore, editor)

	if err == nil && result.Success {
		w.onOutcome(SaveOutcome{MemberID: memberID, Result: result})
		return
	}

	// Rejection or failure of any kind: put the pre-edit state back before
	// reporting, so the UI never keeps showing a value the authority refused.
	w.rollback(memberID, entry.snapshot)
	if err != nil {
		w.logger.Logf("Save of member %d failed, rolled back {%v}", memberID, err)
	} else {
		w.logger.Logf("Save of member %d rejected, rolled back {%s: %s}", memberID, result.Reason, result.Message)
	}
	w.onOutcome(SaveOutcome{MemberID: memberID, Result: result, Err: err, RolledBack: true})
}

func (w *WriteCoordinator) rollback(memberID uint, snapshot *entity.Member) {
	if snapshot == nil {
		w.members.Remove(memberID)
		return
	}
	w.members.Upsert(snapshot)
}
