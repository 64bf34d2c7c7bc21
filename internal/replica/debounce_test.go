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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"
)

const testQuiet = 30 * time.Millisecond

// outcomeRecorder collects save outcomes so tests can wait on them
type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []SaveOutcome
}

func (o *outcomeRecorder) record(outcome SaveOutcome) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func (o *outcomeRecorder) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.outcomes)
}

func (o *outcomeRecorder) last() SaveOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[len(o.outcomes)-1]
}

func newTestCoordinator(authority *MockAuthority, rec *outcomeRecorder) (*WriteCoordinator, *Store[uint, *entity.Member]) {
	members := NewMemberStore()
	saver := NewSaver(authority, nil)
	coordinator := NewWriteCoordinator(context.Background(), members, saver, StaticEditor("Alice"), testQuiet, rec.record, nil)
	return coordinator, members
}

func TestDebounceCoalescesEditsToOneSave(t *testing.T) {
	authority := &MockAuthority{saveResult: protocol.SaveResult{Success: true}}
	rec := &outcomeRecorder{}
	coordinator, members := newTestCoordinator(authority, rec)

	members.Upsert(testMember(7, ""))

	// Two editors typing within the window: only the final value may go out
	if err := coordinator.EditNickname(7, "Tank"); err != nil {
		t.Fatal(err)
	}
	if err := coordinator.EditNickname(7, "Healer"); err != nil {
		t.Fatal(err)
	}

	// Visible immediately, before any remote call
	m, _ := members.Get(7)
	if m.Nickname != "Healer" {
		t.Errorf("Optimistic update missing, nickname is %q", m.Nickname)
	}
	if got := authority.RemoteCalls(); got != 0 {
		t.Errorf("Remote call before the quiet period elapsed: %d", got)
	}

	waitFor(t, func() bool { return rec.count() == 1 })

	calls := authority.SaveCalls()
	if len(calls) != 1 {
		t.Fatalf("Expected exactly one save, got %d", len(calls))
	}
	if calls[0].nickname != "Healer" {
		t.Errorf("Save carried %q, expected the last value Healer", calls[0].nickname)
	}
	if coordinator.PendingCount() != 0 {
		t.Errorf("Timer leaked, %d windows still open", coordinator.PendingCount())
	}
}

func TestDebounceIndependentIDs(t *testing.T) {
	authority := &MockAuthority{saveResult: protocol.SaveResult{Success: true}}
	rec := &outcomeRecorder{}
	coordinator, members := newTestCoordinator(authority, rec)

	members.Upsert(testMember(1, ""))
	members.Upsert(testMember(2, ""))

	coordinator.EditNickname(1, "Tank")
	coordinator.EditNickname(2, "Healer")

	waitFor(t, func() bool { return rec.count() == 2 })

	if len(authority.SaveCalls()) != 2 {
		t.Errorf("Expected one save per id, got %d", len(authority.SaveCalls()))
	}
}

func TestRollbackOnRejection(t *testing.T) {
	authority := &MockAuthority{saveResult: protocol.SaveResult{
		Success: false, Reason: protocol.ReasonSlotTaken, Message: "slot already claimed",
	}}
	rec := &outcomeRecorder{}
	coordinator, members := newTestCoordinator(authority, rec)

	before := testMember(7, "Original")
	members.Upsert(before)

	coordinator.EditNickname(7, "Usurper")
	waitFor(t, func() bool { return rec.count() == 1 })

	after, _ := members.Get(7)
	if after.Nickname != "Original" {
		t.Errorf("Cache was not rolled back, nickname is %q", after.Nickname)
	}

	outcome := rec.last()
	if !outcome.RolledBack {
		t.Error("Outcome does not report the rollback")
	}
	if outcome.Result.Reason != protocol.ReasonSlotTaken {
		t.Errorf("Conflict reason was lost, got %s", outcome.Result.Reason)
	}
}

func TestRollbackOnTransportError(t *testing.T) {
	authority := &MockAuthority{saveErr: errors.New("connection reset")}
	rec := &outcomeRecorder{}
	coordinator, members := newTestCoordinator(authority, rec)

	members.Upsert(testMember(7, "Original"))

	coordinator.EditNickname(7, "Doomed")
	waitFor(t, func() bool { return rec.count() == 1 })

	after, _ := members.Get(7)
	if after.Nickname != "Original" {
		t.Errorf("Cache was not rolled back after a transport failure, nickname is %q", after.Nickname)
	}
	if rec.last().Err == nil {
		t.Error("Transport error was not surfaced in the outcome")
	}
}

func TestRollbackRestoresFirstSnapshotOfWindow(t *testing.T) {
	authority := &MockAuthority{saveResult: protocol.SaveResult{Success: false, Reason: protocol.ReasonSlotTaken}}
	rec := &outcomeRecorder{}
	coordinator, members := newTestCoordinator(authority, rec)

	members.Upsert(testMember(7, "Confirmed"))

	// Several optimistic edits in one window; the rollback target is the
	// state before the first of them, not an intermediate optimistic one
	coordinator.EditNickname(7, "a")
	coordinator.EditNickname(7, "ab")
	coordinator.EditNickname(7, "abc")

	waitFor(t, func() bool { return rec.count() == 1 })

	after, _ := members.Get(7)
	if after.Nickname != "Confirmed" {
		t.Errorf("Rollback landed on %q, expected the pre-window state Confirmed", after.Nickname)
	}
}

// sequencedAuthority answers one primed result per save call and blocks the
// first save until the test releases it, so a successor window can be opened
// while its predecessor is still in flight
type sequencedAuthority struct {
	mu      sync.Mutex
	calls   []savedCall
	results []protocol.SaveResult
	started chan struct{}
	release chan struct{}
}

func (s *sequencedAuthority) AtomicSaveMember(_ context.Context, memberID uint, nickname string, _ *int, gearScore int, editor string) (protocol.SaveResult, error) {
	s.mu.Lock()
	index := len(s.calls)
	s.calls = append(s.calls, savedCall{memberID, nickname, gearScore, editor})
	result := s.results[index]
	s.mu.Unlock()

	if index == 0 {
		close(s.started)
		<-s.release
	}
	return result, nil
}

func (s *sequencedAuthority) saveCalls() []savedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]savedCall, len(s.calls))
	copy(calls, s.calls)
	return calls
}

func (s *sequencedAuthority) UpdateMemberFields(context.Context, uint, string, *int, int, string) (protocol.SaveResult, error) {
	return protocol.SaveResult{}, nil
}

func (s *sequencedAuthority) AcquireLock(context.Context, string, string) (protocol.LockResult, error) {
	return protocol.LockResult{}, nil
}

func (s *sequencedAuthority) ReleaseLock(context.Context, string, string) (protocol.LockResult, error) {
	return protocol.LockResult{}, nil
}

func (s *sequencedAuthority) AtomicUpdateField(context.Context, string, string, string, int64) (*entity.FormField, protocol.SaveResult, error) {
	return nil, protocol.SaveResult{}, nil
}

func TestFailedSaveRollbackOverridesSuccessorWindow(t *testing.T) {
	authority := &sequencedAuthority{
		results: []protocol.SaveResult{
			{Success: false, Reason: protocol.ReasonSlotTaken, Message: "slot already claimed"},
			{Success: true},
		},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	rec := &outcomeRecorder{}
	members := NewMemberStore()
	saver := NewSaver(authority, nil)
	coordinator := NewWriteCoordinator(context.Background(), members, saver, StaticEditor("Alice"), testQuiet, rec.record, nil)

	members.Upsert(testMember(7, "Original"))

	coordinator.EditNickname(7, "First")
	<-authority.started // the first window fired, its save is in flight

	// A successor window opens while the refused save is still out
	if err := coordinator.EditNickname(7, "Second"); err != nil {
		t.Fatal(err)
	}
	close(authority.release)

	waitFor(t, func() bool { return rec.count() == 2 })

	// The failed save restored its snapshot over the successor's optimistic
	// value, and the successor fire sent the rolled-back state
	calls := authority.saveCalls()
	if len(calls) != 2 {
		t.Fatalf("Expected two saves, got %d", len(calls))
	}
	if calls[1].nickname != "Original" {
		t.Errorf("Successor save carried %q, expected the rolled-back Original", calls[1].nickname)
	}
	after, _ := members.Get(7)
	if after.Nickname != "Original" {
		t.Errorf("Cache ended at %q, expected Original", after.Nickname)
	}
}

func TestEditRequiresEditorAndCachedMember(t *testing.T) {
	authority := &MockAuthority{}
	members := NewMemberStore()
	saver := NewSaver(authority, nil)

	nobody := NewWriteCoordinator(context.Background(), members, saver, StaticEditor(""), testQuiet, nil, nil)
	if err := nobody.EditNickname(7, "x"); !errors.Is(err, ErrNoEditor) {
		t.Errorf("Expected ErrNoEditor, got {%v}", err)
	}

	alice := NewWriteCoordinator(context.Background(), members, saver, StaticEditor("Alice"), testQuiet, nil, nil)
	if err := alice.EditNickname(7, "x"); !errors.Is(err, ErrMemberMissing) {
		t.Errorf("Expected ErrMemberMissing, got {%v}", err)
	}
	if authority.RemoteCalls() != 0 {
		t.Error("Precondition failures must not reach the authority")
	}
}

func TestVocationAndGearEditsDebounceToo(t *testing.T) {
	authority := &MockAuthority{saveResult: protocol.SaveResult{Success: true}}
	rec := &outcomeRecorder{}
	coordinator, members := newTestCoordinator(authority, rec)

	members.Upsert(testMember(7, "Tank"))

	coordinator.EditVocation(7, intPtr(entity.VocationHealer))
	coordinator.EditGearScore(7, 4200)

	waitFor(t, func() bool { return rec.count() == 1 })

	calls := authority.SaveCalls()
	if len(calls) != 1 {
		t.Fatalf("Expected one coalesced save, got %d", len(calls))
	}
	if calls[0].gearScore != 4200 {
		t.Errorf("Save carried gear score %d, expected 4200", calls[0].gearScore)
	}
}
