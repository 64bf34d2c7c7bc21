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

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"
)

type savedCall struct {
	memberID  uint
	nickname  string
	gearScore int
	editor    string
}

type fieldCall struct {
	fieldID         string
	newValue        string
	editor          string
	expectedVersion int64
}

// MockAuthority records every remote call and answers with whatever the
// test primed it with
type MockAuthority struct {
	mu sync.Mutex

	saveCalls  []savedCall
	saveResult protocol.SaveResult
	saveErr    error

	updateCalls  []savedCall
	updateResult protocol.SaveResult
	updateErr    error

	acquireCalls int
	releaseCalls int
	lockResult   protocol.LockResult
	lockErr      error

	fieldCalls  []fieldCall
	fieldRow    *entity.FormField
	fieldResult protocol.SaveResult
	fieldErr    error
}

func (m *MockAuthority) AtomicSaveMember(_ context.Context, memberID uint, nickname string, _ *int, gearScore int, editor string) (protocol.SaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls = append(m.saveCalls, savedCall{memberID, nickname, gearScore, editor})
	return m.saveResult, m.saveErr
}

func (m *MockAuthority) UpdateMemberFields(_ context.Context, memberID uint, nickname string, _ *int, gearScore int, editor string) (protocol.SaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls = append(m.updateCalls, savedCall{memberID, nickname, gearScore, editor})
	return m.updateResult, m.updateErr
}

func (m *MockAuthority) AcquireLock(_ context.Context, _, _ string) (protocol.LockResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquireCalls++
	return m.lockResult, m.lockErr
}

func (m *MockAuthority) ReleaseLock(_ context.Context, _, _ string) (protocol.LockResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseCalls++
	return m.lockResult, m.lockErr
}

func (m *MockAuthority) AtomicUpdateField(_ context.Context, fieldID, newValue, editor string, expectedVersion int64) (*entity.FormField, protocol.SaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fieldCalls = append(m.fieldCalls, fieldCall{fieldID, newValue, editor, expectedVersion})
	return m.fieldRow, m.fieldResult, m.fieldErr
}

func (m *MockAuthority) SaveCalls() []savedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]savedCall, len(m.saveCalls))
	copy(calls, m.saveCalls)
	return calls
}

func (m *MockAuthority) UpdateCalls() []savedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]savedCall, len(m.updateCalls))
	copy(calls, m.updateCalls)
	return calls
}

func (m *MockAuthority) RemoteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saveCalls) + len(m.updateCalls) + len(m.fieldCalls) + m.acquireCalls + m.releaseCalls
}

func intPtr(v int) *int { return &v }

func testMember(id uint, nickname string) *entity.Member {
	return &entity.Member{ID: id, GroupID: 1, PositionIndex: int(id), Nickname: nickname, VocationID: intPtr(entity.VocationDPS)}
}
