/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"sync"
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/protocol"
)

// MockPublisher records everything published onto the feed
type MockPublisher struct {
	mu     sync.Mutex
	events []feed.ChangeEvent
}

func (p *MockPublisher) Publish(event feed.ChangeEvent) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *MockPublisher) Events() []feed.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]feed.ChangeEvent, len(p.events))
	copy(out, p.events)
	return out
}

// MockGroupRepository hands back primed values and seeds slots on Create
// the way the real repository does
type MockGroupRepository struct {
	groups    []*entity.RaidGroup
	createErr error
}

func (m *MockGroupRepository) Create(group *entity.RaidGroup) error {
	if m.createErr != nil {
		return m.createErr
	}
	group.ID = uint(len(m.groups) + 1)
	for i := 0; i < entity.SlotsPerGroup; i++ {
		v := entity.VocationDPS
		switch {
		case i == 0:
			v = entity.VocationTank
		case i == 1 || i == 2:
			v = entity.VocationHealer
		}
		voc := v
		group.Members = append(group.Members, &entity.Member{
			ID:            group.ID*100 + uint(i+1),
			GroupID:       group.ID,
			PositionIndex: i + 1,
			VocationID:    &voc,
		})
	}
	m.groups = append(m.groups, group)
	return nil
}

func (m *MockGroupRepository) GetByID(id uint) (*entity.RaidGroup, error) {
	for _, g := range m.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, errNotFound
}

func (m *MockGroupRepository) GetAll() ([]*entity.RaidGroup, error) {
	return m.groups, nil
}

func (m *MockGroupRepository) Update(id uint, bossName string, raidTime time.Time, note, status, editor string) (*entity.RaidGroup, error) {
	g, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	g.BossName, g.RaidTime, g.Note, g.Status, g.LastEditedBy = bossName, raidTime, note, status, editor
	return g, nil
}

func (m *MockGroupRepository) Delete(id uint) error {
	for i, g := range m.groups {
		if g.ID == id {
			m.groups = append(m.groups[:i], m.groups[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

// MockMemberRepository returns a primed save result
type MockMemberRepository struct {
	saveResult protocol.SaveResult
	saveErr    error
	member     *entity.Member
	members    []*entity.Member
}

func (m *MockMemberRepository) AtomicSave(req protocol.MemberSaveRequest, editor string) (protocol.SaveResult, *entity.Member, error) {
	if m.saveErr != nil {
		return protocol.SaveResult{}, nil, m.saveErr
	}
	if !m.saveResult.Success {
		return m.saveResult, nil, nil
	}
	return m.saveResult, m.member, nil
}

func (m *MockMemberRepository) UpdateFields(req protocol.MemberSaveRequest, editor string) (*entity.Member, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.member, nil
}

func (m *MockMemberRepository) GetByID(id uint) (*entity.Member, error) {
	return m.member, nil
}

func (m *MockMemberRepository) ListByGroup(groupID uint) ([]*entity.Member, error) {
	return m.members, nil
}

// MockFieldRepository returns primed lock and update outcomes
type MockFieldRepository struct {
	lockResult   protocol.LockResult
	updateResult protocol.SaveResult
	field        *entity.FormField
	err          error
}

func (m *MockFieldRepository) Create(field *entity.FormField) error { return m.err }

func (m *MockFieldRepository) GetByID(id string) (*entity.FormField, error) {
	return m.field, m.err
}

func (m *MockFieldRepository) GetAll() ([]*entity.FormField, error) {
	if m.field == nil {
		return nil, m.err
	}
	return []*entity.FormField{m.field}, m.err
}

func (m *MockFieldRepository) AcquireLock(fieldID, locker string, expiry time.Duration) (protocol.LockResult, *entity.FormField, error) {
	if m.err != nil {
		return protocol.LockResult{}, nil, m.err
	}
	if !m.lockResult.Success {
		return m.lockResult, nil, nil
	}
	return m.lockResult, m.field, nil
}

func (m *MockFieldRepository) ReleaseLock(fieldID, locker string) (protocol.LockResult, *entity.FormField, error) {
	if m.err != nil {
		return protocol.LockResult{}, nil, m.err
	}
	if !m.lockResult.Success {
		return m.lockResult, nil, nil
	}
	return m.lockResult, m.field, nil
}

func (m *MockFieldRepository) AtomicUpdate(fieldID, newValue, locker string, expectedVersion int64) (protocol.SaveResult, *entity.FormField, error) {
	if m.err != nil {
		return protocol.SaveResult{}, nil, m.err
	}
	if !m.updateResult.Success {
		return m.updateResult, nil, nil
	}
	return m.updateResult, m.field, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

var errNotFound = notFoundError{}
