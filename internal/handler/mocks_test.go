/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"
)

// MockRosterService hands back primed values and records the editor used
type MockRosterService struct {
	saveResult protocol.SaveResult
	saveErr    error
	member     *entity.Member
	members    []*entity.Member
	groups     []*entity.RaidGroup

	lastEditor string
}

func (m *MockRosterService) CreateGroup(bossName string, raidTime time.Time, note, editor string) (*entity.RaidGroup, error) {
	m.lastEditor = editor
	if len(m.groups) == 0 {
		return nil, errBoom
	}
	return m.groups[0], nil
}

func (m *MockRosterService) GetGroup(id uint) (*entity.RaidGroup, error) {
	if len(m.groups) == 0 {
		return nil, errBoom
	}
	return m.groups[0], nil
}

func (m *MockRosterService) GetGroups() ([]*entity.RaidGroup, error) { return m.groups, nil }

func (m *MockRosterService) UpdateGroup(id uint, bossName string, raidTime time.Time, note, status, editor string) (*entity.RaidGroup, error) {
	m.lastEditor = editor
	if len(m.groups) == 0 {
		return nil, errBoom
	}
	return m.groups[0], nil
}

func (m *MockRosterService) DeleteGroup(id uint, editor string) error {
	m.lastEditor = editor
	return nil
}

func (m *MockRosterService) SaveMember(req protocol.MemberSaveRequest, editor string) (protocol.SaveResult, *entity.Member, error) {
	m.lastEditor = editor
	if m.saveErr != nil {
		return protocol.SaveResult{}, nil, m.saveErr
	}
	return m.saveResult, m.member, nil
}

func (m *MockRosterService) UpdateMemberFields(req protocol.MemberSaveRequest, editor string) (*entity.Member, error) {
	m.lastEditor = editor
	return m.member, m.saveErr
}

func (m *MockRosterService) ListMembers(groupID uint) ([]*entity.Member, error) {
	return m.members, nil
}

func (m *MockRosterService) ListAllMembers() ([]*entity.Member, error) {
	return m.members, nil
}

// MockFormService hands back primed lock and update outcomes
type MockFormService struct {
	lockResult   protocol.LockResult
	updateResult protocol.SaveResult
	field        *entity.FormField
	err          error
}

func (m *MockFormService) CreateField(id, value, editor string) (*entity.FormField, error) {
	return m.field, m.err
}

func (m *MockFormService) GetFields() ([]*entity.FormField, error) {
	if m.field == nil {
		return nil, m.err
	}
	return []*entity.FormField{m.field}, m.err
}

func (m *MockFormService) Lock(fieldID, editor string) (protocol.LockResult, *entity.FormField, error) {
	return m.lockResult, m.field, m.err
}

func (m *MockFormService) Unlock(fieldID, editor string) (protocol.LockResult, *entity.FormField, error) {
	return m.lockResult, m.field, m.err
}

func (m *MockFormService) UpdateValue(req protocol.FieldUpdateRequest, editor string) (protocol.SaveResult, *entity.FormField, error) {
	return m.updateResult, m.field, m.err
}

// MockAdminService verifies against a single fixed credential pair
type MockAdminService struct {
	nickname string
	password string
}

func (m *MockAdminService) Verify(nickname, password string) (bool, error) {
	return nickname == m.nickname && password == m.password, nil
}

func (m *MockAdminService) Seed(nickname, password string) error { return nil }

func (m *MockAdminService) RecentAudit(limit int) ([]*entity.AuditEntry, error) { return nil, nil }

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom = boomError{}

// jsonRequest builds a request carrying a JSON body and the editor identity
// the middleware would have put on the context
func jsonRequest(t *testing.T, method, target string, body any, editor string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(raw))
	if editor != "" {
		r = r.WithContext(context.WithValue(r.Context(), "editor", editor))
	}
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("Undecodable response body: %v", err)
	}
}
