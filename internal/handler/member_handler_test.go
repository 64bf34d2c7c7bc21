/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"
)

func TestSaveMemberReturnsVerdict(t *testing.T) {
	roster := &MockRosterService{
		saveResult: protocol.SaveResult{Success: true},
		member:     &entity.Member{ID: 7, Nickname: "Tank"},
	}
	h := NewMemberHandler(roster)

	w := httptest.NewRecorder()
	r := jsonRequest(t, http.MethodPost, "/api/members/save",
		protocol.MemberSaveRequest{MemberID: 7, Nickname: "Tank"}, "Alice")
	h.SaveMember(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var result protocol.SaveResult
	decodeBody(t, w, &result)
	if !result.Success {
		t.Errorf("Expected a success verdict, got %+v", result)
	}
	if roster.lastEditor != "Alice" {
		t.Errorf("Editor was not forwarded, got %q", roster.lastEditor)
	}
}

func TestSaveMemberRejectionIsStillA200(t *testing.T) {
	roster := &MockRosterService{saveResult: protocol.SaveResult{
		Success: false, Reason: protocol.ReasonSlotTaken, Message: "slot already claimed",
	}}
	h := NewMemberHandler(roster)

	w := httptest.NewRecorder()
	h.SaveMember(w, jsonRequest(t, http.MethodPost, "/api/members/save",
		protocol.MemberSaveRequest{MemberID: 7, Nickname: "Usurper"}, "Bob"))

	// A business rejection is a valid answer, not a transport fault
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var result protocol.SaveResult
	decodeBody(t, w, &result)
	if result.Success || result.Reason != protocol.ReasonSlotTaken {
		t.Errorf("Expected a slot_taken rejection, got %+v", result)
	}
}

func TestSaveMemberBadPayload(t *testing.T) {
	h := NewMemberHandler(&MockRosterService{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/members/save", strings.NewReader("{not json"))
	h.SaveMember(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestSaveMemberServiceFaultIsA500(t *testing.T) {
	h := NewMemberHandler(&MockRosterService{saveErr: errBoom})

	w := httptest.NewRecorder()
	h.SaveMember(w, jsonRequest(t, http.MethodPost, "/api/members/save",
		protocol.MemberSaveRequest{MemberID: 7}, "Alice"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
}

func TestListAllMembers(t *testing.T) {
	h := NewMemberHandler(&MockRosterService{members: []*entity.Member{
		{ID: 1, Nickname: "Tank"}, {ID: 2},
	}})

	w := httptest.NewRecorder()
	h.ListAllMembers(w, httptest.NewRequest(http.MethodGet, "/api/members", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var members []*entity.Member
	decodeBody(t, w, &members)
	if len(members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(members))
	}
}
