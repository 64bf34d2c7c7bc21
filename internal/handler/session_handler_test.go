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

	"github.com/YF-George/group-web/internal/protocol"

	"github.com/gorilla/sessions"
)

func newSessionHandler(admin *MockAdminService) *SessionHandler {
	store := sessions.NewCookieStore([]byte("test-secret"))
	return NewSessionHandler(admin, store)
}

func TestLoginBindsNickname(t *testing.T) {
	h := newSessionHandler(&MockAdminService{})

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(t, http.MethodPost, "/api/session/login",
		protocol.LoginRequest{Nickname: "Alice"}, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var session protocol.SessionResponse
	decodeBody(t, w, &session)
	if session.Nickname != "Alice" || session.IsAdmin {
		t.Errorf("Unexpected session %+v", session)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("No session cookie was set")
	}
}

func TestLoginTrimsAndValidatesNickname(t *testing.T) {
	h := newSessionHandler(&MockAdminService{})

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(t, http.MethodPost, "/api/session/login",
		protocol.LoginRequest{Nickname: "  Bob  "}, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var session protocol.SessionResponse
	decodeBody(t, w, &session)
	if session.Nickname != "Bob" {
		t.Errorf("Nickname was not trimmed: %q", session.Nickname)
	}

	w = httptest.NewRecorder()
	h.Login(w, jsonRequest(t, http.MethodPost, "/api/session/login",
		protocol.LoginRequest{Nickname: strings.Repeat("x", 13)}, ""))
	if w.Code != http.StatusBadRequest {
		t.Errorf("A 13 character nickname must be refused, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.Login(w, jsonRequest(t, http.MethodPost, "/api/session/login",
		protocol.LoginRequest{Nickname: "   "}, ""))
	if w.Code != http.StatusBadRequest {
		t.Errorf("A blank nickname must be refused, got %d", w.Code)
	}
}

func TestLoginWithAdminCredentials(t *testing.T) {
	h := newSessionHandler(&MockAdminService{nickname: "Boss", password: "hunter2"})

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(t, http.MethodPost, "/api/session/login",
		protocol.LoginRequest{Nickname: "Boss", Password: "hunter2"}, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var session protocol.SessionResponse
	decodeBody(t, w, &session)
	if !session.IsAdmin {
		t.Error("Admin flag missing after a verified login")
	}

	w = httptest.NewRecorder()
	h.Login(w, jsonRequest(t, http.MethodPost, "/api/session/login",
		protocol.LoginRequest{Nickname: "Boss", Password: "wrong"}, ""))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Wrong admin credentials must be refused, got %d", w.Code)
	}
}

func TestWhoamiWithoutSession(t *testing.T) {
	h := newSessionHandler(&MockAdminService{})

	w := httptest.NewRecorder()
	h.Whoami(w, httptest.NewRequest(http.MethodGet, "/api/session/whoami", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a session, got %d", w.Code)
	}
}
