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
	"strconv"
	"strings"

	"github.com/YF-George/group-web/internal/protocol"
	"github.com/YF-George/group-web/internal/service"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie the editor identity lives in
const SessionName = "editor-session"

type SessionHandler struct {
	store        *sessions.CookieStore
	adminService service.AdminService
}

func NewSessionHandler(adminService service.AdminService, store *sessions.CookieStore) *SessionHandler {
	return &SessionHandler{store, adminService}
}

// Login binds a nickname to the session. A password is only needed when
// the nickname wants admin rights; everyone else just picks a name.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req protocol.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		req.Nickname = r.FormValue("nickname")
		req.Password = r.FormValue("password")
	}
	req.Nickname = strings.TrimSpace(req.Nickname)

	if !validNickname(req.Nickname) {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "nickname must be 1 to 12 characters")
		return
	}

	isAdmin := false
	if req.Password != "" {
		ok, err := h.adminService.Verify(req.Nickname, req.Password)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !ok {
			writeReason(w, http.StatusUnauthorized, protocol.ReasonUnauthorized, "wrong admin credentials")
			return
		}
		isAdmin = true
	}

	session, _ := h.store.Get(r, SessionName)
	session.Values["nickname"] = req.Nickname
	session.Values["is-admin"] = isAdmin
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, protocol.SessionResponse{Nickname: req.Nickname, IsAdmin: isAdmin})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
	w.WriteHeader(http.StatusOK)
}

// Whoami reports the identity bound to the session, if any
func (h *SessionHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, SessionName)
	nickname, ok := session.Values["nickname"].(string)
	if !ok || nickname == "" {
		writeReason(w, http.StatusUnauthorized, protocol.ReasonUnauthorized, "no editor on the session")
		return
	}
	isAdmin, _ := session.Values["is-admin"].(bool)
	writeJSON(w, http.StatusOK, protocol.SessionResponse{Nickname: nickname, IsAdmin: isAdmin})
}

// RecentAudit lists the latest accepted writes, newest first
func (h *SessionHandler) RecentAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.adminService.RecentAudit(limit)
	if err != nil {
		http.Error(w, "Could not gather the audit trail", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
