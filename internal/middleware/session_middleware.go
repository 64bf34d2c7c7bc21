/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/YF-George/group-web/internal/input"
	"github.com/YF-George/group-web/internal/protocol"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie the editor identity lives in
const SessionName = "editor-session"

func writeReason(w http.ResponseWriter, status int, reason protocol.Reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(protocol.SaveResult{Success: false, Reason: reason, Message: message})
}

// RequireEditor lets the request through only when the session carries a
// nickname, and puts it on the context for the handlers
func RequireEditor(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, SessionName)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		nickname, ok := session.Values["nickname"].(string)
		if !ok || nickname == "" {
			writeReason(w, http.StatusUnauthorized, protocol.ReasonUnauthorized, "no editor on the session")
			return
		}

		ctx := context.WithValue(r.Context(), "editor", nickname)
		if isAdmin, ok := session.Values["is-admin"].(bool); ok {
			ctx = context.WithValue(ctx, "is-admin", isAdmin)
		}
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin stacks on RequireEditor and additionally demands the
// admin flag set at login time
func RequireAdmin(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return RequireEditor(store, func(w http.ResponseWriter, r *http.Request) {
		isAdmin, _ := r.Context().Value("is-admin").(bool)
		if !isAdmin {
			writeReason(w, http.StatusForbidden, protocol.ReasonUnauthorized, "admin rights required")
			return
		}
		next(w, r)
	})
}

// RateLimit charges the request against the editor's write budget.
// It must sit inside RequireEditor, the editor is the billing key.
func RateLimit(limiter *input.RateLimiter, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, _ := r.Context().Value("editor").(string)
		if editor != "" && !limiter.Allow(editor) {
			writeReason(w, http.StatusTooManyRequests, protocol.ReasonRateLimited, "write budget exhausted, slow down")
			return
		}
		next(w, r)
	}
}
