/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package protocol

import "github.com/YF-George/group-web/internal/entity"

// FieldUpdateResponse pairs the outcome of a field write with the fresh row.
// The row is present only on success.
type FieldUpdateResponse struct {
	Result SaveResult        `json:"result"`
	Field  *entity.FormField `json:"field,omitempty"`
}

// LockResponse pairs a lock outcome with the field row it produced
type LockResponse struct {
	Result LockResult        `json:"result"`
	Field  *entity.FormField `json:"field,omitempty"`
}

// SessionResponse describes the identity a login produced
type SessionResponse struct {
	Nickname string `json:"nickname"`
	IsAdmin  bool   `json:"is_admin"`
}

// LoginRequest is the body of the session login endpoint.
// Password is only looked at when admin rights are requested.
type LoginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password,omitempty"`
}
