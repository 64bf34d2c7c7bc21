/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package protocol

// Reason is a closed set of machine-readable rejection codes.
// The authority always pairs one of these with its human message, so
// clients and tests never have to pattern-match free text.
type Reason string

const (
	ReasonNone          Reason = ""               // No rejection
	ReasonSlotTaken     Reason = "slot_taken"     // The slot is already claimed by a different nickname
	ReasonStaleVersion  Reason = "stale_version"  // The expected version has been passed by the stored one
	ReasonNotLockOwner  Reason = "not_lock_owner" // The acting editor does not hold the field's lock
	ReasonLockHeld      Reason = "lock_held"      // The field's lock is held by a different editor
	ReasonFieldMissing  Reason = "field_missing"  // No field with the given id exists
	ReasonMemberMissing Reason = "member_missing" // No member with the given id exists
	ReasonBadRequest    Reason = "bad_request"    // The payload failed validation
	ReasonRateLimited   Reason = "rate_limited"   // Too many requests from this editor
	ReasonUnauthorized  Reason = "unauthorized"   // No editor identity on the session
)

// SaveResult is the structured outcome of a member save.
// Success false with a Reason is a business rejection, not an error:
// the authority evaluated the request and turned it down.
type SaveResult struct {
	Success  bool   `json:"success"`
	Reason   Reason `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
	Fallback bool   `json:"fallback,omitempty"` // True when the non-atomic fallback path produced this result
}

// LockResult is the structured outcome of a lock acquire or release
type LockResult struct {
	Success bool   `json:"success"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// MemberSaveRequest is the body of the atomic member save endpoint.
// All fields are named explicitly so the authority can judge the claim
// atomically, there are no partial-field saves.
type MemberSaveRequest struct {
	MemberID   uint   `json:"member_id"`
	Nickname   string `json:"nickname"`
	VocationID *int   `json:"vocation_id"`
	GearScore  int    `json:"gear_score"`
}

// FieldUpdateRequest is the body of the atomic field update endpoint
type FieldUpdateRequest struct {
	FieldID         string `json:"field_id"`
	NewValue        string `json:"new_value"`
	ExpectedVersion int64  `json:"expected_version"`
}

// LockRequest is the body of the lock acquire/release endpoints
type LockRequest struct {
	FieldID string `json:"field_id"`
}
