/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// FormField is one independently lockable, versioned value of the shared form.
// The version starts at 1 and strictly increases on every accepted mutation;
// it is the sole tie-breaker when concurrent observations of the same field
// have to be merged.
type FormField struct {
	ID       string     `gorm:"primaryKey" json:"id"`              // Unique identifier
	Value    string     `gorm:"default:''" json:"value"`           // Current text value
	LockedBy *string    `json:"locked_by"`                         // Nickname of the editor holding the lock, nil when free
	LockedAt *time.Time `json:"locked_at"`                         // Time the lock was taken, nil when free
	Version  int64      `gorm:"not null;default:1" json:"version"` // Monotonic mutation counter
}

// NewFormField creates a field with an initial value, unlocked, at version 1
func NewFormField(id, value string) *FormField {
	return &FormField{ID: id, Value: value, Version: 1}
}

// LockedByOther reports whether the field is held by someone that is not locker
func (f *FormField) LockedByOther(locker string) bool {
	return f.LockedBy != nil && *f.LockedBy != locker
}

// LockExpired reports whether the lock was taken longer than expiry ago.
// A field with no lock never counts as expired.
func (f *FormField) LockExpired(now time.Time, expiry time.Duration) bool {
	return f.LockedAt != nil && now.Sub(*f.LockedAt) > expiry
}

// Clone returns a deep copy of the field
func (f *FormField) Clone() *FormField {
	c := *f
	if f.LockedBy != nil {
		s := *f.LockedBy
		c.LockedBy = &s
	}
	if f.LockedAt != nil {
		t := *f.LockedAt
		c.LockedAt = &t
	}
	return &c
}
