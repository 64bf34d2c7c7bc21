/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// AuditEntry records one accepted mutation, attributing it to an editor.
// Entries are append-only; nothing in the system ever updates or deletes them.
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`              // Unique identifier
	EntityKind string    `gorm:"not null;index" json:"entity_kind"` // "group", "member" or "field"
	EntityID   string    `gorm:"not null" json:"entity_id"`         // Identifier of the mutated entity, as a string
	Editor     string    `gorm:"not null" json:"editor"`            // Nickname the mutation is attributed to
	Action     string    `gorm:"not null" json:"action"`            // Short verb, e.g. "save", "lock", "release"
	CreatedAt  time.Time `json:"created_at"`                        // Time the mutation was accepted
}
