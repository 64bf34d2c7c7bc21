/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Default vocation identifiers used when a group's slots are seeded
const (
	VocationTank   = 1
	VocationHealer = 2
	VocationDPS    = 3
)

// MaxNicknameLength is the longest nickname a slot or an editor may carry
const MaxNicknameLength = 12

// Member is one fixed position inside a raid group's roster.
// A position with an empty nickname is an unclaimed slot; claiming is done
// by writing a nickname into it, never by inserting or deleting rows.
type Member struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                          // Unique identifier, assigned by the database
	GroupID       uint      `gorm:"not null;index" json:"group_id"`                // Group this slot belongs to
	PositionIndex int       `gorm:"not null" json:"position_index"`                // 1..SlotsPerGroup, unique within the group, immutable once assigned
	Nickname      string    `gorm:"default:''" json:"nickname"`                    // Claimer's nickname, empty when the slot is free
	VocationID    *int      `json:"vocation_id"`                                   // Chosen vocation, nil when not picked yet
	GearScore     int       `gorm:"default:0" json:"gear_score"`                   // Declared gear score, never negative
	LastEditedBy  string    `json:"last_edited_by"`                                // Nickname of the last editor
	UpdatedAt     time.Time `json:"updated_at"`                                    // Time of last modification
}

// Claimed reports whether this slot currently holds a nickname
func (m *Member) Claimed() bool {
	return m.Nickname != ""
}

// Clone returns a deep copy of the member.
// Used by the replica when taking rollback snapshots.
func (m *Member) Clone() *Member {
	c := *m
	if m.VocationID != nil {
		v := *m.VocationID
		c.VocationID = &v
	}
	return &c
}
