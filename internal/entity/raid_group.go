/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Status values a raid group cycles through during its lifetime
const (
	GroupStatusRecruiting = "recruiting" // Slots still open
	GroupStatusReady      = "ready"      // Full roster, waiting for raid time
	GroupStatusDeparted   = "departed"   // The raid has left, roster is frozen
)

// SlotsPerGroup is the fixed roster size every group is created with
const SlotsPerGroup = 10

// RaidGroup is one raid signup sheet: a boss, a time, and a fixed set of member slots
type RaidGroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`               // Unique identifier, assigned by the database
	BossName     string    `gorm:"not null;index" json:"boss_name"`    // Name of the boss the group is formed for
	RaidTime     time.Time `gorm:"not null;index" json:"raid_time"`    // Scheduled departure time
	Note         string    `gorm:"default:''" json:"note"`             // Free-form note shown on the sheet
	Status       string    `gorm:"not null" json:"status"`             // One of the GroupStatus values above
	LastEditedBy string    `json:"last_edited_by"`                     // Nickname of the last editor, kept for the audit trail
	UpdatedAt    time.Time `json:"updated_at"`                         // Time of last modification

	Members []*Member `gorm:"foreignKey:GroupID" json:"members,omitempty"` // The fixed slots of this group
}
