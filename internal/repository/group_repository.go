/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"time"

	"github.com/YF-George/group-web/internal/entity"

	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(group *entity.RaidGroup) error

	GetByID(id uint) (*entity.RaidGroup, error)
	GetAll() ([]*entity.RaidGroup, error)

	Update(id uint, bossName string, raidTime time.Time, note, status, editor string) (*entity.RaidGroup, error)
	Delete(id uint) error
}

type SQLiteGroupRepository struct {
	db *gorm.DB
}

func NewSQLiteGroupRepository(db *gorm.DB) GroupRepository {
	return &SQLiteGroupRepository{db}
}

// Create inserts the group and its fixed set of empty slots in one
// transaction, so a group is never observable without its roster.
// Slot 1 is seeded as tank, slots 2 and 3 as healers, the rest as dps.
func (repo *SQLiteGroupRepository) Create(group *entity.RaidGroup) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if group.Status == "" {
			group.Status = entity.GroupStatusRecruiting
		}
		if err := tx.Create(group).Error; err != nil {
			return err
		}

		for i := 0; i < entity.SlotsPerGroup; i++ {
			vocation := entity.VocationDPS
			switch {
			case i == 0:
				vocation = entity.VocationTank
			case i == 1 || i == 2:
				vocation = entity.VocationHealer
			}
			v := vocation
			member := &entity.Member{
				GroupID:       group.ID,
				PositionIndex: i + 1,
				VocationID:    &v,
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
			group.Members = append(group.Members, member)
		}
		return appendAudit(tx, "group", group.ID, group.LastEditedBy, "create")
	})
}

func (repo *SQLiteGroupRepository) GetByID(id uint) (*entity.RaidGroup, error) {
	var group entity.RaidGroup
	err := repo.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("position_index ASC")
	}).First(&group, id).Error
	return &group, err
}

func (repo *SQLiteGroupRepository) GetAll() ([]*entity.RaidGroup, error) {
	var groups []*entity.RaidGroup
	err := repo.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("position_index ASC")
	}).Order("raid_time ASC").Find(&groups).Error
	return groups, err
}

func (repo *SQLiteGroupRepository) Update(id uint, bossName string, raidTime time.Time, note, status, editor string) (*entity.RaidGroup, error) {
	var group entity.RaidGroup
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&group, id).Error; err != nil {
			return err
		}
		group.BossName = bossName
		group.RaidTime = raidTime
		group.Note = note
		group.Status = status
		group.LastEditedBy = editor
		if err := tx.Save(&group).Error; err != nil {
			return err
		}
		return appendAudit(tx, "group", group.ID, editor, "update")
	})
	return &group, err
}

// Delete removes the group and its slots
func (repo *SQLiteGroupRepository) Delete(id uint) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&entity.Member{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.RaidGroup{}, id).Error
	})
}
