/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"errors"
	"strings"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository interface {
	// AtomicSave judges the whole claim in one transaction: either every
	// field of the request is applied, or nothing is and the result says why
	AtomicSave(req protocol.MemberSaveRequest, editor string) (protocol.SaveResult, *entity.Member, error)

	// UpdateFields applies the fields without the claim check.
	// Kept for deployments whose schema predates AtomicSave.
	UpdateFields(req protocol.MemberSaveRequest, editor string) (*entity.Member, error)

	GetByID(id uint) (*entity.Member, error)
	ListByGroup(groupID uint) ([]*entity.Member, error)
}

type SQLiteMemberRepository struct {
	db *gorm.DB
}

func NewSQLiteMemberRepository(db *gorm.DB) MemberRepository {
	return &SQLiteMemberRepository{db}
}

func reject(reason protocol.Reason, message string) protocol.SaveResult {
	return protocol.SaveResult{Success: false, Reason: reason, Message: message}
}

func (repo *SQLiteMemberRepository) AtomicSave(req protocol.MemberSaveRequest, editor string) (protocol.SaveResult, *entity.Member, error) {

	result := protocol.SaveResult{Success: true}
	var member entity.Member

	nickname := strings.TrimSpace(req.Nickname)
	if len(nickname) > entity.MaxNicknameLength {
		return reject(protocol.ReasonBadRequest, "nickname too long"), nil, nil
	}
	if req.GearScore < 0 {
		return reject(protocol.ReasonBadRequest, "gear score cannot be negative"), nil, nil
	}

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&member, req.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = reject(protocol.ReasonMemberMissing, "no such member")
				return nil
			}
			return err
		}

		// A claimed slot belongs to its claimer until it is emptied.
		// Writing a different non-empty nickname over it is the race the
		// whole save exists to lose gracefully.
		if member.Claimed() && nickname != "" && member.Nickname != nickname {
			result = reject(protocol.ReasonSlotTaken, "slot already claimed")
			return nil
		}

		// The same nickname cannot sit in two slots of one roster
		if nickname != "" && member.Nickname != nickname {
			var twin int64
			if err := tx.Model(&entity.Member{}).
				Where("group_id = ? AND nickname = ? AND id <> ?", member.GroupID, nickname, member.ID).
				Count(&twin).Error; err != nil {
				return err
			}
			if twin > 0 {
				result = reject(protocol.ReasonSlotTaken, "nickname already in this roster")
				return nil
			}
		}

		member.Nickname = nickname
		member.VocationID = req.VocationID
		member.GearScore = req.GearScore
		member.LastEditedBy = editor

		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		return appendAudit(tx, "member", member.ID, editor, "save")
	})
	if err != nil {
		return protocol.SaveResult{}, nil, err
	}
	if !result.Success {
		return result, nil, nil
	}
	return result, &member, nil
}

func (repo *SQLiteMemberRepository) UpdateFields(req protocol.MemberSaveRequest, editor string) (*entity.Member, error) {
	var member entity.Member
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, req.MemberID).Error; err != nil {
			return err
		}
		member.Nickname = strings.TrimSpace(req.Nickname)
		member.VocationID = req.VocationID
		member.GearScore = req.GearScore
		member.LastEditedBy = editor
		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		return appendAudit(tx, "member", member.ID, editor, "save")
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (repo *SQLiteMemberRepository) GetByID(id uint) (*entity.Member, error) {
	var member entity.Member
	err := repo.db.First(&member, id).Error
	return &member, err
}

func (repo *SQLiteMemberRepository) ListByGroup(groupID uint) ([]*entity.Member, error) {
	var members []*entity.Member
	err := repo.db.Where("group_id = ?", groupID).Order("position_index ASC").Find(&members).Error
	return members, err
}
