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
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/protocol"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FieldRepository interface {
	Create(field *entity.FormField) error

	GetByID(id string) (*entity.FormField, error)
	GetAll() ([]*entity.FormField, error)

	// AcquireLock grants the lock when the field is free, already held by
	// locker, or held by a lock older than expiry. Lock churn does not touch
	// the version, only value mutations do.
	AcquireLock(fieldID, locker string, expiry time.Duration) (protocol.LockResult, *entity.FormField, error)

	// ReleaseLock frees the field, but only for its current holder
	ReleaseLock(fieldID, locker string) (protocol.LockResult, *entity.FormField, error)

	// AtomicUpdate writes a new value if locker holds the lock and the stored
	// version still equals expectedVersion, bumping the version by one
	AtomicUpdate(fieldID, newValue, locker string, expectedVersion int64) (protocol.SaveResult, *entity.FormField, error)
}

type SQLiteFieldRepository struct {
	db *gorm.DB
}

func NewSQLiteFieldRepository(db *gorm.DB) FieldRepository {
	return &SQLiteFieldRepository{db}
}

func (repo *SQLiteFieldRepository) Create(field *entity.FormField) error {
	if field.Version == 0 {
		field.Version = 1
	}
	return repo.db.Create(field).Error
}

func (repo *SQLiteFieldRepository) GetByID(id string) (*entity.FormField, error) {
	var field entity.FormField
	err := repo.db.Where("id = ?", id).First(&field).Error
	return &field, err
}

func (repo *SQLiteFieldRepository) GetAll() ([]*entity.FormField, error) {
	var fields []*entity.FormField
	err := repo.db.Order("id ASC").Find(&fields).Error
	return fields, err
}

func (repo *SQLiteFieldRepository) AcquireLock(fieldID, locker string, expiry time.Duration) (protocol.LockResult, *entity.FormField, error) {

	result := protocol.LockResult{Success: true}
	var field entity.FormField

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", fieldID).First(&field).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = protocol.LockResult{Success: false, Reason: protocol.ReasonFieldMissing, Message: "no such field"}
				return nil
			}
			return err
		}

		now := time.Now()
		if field.LockedByOther(locker) && !field.LockExpired(now, expiry) {
			result = protocol.LockResult{Success: false, Reason: protocol.ReasonLockHeld, Message: "field locked by " + *field.LockedBy}
			return nil
		}

		field.LockedBy = &locker
		field.LockedAt = &now
		if err := tx.Save(&field).Error; err != nil {
			return err
		}
		return appendAudit(tx, "field", field.ID, locker, "lock")
	})
	if err != nil {
		return protocol.LockResult{}, nil, err
	}
	if !result.Success {
		return result, nil, nil
	}
	return result, &field, nil
}

func (repo *SQLiteFieldRepository) ReleaseLock(fieldID, locker string) (protocol.LockResult, *entity.FormField, error) {

	result := protocol.LockResult{Success: true}
	var field entity.FormField

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", fieldID).First(&field).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = protocol.LockResult{Success: false, Reason: protocol.ReasonFieldMissing, Message: "no such field"}
				return nil
			}
			return err
		}

		if field.LockedBy == nil {
			// Releasing a free field is a no-op, not a fault
			return nil
		}
		if *field.LockedBy != locker {
			result = protocol.LockResult{Success: false, Reason: protocol.ReasonNotLockOwner, Message: "lock held by " + *field.LockedBy}
			return nil
		}

		field.LockedBy = nil
		field.LockedAt = nil
		if err := tx.Save(&field).Error; err != nil {
			return err
		}
		return appendAudit(tx, "field", field.ID, locker, "release")
	})
	if err != nil {
		return protocol.LockResult{}, nil, err
	}
	if !result.Success {
		return result, nil, nil
	}
	return result, &field, nil
}

func (repo *SQLiteFieldRepository) AtomicUpdate(fieldID, newValue, locker string, expectedVersion int64) (protocol.SaveResult, *entity.FormField, error) {

	result := protocol.SaveResult{Success: true}
	var field entity.FormField

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", fieldID).First(&field).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = reject(protocol.ReasonFieldMissing, "no such field")
				return nil
			}
			return err
		}

		if field.LockedBy == nil || *field.LockedBy != locker {
			result = reject(protocol.ReasonNotLockOwner, "lock not held")
			return nil
		}
		if field.Version != expectedVersion {
			result = reject(protocol.ReasonStaleVersion, "version advanced while editing")
			return nil
		}

		field.Value = newValue
		field.Version++
		if err := tx.Save(&field).Error; err != nil {
			return err
		}
		return appendAudit(tx, "field", field.ID, locker, "update")
	})
	if err != nil {
		return protocol.SaveResult{}, nil, err
	}
	if !result.Success {
		return result, nil, nil
	}
	return result, &field, nil
}
