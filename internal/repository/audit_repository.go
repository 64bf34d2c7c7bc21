/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"fmt"

	"github.com/YF-George/group-web/internal/entity"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(entry *entity.AuditEntry) error
	Recent(limit int) ([]*entity.AuditEntry, error)
}

type SQLiteAuditRepository struct {
	db *gorm.DB
}

func NewSQLiteAuditRepository(db *gorm.DB) AuditRepository {
	return &SQLiteAuditRepository{db}
}

func (repo *SQLiteAuditRepository) Append(entry *entity.AuditEntry) error {
	return repo.db.Create(entry).Error
}

func (repo *SQLiteAuditRepository) Recent(limit int) ([]*entity.AuditEntry, error) {
	var entries []*entity.AuditEntry
	err := repo.db.Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// appendAudit writes an audit row inside an already open transaction, so the
// trail and the mutation it records commit or roll back together
func appendAudit(tx *gorm.DB, kind string, id any, editor, action string) error {
	return tx.Create(&entity.AuditEntry{
		EntityKind: kind,
		EntityID:   fmt.Sprint(id),
		Editor:     editor,
		Action:     action,
	}).Error
}
