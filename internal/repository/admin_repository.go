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

	"github.com/YF-George/group-web/internal/entity"

	"gorm.io/gorm"
)

type AdminRepository interface {
	GetByNickname(nickname string) (*entity.AdminAccount, error)

	// Seed stores the account if no account with that nickname exists yet
	Seed(account *entity.AdminAccount) error
}

type SQLiteAdminRepository struct {
	db *gorm.DB
}

func NewSQLiteAdminRepository(db *gorm.DB) AdminRepository {
	return &SQLiteAdminRepository{db}
}

func (repo *SQLiteAdminRepository) GetByNickname(nickname string) (*entity.AdminAccount, error) {
	var account entity.AdminAccount
	err := repo.db.Where("nickname = ?", nickname).First(&account).Error
	return &account, err
}

func (repo *SQLiteAdminRepository) Seed(account *entity.AdminAccount) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		var existing entity.AdminAccount
		err := tx.Where("nickname = ?", account.Nickname).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(account).Error
	})
}
