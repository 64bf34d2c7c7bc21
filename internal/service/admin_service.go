/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"errors"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService interface {
	// Verify reports whether nickname carries admin rights and password
	// matches. A missing account is a plain false, not an error.
	Verify(nickname, password string) (bool, error)

	// Seed registers an admin account if the nickname has none yet
	Seed(nickname, password string) error

	RecentAudit(limit int) ([]*entity.AuditEntry, error)
}

type adminService struct {
	admins repository.AdminRepository
	audit  repository.AuditRepository
	logger nlog.Logger
}

func NewAdminService(admins repository.AdminRepository, audit repository.AuditRepository, logger nlog.Logger) AdminService {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &adminService{
		admins: admins,
		audit:  audit,
		logger: logger,
	}
}

func (s *adminService) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

func (s *adminService) Verify(nickname, password string) (bool, error) {
	account, err := s.admins.GetByNickname(nickname)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.Logf("Admin verification failed for %s", nickname)
		return false, nil
	}
	s.Logf("Admin %s verified", nickname)
	return true, nil
}

func (s *adminService) Seed(nickname, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.Logf("Could not calculate hash {%v}", err)
		return err
	}
	return s.admins.Seed(&entity.AdminAccount{
		Nickname:     nickname,
		PasswordHash: string(hash),
	})
}

func (s *adminService) RecentAudit(limit int) ([]*entity.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.audit.Recent(limit)
}
