/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"encoding/json"
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/protocol"
	"github.com/YF-George/group-web/internal/repository"

	"github.com/google/uuid"
)

// DefaultLockExpiry is how long a field lock survives without a release
// before anyone else may steal it
const DefaultLockExpiry = 5 * time.Minute

type FormService interface {
	CreateField(id, value, editor string) (*entity.FormField, error)
	GetFields() ([]*entity.FormField, error)

	Lock(fieldID, editor string) (protocol.LockResult, *entity.FormField, error)
	Unlock(fieldID, editor string) (protocol.LockResult, *entity.FormField, error)
	UpdateValue(req protocol.FieldUpdateRequest, editor string) (protocol.SaveResult, *entity.FormField, error)
}

type formService struct {
	fields repository.FieldRepository
	feed   feed.Publisher
	expiry time.Duration
	logger nlog.Logger
}

func NewFormService(fields repository.FieldRepository, publisher feed.Publisher, expiry time.Duration, logger nlog.Logger) FormService {
	if expiry <= 0 {
		expiry = DefaultLockExpiry
	}
	if logger == nil {
		logger = nlog.Discard()
	}
	return &formService{
		fields: fields,
		feed:   publisher,
		expiry: expiry,
		logger: logger,
	}
}

func (s *formService) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

func (s *formService) publishField(eventType feed.EventType, field *entity.FormField) {
	raw, err := json.Marshal(field)
	if err != nil {
		s.Logf("Could not serialize field %s for the feed {%v}", field.ID, err)
		return
	}
	s.feed.Publish(feed.ChangeEvent{
		EventID: uuid.New().String(),
		Table:   feed.TableForms,
		Type:    eventType,
		New:     raw,
	})
}

func (s *formService) CreateField(id, value, editor string) (*entity.FormField, error) {
	field := entity.NewFormField(id, value)
	if err := s.fields.Create(field); err != nil {
		return nil, err
	}
	s.Logf("Field %s created by %s", id, editor)
	s.publishField(feed.INSERT, field)
	return field, nil
}

func (s *formService) GetFields() ([]*entity.FormField, error) {
	return s.fields.GetAll()
}

func (s *formService) Lock(fieldID, editor string) (protocol.LockResult, *entity.FormField, error) {
	result, field, err := s.fields.AcquireLock(fieldID, editor, s.expiry)
	if err != nil {
		s.Logf("Lock on %s failed {%v}", fieldID, err)
		return protocol.LockResult{}, nil, err
	}
	if !result.Success {
		s.Logf("Lock on %s refused for %s: %s", fieldID, editor, result.Reason)
		return result, nil, nil
	}

	s.Logf("Field %s locked by %s", fieldID, editor)
	s.publishField(feed.UPDATE, field)
	return result, field, nil
}

func (s *formService) Unlock(fieldID, editor string) (protocol.LockResult, *entity.FormField, error) {
	result, field, err := s.fields.ReleaseLock(fieldID, editor)
	if err != nil {
		s.Logf("Unlock on %s failed {%v}", fieldID, err)
		return protocol.LockResult{}, nil, err
	}
	if !result.Success {
		s.Logf("Unlock on %s refused for %s: %s", fieldID, editor, result.Reason)
		return result, nil, nil
	}

	s.Logf("Field %s released by %s", fieldID, editor)
	s.publishField(feed.UPDATE, field)
	return result, field, nil
}

func (s *formService) UpdateValue(req protocol.FieldUpdateRequest, editor string) (protocol.SaveResult, *entity.FormField, error) {
	result, field, err := s.fields.AtomicUpdate(req.FieldID, req.NewValue, editor, req.ExpectedVersion)
	if err != nil {
		s.Logf("Update on %s failed {%v}", req.FieldID, err)
		return protocol.SaveResult{}, nil, err
	}
	if !result.Success {
		s.Logf("Update on %s rejected for %s: %s", req.FieldID, editor, result.Reason)
		return result, nil, nil
	}

	s.Logf("Field %s advanced to version %d by %s", field.ID, field.Version, editor)
	s.publishField(feed.UPDATE, field)
	return result, field, nil
}
