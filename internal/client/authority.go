/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/protocol"
	"github.com/YF-George/group-web/internal/replica"
)

// HTTPAuthority talks to the authority's JSON surface. It carries a cookie
// jar so the editor identity established by Login rides on every call.
//
// A 404 or 405 on a write entry point is classified as an endpoint
// mismatch, never judged by message text: old deployments answer exactly
// that when they predate an entry point.
type HTTPAuthority struct {
	baseURL string
	client  *http.Client
	logger  nlog.Logger
}

func NewHTTPAuthority(baseURL string, logger nlog.Logger) (*HTTPAuthority, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = nlog.Discard()
	}
	return &HTTPAuthority{
		baseURL: baseURL,
		client:  &http.Client{Jar: jar},
		logger:  logger,
	}, nil
}

func (a *HTTPAuthority) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

// Login binds a nickname (and optionally admin credentials) to this
// authority's session, so later writes are attributed to it
func (a *HTTPAuthority) Login(ctx context.Context, nickname, password string) (protocol.SessionResponse, error) {
	var session protocol.SessionResponse
	err := a.post(ctx, "/api/session/login", protocol.LoginRequest{Nickname: nickname, Password: password}, &session)
	return session, err
}

func (a *HTTPAuthority) AtomicSaveMember(ctx context.Context, memberID uint, nickname string, vocationID *int, gearScore int, editor string) (protocol.SaveResult, error) {
	var result protocol.SaveResult
	err := a.post(ctx, "/api/members/save", protocol.MemberSaveRequest{
		MemberID:   memberID,
		Nickname:   nickname,
		VocationID: vocationID,
		GearScore:  gearScore,
	}, &result)
	return result, err
}

func (a *HTTPAuthority) UpdateMemberFields(ctx context.Context, memberID uint, nickname string, vocationID *int, gearScore int, editor string) (protocol.SaveResult, error) {
	var result protocol.SaveResult
	err := a.post(ctx, "/api/members/update", protocol.MemberSaveRequest{
		MemberID:   memberID,
		Nickname:   nickname,
		VocationID: vocationID,
		GearScore:  gearScore,
	}, &result)
	return result, err
}

func (a *HTTPAuthority) AcquireLock(ctx context.Context, fieldID, locker string) (protocol.LockResult, error) {
	var response protocol.LockResponse
	err := a.post(ctx, "/api/fields/"+url.PathEscape(fieldID)+"/lock", protocol.LockRequest{FieldID: fieldID}, &response)
	return response.Result, err
}

func (a *HTTPAuthority) ReleaseLock(ctx context.Context, fieldID, locker string) (protocol.LockResult, error) {
	var response protocol.LockResponse
	err := a.post(ctx, "/api/fields/"+url.PathEscape(fieldID)+"/unlock", protocol.LockRequest{FieldID: fieldID}, &response)
	return response.Result, err
}

func (a *HTTPAuthority) AtomicUpdateField(ctx context.Context, fieldID, newValue, editor string, expectedVersion int64) (*entity.FormField, protocol.SaveResult, error) {
	var response protocol.FieldUpdateResponse
	err := a.post(ctx, "/api/fields/"+url.PathEscape(fieldID)+"/value", protocol.FieldUpdateRequest{
		FieldID:         fieldID,
		NewValue:        newValue,
		ExpectedVersion: expectedVersion,
	}, &response)
	if err != nil {
		return nil, protocol.SaveResult{}, err
	}
	return response.Field, response.Result, nil
}

// post sends a JSON body and decodes the JSON answer into out.
// Statuses that mean "this entry point is not what we think it is" are
// wrapped with the endpoint sentinel so callers can classify with errors.Is.
func (a *HTTPAuthority) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		a.Logf("Entry point %s answered %d", path, resp.StatusCode)
		return fmt.Errorf("POST %s: status %d: %w", path, resp.StatusCode, replica.ErrEndpointMismatch)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A non-JSON answer on a JSON surface is shape drift, same family
		// as a missing entry point
		return fmt.Errorf("POST %s: undecodable answer: %w", path, replica.ErrEndpointMismatch)
	}
	return nil
}
