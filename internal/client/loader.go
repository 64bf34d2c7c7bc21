/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/YF-George/group-web/internal/entity"
)

// FetchMembers pulls every member row for the initial cache fill
func (a *HTTPAuthority) FetchMembers(ctx context.Context) ([]*entity.Member, error) {
	var members []*entity.Member
	if err := a.get(ctx, "/api/members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

// FetchFields pulls every form field for the initial cache fill
func (a *HTTPAuthority) FetchFields(ctx context.Context) ([]*entity.FormField, error) {
	var fields []*entity.FormField
	if err := a.get(ctx, "/api/fields", &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (a *HTTPAuthority) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
