/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package replica

import (
	"context"
	"errors"

	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/protocol"
)

// Saver is the write primitive that persists a slot edit. It issues one
// remote call naming every field explicitly, so the authority can judge a
// slot claim atomically, and interprets the structured outcome.
//
// When the atomic entry point turns out to be missing or shape-drifted
// (ErrEndpointMismatch from the boundary), the save is retried once through
// the direct field-level update. That trade — atomicity for availability —
// weakens the single-claim guarantee, so it is logged loudly every time.
type Saver struct {
	authority Authority
	logger    nlog.Logger
}

func NewSaver(authority Authority, logger nlog.Logger) *Saver {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &Saver{authority: authority, logger: logger}
}

// Save persists one member's fields under the editor's identity.
//
// Outcomes:
//   - (result{Success:true}, nil): accepted, possibly via the fallback path
//     (result.Fallback true, message "fallback path used")
//   - (result{Success:false}, nil): business rejection, reason attached
//   - (_, err): precondition or transport failure, nothing persisted for sure
func (s *Saver) Save(ctx context.Context, memberID uint, nickname string, vocationID *int, gearScore int, editor string) (protocol.SaveResult, error) {
	if editor == "" {
		return protocol.SaveResult{}, ErrNoEditor
	}

	result, err := s.authority.AtomicSaveMember(ctx, memberID, nickname, vocationID, gearScore, editor)
	if err == nil {
		if !result.Success {
			s.logger.Logf("Save of member %d rejected {%s: %s}", memberID, result.Reason, result.Message)
		}
		return result, nil
	}

	if !errors.Is(err, ErrEndpointMismatch) {
		s.logger.Logf("Save of member %d failed {%v}", memberID, err)
		return protocol.SaveResult{}, err
	}

	// Interface drift between us and the authority. One retry through the
	// non-atomic path; the claim conflict check is lost on this write.
	s.logger.Logf("ATOMIC SAVE ENTRY POINT UNAVAILABLE, falling back to direct update for member %d {%v}", memberID, err)

	fallback, ferr := s.authority.UpdateMemberFields(ctx, memberID, nickname, vocationID, gearScore, editor)
	if ferr != nil {
		s.logger.Logf("Fallback update of member %d also failed {%v}, re-raising the original error", memberID, ferr)
		return protocol.SaveResult{}, err
	}

	fallback.Fallback = true
	if fallback.Success {
		fallback.Message = "fallback path used"
	}
	return fallback, nil
}
