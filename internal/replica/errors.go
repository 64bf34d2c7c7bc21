/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package replica

import (
	"errors"
	"fmt"

	"github.com/YF-George/group-web/internal/protocol"
)

// Precondition failures. These are raised locally, before any remote call,
// and are never retried.
var (
	ErrNoEditor      = errors.New("no editor identity on the current session")
	ErrMemberMissing = errors.New("member is not present in the local cache")
	ErrFieldMissing  = errors.New("field is not present in the local cache")
	ErrNotLockOwner  = errors.New("field is not locked by the current editor")
)

// ErrEndpointMismatch marks a remote failure meaning "the named entry point
// does not exist or its parameter shape does not match what we sent".
// It must be attached (wrapped) by the Authority implementation itself;
// the replica only ever tests for it with errors.Is and never inspects
// message strings. An unclassified error is treated as unknown and is
// never allowed to trigger the fallback path.
var ErrEndpointMismatch = errors.New("remote entry point missing or mismatched")

// ConflictError is a business rejection from the authority: the request was
// understood, evaluated and turned down. It always reaches the caller, the
// replica never swallows it.
type ConflictError struct {
	Reason  protocol.Reason
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rejected by authority {%s}", e.Reason)
	}
	return fmt.Sprintf("rejected by authority {%s}: %s", e.Reason, e.Message)
}

// FailureKind is the taxonomy every write failure falls into
type FailureKind uint8

const (
	FailureUnknown          FailureKind = iota // Transport or internal, logged with context and propagated
	FailurePrecondition                        // Rejected locally before any remote call
	FailureConflict                            // Authority evaluated and refused the request
	FailureEndpointMismatch                    // Schema drift between client and authority
)

// Classify maps an error onto the taxonomy
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureUnknown
	case errors.Is(err, ErrNoEditor),
		errors.Is(err, ErrMemberMissing),
		errors.Is(err, ErrFieldMissing),
		errors.Is(err, ErrNotLockOwner):
		return FailurePrecondition
	case errors.Is(err, ErrEndpointMismatch):
		return FailureEndpointMismatch
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return FailureConflict
	}
	return FailureUnknown
}
