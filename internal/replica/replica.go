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
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/nlog"
)

// Loader fetches the initial state of the watched collections, after which
// the change feed keeps the replica current
type Loader interface {
	FetchMembers(ctx context.Context) ([]*entity.Member, error)
	FetchFields(ctx context.Context) ([]*entity.FormField, error)
}

// Config carries the tunables of a replica; zero values mean defaults
type Config struct {
	QuietPeriod time.Duration     // Debounce window per member id, DefaultQuietPeriod when zero
	LockExpiry  time.Duration     // Staleness window for held locks, DefaultLockExpiry when zero
	OnOutcome   func(SaveOutcome) // Receives every scheduled save's result, may be nil
	Logger      nlog.Logger       // May be nil, logging is then dropped
}

// Replica is the client-side working copy of the shared state: the caches
// the UI renders from, the reconciler keeping them current from the feed,
// the write coordinator for slot edits and the lock manager for form fields.
type Replica struct {
	Members     *Store[uint, *entity.Member]
	Fields      *Store[string, *entity.FormField]
	Reconciler  *Reconciler
	Coordinator *WriteCoordinator
	Locks       *LockManager
}

func New(ctx context.Context, authority Authority, source feed.Source, editor EditorSource, cfg Config) *Replica {
	members := NewMemberStore()
	fields := NewFieldStore()
	reconciler := NewReconciler(members, fields, source, cfg.Logger)
	saver := NewSaver(authority, cfg.Logger)
	coordinator := NewWriteCoordinator(ctx, members, saver, editor, cfg.QuietPeriod, cfg.OnOutcome, cfg.Logger)
	locks := NewLockManager(fields, reconciler, authority, editor, cfg.Logger)
	if cfg.LockExpiry > 0 {
		locks.SetExpiry(cfg.LockExpiry)
	}

	return &Replica{
		Members:     members,
		Fields:      fields,
		Reconciler:  reconciler,
		Coordinator: coordinator,
		Locks:       locks,
	}
}

// LoadInitial replaces both caches with the authority's current state
func (r *Replica) LoadInitial(ctx context.Context, loader Loader) error {
	members, err := loader.FetchMembers(ctx)
	if err != nil {
		return err
	}
	fields, err := loader.FetchFields(ctx)
	if err != nil {
		return err
	}
	r.Members.Replace(members)
	r.Fields.Replace(fields)
	return nil
}

// Run drives the reconciler until ctx ends
func (r *Replica) Run(ctx context.Context) error {
	return r.Reconciler.Run(ctx)
}
