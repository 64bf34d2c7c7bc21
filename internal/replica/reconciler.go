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
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/nlog"
)

// Reconciler folds the external change feed into the replica caches.
//
// Member events carry no version, so they always win: insert when absent,
// overwrite when present. Field events pass the version gate: an incoming
// row strictly older than the cached one is a delayed echo of a write this
// client already superseded and is dropped; equal or newer rows are applied
// (equal means idempotent re-application). Events are applied in arrival
// order, nothing is buffered or reordered here.
type Reconciler struct {
	members *Store[uint, *entity.Member]
	fields  *Store[string, *entity.FormField]
	source  feed.Source
	logger  nlog.Logger

	disconnected atomic.Bool

	connLock sync.Mutex
	connSubs []func(disconnected bool)
}

func NewReconciler(members *Store[uint, *entity.Member], fields *Store[string, *entity.FormField], source feed.Source, logger nlog.Logger) *Reconciler {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &Reconciler{
		members: members,
		fields:  fields,
		source:  source,
		logger:  logger,
	}
}

// Run subscribes to both watched tables and applies events until ctx ends.
// A failed unsubscribe at teardown is logged and tolerated.
func (r *Reconciler) Run(ctx context.Context) error {
	memberCh, memberStop, err := r.source.Subscribe(ctx, feed.TableMembers)
	if err != nil {
		return err
	}
	defer func() {
		if err := memberStop(); err != nil {
			r.logger.Logf("Could not unsubscribe from %s {%v}", feed.TableMembers, err)
		}
	}()

	fieldCh, fieldStop, err := r.source.Subscribe(ctx, feed.TableForms)
	if err != nil {
		return err
	}
	defer func() {
		if err := fieldStop(); err != nil {
			r.logger.Logf("Could not unsubscribe from %s {%v}", feed.TableForms, err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-memberCh:
			if !ok {
				return nil
			}
			r.applyMemberEvent(event)
		case event, ok := <-fieldCh:
			if !ok {
				return nil
			}
			r.applyFieldEvent(event)
		}
	}
}

func (r *Reconciler) applyMemberEvent(event feed.ChangeEvent) {
	switch event.Type {
	case feed.INSERT, feed.UPDATE:
		var member entity.Member
		if err := json.Unmarshal(event.New, &member); err != nil {
			r.logger.Logf("Dropping malformed member event %s {%v}", event.EventID, err)
			return
		}
		r.members.Upsert(&member)
	case feed.DELETE:
		id, err := strconv.ParseUint(event.OldID, 10, 64)
		if err != nil {
			r.logger.Logf("Dropping member delete with bad id {%s}", event.OldID)
			return
		}
		// Members are not deleted in normal operation, but the cache still
		// honors an external delete instead of keeping a ghost row.
		r.members.Remove(uint(id))
	}
}

func (r *Reconciler) applyFieldEvent(event feed.ChangeEvent) {
	switch event.Type {
	case feed.INSERT, feed.UPDATE:
		var field entity.FormField
		if err := json.Unmarshal(event.New, &field); err != nil {
			r.logger.Logf("Dropping malformed field event %s {%v}", event.EventID, err)
			return
		}
		r.ApplyField(&field)
	case feed.DELETE:
		r.fields.Remove(event.OldID)
	}
}

// ApplyField merges one observation of a field through the version gate.
// It is also the fold-back path for rows returned by remote writes, so a
// response overtaken by a fresher feed event can never regress the cache.
func (r *Reconciler) ApplyField(incoming *entity.FormField) {
	cached, ok := r.fields.Get(incoming.ID)
	if ok && incoming.Version < cached.Version {
		r.logger.Logf("Version gate dropped field %s at version %d, cache is at %d", incoming.ID, incoming.Version, cached.Version)
		return
	}
	r.fields.Upsert(incoming)
}

// SetDisconnected records the transport's connectivity state.
// Called by the feed transport; consumers use it to mark fields read-only.
func (r *Reconciler) SetDisconnected(disconnected bool) {
	old := r.disconnected.Swap(disconnected)
	if old == disconnected {
		return
	}

	r.connLock.Lock()
	subs := make([]func(bool), len(r.connSubs))
	copy(subs, r.connSubs)
	r.connLock.Unlock()

	for _, cb := range subs {
		cb(disconnected)
	}
}

// Disconnected reports whether the feed transport currently believes the
// connection is down
func (r *Reconciler) Disconnected() bool {
	return r.disconnected.Load()
}

// OnConnectivityChange registers a callback fired whenever the
// disconnected signal flips
func (r *Reconciler) OnConnectivityChange(cb func(disconnected bool)) {
	r.connLock.Lock()
	r.connSubs = append(r.connSubs, cb)
	r.connLock.Unlock()
}
