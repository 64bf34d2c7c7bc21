/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"
	"time"

	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/nlog"

	"github.com/gorilla/websocket"
)

const feedWriteTimeout = 10 * time.Second

// FeedHandler streams the change feed over a websocket. Every connected
// client receives every event of both watched tables; filtering and
// version gating are the client's job.
type FeedHandler struct {
	source   feed.Source
	upgrader websocket.Upgrader
	logger   nlog.Logger
}

func NewFeedHandler(source feed.Source, logger nlog.Logger) *FeedHandler {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &FeedHandler{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *FeedHandler) Logf(format string, v ...any) {
	h.logger.Logf(format, v...)
}

func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logf("Websocket upgrade failed {%v}", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	members, unsubMembers, err := h.source.Subscribe(ctx, feed.TableMembers)
	if err != nil {
		h.Logf("Feed subscription failed {%v}", err)
		return
	}
	defer unsubMembers()

	forms, unsubForms, err := h.source.Subscribe(ctx, feed.TableForms)
	if err != nil {
		h.Logf("Feed subscription failed {%v}", err)
		return
	}
	defer unsubForms()

	// The read loop exists only to notice the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		var event feed.ChangeEvent
		var ok bool

		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case event, ok = <-members:
		case event, ok = <-forms:
		}
		if !ok {
			return
		}

		conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			h.Logf("Feed write failed, dropping client {%v}", err)
			return
		}
	}
}
