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
	"sync"
	"time"

	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/nlog"

	"github.com/gorilla/websocket"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// WSFeedSource keeps one websocket to the authority's feed endpoint alive
// and republishes everything it receives into a local hub, which is what
// the replica actually subscribes to. While the socket is down it keeps
// retrying with growing delays and reports the connectivity flips.
type WSFeedSource struct {
	url    string
	dialer *websocket.Dialer
	hub    *feed.Hub
	logger nlog.Logger

	lock      sync.Mutex
	onConnect []func(connected bool)
}

func NewWSFeedSource(url string, logger nlog.Logger) *WSFeedSource {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &WSFeedSource{
		url:    url,
		dialer: websocket.DefaultDialer,
		hub:    feed.NewHub(logger),
		logger: logger,
	}
}

func (s *WSFeedSource) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

// Subscribe delegates to the local hub
func (s *WSFeedSource) Subscribe(ctx context.Context, table string) (<-chan feed.ChangeEvent, func() error, error) {
	return s.hub.Subscribe(ctx, table)
}

// OnConnectivityChange registers a callback fired with true when the
// socket comes up and false when it drops
func (s *WSFeedSource) OnConnectivityChange(fn func(connected bool)) {
	s.lock.Lock()
	s.onConnect = append(s.onConnect, fn)
	s.lock.Unlock()
}

func (s *WSFeedSource) notify(connected bool) {
	s.lock.Lock()
	callbacks := make([]func(bool), len(s.onConnect))
	copy(callbacks, s.onConnect)
	s.lock.Unlock()
	for _, fn := range callbacks {
		fn(connected)
	}
}

// Run dials, pumps and redials until ctx ends
func (s *WSFeedSource) Run(ctx context.Context) {
	delay := reconnectBaseDelay
	for {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			s.Logf("Feed dial failed, retrying in %v {%v}", delay, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		s.Logf("Feed connected to {%s}", s.url)
		delay = reconnectBaseDelay
		s.notify(true)

		s.pump(ctx, conn)
		conn.Close()
		s.notify(false)

		select {
		case <-ctx.Done():
			return
		default:
			s.Logf("Feed connection lost, reconnecting")
		}
	}
}

// pump forwards events into the hub until the socket dies or ctx ends
func (s *WSFeedSource) pump(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event feed.ChangeEvent
		if err := conn.ReadJSON(&event); err != nil {
			return
		}
		s.hub.Publish(event)
	}
}
