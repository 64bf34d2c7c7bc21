/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package feed

import (
	"context"
	"encoding/json"

	"github.com/YF-George/group-web/internal/nlog"
	"github.com/redis/go-redis/v9"
)

// redisChannel is the pub/sub channel every groupwebd instance shares
const redisChannel = "groupweb.feed"

// RedisRelay spreads change events across server instances through a redis
// pub/sub channel. A service publishes into the relay instead of the hub;
// the relay pushes the event to redis, and every instance (this one
// included) receives it back and hands it to its local hub. With a single
// instance the relay is unnecessary, services publish straight into the Hub.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	logger nlog.Logger
}

func NewRedisRelay(client *redis.Client, hub *Hub, logger nlog.Logger) *RedisRelay {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &RedisRelay{client: client, hub: hub, logger: logger}
}

// Publish sends the event to the shared redis channel.
// Local delivery happens when the event comes back through Run; this keeps
// the ordering identical on every instance, the one redis decides.
func (r *RedisRelay) Publish(event ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Logf("Could not encode event %s {%v}", event.EventID, err)
		return
	}
	if err := r.client.Publish(context.Background(), redisChannel, payload).Err(); err != nil {
		r.logger.Logf("Could not publish event %s to redis {%v}", event.EventID, err)
	}
}

// Run subscribes to the shared channel and forwards everything that arrives
// into the local hub, until ctx is cancelled
func (r *RedisRelay) Run(ctx context.Context) {
	pubsub := r.client.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Logf("Dropping malformed feed payload from redis {%v}", err)
				continue
			}
			r.hub.Publish(event)
		}
	}
}
