/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package input

import (
	"context"
	"sync"
	"time"

	"github.com/YF-George/group-web/internal/nlog"
)

// Write budget per editor. The debounce on the clients keeps honest
// traffic far below this, so hitting the cap means a stuck client or abuse.
const (
	DefaultRateLimit  = 30
	DefaultRateWindow = time.Minute
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter counts write requests per editor over fixed windows.
// The window resets fully when it elapses, there is no sliding.
type RateLimiter struct {
	limit  int
	window time.Duration

	lock    sync.Mutex
	windows map[string]*rateWindow

	now    func() time.Time
	logger nlog.Logger
}

func NewRateLimiter(limit int, window time.Duration, logger nlog.Logger) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	if logger == nil {
		logger = nlog.Discard()
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*rateWindow),
		now:     time.Now,
		logger:  logger,
	}
}

// Allow records one request for editor and reports whether it fits the budget
func (rl *RateLimiter) Allow(editor string) bool {
	rl.lock.Lock()
	defer rl.lock.Unlock()

	now := rl.now()
	w, ok := rl.windows[editor]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.windows[editor] = &rateWindow{start: now, count: 1}
		return true
	}

	w.count++
	if w.count > rl.limit {
		rl.logger.Logf("Editor %s is over the write budget (%d in %v)", editor, w.count, rl.window)
		return false
	}
	return true
}

// Run sweeps elapsed windows until ctx is cancelled, so idle editors
// do not accumulate in the map forever
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.lock.Lock()
	defer rl.lock.Unlock()

	now := rl.now()
	for editor, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, editor)
		}
	}
}
