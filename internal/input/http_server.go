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
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/YF-George/group-web/internal/nlog"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type HTTPConfig struct {
	ServerPort   uint16
	ReadTimeout  int64 // Seconds
	WriteTimeout int64 // Seconds
	SecretKey    string
}

// HTTPServer manages the HTTP surface of the authority: it owns the
// listener, the cookie store and the graceful shutdown dance. Routes are
// mounted by the caller through Router before Run.
type HTTPServer struct {
	running atomic.Bool

	logger nlog.Logger
	server *http.Server
	router *mux.Router
	store  *sessions.CookieStore

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}
}

func NewHTTPServer(cfg *HTTPConfig, logger nlog.Logger) *HTTPServer {
	if logger == nil {
		logger = nlog.Discard()
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	router := mux.NewRouter()

	return &HTTPServer{
		logger: logger,
		router: router,
		store:  cookieStore,
		server: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.ServerPort),
			Handler:        router,
			ReadTimeout:    time.Duration(cfg.ReadTimeout * int64(time.Second)),
			WriteTimeout:   time.Duration(cfg.WriteTimeout * int64(time.Second)),
			MaxHeaderBytes: 1 << 20,
		},
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (s *HTTPServer) Logf(format string, a ...any) {
	s.logger.Logf(format, a...)
}

// Router exposes the mux so the caller can mount its routes
func (s *HTTPServer) Router() *mux.Router {
	return s.router
}

// Store exposes the cookie store shared by handlers and middleware
func (s *HTTPServer) Store() *sessions.CookieStore {
	return s.store
}

func (s *HTTPServer) IsRunning() bool {
	return s.running.Load()
}

// Run serves until ctx is cancelled or Stop is called
func (s *HTTPServer) Run(ctx context.Context) error {
	s.Logf("HTTP server starting on {%s}", s.server.Addr)

	go func() {
		select {
		case <-ctx.Done():
			s.Logf("Received stop signal. Shutting down...")
		case <-s.stopFromOutsideChan:
			s.Logf("Server was asked to stop. Shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.Logf("Error during shutdown... %v", err)
		}
		close(s.doneFromInsideChan)
	}()

	s.running.Store(true)
	defer s.running.Store(false)

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		s.Logf("FATAL: HTTP Server error {%v}", err)
		return err
	}
	<-s.doneFromInsideChan
	return nil
}

func (s *HTTPServer) Stop() {
	close(s.stopFromOutsideChan)
	<-s.doneFromInsideChan
}
