/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YF-George/group-web/internal"
	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/handler"
	"github.com/YF-George/group-web/internal/input"
	"github.com/YF-George/group-web/internal/middleware"
	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/repository"
	"github.com/YF-George/group-web/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	configDir := flag.String("config", ".", "directory holding the .cfg file")
	flag.Parse()

	cfg, err := internal.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Shutting off...\n")
}

func run(ctx context.Context, cfg *internal.Config) error {
	appLogger, err := nlog.NewAppLogger("groupwebd", cfg.EnableLogging)
	if err != nil {
		return err
	}
	go appLogger.Run(ctx)

	httpLog, err := appLogger.RegisterSubsystem("http")
	if err != nil {
		return err
	}
	rosterLog, err := appLogger.RegisterSubsystem("roster")
	if err != nil {
		return err
	}
	formsLog, err := appLogger.RegisterSubsystem("forms")
	if err != nil {
		return err
	}
	feedLog, err := appLogger.RegisterSubsystem("feed")
	if err != nil {
		return err
	}

	db, err := repository.Open(cfg.DBName)
	if err != nil {
		return err
	}

	groupRepo := repository.NewSQLiteGroupRepository(db)
	memberRepo := repository.NewSQLiteMemberRepository(db)
	fieldRepo := repository.NewSQLiteFieldRepository(db)
	adminRepo := repository.NewSQLiteAdminRepository(db)
	auditRepo := repository.NewSQLiteAuditRepository(db)

	// With a redis address the feed fans out across instances; without one
	// the local hub is the whole feed
	hub := feed.NewHub(feedLog)
	var publisher feed.Publisher = hub
	if cfg.RedisAddr != "" {
		relay := feed.NewRedisRelay(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), hub, feedLog)
		go relay.Run(ctx)
		publisher = relay
	}

	rosterService := service.NewRosterService(groupRepo, memberRepo, publisher, rosterLog)
	formService := service.NewFormService(fieldRepo, publisher, time.Duration(cfg.LockExpiryMinutes)*time.Minute, formsLog)
	adminService := service.NewAdminService(adminRepo, auditRepo, formsLog)

	if err := seed(cfg, adminService, fieldRepo); err != nil {
		return err
	}

	limiter := input.NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateWindowSeconds)*time.Second, httpLog)
	go limiter.Run(ctx)

	server := input.NewHTTPServer(&input.HTTPConfig{
		ServerPort:   cfg.HTTPServerPort,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		SecretKey:    cfg.SecretKey,
	}, httpLog)

	mountRoutes(server, limiter, rosterService, formService, adminService, hub, feedLog)

	return server.Run(ctx)
}

// seed makes sure the configured admin account and form fields exist
func seed(cfg *internal.Config, adminService service.AdminService, fieldRepo repository.FieldRepository) error {
	if cfg.AdminNickname != "" && cfg.AdminPassword != "" {
		if err := adminService.Seed(cfg.AdminNickname, cfg.AdminPassword); err != nil {
			return err
		}
	}
	for _, id := range cfg.FormFieldIDs {
		if _, err := fieldRepo.GetByID(id); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := fieldRepo.Create(entity.NewFormField(id, "")); err != nil {
			return err
		}
	}
	return nil
}

func mountRoutes(server *input.HTTPServer, limiter *input.RateLimiter,
	rosterService service.RosterService, formService service.FormService,
	adminService service.AdminService, hub *feed.Hub, feedLog nlog.Logger) {

	store := server.Store()
	r := server.Router()

	sessionHandler := handler.NewSessionHandler(adminService, store)
	groupHandler := handler.NewGroupHandler(rosterService)
	memberHandler := handler.NewMemberHandler(rosterService)
	formHandler := handler.NewFormHandler(formService)
	feedHandler := handler.NewFeedHandler(hub, feedLog)

	editor := func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return middleware.RequireEditor(store, next)
	}
	write := func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return middleware.RequireEditor(store, middleware.RateLimit(limiter, next))
	}
	admin := func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return middleware.RequireAdmin(store, next)
	}

	// Session
	r.HandleFunc("/api/session/login", sessionHandler.Login).Methods("POST")
	r.HandleFunc("/api/session/logout", sessionHandler.Logout).Methods("POST")
	r.HandleFunc("/api/session/whoami", sessionHandler.Whoami).Methods("GET")
	r.HandleFunc("/api/audit", admin(sessionHandler.RecentAudit)).Methods("GET")

	// Groups
	r.HandleFunc("/api/groups", groupHandler.ListGroups).Methods("GET")
	r.HandleFunc("/api/groups", admin(groupHandler.CreateGroup)).Methods("POST")
	r.HandleFunc("/api/groups/{id}", groupHandler.GetGroup).Methods("GET")
	r.HandleFunc("/api/groups/{id}", admin(groupHandler.UpdateGroup)).Methods("PUT")
	r.HandleFunc("/api/groups/{id}", admin(groupHandler.DeleteGroup)).Methods("DELETE")
	r.HandleFunc("/api/groups/{id}/members", memberHandler.ListMembers).Methods("GET")

	// Members
	r.HandleFunc("/api/members", memberHandler.ListAllMembers).Methods("GET")
	r.HandleFunc("/api/members/save", write(memberHandler.SaveMember)).Methods("POST")
	r.HandleFunc("/api/members/update", write(memberHandler.UpdateMember)).Methods("POST")

	// Form fields
	r.HandleFunc("/api/fields", formHandler.ListFields).Methods("GET")
	r.HandleFunc("/api/fields", admin(formHandler.CreateField)).Methods("POST")
	r.HandleFunc("/api/fields/{id}/lock", write(formHandler.LockField)).Methods("POST")
	r.HandleFunc("/api/fields/{id}/unlock", write(formHandler.UnlockField)).Methods("POST")
	r.HandleFunc("/api/fields/{id}/value", write(formHandler.UpdateField)).Methods("POST")

	// Change feed
	r.HandleFunc("/ws/feed", editor(feedHandler.Stream)).Methods("GET")
}
