/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// groupwebctl is a command line client for a groupwebd authority. It logs
// in, fills a local replica and then either watches the feed or performs a
// single edit through the same write paths the web client uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/YF-George/group-web/internal/client"
	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/replica"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  groupwebctl -server URL -nickname NAME watch
  groupwebctl -server URL -nickname NAME claim MEMBER-ID NICKNAME
  groupwebctl -server URL -nickname NAME set-field FIELD-ID VALUE
`)
	os.Exit(2)
}

func main() {
	server := flag.String("server", "http://localhost:8080", "authority base URL")
	nickname := flag.String("nickname", "", "editor nickname")
	password := flag.String("password", "", "admin password, optional")
	flag.Parse()

	if *nickname == "" || flag.NArg() < 1 {
		usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *server, *nickname, *password, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server, nickname, password string, args []string) error {
	authority, err := client.NewHTTPAuthority(server, nil)
	if err != nil {
		return err
	}
	if _, err := authority.Login(ctx, nickname, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	wsURL := strings.Replace(server, "http", "ws", 1) + "/ws/feed"
	source := client.NewWSFeedSource(wsURL, nil)

	outcomes := make(chan replica.SaveOutcome, 8)
	rep := replica.New(ctx, authority, source, replica.StaticEditor(nickname), replica.Config{
		OnOutcome: func(o replica.SaveOutcome) { outcomes <- o },
	})
	source.OnConnectivityChange(func(connected bool) {
		rep.Reconciler.SetDisconnected(!connected)
	})

	if err := rep.LoadInitial(ctx, authority); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	go source.Run(ctx)
	go rep.Run(ctx)

	switch args[0] {
	case "watch":
		return watch(ctx, rep)
	case "claim":
		if len(args) != 3 {
			usage()
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad member id %q", args[1])
		}
		return claim(ctx, rep, outcomes, uint(id), args[2])
	case "set-field":
		if len(args) != 3 {
			usage()
		}
		return setField(ctx, rep, args[1], args[2])
	}
	usage()
	return nil
}

// watch prints the roster every time the feed changes it, until interrupted
func watch(ctx context.Context, rep *replica.Replica) error {
	unsubscribe := rep.Members.Subscribe(func(members []*entity.Member) {
		fmt.Println("--- roster ---")
		for _, m := range members {
			name := m.Nickname
			if name == "" {
				name = "(free)"
			}
			fmt.Printf("group %d slot %2d: %s\n", m.GroupID, m.PositionIndex, name)
		}
	})
	defer unsubscribe()

	<-ctx.Done()
	return nil
}

// claim schedules the edit and waits for the debounced save to settle
func claim(ctx context.Context, rep *replica.Replica, outcomes <-chan replica.SaveOutcome, memberID uint, name string) error {
	if err := rep.Coordinator.EditNickname(memberID, name); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case outcome := <-outcomes:
		if outcome.Err != nil {
			return outcome.Err
		}
		if !outcome.Result.Success {
			return fmt.Errorf("claim rejected: %s (%s)", outcome.Result.Reason, outcome.Result.Message)
		}
		fmt.Printf("Slot %d claimed as %s\n", memberID, name)
		return nil
	}
}

func setField(ctx context.Context, rep *replica.Replica, fieldID, value string) error {
	ok, err := rep.Locks.Acquire(ctx, fieldID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("field %s is locked by someone else", fieldID)
	}
	if err := rep.Locks.UpdateValue(ctx, fieldID, value); err != nil {
		return err
	}
	if _, err := rep.Locks.Release(ctx, fieldID); err != nil {
		return err
	}
	fmt.Printf("Field %s set\n", fieldID)
	return nil
}
