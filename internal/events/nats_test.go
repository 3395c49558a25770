// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/config"
)

func TestEmbeddedServerLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a NATS server")
	}
	srv, err := NewEmbeddedServer("127.0.0.1", -1, t.TempDir())
	if err != nil {
		t.Fatalf("NewEmbeddedServer: %v", err)
	}
	if !srv.IsRunning() || srv.ClientURL() == "" {
		t.Errorf("server not running at %q", srv.ClientURL())
	}
	srv.Shutdown()
	if srv.IsRunning() {
		t.Error("server still running after Shutdown")
	}
}

func TestNATSBusRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a NATS server")
	}

	cfg := testEventsConfig()
	cfg.Backend = config.EventsNATS
	cfg.EmbeddedNATS = true
	cfg.EmbeddedPort = -1
	cfg.EmbeddedStoreDir = t.TempDir()
	cfg.AckWait = 5 * time.Second

	bus, err := NewBus(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })
	if bus.Embedded() == nil {
		t.Fatal("embedded server not started")
	}

	router, err := NewRouter(bus, cfg)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	got := make(chan Event, 1)
	router.AddConsumer("test", TopicLevelUp, func(_ context.Context, ev Event) error {
		got <- ev
		return nil
	})
	startRouter(t, router)

	if err := bus.Publish(context.Background(), Event{Topic: TopicLevelUp, UserID: "u1", PreviousLevel: 1, Level: 2}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case ev := <-got:
		if ev.UserID != "u1" || ev.Level != 2 {
			t.Errorf("received %+v", ev)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("event not delivered over NATS")
	}
}
