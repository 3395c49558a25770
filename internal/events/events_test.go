// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/config"
	"github.com/tomtom215/headliner/internal/logging"
)

func testEventsConfig() config.EventsConfig {
	cfg := config.Default().Events
	cfg.Backend = config.EventsMemory
	cfg.RetryCount = 1
	cfg.RetryInterval = time.Millisecond
	cfg.CloseTimeout = time.Second
	return cfg
}

func startRouter(t *testing.T, r *Router) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
}

func TestNewMessageAssignsIdentity(t *testing.T) {
	ev := Event{Topic: TopicLevelUp, UserID: "u1", Level: 3, PreviousLevel: 2}
	msg, err := NewMessage(&ev)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if ev.ID == "" || ev.OccurredAt.IsZero() {
		t.Errorf("identity not assigned: %+v", ev)
	}
	if msg.UUID != ev.ID || msg.Metadata.Get(MetadataUserID) != "u1" {
		t.Errorf("message = %s %v", msg.UUID, msg.Metadata)
	}

	got, err := Decode(msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Level != 3 || got.PreviousLevel != 2 || got.Topic != TopicLevelUp {
		t.Errorf("Decode = %+v", got)
	}

	if _, err := NewMessage(&Event{}); err == nil {
		t.Error("NewMessage accepted an event without topic")
	}
}

func TestBusDeliversBeforePublishReturns(t *testing.T) {
	bus, err := NewBus(testEventsConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	router, err := NewRouter(bus, testEventsConfig())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	var mu sync.Mutex
	var received []Event
	router.AddConsumer("test", TopicAchievementAwarded, func(ctx context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		if logging.CorrelationIDFromContext(ctx) != "corr-1" {
			t.Errorf("correlation id not propagated to handler")
		}
		received = append(received, ev)
		return nil
	})
	startRouter(t, router)

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	err = bus.Publish(ctx, Event{Topic: TopicAchievementAwarded, UserID: "u1", AchievementID: "first_like"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0].AchievementID != "first_like" {
		t.Fatalf("received = %+v", received)
	}
	if received[0].CorrelationID != "corr-1" {
		t.Errorf("CorrelationID = %q", received[0].CorrelationID)
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus, err := NewBus(testEventsConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if err := bus.Publish(context.Background(), Event{Topic: TopicStreakExtended, UserID: "u1", Streak: 2}); err != nil {
		t.Errorf("Publish without subscribers: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Publish(context.Background(), Event{Topic: TopicStreakExtended}); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after Close = %v, want ErrBusClosed", err)
	}
}

func TestRouterPoisonsFailingEvents(t *testing.T) {
	cfg := testEventsConfig()
	bus, err := NewBus(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	poisoned, err := bus.Subscriber().Subscribe(context.Background(), cfg.PoisonTopic)
	if err != nil {
		t.Fatalf("Subscribe poison: %v", err)
	}
	got := make(chan *message.Message, 1)
	go func() {
		for msg := range poisoned {
			msg.Ack()
			got <- msg
		}
	}()

	router, err := NewRouter(bus, cfg)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	attempts := 0
	router.AddConsumer("failing", TopicLevelUp, func(context.Context, Event) error {
		attempts++
		return errors.New("store down")
	})
	startRouter(t, router)

	if err := bus.Publish(context.Background(), Event{Topic: TopicLevelUp, UserID: "u1", Level: 2}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-got:
		ev, err := Decode(msg)
		if err != nil || ev.Level != 2 {
			t.Errorf("poisoned event = %+v, %v", ev, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event never reached the poison topic")
	}
	if attempts != cfg.RetryCount+1 {
		t.Errorf("attempts = %d, want %d", attempts, cfg.RetryCount+1)
	}
}

func TestRouterDropsUndecodablePayload(t *testing.T) {
	bus, err := NewBus(testEventsConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	router, err := NewRouter(bus, testEventsConfig())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	calls := 0
	router.AddConsumer("test", TopicArticlePublished, func(context.Context, Event) error {
		calls++
		return nil
	})
	startRouter(t, router)

	if err := bus.MessagePublisher().Publish(TopicArticlePublished, message.NewMessage("bad", []byte("{not json"))); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if calls != 0 {
		t.Errorf("handler called %d times for an undecodable payload", calls)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	_ = rec.Publish(context.Background(), Event{Topic: TopicLevelUp})
	_ = rec.Publish(context.Background(), Event{Topic: TopicStreakExtended})
	if len(rec.ByTopic(TopicLevelUp)) != 1 || len(rec.Events) != 2 {
		t.Errorf("Recorder = %+v", rec.Events)
	}
	rec.Err = errors.New("boom")
	if err := rec.Publish(context.Background(), Event{Topic: TopicLevelUp}); err == nil {
		t.Error("Recorder ignored Err")
	}
}
