// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package leaderboard

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/cache"
	"github.com/tomtom215/headliner/internal/models"
)

type stubUsers struct {
	mu    sync.Mutex
	users []*models.User
	calls int
	err   error
}

func (s *stubUsers) List(context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

func reader(id, name string, level, xp, streak int) *models.User {
	return &models.User{ID: id, ProfileName: name, Level: level, Experience: xp, Streak: streak}
}

func TestRankOrderingAndDenseRanks(t *testing.T) {
	entries := Rank([]*models.User{
		reader("u1", "carol", 2, 50, 1),
		reader("u2", "bob", 3, 10, 0),
		reader("u3", "alice", 2, 50, 1),
		reader("u4", "dave", 2, 50, 4),
		reader("u5", "erin", 2, 70, 0),
		reader("u6", "frank", 1, 0, 0),
	})

	type row struct {
		id   string
		rank int
	}
	var got []row
	for _, e := range entries {
		got = append(got, row{e.UserID, e.Rank})
	}
	want := []row{
		{"u2", 1},
		{"u5", 2},
		{"u4", 3},
		{"u3", 4}, // alice and carol tie; name decides order, not rank
		{"u1", 4},
		{"u6", 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ranking = %v, want %v", got, want)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("Rank(nil) = %v", got)
	}
}

func TestTop(t *testing.T) {
	users := &stubUsers{users: []*models.User{
		reader("u1", "a", 1, 0, 0),
		reader("u2", "b", 5, 0, 0),
		reader("u3", "c", 3, 0, 0),
	}}
	b := New(users, 2, time.Minute, zerolog.Nop())
	ctx := context.Background()

	top, err := b.Top(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].UserID != "u2" || top[1].UserID != "u3" {
		t.Errorf("Top(0) = %+v", top)
	}
	if all, _ := b.Top(ctx, 50); len(all) != 3 {
		t.Errorf("Top(50) returned %d entries", len(all))
	}

	top[0].UserID = "mutated"
	if again, _ := b.Top(ctx, 1); again[0].UserID != "u2" {
		t.Error("caller mutation leaked into the snapshot")
	}
}

func TestRankOf(t *testing.T) {
	users := &stubUsers{users: []*models.User{
		reader("u1", "a", 1, 0, 0),
		reader("u2", "b", 5, 0, 0),
	}}
	b := New(users, 10, time.Minute, zerolog.Nop())

	e, ok, err := b.RankOf(context.Background(), "u1")
	if err != nil || !ok || e.Rank != 2 {
		t.Errorf("RankOf(u1) = %+v, %v, %v", e, ok, err)
	}
	if _, ok, _ := b.RankOf(context.Background(), "ghost"); ok {
		t.Error("unknown reader ranked")
	}
}

func TestSnapshotCachedUntilTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	users := &stubUsers{users: []*models.User{reader("u1", "a", 1, 0, 0)}}
	b := New(users, 10, 30*time.Second, zerolog.Nop(), cache.WithClock(clock))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := b.Top(ctx, 0); err != nil {
			t.Fatal(err)
		}
	}
	if users.calls != 1 {
		t.Errorf("List called %d times within TTL, want 1", users.calls)
	}

	now = now.Add(31 * time.Second)
	_, _ = b.Top(ctx, 0)
	if users.calls != 2 {
		t.Errorf("List called %d times after TTL, want 2", users.calls)
	}

	b.Invalidate()
	_, _ = b.Top(ctx, 0)
	if users.calls != 3 {
		t.Errorf("List called %d times after Invalidate, want 3", users.calls)
	}
}

func TestListFailure(t *testing.T) {
	users := &stubUsers{err: errors.New("store down")}
	b := New(users, 10, time.Minute, zerolog.Nop())

	if _, err := b.Top(context.Background(), 5); err == nil {
		t.Error("Top succeeded without users")
	}
	if _, _, err := b.RankOf(context.Background(), "u1"); err == nil {
		t.Error("RankOf succeeded without users")
	}

	users.err = nil
	users.users = []*models.User{reader("u1", "a", 1, 0, 0)}
	if top, err := b.Top(context.Background(), 5); err != nil || len(top) != 1 {
		t.Errorf("failed load was cached: %v, %v", top, err)
	}
}
