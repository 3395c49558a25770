// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package leaderboard ranks readers by progression.
//
// Readers are ordered by level, then experience, then streak (all highest
// first) and finally by profile name. Ranks are dense: readers with the same
// level, experience and streak share a rank and the next distinct reader gets
// the following one. Rankings come from a snapshot that is rebuilt at most
// once per TTL, so they may lag recent logins and awards.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/cache"
	"github.com/tomtom215/headliner/internal/models"
)

const snapshotKey = "snapshot"

// UserLister lists every reader.
type UserLister interface {
	List(ctx context.Context) ([]*models.User, error)
}

// Entry is one ranked reader.
type Entry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	ProfileName string `json:"profile_name"`
	Level       int    `json:"level"`
	Experience  int    `json:"experience"`
	Streak      int    `json:"streak"`
}

type snapshot struct {
	entries []Entry
	index   map[string]int
}

// Board serves rankings from a cached snapshot.
type Board struct {
	users  UserLister
	size   int
	cache  *cache.Cache[*snapshot]
	logger zerolog.Logger
}

// New creates a Board. size is the default length of Top; ttl bounds
// snapshot staleness.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(users UserLister, size int, ttl time.Duration, logger zerolog.Logger, opts ...cache.Option) *Board {
	if size <= 0 {
		size = 10
	}
	return &Board{
		users:  users,
		size:   size,
		cache:  cache.New[*snapshot]("leaderboard", ttl, opts...),
		logger: logger.With().Str("component", "leaderboard").Logger(),
	}
}

// Top returns the first n entries. n <= 0 uses the configured size.
func (b *Board) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = b.size
	}
	snap, err := b.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if n > len(snap.entries) {
		n = len(snap.entries)
	}
	out := make([]Entry, n)
	copy(out, snap.entries[:n])
	return out, nil
}

// RankOf returns the reader's entry. The bool is false when the reader is not
// in the snapshot.
func (b *Board) RankOf(ctx context.Context, userID string) (Entry, bool, error) {
	snap, err := b.snapshot(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	i, ok := snap.index[userID]
	if !ok {
		return Entry{}, false, nil
	}
	return snap.entries[i], true, nil
}

// Invalidate drops the cached snapshot.
func (b *Board) Invalidate() {
	b.cache.Clear()
}

// Serve sweeps expired snapshots until ctx is done. It lets the board run
// as a supervised service.
func (b *Board) Serve(ctx context.Context) error {
	return b.cache.Run(ctx, time.Minute)
}

func (b *Board) snapshot(ctx context.Context) (*snapshot, error) {
	return b.cache.GetOrLoad(snapshotKey, func() (*snapshot, error) {
		users, err := b.users.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		snap := build(users)
		b.logger.Debug().Int("readers", len(snap.entries)).Msg("leaderboard rebuilt")
		return snap, nil
	})
}

// Rank orders users and assigns dense ranks.
func Rank(users []*models.User) []Entry {
	return build(users).entries
}

func build(users []*models.User) *snapshot {
	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, Entry{
			UserID:      u.ID,
			ProfileName: u.ProfileName,
			Level:       u.Level,
			Experience:  u.Experience,
			Streak:      u.Streak,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Level != b.Level:
			return a.Level > b.Level
		case a.Experience != b.Experience:
			return a.Experience > b.Experience
		case a.Streak != b.Streak:
			return a.Streak > b.Streak
		case a.ProfileName != b.ProfileName:
			return a.ProfileName < b.ProfileName
		default:
			return a.UserID < b.UserID
		}
	})

	snap := &snapshot{entries: entries, index: make(map[string]int, len(entries))}
	rank := 0
	for i := range entries {
		if i == 0 || !sameStanding(entries[i-1], entries[i]) {
			rank++
		}
		entries[i].Rank = rank
		snap.index[entries[i].UserID] = i
	}
	return snap
}

func sameStanding(a, b Entry) bool {
	return a.Level == b.Level && a.Experience == b.Experience && a.Streak == b.Streak
}
