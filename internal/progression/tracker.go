// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package progression

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/events"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// UserStore is the slice of the users repository the tracker needs.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch docstore.Patch) error
}

// Outcome describes what a login did to the streak.
type Outcome string

// Login outcomes.
const (
	OutcomeFirst     Outcome = "first"
	OutcomeSameDay   Outcome = "same_day"
	OutcomeContinued Outcome = "continued"
	OutcomeReset     Outcome = "reset"
)

// LoginResult is the state after a successful login evaluation.
type LoginResult struct {
	Outcome      Outcome
	Streak       int
	XPAwarded    int
	Progress     Progress
	LevelsGained int
}

// Credited reports whether the login earned streak credit and experience.
func (r LoginResult) Credited() bool {
	return r.Outcome != OutcomeSameDay
}

// Config holds the tracker's tunables.
type Config struct {
	// Location defines calendar day boundaries. Nil means UTC.
	Location *time.Location
	// LoginXP is granted for each credited login.
	LoginXP int
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithPublisher sets where level-up and streak events go.
func WithPublisher(p events.Publisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

// Tracker updates streaks, experience and levels. It is safe for concurrent
// use, but each operation is a read followed by a write: two operations on
// the same reader that interleave can lose one of the updates.
type Tracker struct {
	users     UserStore
	loc       *time.Location
	loginXP   int
	clock     Clock
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewTracker creates a Tracker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTracker(users UserStore, cfg Config, logger zerolog.Logger, opts ...Option) *Tracker {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	t := &Tracker{
		users:     users,
		loc:       loc,
		loginXP:   cfg.LoginXP,
		clock:     SystemClock,
		publisher: events.Discard,
		logger:    logger.With().Str("component", "progression").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HandleLogin evaluates today's login for userID. It reports false when the
// reader cannot be loaded or the update cannot be written; the profile is
// unchanged in that case.
func (t *Tracker) HandleLogin(ctx context.Context, userID string) (LoginResult, bool) {
	res, err := t.Login(ctx, userID)
	if err != nil {
		metrics.RecordLogin("failed")
		logging.Enrich(ctx, t.logger).Warn().Err(err).Str("user_id", userID).Msg("login streak update failed")
		return LoginResult{}, false
	}
	return res, true
}

// UpdateStreak is HandleLogin without the result details.
func (t *Tracker) UpdateStreak(ctx context.Context, userID string) bool {
	_, ok := t.HandleLogin(ctx, userID)
	return ok
}

// Login is HandleLogin with the error exposed.
func (t *Tracker) Login(ctx context.Context, userID string) (LoginResult, error) {
	if !validation.IsDocumentID(userID) {
		return LoginResult{}, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}

	u, err := t.users.Get(ctx, userID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	now := t.clock.Now()
	current := Progress{Level: u.Level, Experience: u.Experience}
	res := LoginResult{Streak: u.Streak, Progress: current}

	switch {
	case u.LastLogin == nil:
		res.Outcome = OutcomeFirst
		res.Streak = 1
	default:
		switch days := DaysBetween(*u.LastLogin, now, t.loc); {
		case days <= 0:
			res.Outcome = OutcomeSameDay
		case days == 1:
			res.Outcome = OutcomeContinued
			res.Streak = u.Streak + 1
		default:
			res.Outcome = OutcomeReset
			res.Streak = 1
		}
	}

	if res.Outcome == OutcomeSameDay {
		metrics.RecordLogin(string(res.Outcome))
		return res, nil
	}

	res.XPAwarded = t.loginXP
	res.Progress = current.Grant(t.loginXP)
	res.LevelsGained = current.LevelsGained(res.Progress)

	err = t.users.Update(ctx, userID, docstore.Patch{
		models.FieldStreak:     res.Streak,
		models.FieldLastLogin:  now.UTC(),
		models.FieldExperience: res.Progress.Experience,
		models.FieldLevel:      res.Progress.Level,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("write login: %w", err)
	}

	metrics.RecordLogin(string(res.Outcome))
	metrics.RecordExperience(res.XPAwarded, res.LevelsGained)

	logging.Enrich(ctx, t.logger).Debug().
		Str("user_id", userID).
		Str("outcome", string(res.Outcome)).
		Int("streak", res.Streak).
		Int("level", res.Progress.Level).
		Msg("login credited")

	if res.Outcome == OutcomeContinued {
		t.publish(ctx, events.Event{Topic: events.TopicStreakExtended, UserID: userID, Streak: res.Streak})
	}
	t.publishLevelUp(ctx, userID, current, res.Progress)
	return res, nil
}

// AddExperience grants points to userID, rolling over into levels. It
// reports false for negative points, unknown readers and store failures.
func (t *Tracker) AddExperience(ctx context.Context, userID string, points int) bool {
	if _, err := t.Grant(ctx, userID, points); err != nil {
		logging.Enrich(ctx, t.logger).Warn().Err(err).Str("user_id", userID).Int("points", points).Msg("experience grant failed")
		return false
	}
	return true
}

// Grant is AddExperience with the resulting progress and error exposed.
func (t *Tracker) Grant(ctx context.Context, userID string, points int) (Progress, error) {
	if points < 0 {
		return Progress{}, fmt.Errorf("%w: negative experience %d", validation.ErrInvalidInput, points)
	}
	if !validation.IsDocumentID(userID) {
		return Progress{}, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}

	u, err := t.users.Get(ctx, userID)
	if err != nil {
		return Progress{}, fmt.Errorf("load user: %w", err)
	}

	current := Progress{Level: u.Level, Experience: u.Experience}
	next := current.Grant(points)

	err = t.users.Update(ctx, userID, docstore.Patch{
		models.FieldExperience: next.Experience,
		models.FieldLevel:      next.Level,
	})
	if err != nil {
		return Progress{}, fmt.Errorf("write experience: %w", err)
	}

	metrics.RecordExperience(points, current.LevelsGained(next))
	t.publishLevelUp(ctx, userID, current, next)
	return next, nil
}

func (t *Tracker) publishLevelUp(ctx context.Context, userID string, before, after Progress) {
	if after.Level <= before.Level {
		return
	}
	t.publish(ctx, events.Event{
		Topic:         events.TopicLevelUp,
		UserID:        userID,
		PreviousLevel: before.Level,
		Level:         after.Level,
	})
}

// publish failures are logged only; the profile write has already happened.
func (t *Tracker) publish(ctx context.Context, ev events.Event) {
	if err := t.publisher.Publish(ctx, ev); err != nil {
		logging.Enrich(ctx, t.logger).Warn().Err(err).Str("topic", ev.Topic).Str("user_id", ev.UserID).Msg("event publish failed")
	}
}
