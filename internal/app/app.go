// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package app wires the document store, repositories, domain components and
// event bus into one application and exposes session-scoped operations.
//
// Construction order:
//
//	docstore -> repositories -> progression, recommend, achievement
//	         -> profile, feed, leaderboard
//	events bus -> router <- notify consumer
//
// The router is created but not run; the supervisor hosts it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/achievement"
	"github.com/tomtom215/headliner/internal/config"
	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/events"
	"github.com/tomtom215/headliner/internal/feed"
	"github.com/tomtom215/headliner/internal/leaderboard"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/notify"
	"github.com/tomtom215/headliner/internal/profile"
	"github.com/tomtom215/headliner/internal/progression"
	"github.com/tomtom215/headliner/internal/recommend"
	"github.com/tomtom215/headliner/internal/repository"
)

// Option customizes New.
type Option func(*options)

type options struct {
	clock progression.Clock
}

// WithClock replaces the wall clock for every component.
func WithClock(c progression.Clock) Option {
	return func(o *options) { o.clock = c }
}

// App holds the wired components.
type App struct {
	Users        *repository.Users
	Articles     *repository.Articles
	Achievements *repository.Achievements

	Tracker   *progression.Tracker
	Engine    *recommend.Engine
	Evaluator *achievement.Evaluator
	Profiles  *profile.Service
	Feed      *feed.Service
	Board     *leaderboard.Board
	Notify    *notify.Service

	cfg    *config.Config
	clock  progression.Clock
	store  *docstore.Opened
	bus    *events.Bus
	router *events.Router
	logger zerolog.Logger
}

// New builds the application from cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...Option) (*App, error) {
	o := options{clock: progression.SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	store, err := docstore.Open(ctx, cfg.Store, cfg.Breaker, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bus, err := events.NewBus(cfg.Events, logger)
	if err != nil {
		_ = store.Store.Close()
		return nil, fmt.Errorf("open event bus: %w", err)
	}

	router, err := events.NewRouter(bus, cfg.Events)
	if err != nil {
		_ = bus.Close()
		_ = store.Store.Close()
		return nil, fmt.Errorf("create event router: %w", err)
	}

	a := &App{
		Users:        repository.NewUsers(store.Store),
		Articles:     repository.NewArticles(store.Store),
		Achievements: repository.NewAchievements(store.Store),
		cfg:          cfg,
		clock:        o.clock,
		store:        store,
		bus:          bus,
		router:       router,
		logger:       logger.With().Str("component", "app").Logger(),
	}

	a.Tracker = progression.NewTracker(a.Users, progression.Config{
		Location: cfg.Location(),
		LoginXP:  cfg.Progression.LoginXP,
	}, logger, progression.WithClock(o.clock), progression.WithPublisher(bus))

	a.Engine, err = recommend.NewEngine(&recommend.Config{
		DefaultWeight:     cfg.Recommend.DefaultWeight,
		WeightDelta:       cfg.Recommend.WeightDelta,
		MinWeight:         cfg.Recommend.MinWeight,
		MaxWeight:         cfg.Recommend.MaxWeight,
		DefaultMaxResults: cfg.Recommend.DefaultMaxResults,
	}, a.Users, a.Articles, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Evaluator = achievement.NewEvaluator(a.Users, a.Achievements, a.Tracker, logger,
		achievement.WithPublisher(bus))
	a.Profiles = profile.NewService(a.Users, o.clock.Now, logger)
	a.Feed = feed.NewService(a.Users, a.Articles, a.Engine, a.Evaluator, feed.Config{
		PageSize:     cfg.Feed.PageSize,
		SearchWindow: cfg.Feed.SearchWindow,
	}, logger, feed.WithPublisher(bus))
	a.Board = leaderboard.New(a.Users, cfg.Leaderboard.Size, cfg.Leaderboard.CacheTTL, logger)
	a.Notify = notify.NewService(a.Users, o.clock.Now, logger)

	notify.NewConsumer(a.Notify, a.Users, logger).Register(router)
	return a, nil
}

// Config is the configuration the app was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Store is the decorated document store.
func (a *App) Store() docstore.Store { return a.store.Store }

// Backend is the undecorated store, for maintenance such as value-log GC.
func (a *App) Backend() docstore.Store { return a.store.Backend }

// Bus is the event bus.
func (a *App) Bus() *events.Bus { return a.bus }

// Router is the event consumer router. It must be running for notifications
// to be created from events.
func (a *App) Router() *events.Router { return a.router }

// Seed stores the built-in achievement catalog.
func (a *App) Seed(ctx context.Context) error {
	return achievement.SeedCatalog(ctx, a.Achievements, achievement.DefaultCatalog())
}

// Register creates a reader profile.
func (a *App) Register(ctx context.Context, reg profile.Registration) (*models.User, error) {
	u, err := a.Profiles.CreateProfile(ctx, reg)
	if err != nil {
		return nil, err
	}
	a.Board.Invalidate()
	return u, nil
}

// Login opens a session for userID and credits today's login. Streak
// achievements are evaluated after a credited login.
func (a *App) Login(ctx context.Context, userID string) (models.Session, progression.LoginResult, error) {
	session, err := models.NewSession(userID, a.clock.Now())
	if err != nil {
		return models.Session{}, progression.LoginResult{}, err
	}
	ctx = session.Context(ctx)

	res, err := a.Tracker.Login(ctx, userID)
	if err != nil {
		return models.Session{}, progression.LoginResult{}, err
	}
	if res.Credited() {
		a.Evaluator.CheckAllAchievements(ctx, userID)
		a.Board.Invalidate()
	}

	logging.Enrich(ctx, a.logger).Info().
		Str("outcome", string(res.Outcome)).
		Int("streak", res.Streak).
		Int("level", res.Progress.Level).
		Msg("reader logged in")
	return session, res, nil
}

// Recommend returns the session reader's personalized feed.
func (a *App) Recommend(ctx context.Context, s models.Session, maxResults int) []*models.Article {
	return a.Engine.GetPersonalizedNews(s.Context(ctx), s.UserID, maxResults)
}

// Like records a like by the session reader.
func (a *App) Like(ctx context.Context, s models.Session, articleID string) bool {
	ok := a.Feed.Like(s.Context(ctx), s.UserID, articleID)
	if ok {
		a.Board.Invalidate()
	}
	return ok
}

// Dislike records a dislike by the session reader.
func (a *App) Dislike(ctx context.Context, s models.Session, articleID string) bool {
	ok := a.Feed.Dislike(s.Context(ctx), s.UserID, articleID)
	if ok {
		a.Board.Invalidate()
	}
	return ok
}

// Open returns an article and marks it watched for the session reader.
func (a *App) Open(ctx context.Context, s models.Session, articleID string) (*models.Article, error) {
	return a.Feed.Open(s.Context(ctx), s.UserID, articleID)
}

// Notifications opens a live notification listener for the session. The
// caller closes it.
func (a *App) Notifications(s models.Session) *notify.Listener {
	return a.Notify.Listen(s, 0)
}

// Close releases the bus and the store.
func (a *App) Close() error {
	var errs []error
	if err := a.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close bus: %w", err))
	}
	if err := a.store.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
