// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/events"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// ErrAlreadyReacted is returned when a reader reacts to the same article twice.
var ErrAlreadyReacted = errors.New("already reacted to article")

// UserStore is the users repository surface the feed needs.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch docstore.Patch) error
}

// ArticleStore is the news repository surface the feed needs.
type ArticleStore interface {
	Get(ctx context.Context, articleID string) (*models.Article, error)
	Put(ctx context.Context, a *models.Article) error
	Update(ctx context.Context, articleID string, patch docstore.Patch) error
	Latest(ctx context.Context, limit int) ([]*models.Article, error)
	LatestWithTag(ctx context.Context, tag string, limit int) ([]*models.Article, error)
}

// Interactor adjusts tag weights after a reaction. recommend.Engine
// implements it.
type Interactor interface {
	ProcessNewsInteraction(ctx context.Context, userID, articleID string, interaction models.Interaction) bool
}

// AchievementChecker re-evaluates achievements. achievement.Evaluator
// implements it.
type AchievementChecker interface {
	CheckAllAchievements(ctx context.Context, userID string) []string
}

// Config bounds listing and search.
type Config struct {
	// PageSize is used when a caller passes limit <= 0.
	PageSize int
	// SearchWindow is how many recent articles Search scans.
	SearchWindow int
}

// Reaction describes a recorded like or dislike.
type Reaction struct {
	Interaction    models.Interaction
	WeightsUpdated bool
	// Awarded lists achievements granted as a consequence.
	Awarded []string
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets where article-published events go.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// Service implements the feed operations.
type Service struct {
	users        UserStore
	articles     ArticleStore
	interactor   Interactor
	achievements AchievementChecker
	publisher    events.Publisher
	cfg          Config
	logger       zerolog.Logger
}

// NewService creates a feed service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(users UserStore, articles ArticleStore, interactor Interactor, achievements AchievementChecker, cfg Config, logger zerolog.Logger, opts ...Option) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.SearchWindow <= 0 {
		cfg.SearchWindow = 500
	}
	s := &Service{
		users:        users,
		articles:     articles,
		interactor:   interactor,
		achievements: achievements,
		publisher:    events.Discard,
		cfg:          cfg,
		logger:       logger.With().Str("component", "feed").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) limit(n int) int {
	if n <= 0 {
		return s.cfg.PageSize
	}
	return n
}

// Latest lists the most recent articles.
func (s *Service) Latest(ctx context.Context, limit int) ([]*models.Article, error) {
	return s.articles.Latest(ctx, s.limit(limit))
}

// ByTag lists the most recent articles carrying tag.
func (s *Service) ByTag(ctx context.Context, tag string, limit int) ([]*models.Article, error) {
	if err := validation.Var("tag", tag, "required,max=40,topic"); err != nil {
		return nil, err
	}
	return s.articles.LatestWithTag(ctx, tag, s.limit(limit))
}

// Search returns recent articles whose title or teaser contains query,
// ignoring case. Only the SearchWindow most recent articles are scanned.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*models.Article, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, fmt.Errorf("%w: empty search query", validation.ErrInvalidInput)
	}
	limit = s.limit(limit)

	recent, err := s.articles.Latest(ctx, s.cfg.SearchWindow)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var hits []*models.Article
	for _, a := range recent {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Content.Short), needle) {
			hits = append(hits, a)
			if len(hits) == limit {
				break
			}
		}
	}
	return hits, nil
}

// Open returns the article and marks it watched for the reader.
func (s *Service) Open(ctx context.Context, userID, articleID string) (*models.Article, error) {
	if err := checkIDs(userID, articleID); err != nil {
		return nil, err
	}
	a, err := s.articles.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	err = s.users.Update(ctx, userID, docstore.Patch{
		models.FieldWatchedNews: docstore.ArrayUnion(articleID),
	})
	metrics.RecordInteraction("open", err == nil)
	if err != nil {
		return nil, fmt.Errorf("mark watched: %w", err)
	}
	return a, nil
}

// Like records a like and reports whether it was accepted.
func (s *Service) Like(ctx context.Context, userID, articleID string) bool {
	return s.react(ctx, userID, articleID, models.Like)
}

// Dislike records a dislike and reports whether it was accepted.
func (s *Service) Dislike(ctx context.Context, userID, articleID string) bool {
	return s.react(ctx, userID, articleID, models.Dislike)
}

func (s *Service) react(ctx context.Context, userID, articleID string, interaction models.Interaction) bool {
	if _, err := s.React(ctx, userID, articleID, interaction); err != nil {
		logging.Enrich(ctx, s.logger).Warn().
			Err(err).
			Str("user_id", userID).
			Str("article_id", articleID).
			Str("interaction", string(interaction)).
			Msg("reaction rejected")
		return false
	}
	return true
}

// React records a like or dislike and runs the follow-up updates.
func (s *Service) React(ctx context.Context, userID, articleID string, interaction models.Interaction) (Reaction, error) {
	if !interaction.Valid() {
		return Reaction{}, fmt.Errorf("%w: interaction %q", validation.ErrInvalidInput, interaction)
	}
	if err := checkIDs(userID, articleID); err != nil {
		return Reaction{}, err
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return Reaction{}, fmt.Errorf("load user: %w", err)
	}
	if u.HasReacted(articleID) {
		return Reaction{}, fmt.Errorf("%s on %s: %w", interaction, articleID, ErrAlreadyReacted)
	}
	if _, err := s.articles.Get(ctx, articleID); err != nil {
		return Reaction{}, fmt.Errorf("load article: %w", err)
	}

	listField, counterField := models.FieldLikedNews, models.FieldLikes
	if interaction == models.Dislike {
		listField, counterField = models.FieldDislikedNews, models.FieldDislikes
	}

	err = s.users.Update(ctx, userID, docstore.Patch{
		listField:               docstore.ArrayUnion(articleID),
		models.FieldWatchedNews: docstore.ArrayUnion(articleID),
	})
	if err != nil {
		return Reaction{}, fmt.Errorf("record %s: %w", interaction, err)
	}

	log := logging.Enrich(ctx, s.logger)
	if err := s.articles.Update(ctx, articleID, docstore.Patch{counterField: docstore.Increment(1)}); err != nil {
		log.Warn().Err(err).Str("article_id", articleID).Msg("article counter not updated")
	}

	res := Reaction{Interaction: interaction}
	res.WeightsUpdated = s.interactor.ProcessNewsInteraction(ctx, userID, articleID, interaction)
	res.Awarded = s.achievements.CheckAllAchievements(ctx, userID)

	log.Debug().
		Str("user_id", userID).
		Str("article_id", articleID).
		Str("interaction", string(interaction)).
		Strs("awarded", res.Awarded).
		Msg("reaction recorded")
	return res, nil
}

// Publish stores an article and announces it.
func (s *Service) Publish(ctx context.Context, a *models.Article) error {
	if err := validation.Validate(a); err != nil {
		return err
	}
	a.Tags = models.Dedupe(a.Tags)
	if err := s.articles.Put(ctx, a); err != nil {
		return fmt.Errorf("store article: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.Event{
		Topic:        events.TopicArticlePublished,
		ArticleID:    a.ID,
		ArticleTitle: a.Title,
		Tags:         a.Tags,
	}); err != nil {
		logging.Enrich(ctx, s.logger).Warn().Err(err).Str("article_id", a.ID).Msg("event publish failed")
	}
	return nil
}

func checkIDs(userID, articleID string) error {
	if !validation.IsDocumentID(userID) || !validation.IsDocumentID(articleID) {
		return fmt.Errorf("%w: user %q article %q", validation.ErrInvalidInput, userID, articleID)
	}
	return nil
}
