// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// UserStore is the users repository surface the engine needs.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch docstore.Patch) error
}

// ArticleStore is the news repository surface the engine needs.
type ArticleStore interface {
	Get(ctx context.Context, articleID string) (*models.Article, error)
	Latest(ctx context.Context, limit int) ([]*models.Article, error)
	LatestWithTag(ctx context.Context, tag string, limit int) ([]*models.Article, error)
}

// Result is a served feed with provenance counts.
type Result struct {
	Articles []*models.Article
	// FromTags counts articles chosen by the tag pass; the rest are backfill.
	FromTags   int
	Backfilled int
}

// IDs returns the article IDs in feed order.
func (r Result) IDs() []string {
	ids := make([]string, len(r.Articles))
	for i, a := range r.Articles {
		ids[i] = a.ID
	}
	return ids
}

// Engine produces personalized feeds and updates tag weights.
// It holds no per-reader state and is safe for concurrent use.
type Engine struct {
	config   *Config
	users    UserStore
	articles ArticleStore
	logger   zerolog.Logger
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, users UserStore, articles ArticleStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config:   cfg,
		users:    users,
		articles: articles,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// GetPersonalizedNews returns up to maxResults unwatched articles for userID.
// Fewer are returned only when fewer eligible articles exist. maxResults <= 0
// uses the configured default. Any failure yields an empty
// slice.
func (e *Engine) GetPersonalizedNews(ctx context.Context, userID string, maxResults int) []*models.Article {
	res, err := e.Recommend(ctx, userID, maxResults)
	if err != nil {
		logging.Enrich(ctx, e.logger).Warn().Err(err).Str("user_id", userID).Msg("personalized feed unavailable")
		return []*models.Article{}
	}
	return res.Articles
}

// Recommend is GetPersonalizedNews with provenance and the error exposed.
func (e *Engine) Recommend(ctx context.Context, userID string, maxResults int) (Result, error) {
	start := time.Now()
	res, err := e.recommend(ctx, userID, e.quota(maxResults))
	metrics.RecordRecommendation(len(res.Articles), res.Backfilled, time.Since(start), err)
	if err != nil {
		return Result{Articles: []*models.Article{}}, err
	}
	return res, nil
}

func (e *Engine) quota(maxResults int) int {
	if maxResults <= 0 {
		return e.config.DefaultMaxResults
	}
	return maxResults
}

func (e *Engine) recommend(ctx context.Context, userID string, quota int) (Result, error) {
	if !validation.IsDocumentID(userID) {
		return Result{}, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}

	u, err := e.users.Get(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("load user: %w", err)
	}

	watched := u.WatchedSet()
	weights := u.EffectiveTagWeights(e.config.DefaultWeight)
	sel := newSelection(quota, watched)

	for _, tag := range RankTags(u.Tags, weights) {
		remaining := sel.remaining()
		if remaining == 0 {
			break
		}
		request := tagRequest(remaining, weights[tag])
		if request == 0 {
			continue
		}

		// Over-fetch by the watched count so filtering cannot starve the request.
		candidates, err := e.articles.LatestWithTag(ctx, tag, request+len(watched))
		if err != nil {
			return Result{}, fmt.Errorf("articles for tag %q: %w", tag, err)
		}
		sel.addTagBatch(candidates, request)
	}
	fromTags := len(sel.picked)

	if remaining := sel.remaining(); remaining > 0 {
		candidates, err := e.articles.Latest(ctx, remaining+len(watched)+len(sel.picked))
		if err != nil {
			return Result{}, fmt.Errorf("backfill: %w", err)
		}
		sel.fill(candidates)
	}

	return Result{
		Articles:   sel.picked,
		FromTags:   fromTags,
		Backfilled: len(sel.picked) - fromTags,
	}, nil
}

// RankTags orders tags by weight, highest first. Equal weights keep their
// order from tags.
func RankTags(tags []string, weights map[string]float64) []string {
	ranked := models.Dedupe(tags)
	sort.SliceStable(ranked, func(i, j int) bool {
		return weights[ranked[i]] > weights[ranked[j]]
	})
	return ranked
}

// tagRequest is ceil(remaining * min(1, weight)). The epsilon keeps a product
// such as 10*0.7 = 7.000000000000001 from rounding up to 8.
func tagRequest(remaining int, weight float64) int {
	if weight <= 0 {
		return 0
	}
	share := math.Min(1, weight)
	return int(math.Ceil(float64(remaining)*share - 1e-9))
}

// selection accumulates the feed while enforcing uniqueness and the watched
// exclusion.
type selection struct {
	quota   int
	watched map[string]struct{}
	seen    map[string]struct{}
	picked  []*models.Article
}

func newSelection(quota int, watched map[string]struct{}) *selection {
	// Callers may ask for more than exists; size for a typical page.
	hint := min(quota, 64)
	return &selection{
		quota:   quota,
		watched: watched,
		seen:    make(map[string]struct{}, hint),
		picked:  make([]*models.Article, 0, hint),
	}
}

func (s *selection) remaining() int {
	return s.quota - len(s.picked)
}

func (s *selection) isWatched(a *models.Article) bool {
	_, ok := s.watched[a.ID]
	return ok
}

// addTagBatch takes the first n unwatched candidates and appends those not
// already picked. Duplicates use up the tag's share without adding to the feed.
func (s *selection) addTagBatch(candidates []*models.Article, n int) {
	taken := 0
	for _, a := range candidates {
		if taken == n || s.remaining() == 0 {
			return
		}
		if s.isWatched(a) {
			continue
		}
		taken++
		if _, dup := s.seen[a.ID]; dup {
			continue
		}
		s.seen[a.ID] = struct{}{}
		s.picked = append(s.picked, a)
	}
}

// fill appends unwatched, unpicked candidates until the quota is met.
func (s *selection) fill(candidates []*models.Article) {
	for _, a := range candidates {
		if s.remaining() == 0 {
			return
		}
		if s.isWatched(a) {
			continue
		}
		if _, dup := s.seen[a.ID]; dup {
			continue
		}
		s.seen[a.ID] = struct{}{}
		s.picked = append(s.picked, a)
	}
}
