// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// ProcessNewsInteraction updates userID's tag weights for a like or dislike
// of articleID. It reports false when the reader or article is missing, the
// interaction is unknown, or the write fails. Liked and watched lists are not
// touched here.
func (e *Engine) ProcessNewsInteraction(ctx context.Context, userID, articleID string, interaction models.Interaction) bool {
	_, err := e.Interact(ctx, userID, articleID, interaction)
	metrics.RecordInteraction(string(interaction), err == nil)
	if err != nil {
		logging.Enrich(ctx, e.logger).Warn().
			Err(err).
			Str("user_id", userID).
			Str("article_id", articleID).
			Str("interaction", string(interaction)).
			Msg("tag weight update failed")
		return false
	}
	return true
}

// Interact is ProcessNewsInteraction returning the persisted weights.
func (e *Engine) Interact(ctx context.Context, userID, articleID string, interaction models.Interaction) (map[string]float64, error) {
	if !interaction.Valid() {
		return nil, fmt.Errorf("%w: interaction %q", validation.ErrInvalidInput, interaction)
	}
	if !validation.IsDocumentID(userID) || !validation.IsDocumentID(articleID) {
		return nil, fmt.Errorf("%w: user %q article %q", validation.ErrInvalidInput, userID, articleID)
	}

	article, err := e.articles.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	u, err := e.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	weights := e.ApplyInteraction(u, article.Tags, interaction)
	if err := e.users.Update(ctx, userID, docstore.Patch{models.FieldTagWeights: weights}); err != nil {
		return nil, fmt.Errorf("write tag weights: %w", err)
	}

	logging.Enrich(ctx, e.logger).Debug().
		Str("user_id", userID).
		Str("article_id", articleID).
		Str("interaction", string(interaction)).
		Strs("tags", article.Tags).
		Msg("tag weights updated")
	return weights, nil
}

// ApplyInteraction returns u's weights after reacting to an article carrying
// tags. u is not modified.
func (e *Engine) ApplyInteraction(u *models.User, tags []string, interaction models.Interaction) map[string]float64 {
	var weights map[string]float64
	if len(u.TagWeights) == 0 {
		weights = u.EffectiveTagWeights(e.config.DefaultWeight)
	} else {
		weights = make(map[string]float64, len(u.TagWeights)+len(tags))
		for tag, w := range u.TagWeights {
			weights[tag] = w
		}
	}

	delta := e.config.WeightDelta
	if interaction == models.Dislike {
		delta = -delta
	}

	for _, tag := range models.Dedupe(tags) {
		current, ok := weights[tag]
		if !ok {
			current = e.config.DefaultWeight
		}
		weights[tag] = round6(e.config.clamp(current + delta))
	}
	return weights
}

func round6(w float64) float64 {
	return math.Round(w*1e6) / 1e6
}
