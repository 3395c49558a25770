// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package achievement

import (
	"context"
	"fmt"

	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// DefinitionWriter stores definitions.
type DefinitionWriter interface {
	Put(ctx context.Context, a *models.Achievement) error
}

// DefaultCatalog returns the built-in achievement definitions.
func DefaultCatalog() []*models.Achievement {
	return []*models.Achievement{
		{ID: "first_like", Name: "First Like", Description: "Like your first article", RequiredLikes: models.Threshold(1), XPReward: 10},
		{ID: "first_dislike", Name: "Critic", Description: "Dislike your first article", RequiredDislikes: models.Threshold(1), XPReward: 10},
		{ID: "streak_3", Name: "Warming Up", Description: "Read three days in a row", RequiredStreak: models.Threshold(3), XPReward: 20},
		{ID: "streak_7", Name: "Weekly Habit", Description: "Read seven days in a row", RequiredStreak: models.Threshold(7), XPReward: 50},
		{ID: "streak_30", Name: "Devoted Reader", Description: "Read thirty days in a row", RequiredStreak: models.Threshold(30), XPReward: 200},
		{ID: "likes_10", Name: "Enthusiast", Description: "Like ten articles", RequiredLikes: models.Threshold(10), XPReward: 30},
		{ID: "likes_50", Name: "Superfan", Description: "Like fifty articles", RequiredLikes: models.Threshold(50), XPReward: 100},
		{ID: "dislikes_10", Name: "Tough Crowd", Description: "Dislike ten articles", RequiredDislikes: models.Threshold(10), XPReward: 30},
		{
			ID:             "engaged_reader",
			Name:           "Engaged Reader",
			Description:    "Keep a seven day streak with twenty-five likes",
			RequiredStreak: models.Threshold(7),
			RequiredLikes:  models.Threshold(25),
			XPReward:       150,
		},
	}
}

// SeedCatalog validates and stores defs, stopping at the first failure.
func SeedCatalog(ctx context.Context, w DefinitionWriter, defs []*models.Achievement) error {
	for _, def := range defs {
		if err := validation.Validate(def); err != nil {
			return fmt.Errorf("achievement %s: %w", def.ID, err)
		}
		if err := w.Put(ctx, def); err != nil {
			return fmt.Errorf("store achievement %s: %w", def.ID, err)
		}
	}
	return nil
}
