// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package repository

import (
	"context"
	"fmt"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/models"
)

// Achievements reads and writes achievement definitions.
type Achievements struct {
	store docstore.Store
}

// NewAchievements creates an Achievements repository over store.
func NewAchievements(store docstore.Store) *Achievements {
	return &Achievements{store: store}
}

// Get loads one definition.
func (r *Achievements) Get(ctx context.Context, achievementID string) (*models.Achievement, error) {
	doc, err := r.store.GetDocument(ctx, models.CollectionAchievements, achievementID)
	if err != nil {
		return nil, err
	}
	var a models.Achievement
	if err := docstore.Decode(doc, &a); err != nil {
		return nil, fmt.Errorf("achievement %s: %w", achievementID, err)
	}
	if a.ID == "" {
		a.ID = achievementID
	}
	return &a, nil
}

// Put stores a definition.
func (r *Achievements) Put(ctx context.Context, a *models.Achievement) error {
	doc, err := docstore.Encode(a)
	if err != nil {
		return err
	}
	return r.store.SetDocument(ctx, models.CollectionAchievements, a.ID, doc)
}

// List returns every definition ordered by ID.
func (r *Achievements) List(ctx context.Context) ([]*models.Achievement, error) {
	docs, err := r.store.Query(ctx, models.CollectionAchievements, docstore.Query{OrderBy: "id"})
	if err != nil {
		return nil, err
	}
	out := make([]*models.Achievement, 0, len(docs))
	for _, doc := range docs {
		var a models.Achievement
		if err := docstore.Decode(doc, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, nil
}
