// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/models"
)

// ErrExists is returned by Create when the document is already present.
var ErrExists = errors.New("document already exists")

// Users reads and writes reader profiles.
type Users struct {
	store docstore.Store
}

// NewUsers creates a Users repository over store.
func NewUsers(store docstore.Store) *Users {
	return &Users{store: store}
}

// Get loads a reader profile.
func (r *Users) Get(ctx context.Context, userID string) (*models.User, error) {
	doc, err := r.store.GetDocument(ctx, models.CollectionUsers, userID)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := docstore.Decode(doc, &u); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	if u.ID == "" {
		u.ID = userID
	}
	return &u, nil
}

// Create stores a new profile. The existence check and the write are separate
// calls, so two concurrent registrations of the same ID can both succeed.
func (r *Users) Create(ctx context.Context, u *models.User) error {
	_, err := r.store.GetDocument(ctx, models.CollectionUsers, u.ID)
	switch {
	case err == nil:
		return fmt.Errorf("user %s: %w", u.ID, ErrExists)
	case !docstore.IsNotFound(err):
		return err
	}
	return r.Put(ctx, u)
}

// Put writes the whole profile, replacing any existing one.
func (r *Users) Put(ctx context.Context, u *models.User) error {
	doc, err := docstore.Encode(u)
	if err != nil {
		return err
	}
	return r.store.SetDocument(ctx, models.CollectionUsers, u.ID, doc)
}

// Update applies a partial update to a profile.
func (r *Users) Update(ctx context.Context, userID string, patch docstore.Patch) error {
	return r.store.UpdateFields(ctx, models.CollectionUsers, userID, patch)
}

// List returns every profile ordered by ID.
func (r *Users) List(ctx context.Context) ([]*models.User, error) {
	docs, err := r.store.Query(ctx, models.CollectionUsers, docstore.Query{OrderBy: "id"})
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		var u models.User
		if err := docstore.Decode(doc, &u); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, nil
}
