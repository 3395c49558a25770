// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package profile registers readers and edits their topic preferences.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// tagsRule bounds a preference list.
const tagsRule = "min=1,max=20,dive,min=1,max=40,topic"

// UserStore is the users repository surface profiles need.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, userID string, patch docstore.Patch) error
}

// Registration is the onboarding form.
type Registration struct {
	UserID      string   `json:"user_id" validate:"required,docid"`
	ProfileName string   `json:"profile_name" validate:"required,max=64"`
	Tags        []string `json:"tags" validate:"min=1,max=20,dive,min=1,max=40,topic"`
}

// Service manages reader profiles.
type Service struct {
	users  UserStore
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates a profile service. now may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(users UserStore, now func() time.Time, logger zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		users:  users,
		now:    now,
		logger: logger.With().Str("component", "profile").Logger(),
	}
}

// CreateProfile stores a new level-1 reader. It fails with
// repository.ErrExists when the ID is taken.
func (s *Service) CreateProfile(ctx context.Context, reg Registration) (*models.User, error) {
	if err := validation.Validate(&reg); err != nil {
		return nil, err
	}

	u := models.NewUser(reg.UserID, reg.ProfileName, reg.Tags, s.now())
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	logging.Enrich(ctx, s.logger).Info().
		Str("user_id", u.ID).
		Strs("tags", u.Tags).
		Msg("profile created")
	return u, nil
}

// SetTags replaces the reader's preferred topics. Repeats are dropped.
// Stored tag weights are kept, so a topic that comes back resumes its weight.
func (s *Service) SetTags(ctx context.Context, userID string, tags []string) ([]string, error) {
	if !validation.IsDocumentID(userID) {
		return nil, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}
	if err := validation.Var("tags", tags, tagsRule); err != nil {
		return nil, err
	}

	tags = models.Dedupe(tags)
	if err := s.users.Update(ctx, userID, docstore.Patch{models.FieldTags: tags}); err != nil {
		return nil, fmt.Errorf("set tags: %w", err)
	}

	logging.Enrich(ctx, s.logger).Debug().Str("user_id", userID).Strs("tags", tags).Msg("tags updated")
	return tags, nil
}

// Get loads a reader.
func (s *Service) Get(ctx context.Context, userID string) (*models.User, error) {
	if !validation.IsDocumentID(userID) {
		return nil, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}
	return s.users.Get(ctx, userID)
}
