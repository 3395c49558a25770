// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package achievement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/events"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// UserStore is the users repository surface the evaluator needs.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch docstore.Patch) error
}

// DefinitionStore loads achievement definitions.
type DefinitionStore interface {
	Get(ctx context.Context, achievementID string) (*models.Achievement, error)
	List(ctx context.Context) ([]*models.Achievement, error)
}

// ExperienceAwarder grants XP. progression.Tracker implements it.
type ExperienceAwarder interface {
	AddExperience(ctx context.Context, userID string, points int) bool
}

// Outcome is the result of one evaluation.
type Outcome string

// Evaluation outcomes.
const (
	OutcomeAwarded       Outcome = "awarded"
	OutcomeAlreadyEarned Outcome = "already_earned"
	OutcomeNotMet        Outcome = "not_met"
	OutcomeFailed        Outcome = "failed"
)

// Option customizes an Evaluator.
type Option func(*Evaluator)

// WithPublisher sets where achievement-awarded events go.
func WithPublisher(p events.Publisher) Option {
	return func(e *Evaluator) { e.publisher = p }
}

// Evaluator checks and awards achievements.
//
// Two evaluations of the same reader and achievement running at the same
// time can both see it unearned; the ID is appended once but the XP reward
// is granted twice. Callers serialize per reader where that matters.
type Evaluator struct {
	users     UserStore
	defs      DefinitionStore
	xp        ExperienceAwarder
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewEvaluator creates an Evaluator.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEvaluator(users UserStore, defs DefinitionStore, xp ExperienceAwarder, logger zerolog.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		users:     users,
		defs:      defs,
		xp:        xp,
		publisher: events.Discard,
		logger:    logger.With().Str("component", "achievement").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MeetsRequirements reports whether u satisfies def. Achievements u already
// holds count as met.
func MeetsRequirements(u *models.User, def *models.Achievement) bool {
	return u.HasAchievement(def.ID) || def.SatisfiedBy(u)
}

// CheckAndAwardAchievement awards achievementID to userID when its
// requirements are met. It returns true when the reader holds the
// achievement afterwards and false when requirements are not met or the
// reader or definition cannot be loaded.
func (e *Evaluator) CheckAndAwardAchievement(ctx context.Context, userID, achievementID string) bool {
	outcome, err := e.Evaluate(ctx, userID, achievementID)
	if err != nil {
		logging.Enrich(ctx, e.logger).Warn().
			Err(err).
			Str("user_id", userID).
			Str("achievement_id", achievementID).
			Msg("achievement check failed")
	}
	return outcome == OutcomeAwarded || outcome == OutcomeAlreadyEarned
}

// Evaluate is CheckAndAwardAchievement with the outcome and error exposed.
func (e *Evaluator) Evaluate(ctx context.Context, userID, achievementID string) (Outcome, error) {
	if !validation.IsDocumentID(userID) || !validation.IsDocumentID(achievementID) {
		metrics.RecordAchievementCheck(achievementID, string(OutcomeFailed))
		return OutcomeFailed, fmt.Errorf("%w: user %q achievement %q", validation.ErrInvalidInput, userID, achievementID)
	}

	u, err := e.users.Get(ctx, userID)
	if err != nil {
		metrics.RecordAchievementCheck(achievementID, string(OutcomeFailed))
		return OutcomeFailed, fmt.Errorf("load user: %w", err)
	}
	def, err := e.defs.Get(ctx, achievementID)
	if err != nil {
		metrics.RecordAchievementCheck(achievementID, string(OutcomeFailed))
		return OutcomeFailed, fmt.Errorf("load achievement: %w", err)
	}

	outcome, err := e.evaluate(ctx, u, def)
	metrics.RecordAchievementCheck(def.ID, string(outcome))
	return outcome, err
}

// evaluate decides and awards def for an already loaded reader.
func (e *Evaluator) evaluate(ctx context.Context, u *models.User, def *models.Achievement) (Outcome, error) {
	if u.HasAchievement(def.ID) {
		return OutcomeAlreadyEarned, nil
	}
	if !def.SatisfiedBy(u) {
		return OutcomeNotMet, nil
	}

	err := e.users.Update(ctx, u.ID, docstore.Patch{
		models.FieldAchievements: docstore.ArrayUnion(def.ID),
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("append achievement: %w", err)
	}

	log := logging.Enrich(ctx, e.logger)
	if def.XPReward > 0 && !e.xp.AddExperience(ctx, u.ID, def.XPReward) {
		log.Warn().
			Str("user_id", u.ID).
			Str("achievement_id", def.ID).
			Int("xp_reward", def.XPReward).
			Msg("achievement awarded but XP grant failed")
	}

	log.Info().
		Str("user_id", u.ID).
		Str("achievement_id", def.ID).
		Int("xp_reward", def.XPReward).
		Msg("achievement awarded")

	if err := e.publisher.Publish(ctx, events.Event{
		Topic:           events.TopicAchievementAwarded,
		UserID:          u.ID,
		AchievementID:   def.ID,
		AchievementName: def.Name,
		XPReward:        def.XPReward,
	}); err != nil {
		log.Warn().Err(err).Str("achievement_id", def.ID).Msg("event publish failed")
	}
	return OutcomeAwarded, nil
}

// CheckAllAchievements evaluates every known definition for userID and
// returns the IDs awarded by this call. A failure on one definition does not
// stop the others.
func (e *Evaluator) CheckAllAchievements(ctx context.Context, userID string) []string {
	log := logging.Enrich(ctx, e.logger)

	defs, err := e.defs.List(ctx)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("cannot list achievements")
		return nil
	}

	var awarded []string
	for _, def := range defs {
		outcome, err := e.Evaluate(ctx, userID, def.ID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("achievement_id", def.ID).Msg("achievement check failed")
			continue
		}
		if outcome == OutcomeAwarded {
			awarded = append(awarded, def.ID)
		}
	}
	return awarded
}

// Progress describes how far a reader is from one achievement.
type Progress struct {
	Achievement *models.Achievement
	Earned      bool
	Met         bool
}

// Overview lists every definition with the reader's standing.
func (e *Evaluator) Overview(ctx context.Context, userID string) ([]Progress, error) {
	u, err := e.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	defs, err := e.defs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	out := make([]Progress, 0, len(defs))
	for _, def := range defs {
		out = append(out, Progress{
			Achievement: def,
			Earned:      u.HasAchievement(def.ID),
			Met:         MeetsRequirements(u, def),
		})
	}
	return out, nil
}
