// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/events"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/models"
)

// Registrar accepts event handlers. events.Router implements it.
type Registrar interface {
	AddConsumer(name, topic string, handler events.HandlerFunc)
}

// UserLister lists every reader, for fan-out of article announcements.
type UserLister interface {
	List(ctx context.Context) ([]*models.User, error)
}

// Consumer creates notifications from domain events.
type Consumer struct {
	svc     *Service
	readers UserLister
	logger  zerolog.Logger
}

// NewConsumer creates a Consumer. readers may be nil, in which case article
// announcements are ignored.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewConsumer(svc *Service, readers UserLister, logger zerolog.Logger) *Consumer {
	return &Consumer{
		svc:     svc,
		readers: readers,
		logger:  logger.With().Str("component", "notify-consumer").Logger(),
	}
}

// Register subscribes the consumer to every domain topic.
func (c *Consumer) Register(r Registrar) {
	for _, topic := range events.AllTopics {
		r.AddConsumer("notify-"+topic, topic, c.Handle)
	}
}

// Handle turns one event into notifications.
func (c *Consumer) Handle(ctx context.Context, ev events.Event) error {
	switch ev.Topic {
	case events.TopicAchievementAwarded:
		return c.create(ctx, ev.UserID, models.NotificationAchievement,
			fmt.Sprintf("Achievement unlocked: %s (+%d XP)", achievementLabel(ev), ev.XPReward), "")
	case events.TopicLevelUp:
		return c.create(ctx, ev.UserID, models.NotificationLevelUp,
			fmt.Sprintf("You reached level %d", ev.Level), "")
	case events.TopicStreakExtended:
		return c.create(ctx, ev.UserID, models.NotificationStreak,
			fmt.Sprintf("%d day reading streak", ev.Streak), "")
	case events.TopicArticlePublished:
		return c.announce(ctx, ev)
	default:
		logging.Enrich(ctx, c.logger).Debug().Str("topic", ev.Topic).Msg("ignoring event")
		return nil
	}
}

func (c *Consumer) create(ctx context.Context, userID string, kind models.NotificationKind, description, articleID string) error {
	if userID == "" {
		return nil
	}
	_, err := c.svc.Create(ctx, userID, kind, description, articleID)
	return err
}

// announce notifies every reader following one of the article's tags. A
// failure for one reader is logged and does not fail the event, since a
// retry would duplicate the notifications already created.
func (c *Consumer) announce(ctx context.Context, ev events.Event) error {
	if c.readers == nil || len(ev.Tags) == 0 {
		return nil
	}
	readers, err := c.readers.List(ctx)
	if err != nil {
		return fmt.Errorf("list readers: %w", err)
	}

	log := logging.Enrich(ctx, c.logger)
	for _, u := range readers {
		tag, ok := firstShared(u.Tags, ev.Tags)
		if !ok {
			continue
		}
		desc := fmt.Sprintf("New in %s: %s", tag, ev.ArticleTitle)
		if _, err := c.svc.Create(ctx, u.ID, models.NotificationArticle, desc, ev.ArticleID); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID).Str("article_id", ev.ArticleID).Msg("article notification failed")
		}
	}
	return nil
}

func achievementLabel(ev events.Event) string {
	if strings.TrimSpace(ev.AchievementName) != "" {
		return ev.AchievementName
	}
	return ev.AchievementID
}

// firstShared returns the first of want that appears in have.
func firstShared(want, have []string) (string, bool) {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return w, true
			}
		}
	}
	return "", false
}
