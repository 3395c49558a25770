// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics. Names avoid dots so JetStream can auto-provision a stream per topic.
const (
	TopicAchievementAwarded = "achievement-awarded"
	TopicLevelUp            = "level-up"
	TopicStreakExtended     = "streak-extended"
	TopicArticlePublished   = "article-published"
)

// AllTopics lists every domain topic.
var AllTopics = []string{
	TopicAchievementAwarded,
	TopicLevelUp,
	TopicStreakExtended,
	TopicArticlePublished,
}

// Metadata keys set on every message.
const (
	MetadataUserID        = "user_id"
	MetadataCorrelationID = "correlation_id"
	MetadataTopic         = "topic"
)

// Event is a domain event. Which optional fields are set depends on Topic.
type Event struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	UserID        string    `json:"user_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`

	// achievement-awarded
	AchievementID   string `json:"achievement_id,omitempty"`
	AchievementName string `json:"achievement_name,omitempty"`
	XPReward        int    `json:"xp_reward,omitempty"`

	// level-up
	PreviousLevel int `json:"previous_level,omitempty"`
	Level         int `json:"level,omitempty"`

	// streak-extended
	Streak int `json:"streak,omitempty"`

	// article-published
	ArticleID    string   `json:"article_id,omitempty"`
	ArticleTitle string   `json:"article_title,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Publisher emits domain events. Components depend on this rather than on Bus.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev Event) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// Recorder collects published events in memory. Tests use it in place of a Bus.
type Recorder struct {
	Events []Event
	Err    error
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, ev Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, ev)
	return nil
}

// ByTopic returns the recorded events for topic.
func (r *Recorder) ByTopic(topic string) []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.Topic == topic {
			out = append(out, ev)
		}
	}
	return out
}

// NewMessage encodes ev into a Watermill message, assigning an ID and
// timestamp when missing.
func NewMessage(ev *Event) (*message.Message, error) {
	if ev.Topic == "" {
		return nil, fmt.Errorf("event without topic")
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set(MetadataTopic, ev.Topic)
	if ev.UserID != "" {
		msg.Metadata.Set(MetadataUserID, ev.UserID)
	}
	if ev.CorrelationID != "" {
		msg.Metadata.Set(MetadataCorrelationID, ev.CorrelationID)
	}
	return msg, nil
}

// Decode reads an Event back from a message payload.
func Decode(msg *message.Message) (Event, error) {
	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event %s: %w", msg.UUID, err)
	}
	return ev, nil
}
