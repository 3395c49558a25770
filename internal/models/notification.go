// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package models

import "time"

// NotificationKind classifies a notification.
type NotificationKind string

// Notification kinds.
const (
	NotificationAchievement NotificationKind = "achievement"
	NotificationLevelUp     NotificationKind = "level_up"
	NotificationStreak      NotificationKind = "streak"
	NotificationArticle     NotificationKind = "article"
	NotificationSystem      NotificationKind = "system"
)

// Notification is an entry in a reader's notification list. Seen only ever
// goes from false to true.
type Notification struct {
	ID          string           `json:"id"`
	Kind        NotificationKind `json:"kind"`
	CreatedAt   time.Time        `json:"created_at"`
	Description string           `json:"description"`
	ArticleID   string           `json:"article_id,omitempty"`
	Seen        bool             `json:"seen"`
}
