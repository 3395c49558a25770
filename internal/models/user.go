// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package models

import (
	"slices"
	"time"
)

// Collection names.
const (
	CollectionUsers        = "users"
	CollectionNews         = "news"
	CollectionAchievements = "achievements"
)

// User document field names.
const (
	FieldProfileName   = "profileName"
	FieldExperience    = "experience"
	FieldLevel         = "level"
	FieldTags          = "tags"
	FieldTagWeights    = "tagWeights"
	FieldLikedNews     = "liked_news"
	FieldDislikedNews  = "disliked_news"
	FieldWatchedNews   = "watched_news"
	FieldStreak        = "streak"
	FieldLastLogin     = "last_login"
	FieldAchievements  = "achievements"
	FieldNotifications = "notifications"
	FieldCreatedAt     = "created_at"
)

// ExperiencePerLevel is the experience needed to advance one level.
const ExperiencePerLevel = 100

// Tag weight bounds.
const (
	MinTagWeight     = 0.1
	MaxTagWeight     = 2.0
	DefaultTagWeight = 1.0
)

// User is a reader profile.
type User struct {
	ID          string `json:"id"`
	ProfileName string `json:"profileName"`

	Experience int `json:"experience"`
	Level      int `json:"level"`

	Tags []string `json:"tags"`
	// TagWeights is nil until the first like/dislike; readers treat a missing
	// entry as DefaultTagWeight.
	TagWeights map[string]float64 `json:"tagWeights,omitempty"`

	LikedNews    []string `json:"liked_news"`
	DislikedNews []string `json:"disliked_news"`
	WatchedNews  []string `json:"watched_news"`

	Streak    int        `json:"streak"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	Achievements  []string       `json:"achievements"`
	Notifications []Notification `json:"notifications"`

	CreatedAt time.Time `json:"created_at"`
}

// NewUser returns a fresh level-1 profile.
func NewUser(id, profileName string, tags []string, now time.Time) *User {
	return &User{
		ID:            id,
		ProfileName:   profileName,
		Level:         1,
		Tags:          dedupe(tags),
		LikedNews:     []string{},
		DislikedNews:  []string{},
		WatchedNews:   []string{},
		Achievements:  []string{},
		Notifications: []Notification{},
		CreatedAt:     now.UTC(),
	}
}

// HasAchievement reports whether id was already granted.
func (u *User) HasAchievement(id string) bool {
	return slices.Contains(u.Achievements, id)
}

// HasWatched reports whether the article was opened or reacted to.
func (u *User) HasWatched(articleID string) bool {
	return slices.Contains(u.WatchedNews, articleID)
}

// HasReacted reports whether the reader already liked or disliked the article.
func (u *User) HasReacted(articleID string) bool {
	return slices.Contains(u.LikedNews, articleID) || slices.Contains(u.DislikedNews, articleID)
}

// LikedCount is the number of liked articles.
func (u *User) LikedCount() int { return len(u.LikedNews) }

// DislikedCount is the number of disliked articles.
func (u *User) DislikedCount() int { return len(u.DislikedNews) }

// WatchedSet returns the watched IDs as a set.
func (u *User) WatchedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(u.WatchedNews))
	for _, id := range u.WatchedNews {
		set[id] = struct{}{}
	}
	return set
}

// EffectiveTagWeights returns the weight of every preferred tag, substituting
// def for tags without a stored weight. The stored map is never modified.
func (u *User) EffectiveTagWeights(def float64) map[string]float64 {
	weights := make(map[string]float64, len(u.Tags))
	for _, tag := range u.Tags {
		if w, ok := u.TagWeights[tag]; ok {
			weights[tag] = w
		} else {
			weights[tag] = def
		}
	}
	return weights
}

// UnreadNotifications counts notifications not yet seen.
func (u *User) UnreadNotifications() int {
	n := 0
	for i := range u.Notifications {
		if !u.Notifications[i].Seen {
			n++
		}
	}
	return n
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Dedupe removes repeated values while keeping first-seen order.
func Dedupe(values []string) []string { return dedupe(values) }
