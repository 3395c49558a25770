// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package models

// Achievement is a definition from the achievements collection.
//
// A nil threshold is not part of the requirement. A definition with no
// thresholds at all is met by every reader.
type Achievement struct {
	ID               string `json:"id" validate:"required,docid"`
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description,omitempty"`
	RequiredStreak   *int   `json:"required_streak,omitempty" validate:"omitempty,gte=0"`
	RequiredLikes    *int   `json:"required_likes,omitempty" validate:"omitempty,gte=0"`
	RequiredDislikes *int   `json:"required_dislikes,omitempty" validate:"omitempty,gte=0"`
	XPReward         int    `json:"xp_reward" validate:"gte=0"`
}

// Threshold returns a pointer to n for use in Achievement literals.
func Threshold(n int) *int {
	return &n
}

// SatisfiedBy reports whether every specified threshold is met by u.
// It does not consider whether u already holds the achievement.
func (a *Achievement) SatisfiedBy(u *User) bool {
	if a.RequiredStreak != nil && u.Streak < *a.RequiredStreak {
		return false
	}
	if a.RequiredLikes != nil && u.LikedCount() < *a.RequiredLikes {
		return false
	}
	if a.RequiredDislikes != nil && u.DislikedCount() < *a.RequiredDislikes {
		return false
	}
	return true
}
