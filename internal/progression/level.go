// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package progression

import "github.com/tomtom215/headliner/internal/models"

// Progress is a reader's level and the experience held toward the next one.
type Progress struct {
	Level      int `json:"level"`
	Experience int `json:"experience"`
}

// Grant adds points and rolls whole hundreds over into levels.
// points must be non-negative.
func (p Progress) Grant(points int) Progress {
	total := p.Experience + points
	return Progress{
		Level:      p.Level + total/models.ExperiencePerLevel,
		Experience: total % models.ExperiencePerLevel,
	}
}

// LevelsGained reports how many levels separate p from next.
func (p Progress) LevelsGained(next Progress) int {
	if next.Level <= p.Level {
		return 0
	}
	return next.Level - p.Level
}
