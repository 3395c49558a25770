// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package achievement decides when a reader earns an achievement and awards it.
//
// A definition's thresholds (streak, likes, dislikes) are optional; the ones
// present must all be met. Awarding appends the achievement ID to the reader
// and then grants the definition's XP reward through an ExperienceAwarder.
// The append is authoritative: if the XP grant fails afterwards the
// achievement stays awarded and the failure is only logged.
//
// Earned achievements are never re-evaluated or revoked, so repeated checks
// grant XP once.
package achievement
