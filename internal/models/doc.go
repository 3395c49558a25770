// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

/*
Package models defines the records Headliner keeps in its document store.

Key Components:

  - User: reader profile with tag preferences, reaction sets, progression
    state (level, experience, streak) and embedded notifications
  - Article: a news item with tags and like/dislike counters
  - Achievement: a definition with optional streak/like/dislike thresholds
  - Notification: an entry in a reader's notification list
  - Session: the explicit per-reader context handed to session-scoped code

Collections and field names are exported as constants so that partial updates
(docstore.Patch) name fields the same way the JSON encoding does.

Invariants kept by the writers of these records:

  - 0 <= Experience < ExperiencePerLevel and Level >= 1
  - every tag weight lies in [MinTagWeight, MaxTagWeight]
  - WatchedNews contains every liked and disliked article
  - Achievements only grows
*/
package models
