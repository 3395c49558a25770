// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

/*
Package notify stores reader notifications and delivers them live.

Notifications live in the reader's document under "notifications". Create
appends atomically; MarkSeen, MarkAllSeen and Clear rewrite the list and can
lose a notification created concurrently with them.

# Live delivery

A Listener is opened for one Session and receives that reader's new
notifications on a buffered channel. There is no process-wide "current
reader": each session opens its own listener and closes it when done. A
listener that falls behind drops notifications rather than blocking
producers; the stored list stays authoritative.

# Events

Consumer turns domain events into notifications:

	achievement-awarded -> "Achievement unlocked: <name> (+<xp> XP)"
	level-up            -> "You reached level <n>"
	streak-extended     -> "<n> day reading streak"
	article-published   -> one notification per reader following a tag
*/
package notify
