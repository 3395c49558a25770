// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package events carries Headliner's domain events over Watermill.
//
// Producers (progression, achievement, feed) depend only on the Publisher
// interface. The Bus implements it on either an in-process GoChannel or NATS
// JetStream; Router runs consumers such as the notification writer with the
// Recoverer, Retry and PoisonQueue middleware.
//
// Topics:
//
//	achievement-awarded  a reader earned an achievement
//	level-up             a reader's level increased
//	streak-extended      a login extended the daily streak
//	article-published    a new article was stored
package events
