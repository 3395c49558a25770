// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package metrics defines Headliner's Prometheus instrumentation.
//
// All collectors are registered on the default registry through promauto and
// exposed by the worker's /metrics endpoint. Components call the Record*
// helpers rather than touching the vectors directly.
//
// Families:
//
//   - headliner_store_*: document store latency and errors per backend
//   - headliner_circuit_breaker_*: breaker state and transitions
//   - headliner_recommendation_*, headliner_interactions_total: feed building
//   - headliner_logins_total, headliner_experience_*, headliner_level_ups_total
//   - headliner_achievement_*: evaluations and grants
//   - headliner_events_*, headliner_notifications_created_total
//   - headliner_cache_*: leaderboard snapshot cache
package metrics
