// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values shared by operation counters.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
	ResultNoop     = "noop"
)

var (
	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headliner_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_store_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"backend", "operation", "collection", "error_type"}, // error_type: not_found, unavailable, other
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "headliner_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_recommendation_requests_total",
			Help: "Personalized feed requests by result",
		},
		[]string{"result"},
	)

	RecommendationArticles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headliner_recommendation_articles",
			Help:    "Number of articles returned per personalized feed",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	RecommendationBackfill = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headliner_recommendation_backfill_articles",
			Help:    "Number of articles per feed that came from the most-recent backfill",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headliner_recommendation_duration_seconds",
			Help:    "Time to build a personalized feed",
			Buckets: prometheus.DefBuckets,
		},
	)

	Interactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_interactions_total",
			Help: "Like/dislike interactions applied to tag weights",
		},
		[]string{"kind", "result"},
	)

	// Progression Metrics
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_logins_total",
			Help: "Login streak evaluations by outcome",
		},
		[]string{"outcome"}, // outcome: first, same_day, continued, reset, failed
	)

	ExperienceAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "headliner_experience_awarded_total",
			Help: "Total experience points granted",
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "headliner_level_ups_total",
			Help: "Total number of levels gained",
		},
	)

	// Achievement Metrics
	AchievementsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_achievements_awarded_total",
			Help: "Achievements granted by achievement ID",
		},
		[]string{"achievement"},
	)

	AchievementChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_achievement_checks_total",
			Help: "Achievement evaluations by result",
		},
		[]string{"result"}, // result: awarded, already_earned, unmet, failure
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_events_published_total",
			Help: "Domain events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_events_consumed_total",
			Help: "Domain events handled by topic and result",
		},
		[]string{"topic", "result"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_notifications_created_total",
			Help: "Notifications appended to reader records by kind",
		},
		[]string{"kind"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headliner_cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)
)

// RecordStoreOperation records one store call. errorType is empty on success.
func RecordStoreOperation(backend, operation, collection string, duration time.Duration, errorType string) {
	StoreOperationDuration.WithLabelValues(backend, operation, collection).Observe(duration.Seconds())
	if errorType != "" {
		StoreOperationErrors.WithLabelValues(backend, operation, collection, errorType).Inc()
	}
}

// RecordRecommendation records a served feed.
func RecordRecommendation(articles, backfilled int, duration time.Duration, err error) {
	RecommendationDuration.Observe(duration.Seconds())
	if err != nil {
		RecommendationRequests.WithLabelValues(ResultFailure).Inc()
		return
	}
	RecommendationRequests.WithLabelValues(ResultSuccess).Inc()
	RecommendationArticles.Observe(float64(articles))
	RecommendationBackfill.Observe(float64(backfilled))
}

// RecordInteraction records a tag-weight update.
func RecordInteraction(kind string, success bool) {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	Interactions.WithLabelValues(kind, result).Inc()
}

// RecordLogin records the outcome of a streak evaluation.
func RecordLogin(outcome string) {
	Logins.WithLabelValues(outcome).Inc()
}

// RecordExperience records granted points and levels gained.
func RecordExperience(points, levelsGained int) {
	if points > 0 {
		ExperienceAwarded.Add(float64(points))
	}
	if levelsGained > 0 {
		LevelUps.Add(float64(levelsGained))
	}
}

// RecordAchievementCheck records an evaluation; awarded checks also bump the per-achievement counter.
func RecordAchievementCheck(achievementID, result string) {
	AchievementChecks.WithLabelValues(result).Inc()
	if result == "awarded" {
		AchievementsAwarded.WithLabelValues(achievementID).Inc()
	}
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(topic string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// RecordEventConsumed records a handled event.
func RecordEventConsumed(topic string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	EventsConsumed.WithLabelValues(topic, result).Inc()
}

// RecordNotification records a notification appended to a reader.
func RecordNotification(kind string) {
	NotificationsCreated.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}
