// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package config

import "time"

// Config is the top-level application configuration.
type Config struct {
	Store       StoreConfig       `koanf:"store"`
	Breaker     BreakerConfig     `koanf:"breaker"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Progression ProgressionConfig `koanf:"progression"`
	Leaderboard LeaderboardConfig `koanf:"leaderboard"`
	Feed        FeedConfig        `koanf:"feed"`
	Events      EventsConfig      `koanf:"events"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
	StoreRedis  = "redis"
)

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of memory, badger, redis.
	Backend string `koanf:"backend"`

	// Path is the BadgerDB directory (badger backend).
	Path string `koanf:"path"`

	// InMemory runs BadgerDB without touching disk.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites forces fsync on every BadgerDB commit.
	SyncWrites bool `koanf:"sync_writes"`

	// RedisAddr is host:port of the redis server (redis backend).
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// KeyPrefix namespaces every key written by the badger and redis backends.
	KeyPrefix string `koanf:"key_prefix"`

	// Timeout bounds each individual store call.
	Timeout time.Duration `koanf:"timeout"`
}

// BreakerConfig tunes the circuit breaker wrapped around the store.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`

	// MinRequests is the number of requests before the failure ratio is considered.
	MinRequests uint32 `koanf:"min_requests"`

	// FailureRatio trips the breaker when reached.
	FailureRatio float64 `koanf:"failure_ratio"`
}

// RecommendConfig tunes the tag-weighted recommender.
type RecommendConfig struct {
	DefaultWeight     float64 `koanf:"default_weight"`
	WeightDelta       float64 `koanf:"weight_delta"`
	MinWeight         float64 `koanf:"min_weight"`
	MaxWeight         float64 `koanf:"max_weight"`
	DefaultMaxResults int     `koanf:"default_max_results"`
}

// ProgressionConfig tunes streak and experience handling.
type ProgressionConfig struct {
	// Timezone is the IANA zone whose calendar days define streak boundaries.
	Timezone string `koanf:"timezone"`

	// LoginXP is granted once per credited calendar day.
	LoginXP int `koanf:"login_xp"`
}

// LeaderboardConfig tunes leaderboard snapshots.
type LeaderboardConfig struct {
	Size     int           `koanf:"size"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// FeedConfig tunes browsing and search.
type FeedConfig struct {
	// SearchWindow is how many of the most recent articles a search scans.
	SearchWindow int `koanf:"search_window"`
	PageSize     int `koanf:"page_size"`
}

// Event bus backends.
const (
	EventsMemory = "memory"
	EventsNATS   = "nats"
)

// EventsConfig configures the domain event bus.
type EventsConfig struct {
	// Backend is memory (in-process) or nats (JetStream via Watermill).
	Backend string `koanf:"backend"`

	NATSURL       string        `koanf:"nats_url"`
	QueueGroup    string        `koanf:"queue_group"`
	DurableName   string        `koanf:"durable_name"`
	AckWait       time.Duration `koanf:"ack_wait"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	PoisonTopic   string        `koanf:"poison_topic"`

	// EmbeddedNATS starts an in-process JetStream server and connects to it
	// instead of NATSURL.
	EmbeddedNATS     bool   `koanf:"embedded_nats"`
	EmbeddedPort     int    `koanf:"embedded_port"`
	EmbeddedStoreDir string `koanf:"embedded_store_dir"`
}

// MetricsConfig configures the Prometheus endpoint served by the worker.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LoggingConfig mirrors logging.Config for file and env loading.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
