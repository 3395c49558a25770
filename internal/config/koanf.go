// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"headliner.yaml",
	"headliner.yml",
	"/etc/headliner/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   StoreBadger,
			Path:      "data/headliner",
			KeyPrefix: "hl",
			RedisAddr: "127.0.0.1:6379",
			Timeout:   5 * time.Second,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Recommend: RecommendConfig{
			DefaultWeight:     1.0,
			WeightDelta:       0.1,
			MinWeight:         0.1,
			MaxWeight:         2.0,
			DefaultMaxResults: 10,
		},
		Progression: ProgressionConfig{
			Timezone: "UTC",
			LoginXP:  10,
		},
		Leaderboard: LeaderboardConfig{
			Size:     25,
			CacheTTL: 30 * time.Second,
		},
		Feed: FeedConfig{
			SearchWindow: 500,
			PageSize:     20,
		},
		Events: EventsConfig{
			Backend:       EventsMemory,
			NATSURL:       "nats://127.0.0.1:4222",
			QueueGroup:    "headliner",
			DurableName:   "headliner-notifier",
			AckWait:       30 * time.Second,
			CloseTimeout:  10 * time.Second,
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			PoisonTopic:   "headliner-poison",
			EmbeddedPort:  4222,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9464",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables (see envMappings)
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot pollute config.
var envMappings = map[string]string{
	"store_backend":        "store.backend",
	"store_path":           "store.path",
	"store_in_memory":      "store.in_memory",
	"store_sync_writes":    "store.sync_writes",
	"store_key_prefix":     "store.key_prefix",
	"store_timeout":        "store.timeout",
	"redis_addr":           "store.redis_addr",
	"redis_password":       "store.redis_password",
	"redis_db":             "store.redis_db",
	"breaker_enabled":      "breaker.enabled",
	"breaker_max_requests": "breaker.max_requests",
	"breaker_interval":     "breaker.interval",
	"breaker_timeout":      "breaker.timeout",
	"breaker_min_requests": "breaker.min_requests",
	"breaker_failure_rate": "breaker.failure_ratio",

	"recommend_default_weight":      "recommend.default_weight",
	"recommend_weight_delta":        "recommend.weight_delta",
	"recommend_min_weight":          "recommend.min_weight",
	"recommend_max_weight":          "recommend.max_weight",
	"recommend_default_max_results": "recommend.default_max_results",

	"progression_timezone": "progression.timezone",
	"progression_login_xp": "progression.login_xp",

	"leaderboard_size":      "leaderboard.size",
	"leaderboard_cache_ttl": "leaderboard.cache_ttl",

	"feed_search_window": "feed.search_window",
	"feed_page_size":     "feed.page_size",

	"events_backend":        "events.backend",
	"nats_url":              "events.nats_url",
	"nats_queue_group":      "events.queue_group",
	"nats_durable_name":     "events.durable_name",
	"events_ack_wait":       "events.ack_wait",
	"events_close_timeout":  "events.close_timeout",
	"events_retry_count":    "events.retry_count",
	"events_retry_interval": "events.retry_interval",
	"events_poison_topic":   "events.poison_topic",
	"nats_embedded":         "events.embedded_nats",
	"nats_embedded_port":    "events.embedded_port",
	"nats_embedded_dir":     "events.embedded_store_dir",

	"metrics_enabled": "metrics.enabled",
	"metrics_addr":    "metrics.addr",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps e.g. STORE_BACKEND -> store.backend and LOG_LEVEL -> logging.level.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
