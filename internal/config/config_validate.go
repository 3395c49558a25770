// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateProgression(); err != nil {
		return err
	}
	if err := c.validateLeaderboard(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreBadger:
		if c.Store.Path == "" && !c.Store.InMemory {
			return fmt.Errorf("STORE_PATH is required for the badger backend unless STORE_IN_MEMORY=true")
		}
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, badger, redis (got %q)", c.Store.Backend)
	}
	if c.Store.Timeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATE must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout < time.Millisecond {
		return fmt.Errorf("BREAKER_TIMEOUT must be at least 1ms")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinWeight <= 0 || r.MaxWeight < r.MinWeight {
		return fmt.Errorf("recommend weights require 0 < min_weight <= max_weight (got %v, %v)", r.MinWeight, r.MaxWeight)
	}
	if r.DefaultWeight < r.MinWeight || r.DefaultWeight > r.MaxWeight {
		return fmt.Errorf("recommend.default_weight %v outside [%v, %v]", r.DefaultWeight, r.MinWeight, r.MaxWeight)
	}
	if r.WeightDelta <= 0 {
		return fmt.Errorf("recommend.weight_delta must be positive")
	}
	if r.DefaultMaxResults <= 0 {
		return fmt.Errorf("recommend.default_max_results must be positive")
	}
	return nil
}

func (c *Config) validateProgression() error {
	if _, err := time.LoadLocation(c.Progression.Timezone); err != nil {
		return fmt.Errorf("PROGRESSION_TIMEZONE %q: %w", c.Progression.Timezone, err)
	}
	if c.Progression.LoginXP < 0 {
		return fmt.Errorf("PROGRESSION_LOGIN_XP must not be negative")
	}
	return nil
}

func (c *Config) validateLeaderboard() error {
	if c.Leaderboard.Size <= 0 {
		return fmt.Errorf("LEADERBOARD_SIZE must be positive")
	}
	if c.Feed.SearchWindow <= 0 || c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.search_window and feed.page_size must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case EventsMemory:
		return nil
	case EventsNATS:
		if c.Events.EmbeddedNATS {
			if c.Events.EmbeddedStoreDir == "" {
				return fmt.Errorf("NATS_EMBEDDED_DIR is required with an embedded server")
			}
			return nil
		}
		if !strings.HasPrefix(c.Events.NATSURL, "nats://") && !strings.HasPrefix(c.Events.NATSURL, "tls://") {
			return fmt.Errorf("NATS_URL must start with nats:// or tls:// (got %q)", c.Events.NATSURL)
		}
		return nil
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory or nats (got %q)", c.Events.Backend)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console (got %q)", c.Logging.Format)
	}
}

// Location resolves the progression timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Progression.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
