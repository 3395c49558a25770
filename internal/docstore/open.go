// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/config"
)

// Opened is the result of Open: the decorated Store components should use,
// plus the raw backend for maintenance (badger value-log GC).
type Opened struct {
	Store   Store
	Backend Store
}

// Open builds the configured backend and layers instrumentation and, when
// enabled, the circuit breaker on top:
//
//	breaker -> instrumented -> backend
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, storeCfg config.StoreConfig, breakerCfg config.BreakerConfig, logger zerolog.Logger) (*Opened, error) {
	logger = logger.With().Str("component", "docstore").Logger()

	var backend Store
	switch storeCfg.Backend {
	case config.StoreMemory:
		backend = NewMemoryStore()
	case config.StoreBadger:
		b, err := OpenBadger(BadgerOptions{
			Path:       storeCfg.Path,
			InMemory:   storeCfg.InMemory,
			SyncWrites: storeCfg.SyncWrites,
			KeyPrefix:  storeCfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		backend = b
	case config.StoreRedis:
		r, err := OpenRedis(ctx, RedisOptions{
			Addr:      storeCfg.RedisAddr,
			Password:  storeCfg.RedisPassword,
			DB:        storeCfg.RedisDB,
			KeyPrefix: storeCfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		backend = r
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeCfg.Backend)
	}

	var store Store = NewInstrumentedStore(backend, storeCfg.Backend, storeCfg.Timeout)
	if breakerCfg.Enabled {
		store = NewBreakerStore(store, BreakerSettings{
			Name:         "docstore-" + storeCfg.Backend,
			MaxRequests:  breakerCfg.MaxRequests,
			Interval:     breakerCfg.Interval,
			Timeout:      breakerCfg.Timeout,
			MinRequests:  breakerCfg.MinRequests,
			FailureRatio: breakerCfg.FailureRatio,
		}, logger)
	}

	logger.Info().
		Str("backend", storeCfg.Backend).
		Bool("breaker", breakerCfg.Enabled).
		Msg("document store opened")

	return &Opened{Store: store, Backend: backend}, nil
}
