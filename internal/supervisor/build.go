// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/api"
	"github.com/tomtom215/headliner/internal/app"
	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/supervisor/services"
)

const (
	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// Build assembles the tree for a:
//   - data: badger value-log GC (badger backend only), leaderboard cache sweep
//   - messaging: the event router
//   - api: metrics and health server, when metrics are enabled
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Build(a *app.App, logger zerolog.Logger, config TreeConfig) *SupervisorTree {
	tree := NewSupervisorTree(logging.NewSlogLogger(logger.With().Str("component", "supervisor").Logger()), config)

	if badgerStore, ok := a.Backend().(*docstore.BadgerStore); ok {
		tree.AddDataService(services.NewPeriodicService("badger-gc", gcInterval, func(context.Context) error {
			return badgerStore.RunGC(gcDiscardRatio)
		}, logger))
	}
	tree.AddDataService(services.NewFuncService("leaderboard-sweep", a.Board.Serve))

	tree.AddMessagingService(services.NewRouterService(a.Router()))

	if metricsCfg := a.Config().Metrics; metricsCfg.Enabled {
		handler := api.NewHandler(Checks(a), 0, logger)
		server := &http.Server{
			Addr:              metricsCfg.Addr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, config.ShutdownTimeout))
	}
	return tree
}

// Checks returns the readiness probes for a.
func Checks(a *app.App) map[string]api.Check {
	return map[string]api.Check{
		"store": func(ctx context.Context) error {
			_, err := a.Store().Query(ctx, models.CollectionUsers, docstore.Query{Limit: 1})
			return err
		},
		"events": func(context.Context) error {
			if !a.Router().IsRunning() {
				return errors.New("event router not running")
			}
			return nil
		},
	}
}
