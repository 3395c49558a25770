// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package logging provides centralized zerolog-based logging for Headliner.
//
// A single global logger is configured at startup from the logging section of
// the application config. Components never log through the global directly;
// they receive a zerolog.Logger in their constructor and derive a child with
// Component so tests can capture output.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: logging.FormatJSON})
//
//	// Or without touching the process logger:
//	logger := logging.New(logging.Config{Level: "debug", Output: &buf})
//
//	logger = logging.Component(logging.Logger(), "recommend")
//	logger.Info().Str("user_id", id).Int("articles", n).Msg("feed served")
//
//	// Correlated logging
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	ctx = logging.ContextWithUserID(ctx, userID)
//	logging.Ctx(ctx).Warn().Err(err).Msg("interaction not recorded")
//
// # Adapters
//
//   - NewSlogLogger: slog.Logger for the suture supervisor (sutureslog)
//   - NewWatermillAdapter: watermill.LoggerAdapter for the event bus
//
// # Environment Variables
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
package logging
