// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package services adapts Headliner components to suture.Service:
//
//   - HTTPServerService: ListenAndServe/Shutdown to Serve
//   - RouterService: the Watermill event router, never restarted once stopped
//   - PeriodicService: interval maintenance such as badger value-log GC
//   - FuncService: any blocking func(ctx) error
package services
