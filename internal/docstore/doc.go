// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package docstore is the document store abstraction Headliner persists
// readers, articles and achievement definitions through.
//
// # Operations
//
//   - GetDocument / SetDocument: point read and full replace
//   - UpdateFields: atomic merge with ArrayUnion, ArrayRemove, Increment
//     and DeleteField transforms
//   - Query / QueryByField: filter (==, !=, <, <=, >, >=, array-contains, in),
//     order and limit
//
// # Backends
//
//   - MemoryStore: process memory, for tests and ephemeral runs
//   - BadgerStore: embedded BadgerDB with prefix-scanned collections
//   - RedisStore: remote redis with WATCH/MULTI updates
//
// Every backend evaluates queries with the same in-process matcher, so
// filtering and ordering are identical no matter where documents live.
//
// # Decorators
//
//   - InstrumentedStore: Prometheus latency/error metrics and per-call timeout
//   - BreakerStore: gobreaker circuit breaker mapping outages to ErrUnavailable
//
// # Errors
//
// ErrNotFound, ErrUnavailable and ErrClosed are wrapped with context and
// matched with errors.Is. Malformed patches and queries wrap
// validation.ErrInvalidInput.
//
// # Concurrency
//
// Each call is atomic within its backend. Sequences are not: callers that
// read a document, compute, and write back can lose a concurrent update.
// Use UpdateFields transforms where a field can be updated blind.
package docstore
