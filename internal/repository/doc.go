// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package repository gives typed access to the users, news and achievements
// collections of a docstore.Store.
//
// Repositories encode and decode models through the store's JSON document
// form and leave error classification to docstore: callers test results with
// docstore.IsNotFound and docstore.IsUnavailable. Nothing here retries or
// absorbs errors; the domain components decide what a failure means.
package repository
