// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"errors"
)

// Sentinel errors. Backends wrap these so callers can use errors.Is.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable is returned when the backend cannot be reached or the
	// circuit breaker is open.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("document store closed")
)

// Document is a JSON-shaped record: string keys mapping to nil, bool,
// float64, string, []interface{} or map[string]interface{}.
type Document map[string]interface{}

// Store is the document store abstraction every component reads and writes through.
//
// Implementations make each individual call atomic. Sequences of calls are
// not: a read followed by a write from two actors can lose an update.
type Store interface {
	// GetDocument returns the document or an error wrapping ErrNotFound.
	GetDocument(ctx context.Context, collection, id string) (Document, error)

	// SetDocument creates or fully replaces a document.
	SetDocument(ctx context.Context, collection, id string, doc Document) error

	// UpdateFields merges patch into an existing document. Values may be
	// plain values (replacing the field) or transforms (ArrayUnion,
	// ArrayRemove, Increment). Returns ErrNotFound when the document is missing.
	UpdateFields(ctx context.Context, collection, id string, patch Patch) error

	// Query returns documents of a collection matching every filter, ordered
	// and limited as requested.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	// Close releases backend resources.
	Close() error
}

// QueryByField runs a single-filter query.
//
//	docs, err := docstore.QueryByField(ctx, store, "news", "tags", docstore.OpArrayContains, "Sports", "date", true, 5)
func QueryByField(ctx context.Context, s Store, collection, field string, op Operator, value interface{}, orderBy string, descending bool, limit int) ([]Document, error) {
	return s.Query(ctx, collection, Query{
		Where:      []Filter{{Field: field, Op: op, Value: value}},
		OrderBy:    orderBy,
		Descending: descending,
		Limit:      limit,
	})
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err wraps ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
