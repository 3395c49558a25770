// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/headliner/internal/metrics"
)

// InstrumentedStore records latency and error metrics for every call and
// bounds each call with a timeout.
type InstrumentedStore struct {
	inner   Store
	backend string
	timeout time.Duration
}

var _ Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps inner. A zero timeout leaves the caller's deadline alone.
func NewInstrumentedStore(inner Store, backend string, timeout time.Duration) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, backend: backend, timeout: timeout}
}

func (s *InstrumentedStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *InstrumentedStore) record(op, collection string, start time.Time, err error) {
	metrics.RecordStoreOperation(s.backend, op, collection, time.Since(start), errorType(err))
}

// GetDocument implements Store.
func (s *InstrumentedStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	doc, err := s.inner.GetDocument(ctx, collection, id)
	s.record("get", collection, start, err)
	return doc, err
}

// SetDocument implements Store.
func (s *InstrumentedStore) SetDocument(ctx context.Context, collection, id string, doc Document) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.inner.SetDocument(ctx, collection, id, doc)
	s.record("set", collection, start, err)
	return err
}

// UpdateFields implements Store.
func (s *InstrumentedStore) UpdateFields(ctx context.Context, collection, id string, patch Patch) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.inner.UpdateFields(ctx, collection, id, patch)
	s.record("update", collection, start, err)
	return err
}

// Query implements Store.
func (s *InstrumentedStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	docs, err := s.inner.Query(ctx, collection, q)
	s.record("query", collection, start, err)
	return docs, err
}

// Close implements Store.
func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return "unavailable"
	default:
		return "other"
	}
}
