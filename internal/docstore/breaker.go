// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/validation"
)

// BreakerSettings tunes the circuit breaker wrapped around a Store.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// BreakerStore protects a Store with a circuit breaker. Missing documents and
// invalid input are successful outcomes from the breaker's point of view;
// only backend failures count toward tripping. While open, every call fails
// fast with ErrUnavailable.
type BreakerStore struct {
	inner  Store
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

var _ Store = (*BreakerStore)(nil)

// NewBreakerStore wraps inner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerStore(inner Store, settings BreakerSettings, logger zerolog.Logger) *BreakerStore {
	name := settings.Name
	if name == "" {
		name = "docstore"
	}
	logger = logger.With().Str("component", "docstore-breaker").Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= settings.FailureRatio
			if trip {
				logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_ratio", ratio).Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isBenign(err)
		},
	})

	return &BreakerStore{inner: inner, cb: cb, name: name, logger: logger}
}

// State reports the breaker state (closed, half-open, open).
func (s *BreakerStore) State() string {
	return stateToString(s.cb.State())
}

func (s *BreakerStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, metrics.ResultRejected).Inc()
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if isBenign(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, metrics.ResultSuccess).Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, metrics.ResultFailure).Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(s.name, metrics.ResultSuccess).Inc()
	return result, nil
}

// GetDocument implements Store.
func (s *BreakerStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	res, err := s.execute(func() (interface{}, error) {
		return s.inner.GetDocument(ctx, collection, id)
	})
	if err != nil {
		return nil, err
	}
	doc, _ := res.(Document)
	return doc, nil
}

// SetDocument implements Store.
func (s *BreakerStore) SetDocument(ctx context.Context, collection, id string, doc Document) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.SetDocument(ctx, collection, id, doc)
	})
	return err
}

// UpdateFields implements Store.
func (s *BreakerStore) UpdateFields(ctx context.Context, collection, id string, patch Patch) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.UpdateFields(ctx, collection, id, patch)
	})
	return err
}

// Query implements Store.
func (s *BreakerStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	res, err := s.execute(func() (interface{}, error) {
		return s.inner.Query(ctx, collection, q)
	})
	if err != nil {
		return nil, err
	}
	docs, _ := res.([]Document)
	return docs, nil
}

// Close implements Store.
func (s *BreakerStore) Close() error {
	return s.inner.Close()
}

// isBenign reports errors that say nothing about backend health.
func isBenign(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, validation.ErrInvalidInput) ||
		errors.Is(err, context.Canceled)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
