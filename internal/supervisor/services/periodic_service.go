// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Task is one run of periodic maintenance.
type Task func(ctx context.Context) error

// PeriodicService runs a task on a fixed interval. Task errors are logged
// and the schedule continues; they never restart the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
	logger   zerolog.Logger
}

// NewPeriodicService creates a periodic service. A non-positive interval
// means one minute.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPeriodicService(name string, interval time.Duration, task Task, logger zerolog.Logger) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.interval).Msg("periodic service running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.task(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("periodic task failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task done")
		}
	}
}

func (s *PeriodicService) String() string {
	return s.name
}

// FuncService adapts a blocking function to suture.Service.
type FuncService struct {
	name string
	run  func(ctx context.Context) error
}

// NewFuncService names run for supervision.
func NewFuncService(name string, run func(ctx context.Context) error) *FuncService {
	return &FuncService{name: name, run: run}
}

// Serve implements suture.Service.
func (s *FuncService) Serve(ctx context.Context) error {
	return s.run(ctx)
}

func (s *FuncService) String() string {
	return s.name
}
