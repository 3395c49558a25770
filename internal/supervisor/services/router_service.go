// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// ErrRouterStopped is returned when the router exits while its context is
// still live.
var ErrRouterStopped = errors.New("event router stopped")

// RouterRunner is the lifecycle of *events.Router.
type RouterRunner interface {
	Run(ctx context.Context) error
}

// RouterService runs the event router under supervision.
//
// A Watermill router cannot be run twice, so any exit other than context
// cancellation is reported with suture.ErrDoNotRestart.
type RouterService struct {
	router RouterRunner
	name   string
}

// NewRouterService wraps router.
func NewRouterService(router RouterRunner) *RouterService {
	return &RouterService{router: router, name: "event-router"}
}

// Serve implements suture.Service.
func (s *RouterService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = ErrRouterStopped
	}
	return fmt.Errorf("%w: %w", err, suture.ErrDoNotRestart)
}

func (s *RouterService) String() string {
	return s.name
}
