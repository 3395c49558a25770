// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package models

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/validation"
)

// Session identifies the reader a sequence of calls acts for. It replaces
// process-wide "current user" state: anything that needs to know who is
// reading receives a Session explicitly.
type Session struct {
	UserID        string
	CorrelationID string
	StartedAt     time.Time
}

// NewSession validates userID and opens a session.
func NewSession(userID string, now time.Time) (Session, error) {
	if !validation.IsDocumentID(userID) {
		return Session{}, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}
	return Session{
		UserID:        userID,
		CorrelationID: logging.GenerateCorrelationID(),
		StartedAt:     now,
	}, nil
}

// Context attaches the session's identifiers for correlated logging.
func (s Session) Context(ctx context.Context) context.Context {
	ctx = logging.ContextWithUserID(ctx, s.UserID)
	if s.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, s.CorrelationID)
	}
	return ctx
}
