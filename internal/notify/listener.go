// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package notify

import (
	"sync/atomic"

	"github.com/tomtom215/headliner/internal/models"
)

// Listener receives one session's new notifications.
type Listener struct {
	session models.Session
	ch      chan models.Notification
	svc     *Service
	dropped atomic.Int64
}

// C delivers notifications until Close, after which it is closed.
func (l *Listener) C() <-chan models.Notification {
	return l.ch
}

// Session is the session the listener was opened for.
func (l *Listener) Session() models.Session {
	return l.session
}

// Dropped counts notifications discarded because the buffer was full.
func (l *Listener) Dropped() int64 {
	return l.dropped.Load()
}

// Close stops delivery and closes C. It is safe to call more than once.
func (l *Listener) Close() {
	l.svc.remove(l)
}
