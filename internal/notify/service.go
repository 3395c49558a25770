// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
	"github.com/tomtom215/headliner/internal/models"
	"github.com/tomtom215/headliner/internal/validation"
)

// ErrNotificationNotFound is returned by MarkSeen for an unknown ID.
var ErrNotificationNotFound = errors.New("notification not found")

// UserStore is the users repository surface notifications need.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch docstore.Patch) error
}

// Service manages notification lists and live listeners.
type Service struct {
	users  UserStore
	now    func() time.Time
	logger zerolog.Logger

	mu        sync.RWMutex
	listeners map[string]map[*Listener]struct{}
}

// NewService creates a notification service. now may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(users UserStore, now func() time.Time, logger zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		users:     users,
		now:       now,
		logger:    logger.With().Str("component", "notify").Logger(),
		listeners: make(map[string]map[*Listener]struct{}),
	}
}

// Create appends a notification for userID and delivers it to the reader's
// open listeners.
func (s *Service) Create(ctx context.Context, userID string, kind models.NotificationKind, description, articleID string) (models.Notification, error) {
	if !validation.IsDocumentID(userID) {
		return models.Notification{}, fmt.Errorf("%w: user id %q", validation.ErrInvalidInput, userID)
	}
	if description == "" {
		return models.Notification{}, fmt.Errorf("%w: empty description", validation.ErrInvalidInput)
	}

	n := models.Notification{
		ID:          uuid.NewString(),
		Kind:        kind,
		CreatedAt:   s.now().UTC(),
		Description: description,
		ArticleID:   articleID,
	}
	if err := s.users.Update(ctx, userID, docstore.Patch{
		models.FieldNotifications: docstore.ArrayUnion(n),
	}); err != nil {
		return models.Notification{}, fmt.Errorf("store notification: %w", err)
	}

	metrics.RecordNotification(string(kind))
	s.deliver(userID, n)
	logging.Enrich(ctx, s.logger).Debug().
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("notification_id", n.ID).
		Msg("notification created")
	return n, nil
}

// List returns the reader's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := append([]models.Notification(nil), u.Notifications...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// UnreadCount is the number of unseen notifications.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.UnreadNotifications(), nil
}

// MarkSeen flags one notification as seen. Marking a seen notification again
// is a no-op.
func (s *Service) MarkSeen(ctx context.Context, userID, notificationID string) error {
	return s.rewrite(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		for i := range list {
			if list[i].ID == notificationID {
				list[i].Seen = true
				return list, nil
			}
		}
		return nil, fmt.Errorf("%s: %w", notificationID, ErrNotificationNotFound)
	})
}

// MarkAllSeen flags every notification as seen.
func (s *Service) MarkAllSeen(ctx context.Context, userID string) error {
	return s.rewrite(ctx, userID, func(list []models.Notification) ([]models.Notification, error) {
		for i := range list {
			list[i].Seen = true
		}
		return list, nil
	})
}

// Clear removes every notification.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.rewrite(ctx, userID, func([]models.Notification) ([]models.Notification, error) {
		return []models.Notification{}, nil
	})
}

// rewrite is a read-modify-write of the whole list.
func (s *Service) rewrite(ctx context.Context, userID string, change func([]models.Notification) ([]models.Notification, error)) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	list, err := change(u.Notifications)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, docstore.Patch{models.FieldNotifications: list})
}

// Listen opens a live listener for the session's reader. buffer <= 0 uses 16.
func (s *Service) Listen(session models.Session, buffer int) *Listener {
	if buffer <= 0 {
		buffer = 16
	}
	l := &Listener{
		session: session,
		ch:      make(chan models.Notification, buffer),
		svc:     s,
	}

	s.mu.Lock()
	set, ok := s.listeners[session.UserID]
	if !ok {
		set = make(map[*Listener]struct{})
		s.listeners[session.UserID] = set
	}
	set[l] = struct{}{}
	s.mu.Unlock()
	return l
}

// deliver holds the read lock while sending so that a concurrent Close cannot
// close a channel mid-send.
func (s *Service) deliver(userID string, n models.Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for l := range s.listeners[userID] {
		select {
		case l.ch <- n:
		default:
			l.dropped.Add(1)
			s.logger.Debug().Str("user_id", userID).Str("session", l.session.CorrelationID).Msg("listener full, notification dropped")
		}
	}
}

func (s *Service) remove(l *Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.listeners[l.session.UserID]
	if _, ok := set[l]; !ok {
		return
	}
	delete(set, l)
	if len(set) == 0 {
		delete(s.listeners, l.session.UserID)
	}
	close(l.ch)
}

// ListenerCount is the number of open listeners for userID.
func (s *Service) ListenerCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners[userID])
}
