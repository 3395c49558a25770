// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/headliner/internal/config"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
)

// HandlerFunc processes one decoded event. A returned error triggers the
// retry middleware; after the last retry the message goes to the poison topic.
type HandlerFunc func(ctx context.Context, ev Event) error

// Router runs event handlers over the bus subscriber with panic recovery,
// retries and poison queue routing.
//
// Middleware order (outer to inner):
//  1. Recoverer
//  2. PoisonQueue (when a poison topic is configured)
//  3. Retry
type Router struct {
	router *message.Router
	bus    *Bus
}

// NewRouter creates a router bound to bus.
func NewRouter(bus *Bus, cfg config.EventsConfig) (*Router, error) {
	r, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, bus.WatermillLogger())
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r.AddMiddleware(middleware.Recoverer)

	if cfg.PoisonTopic != "" {
		poison, err := middleware.PoisonQueue(bus.MessagePublisher(), cfg.PoisonTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		r.AddMiddleware(poison)
	}

	if cfg.RetryCount > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInterval,
			MaxInterval:     cfg.RetryInterval * 8,
			Multiplier:      2.0,
			Logger:          bus.WatermillLogger(),
		}
		r.AddMiddleware(retry.Middleware)
	}

	return &Router{router: r, bus: bus}, nil
}

// AddConsumer subscribes handler to topic. Payloads that do not decode are
// acked and dropped since no retry can fix them.
func (r *Router) AddConsumer(name, topic string, handler HandlerFunc) {
	r.router.AddConsumerHandler(name, topic, r.bus.Subscriber(), func(msg *message.Message) error {
		ev, err := Decode(msg)
		if err != nil {
			metrics.RecordEventConsumed(topic, err)
			r.bus.logger.Warn().Err(err).Str("topic", topic).Str("handler", name).Msg("dropping undecodable event")
			return nil
		}

		ctx := msg.Context()
		if ev.CorrelationID != "" {
			ctx = logging.ContextWithCorrelationID(ctx, ev.CorrelationID)
		}
		if ev.UserID != "" {
			ctx = logging.ContextWithUserID(ctx, ev.UserID)
		}

		err = handler(ctx, ev)
		metrics.RecordEventConsumed(topic, err)
		return err
	})
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether Run has started all handlers.
func (r *Router) IsRunning() bool {
	return r.router.IsRunning()
}

// Close stops the router, waiting up to the configured close timeout for
// in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
