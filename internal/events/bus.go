// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headliner/internal/config"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/metrics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// Bus publishes domain events and hands out the subscriber consumers read from.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     zerolog.Logger
	wmLogger   watermill.LoggerAdapter
	shared     bool // publisher and subscriber are one GoChannel
	embedded   *EmbeddedServer

	mu     sync.RWMutex
	closed bool
}

var _ Publisher = (*Bus)(nil)

// NewBus builds the configured transport.
//
// The memory backend is a Watermill GoChannel that blocks Publish until every
// subscriber has acked, so notifications derived from an event exist by the
// time the publishing call returns. The nats backend uses JetStream durable
// consumers through watermill-nats.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	logger = logger.With().Str("component", "events").Logger()
	wmLogger := logging.NewWatermillAdapter(logger)

	b := &Bus{logger: logger, wmLogger: wmLogger}

	switch cfg.Backend {
	case config.EventsMemory, "":
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		}, wmLogger)
		b.publisher = ch
		b.subscriber = ch
		b.shared = true
	case config.EventsNATS:
		if cfg.EmbeddedNATS {
			srv, err := NewEmbeddedServer("127.0.0.1", cfg.EmbeddedPort, cfg.EmbeddedStoreDir)
			if err != nil {
				return nil, err
			}
			b.embedded = srv
			cfg.NATSURL = srv.ClientURL()
			logger.Info().Str("url", cfg.NATSURL).Msg("embedded NATS server started")
		}
		pub, sub, err := newNATS(cfg, wmLogger)
		if err != nil {
			if b.embedded != nil {
				b.embedded.Shutdown()
			}
			return nil, err
		}
		b.publisher = pub
		b.subscriber = sub
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}

	logger.Info().Str("backend", cfg.Backend).Msg("event bus ready")
	return b, nil
}

func newNATS(cfg config.EventsConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("headliner"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWait,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			DurablePrefix: cfg.DurableName,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.AckExplicit(),
				natsgo.AckWait(cfg.AckWait),
				natsgo.DeliverAll(),
			},
		},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, nil, fmt.Errorf("create nats subscriber: %w", err)
	}
	return pub, sub, nil
}

// Publish encodes and sends ev on its topic. The correlation ID in ctx is
// copied onto the event when the event has none.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	if ev.CorrelationID == "" {
		ev.CorrelationID = logging.CorrelationIDFromContext(ctx)
	}
	msg, err := NewMessage(&ev)
	if err != nil {
		metrics.RecordEventPublished(ev.Topic, err)
		return err
	}
	msg.SetContext(ctx)

	err = b.publisher.Publish(ev.Topic, msg)
	metrics.RecordEventPublished(ev.Topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Topic, err)
	}
	b.logger.Debug().
		Str("topic", ev.Topic).
		Str("event_id", ev.ID).
		Str("user_id", ev.UserID).
		Msg("event published")
	return nil
}

// Embedded returns the embedded NATS server, or nil.
func (b *Bus) Embedded() *EmbeddedServer { return b.embedded }

// Subscriber returns the subscriber routers attach handlers to.
func (b *Bus) Subscriber() message.Subscriber { return b.subscriber }

// MessagePublisher returns the raw publisher, used for poison queue routing.
func (b *Bus) MessagePublisher() message.Publisher { return b.publisher }

// WatermillLogger returns the logger adapter shared by the bus components.
func (b *Bus) WatermillLogger() watermill.LoggerAdapter { return b.wmLogger }

// Close shuts down the transport. With the memory backend the publisher and
// subscriber are the same GoChannel and are closed once. An embedded NATS
// server is stopped last.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if !b.shared {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.embedded != nil {
		b.embedded.Shutdown()
	}
	return errors.Join(errs...)
}
