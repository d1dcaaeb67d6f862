// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// channelBuffer is the per-subscriber output buffer of the in-process backend.
const channelBuffer = 256

// Publisher wraps a Watermill publisher for either backend.
type Publisher struct {
	publisher message.Publisher
	channel   *gochannel.GoChannel // set for the channel backend only
	backend   string

	mu     sync.RWMutex
	closed bool
	logger watermill.LoggerAdapter
}

// NewPublisher creates a publisher for cfg.Backend. The nats backend uses
// core NATS (JetStream disabled) against cfg.NATSURL.
func NewPublisher(cfg config.EventsConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}

	switch cfg.Backend {
	case config.EventsBackendChannel, "":
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: channelBuffer,
		}, logger)
		return &Publisher{
			publisher: ch,
			channel:   ch,
			backend:   config.EventsBackendChannel,
			logger:    logger,
		}, nil

	case config.EventsBackendNATS:
		pub, err := newNATSPublisher(cfg.NATSURL, logger)
		if err != nil {
			return nil, err
		}
		return &Publisher{
			publisher: pub,
			backend:   config.EventsBackendNATS,
			logger:    logger,
		}, nil

	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

func newNATSPublisher(url string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("moviematch"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: true,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// NewPublisherFrom wraps an existing Watermill publisher.
func NewPublisherFrom(pub message.Publisher, backend string) *Publisher {
	p := &Publisher{
		publisher: pub,
		backend:   backend,
		logger:    watermill.NopLogger{},
	}
	if ch, ok := pub.(*gochannel.GoChannel); ok {
		p.channel = ch
	}
	return p
}

// Backend returns the backend name.
func (p *Publisher) Backend() string {
	return p.backend
}

// Subscriber returns the in-process subscriber for the channel backend,
// or nil for nats.
func (p *Publisher) Subscriber() message.Subscriber {
	if p.channel == nil {
		return nil
	}
	return p.channel
}

// Publish sends msg to topic. The message UUID is used as Nats-Msg-Id.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	msg.SetContext(ctx)

	return p.publisher.Publish(topic, msg)
}

// PublishEvent serializes and publishes a RecommendationServed event.
func (p *Publisher) PublishEvent(ctx context.Context, topic string, e *RecommendationServed) error {
	data, err := Marshal(e)
	if err != nil {
		return err
	}

	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set("user_id", strconv.Itoa(int(e.UserID)))
	msg.Metadata.Set("schema_version", strconv.Itoa(e.SchemaVersion))

	return p.Publish(ctx, topic, msg)
}

// Close shuts down the underlying publisher. It is safe to call twice.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
