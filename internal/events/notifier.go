// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Compile-time interface assertion.
var _ recommend.Notifier = (*Notifier)(nil)

// Notifier publishes a RecommendationServed event for every result the
// engine serves. Failures are logged and counted, never returned.
type Notifier struct {
	publisher *Publisher
	topic     string
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewNotifier creates a Notifier publishing to topic. A zero timeout
// waits for the publisher without a deadline.
func NewNotifier(publisher *Publisher, topic string, timeout time.Duration, logger zerolog.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		topic:     topic,
		timeout:   timeout,
		logger:    logger.With().Str("component", "events").Str("topic", topic).Logger(),
	}
}

// RecommendationServed implements recommend.Notifier.
func (n *Notifier) RecommendationServed(ctx context.Context, result *recommend.Result) {
	event := NewRecommendationServed(result)

	err := n.publish(ctx, event)
	metrics.RecordEventPublish(err)
	if err != nil {
		n.logger.Warn().Err(err).
			Str("event_id", event.EventID).
			Int("user_id", int(event.UserID)).
			Msg("Failed to publish recommendation event")
		return
	}

	n.logger.Debug().
		Str("event_id", event.EventID).
		Int("user_id", int(event.UserID)).
		Int("items", len(event.Items)).
		Msg("Published recommendation event")
}

// publish runs PublishEvent, giving up after the configured timeout.
// The request context is detached so a finished request does not drop
// its event.
func (n *Notifier) publish(ctx context.Context, event *RecommendationServed) error {
	ctx = context.WithoutCancel(ctx)
	if n.timeout <= 0 {
		return n.publisher.PublishEvent(ctx, n.topic, event)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.publisher.PublishEvent(ctx, n.topic, event)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("publish event %s: %w", event.EventID, ctx.Err())
	}
}
