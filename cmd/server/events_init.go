// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/events"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/supervisor"
	"github.com/tomtom215/moviematch/internal/supervisor/services"
)

// eventComponents holds what cmd/server must close on exit. The embedded
// broker, if any, belongs to the supervisor tree.
type eventComponents struct {
	publisher *events.Publisher
	notifier  *events.Notifier
}

// Close releases the publisher.
func (c *eventComponents) Close() {
	if err := c.publisher.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing event publisher")
	}
}

// initEvents builds the recommendation event publisher. It returns nil when
// events are disabled. With an embedded broker, the broker is started here
// so a bad port fails startup, then handed to the messaging layer.
func initEvents(cfg *config.Config, tree *supervisor.SupervisorTree) (*eventComponents, error) {
	if !cfg.Events.Enabled {
		logging.Info().Msg("Recommendation events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	evCfg := cfg.Events
	var broker *events.EmbeddedServer

	if evCfg.Backend == config.EventsBackendNATS && evCfg.Embedded {
		host, port := evCfg.EmbeddedHost, evCfg.EmbeddedPort
		srv, err := events.NewEmbeddedServer(host, port)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		broker = srv
		evCfg.NATSURL = srv.ClientURL()

		restart := func() (services.Broker, error) {
			s, err := events.NewEmbeddedServer(host, port)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		tree.AddMessagingService(services.NewEmbeddedNATSService(srv, restart, services.EmbeddedNATSConfig{
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		}, logging.Logger()))
		logging.Info().Str("url", config.RedactURL(evCfg.NATSURL)).Msg("Embedded NATS server added to supervisor tree")
	}

	publisher, err := events.NewPublisher(evCfg, nil)
	if err != nil {
		if broker != nil {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			_ = broker.Shutdown(ctx)
		}
		return nil, err
	}

	logging.Info().
		Str("backend", publisher.Backend()).
		Str("topic", evCfg.Topic).
		Dur("publish_timeout", evCfg.PublishTimeout).
		Msg("Recommendation events enabled")

	return &eventComponents{
		publisher: publisher,
		notifier:  events.NewNotifier(publisher, evCfg.Topic, evCfg.PublishTimeout, logging.Logger()),
	}, nil
}
