// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/events"
)

// ErrBrokerStopped is returned from Serve when the embedded broker stops
// without being asked to, so suture restarts it.
var ErrBrokerStopped = errors.New("embedded NATS server stopped")

// Broker is the lifecycle of an embedded NATS server.
type Broker interface {
	ClientURL() string
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

var _ Broker = (*events.EmbeddedServer)(nil)

// BrokerFactory starts a new broker.
type BrokerFactory func() (Broker, error)

// EmbeddedNATSConfig tunes the broker service.
type EmbeddedNATSConfig struct {
	// HealthInterval is how often the broker is checked. Default: 5s.
	HealthInterval time.Duration

	// ShutdownTimeout bounds broker shutdown. Default: 10s.
	ShutdownTimeout time.Duration
}

// EmbeddedNATSService keeps an embedded nats-server alive.
//
// The broker passed to the constructor is usually started eagerly by
// cmd/server so startup fails fast on a bad port. Every later run of Serve
// (after a crash) starts a fresh broker through the factory.
type EmbeddedNATSService struct {
	broker Broker
	start  BrokerFactory
	config EmbeddedNATSConfig
	logger zerolog.Logger

	mu  sync.RWMutex
	url string
}

// NewEmbeddedNATSService creates the service. broker may be nil.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewEmbeddedNATSService(broker Broker, start BrokerFactory, cfg EmbeddedNATSConfig, logger zerolog.Logger) *EmbeddedNATSService {
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = 5 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &EmbeddedNATSService{
		broker: broker,
		start:  start,
		config: cfg,
		logger: logger.With().Str("service", "embedded-nats").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EmbeddedNATSService) Serve(ctx context.Context) error {
	broker := s.broker
	s.broker = nil
	if broker == nil || !broker.IsRunning() {
		if s.start == nil {
			return fmt.Errorf("%w: no factory to restart it", ErrBrokerStopped)
		}
		var err error
		broker, err = s.start()
		if err != nil {
			return fmt.Errorf("start embedded NATS server: %w", err)
		}
	}

	s.setURL(broker.ClientURL())
	defer s.setURL("")
	s.logger.Info().Str("url", broker.ClientURL()).Msg("Embedded NATS server running")

	ticker := time.NewTicker(s.config.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
			defer cancel()
			if err := broker.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn().Err(err).Msg("Embedded NATS server shutdown incomplete")
			}
			return ctx.Err()

		case <-ticker.C:
			if !broker.IsRunning() {
				s.logger.Error().Msg("Embedded NATS server stopped, restarting")
				return ErrBrokerStopped
			}
		}
	}
}

// ClientURL returns the URL of the running broker, or "" between runs.
func (s *EmbeddedNATSService) ClientURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

func (s *EmbeddedNATSService) setURL(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
}

func (s *EmbeddedNATSService) String() string {
	return "embedded-nats"
}
