// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

const defaultEvictionInterval = time.Minute

// Evictor is the part of *recommend.Engine the sweeper needs.
type Evictor interface {
	EvictExpired() int
	Stats() recommend.Stats
}

var _ Evictor = (*recommend.Engine)(nil)

// EvictionService periodically removes runtime users past their TTL and
// refreshes the corpus gauges.
type EvictionService struct {
	engine   Evictor
	interval time.Duration
	logger   zerolog.Logger
}

// NewEvictionService creates the sweeper. A non-positive interval uses 1m.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewEvictionService(engine Evictor, interval time.Duration, logger zerolog.Logger) *EvictionService {
	if interval <= 0 {
		interval = defaultEvictionInterval
	}
	return &EvictionService{
		engine:   engine,
		interval: interval,
		logger:   logger.With().Str("service", "eviction").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EvictionService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Eviction sweeper starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep runs one eviction pass.
func (s *EvictionService) sweep() int {
	n := s.engine.EvictExpired()
	metrics.RecordEviction(n)

	stats := s.engine.Stats()
	metrics.UpdateCorpusGauges(stats.Users, stats.SyntheticUsers, stats.Items, stats.Ratings)

	if n > 0 {
		s.logger.Debug().
			Int("evicted", n).
			Int("synthetic_users", stats.SyntheticUsers).
			Msg("Eviction sweep complete")
	}
	return n
}

func (s *EvictionService) String() string {
	return "eviction-sweeper"
}
