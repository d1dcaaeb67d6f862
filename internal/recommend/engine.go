// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Repositories produce a Dataset, and callers observe results through
// the Notifier hook.

// Notifier is told about every successful recommendation run.
// Implementations must not block for long; they run on the request path.
type Notifier interface {
	RecommendationServed(ctx context.Context, result *Result)
}

// Engine produces rating predictions for new users from a Corpus.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	corpus *Corpus

	notifier   Notifier
	notifierMu sync.RWMutex

	requestCount atomic.Int64
	errorCount   atomic.Int64
	evictedCount atomic.Int64
}

// Metrics contains runtime counters for the engine.
type Metrics struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
	Evicted  int64 `json:"evicted"`
}

// NewEngine creates a new recommendation engine over corpus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(corpus *Corpus, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if corpus == nil {
		return nil, errors.New("corpus is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	corpus.SetEvictionPolicy(cfg.Eviction)

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		corpus: corpus,
	}, nil
}

// SetNotifier registers the hook called after each successful run.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifierMu.Lock()
	defer e.notifierMu.Unlock()
	e.notifier = n
}

// Recommend registers a new user with the given ratings and returns the
// top predictions for every catalog item the user has not rated.
//
// The new user stays in the corpus after the call returns, so later
// requests see it as a potential neighbor. Returns ErrNoRatings for
// empty input and ErrEmptyCorpus when nothing has been loaded.
func (e *Engine) Recommend(ctx context.Context, ratings []ItemRating) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if len(ratings) == 0 {
		return nil, ErrNoRatings
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg, err := e.corpus.AddUser(ratings)
	if err != nil {
		if !errors.Is(err, ErrNoRatings) {
			e.errorCount.Add(1)
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	if reg.Evicted > 0 {
		e.evictedCount.Add(int64(reg.Evicted))
	}

	logger := e.logger.With().Int("user_id", int(reg.UserID)).Logger()
	logger.Debug().
		Int("ratings", len(reg.Ratings)).
		Int("evicted", reg.Evicted).
		Msg("registered new user")

	var (
		neighbors   []Neighbor
		predictions []Prediction
		considered  int
	)
	err = e.corpus.Read(func(t *Table, cat *Catalog) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		considered = t.Len()
		if _, ok := t.Vector(reg.UserID); ok {
			considered--
		}

		neighbors = rankNeighbors(reg.UserID, reg.Ratings, t, e.config.Neighbors, NeighborOptions{
			MeanMode: e.config.MeanMode,
			Workers:  e.config.Workers,
		})
		predictions = e.predictUnrated(reg.Ratings, neighbors, cat)
		return nil
	})
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("score user %d: %w", reg.UserID, err)
	}

	unrated := len(predictions)
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].PredictedRating > predictions[j].PredictedRating
	})
	if len(predictions) > e.config.TopN {
		predictions = predictions[:e.config.TopN]
	}

	result := &Result{
		UserID:      reg.UserID,
		Predictions: predictions,
		Neighbors:   neighbors,
		Metadata: ResultMetadata{
			RatingsCount:    len(reg.Ratings),
			UsersConsidered: considered,
			UnratedItems:    unrated,
			MeanMode:        e.config.MeanMode,
			GeneratedAt:     time.Now(),
		},
	}
	result.Metadata.Latency = time.Since(start)
	result.Metadata.LatencyMS = result.Metadata.Latency.Milliseconds()

	logger.Debug().
		Int("neighbors", len(neighbors)).
		Int("unrated_items", unrated).
		Int("returned", len(predictions)).
		Int64("latency_ms", result.Metadata.LatencyMS).
		Msg("recommendation complete")

	e.notify(ctx, result)
	return result, nil
}

// predictUnrated scores every catalog item missing from rated, in catalog order.
func (e *Engine) predictUnrated(rated RatingVector, neighbors []Neighbor, cat *Catalog) []Prediction {
	seen := rated.index()
	p := newPredictor(neighbors)

	items := cat.Items()
	predictions := make([]Prediction, 0, len(items))
	for _, id := range items {
		if _, ok := seen[id]; ok {
			continue
		}
		meta, _ := cat.Get(id)
		predictions = append(predictions, Prediction{
			ItemID:          id,
			Title:           meta.Title,
			Genres:          nonNil(meta.Genres),
			PredictedRating: p.predict(id),
		})
	}
	return predictions
}

func (e *Engine) notify(ctx context.Context, result *Result) {
	e.notifierMu.RLock()
	n := e.notifier
	e.notifierMu.RUnlock()

	if n != nil {
		n.RecommendationServed(ctx, result)
	}
}

// Candidates returns n popular movies to show a new user. A non-positive
// n uses the configured default.
func (e *Engine) Candidates(n int) []Candidate {
	if n <= 0 {
		n = e.config.Candidates
	}
	return PopularCandidates(e.corpus.Catalog(), n)
}

// Movie returns catalog metadata for id.
func (e *Engine) Movie(id ItemID) (ItemMeta, error) {
	meta, ok := e.corpus.Catalog().Get(id)
	if !ok {
		return ItemMeta{}, fmt.Errorf("movie %d: %w", id, ErrMovieNotFound)
	}
	meta.Genres = nonNil(meta.Genres)
	return meta, nil
}

// RatingCount returns how many loaded users rated the movie.
func (e *Engine) RatingCount(id ItemID) int {
	return e.corpus.Catalog().RatingCount(id)
}

// EvictExpired sweeps runtime users past their TTL.
func (e *Engine) EvictExpired() int {
	n := e.corpus.EvictExpired()
	if n > 0 {
		e.evictedCount.Add(int64(n))
		e.logger.Info().Int("evicted", n).Msg("evicted expired synthetic users")
	}
	return n
}

// Ready reports whether the engine has a non-empty corpus to work from.
func (e *Engine) Ready() bool {
	s := e.corpus.Stats()
	return s.Users > 0 && s.Items > 0
}

// Stats returns corpus size.
func (e *Engine) Stats() Stats {
	return e.corpus.Stats()
}

// Metrics returns engine counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		Requests: e.requestCount.Load(),
		Errors:   e.errorCount.Load(),
		Evicted:  e.evictedCount.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}
