// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Resilient wraps a Loader with a circuit breaker and bounded retry.
//
// Attempt n (1-based) that fails waits n*backoff before the next one.
// The breaker trips after FailureThreshold consecutive failures and
// rejects calls until Timeout has passed.
//
// The breaker uses real time for its interval and timeout. Tests should
// keep Timeout large and assert on rejection, not on recovery timing.
type Resilient struct {
	loader   Loader
	cb       *gobreaker.CircuitBreaker[*recommend.Dataset]
	name     string
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewResilient wraps loader using the retry and breaker settings in cfg.
func NewResilient(loader Loader, cfg config.DataConfig) *Resilient {
	cbName := "repository-" + loader.Name()
	threshold := cfg.Breaker.FailureThreshold

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*recommend.Dataset](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logging.Warn().
					Str("breaker", cbName).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Resilient{
		loader:   loader,
		cb:       cb,
		name:     cbName,
		attempts: attempts,
		backoff:  cfg.RetryBackoff,
		sleep:    sleepContext,
	}
}

// Name implements Loader.
func (r *Resilient) Name() string { return r.loader.Name() }

// State returns the current breaker state.
func (r *Resilient) State() gobreaker.State { return r.cb.State() }

// Close closes the wrapped loader.
func (r *Resilient) Close() error { return Close(r.loader) }

// Load implements Loader.
func (r *Resilient) Load(ctx context.Context) (*recommend.Dataset, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		ds, err := r.execute(ctx)
		if err == nil {
			return ds, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt == r.attempts {
			break
		}

		wait := time.Duration(attempt) * r.backoff
		logging.Warn().
			Err(err).
			Str("source", r.loader.Name()).
			Int("attempt", attempt).
			Int("max_attempts", r.attempts).
			Dur("retry_in", wait).
			Msg("Corpus load failed, retrying")

		if err := r.sleep(ctx, wait); err != nil {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.attempts, lastErr)
}

// execute wraps one load with circuit breaker protection
func (r *Resilient) execute(ctx context.Context) (*recommend.Dataset, error) {
	ds, err := r.cb.Execute(func() (*recommend.Dataset, error) {
		return r.loader.Load(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			// Circuit is open or too many concurrent requests in half-open state
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", r.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(r.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(r.name, "success").Inc()
	return ds, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
