// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/moviematch/internal/api"
	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/repository"
	"github.com/tomtom215/moviematch/internal/supervisor"
	"github.com/tomtom215/moviematch/internal/supervisor/services"
)

//nolint:gocyclo // sequential startup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LogConfig())
	logging.Info().
		Str("source", cfg.Data.Source).
		Int("neighbors", cfg.Recommend.Neighbors).
		Str("mean_mode", cfg.Recommend.MeanMode).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting MovieMatch")
	if cfg.Data.Source == config.SourceMongo {
		logging.Info().Str("uri", config.RedactURL(cfg.Mongo.URI)).Str("database", cfg.Mongo.Database).Msg("Reading corpus from MongoDB")
	}

	// === CORPUS ===

	loader, err := repository.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create repository")
	}
	ds, err := repository.LoadDataset(context.Background(), loader, cfg.Data.LoadTimeout)
	if closeErr := repository.Close(loader); closeErr != nil {
		logging.Warn().Err(closeErr).Msg("Error closing repository")
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load corpus")
	}

	corpus := recommend.NewCorpus(ds)
	engine, err := recommend.NewEngine(corpus, cfg.EngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	stats := engine.Stats()
	metrics.UpdateCorpusGauges(stats.Users, stats.SyntheticUsers, stats.Items, stats.Ratings)
	logging.Info().
		Int("users", stats.Users).
		Int("items", stats.Items).
		Int("ratings", stats.Ratings).
		Msg("Corpus ready")
	if !engine.Ready() {
		logging.Warn().Msg("Corpus is empty, recommendations will return CORPUS_UNAVAILABLE")
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	eventComponents, err := initEvents(cfg, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize events")
	}
	if eventComponents != nil {
		engine.SetNotifier(eventComponents.notifier)
		defer eventComponents.Close()
	}

	if cfg.Recommend.Eviction.TTL > 0 {
		tree.AddDataService(services.NewEvictionService(engine, cfg.Recommend.Eviction.Interval, logging.Logger()))
		logging.Info().
			Dur("ttl", cfg.Recommend.Eviction.TTL).
			Dur("interval", cfg.Recommend.Eviction.Interval).
			Msg("Eviction sweeper added to supervisor tree")
	}
	if limit := cfg.Recommend.Eviction.MaxSyntheticUsers; limit > 0 {
		logging.Info().Int("max_synthetic_users", limit).Msg("Synthetic user cap enabled")
	}

	// === HTTP ===

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(engine, loader.Name(), cfg.Server.RequestTimeout)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.Logger()))

	// === RUN ===

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	m := engine.Metrics()
	logging.Info().
		Int64("requests", m.Requests).
		Int64("errors", m.Errors).
		Int64("evicted", m.Evicted).
		Msg("MovieMatch stopped")
}
