// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Command cli asks for ratings of popular movies on stdin and prints the
// top predictions.
//
//	RATINGS_PATH=data/ratings.csv MOVIES_PATH=data/movies.csv ./moviematch-cli
//
// It uses the same configuration and repository as the server. Logs go to
// stderr at warn level unless -v is given.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/repository"
)

func main() {
	verbose := flag.Bool("v", false, "log at info level")
	candidates := flag.Int("n", 0, "number of movies to rate (default: recommend.candidates)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := cfg.LogConfig()
	logCfg.Format = "console"
	logCfg.Output = os.Stderr
	if !*verbose {
		logCfg.Level = "warn"
	}
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, err := repository.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create repository")
	}
	ds, err := repository.LoadDataset(ctx, loader, cfg.Data.LoadTimeout)
	if closeErr := repository.Close(loader); closeErr != nil {
		logging.Warn().Err(closeErr).Msg("Error closing repository")
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load corpus")
	}

	engine, err := recommend.NewEngine(recommend.NewCorpus(ds), cfg.EngineConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	n := *candidates
	if n <= 0 {
		n = cfg.Recommend.Candidates
	}

	code := runSession(ctx, engine, n, os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}
