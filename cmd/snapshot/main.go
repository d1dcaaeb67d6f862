// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Command snapshot copies the corpus from the configured source into a
// Badger directory or Redis so later startups can load it with
// DATA_SOURCE=badger or DATA_SOURCE=redis.
//
//	RATINGS_PATH=data/ratings.csv MOVIES_PATH=data/movies.csv \
//	BADGER_PATH=/var/lib/moviematch ./moviematch-snapshot -to badger
//
//	DATA_SOURCE=duckdb REDIS_ADDR=localhost:6379 ./moviematch-snapshot -to redis -verify
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/repository"
)

func main() {
	to := flag.String("to", "", "snapshot target: badger or redis")
	from := flag.String("from", "", "source override (default: data.source)")
	verify := flag.Bool("verify", false, "reload the snapshot and compare counts")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -to badger|redis [-from source] [-verify]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *to == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LogConfig())

	if *from != "" {
		cfg.Data.Source = *from
	}
	if cfg.Data.Source == *to {
		logging.Fatal().Str("source", *to).Msg("Snapshot source and target are the same")
	}

	src, err := repository.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create source repository")
	}
	defer closeLoader(src)

	dst, err := repository.NewStore(cfg, *to)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create snapshot store")
	}
	defer closeLoader(dst)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := copySnapshot(ctx, src, dst, cfg.Data.LoadTimeout, *verify)
	if err != nil {
		logging.Error().Err(err).Msg("Snapshot failed")
		stop()
		closeLoader(src)
		closeLoader(dst)
		os.Exit(1)
	}

	logging.Info().
		Str("from", src.Name()).
		Str("to", dst.Name()).
		Int("ratings", sum.Ratings).
		Int("movies", sum.Movies).
		Bool("verified", sum.Verified).
		Msg("Snapshot complete")
}

func closeLoader(l repository.Loader) {
	if err := repository.Close(l); err != nil {
		logging.Warn().Err(err).Str("repository", l.Name()).Msg("Error closing repository")
	}
}
