// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"fmt"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
)

// New returns the loader selected by data.source.
// Remote sources are wrapped in a Resilient loader.
func New(cfg *config.Config) (Loader, error) {
	var loader Loader
	switch cfg.Data.Source {
	case config.SourceCSV:
		loader = NewCSVLoader(cfg.Data.RatingsPath, cfg.Data.MoviesPath)
	case config.SourceDuckDB:
		loader = NewDuckDBLoader(cfg.DuckDB, cfg.Data.RatingsPath, cfg.Data.MoviesPath)
	case config.SourceBadger:
		loader = NewBadgerStore(cfg.Badger)
	case config.SourceMongo:
		loader = NewMongoLoader(cfg.Mongo)
	case config.SourceRedis:
		loader = NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	if cfg.Data.IsRemote() {
		loader = NewResilient(loader, cfg.Data)
	}

	logging.Debug().Str("source", loader.Name()).Bool("resilient", cfg.Data.IsRemote()).Msg("Repository selected")
	return loader, nil
}

// NewStore returns a snapshot store for target ("badger" or "redis").
func NewStore(cfg *config.Config, target string) (Store, error) {
	switch target {
	case config.SourceBadger:
		return NewBadgerStore(cfg.Badger), nil
	case config.SourceRedis:
		return NewRedisStore(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("snapshot target must be badger or redis, got %q", target)
	}
}
