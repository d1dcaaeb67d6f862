// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package config provides centralized configuration management for MovieMatch.

Configuration is loaded with Koanf v2 from three layers, highest priority last:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/moviematch/config.yaml, /etc/moviematch/config.yml
 3. Environment variables, mapped explicitly through envMappings

Unmapped environment variables are ignored. The merged result is validated
before Load returns, and all section errors are reported together.

# Configuration Structure

  - ServerConfig: HTTP listener and timeouts
  - LoggingConfig: zerolog level, format and caller info
  - DataConfig: which repository supplies the corpus, plus retry and
    circuit breaker settings for remote sources
  - RecommendConfig: engine tunables (neighbors, candidates, top N, mean
    mode, workers) and synthetic-user eviction
  - MongoConfig, RedisConfig, BadgerConfig, DuckDBConfig: per-source settings
  - EventsConfig: recommendation event publishing (gochannel or NATS)
  - SecurityConfig: CORS and per-IP rate limiting

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_REQUEST_TIMEOUT: Per-request deadline (default: 10s)
  - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 15s)

Data:
  - DATA_SOURCE: csv, duckdb, badger, mongo or redis (default: csv)
  - RATINGS_PATH: MovieLens ratings.csv (default: data/ratings.csv)
  - MOVIES_PATH: MovieLens movies.csv (default: data/movies.csv)
  - DATA_RETRY_ATTEMPTS, DATA_RETRY_BACKOFF: remote source retries (default: 3, 2s)
  - BREAKER_FAILURE_THRESHOLD, BREAKER_TIMEOUT: circuit breaker (default: 3, 30s)

Recommend:
  - RECOMMEND_NEIGHBORS: Neighborhood size k (default: 10)
  - RECOMMEND_CANDIDATES: Movies offered for rating (default: 20)
  - RECOMMEND_TOP_N: Predictions returned, fixed at 10 unless
    RECOMMEND_ALLOW_CUSTOM_TOPN=true
  - RECOMMEND_MEAN_MODE: full or common (default: full)
  - RECOMMEND_MAX_SYNTHETIC, RECOMMEND_SYNTHETIC_TTL: eviction (default: disabled)

Sources:
  - MONGODB_URI, MONGODB_DATABASE
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX
  - BADGER_PATH, BADGER_IN_MEMORY
  - DUCKDB_PATH, DUCKDB_RATINGS_QUERY, DUCKDB_MOVIES_QUERY

Events:
  - EVENTS_ENABLED: Publish a message per recommendation run (default: false)
  - EVENTS_BACKEND: channel or nats (default: channel)
  - NATS_URL, NATS_EMBEDDED, NATS_EMBEDDED_PORT

Security:
  - CORS_ORIGINS: Comma-separated origins, "*" allowed
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: Global per-IP limit (default: 100/1m)
  - RECOMMEND_RATE_LIMIT_REQUESTS: Per-IP limit for POST /api/v1/recommendations (default: 30)
  - DISABLE_RATE_LIMIT: Turn off rate limiting

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := recommend.NewEngine(corpus, cfg.EngineConfig(), logging.Logger())
*/
package config
