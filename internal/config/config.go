// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"time"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Data: which repository the corpus is loaded from, plus the
//     per-source sections (Mongo, Redis, Badger, DuckDB)
//  2. Recommend: engine tunables and synthetic-user eviction
//  3. Server and Security: HTTP listener, CORS, rate limiting
//  4. Events: recommendation event publishing (gochannel or NATS)
//  5. Logging
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Redis     RedisConfig     `koanf:"redis"`
	Badger    BadgerConfig    `koanf:"badger"`
	DuckDB    DuckDBConfig    `koanf:"duckdb"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"` // Per-request deadline for recommendation runs
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging output settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to every log entry.
	Caller bool `koanf:"caller"`
}

// Data source identifiers
const (
	SourceCSV    = "csv"
	SourceDuckDB = "duckdb"
	SourceBadger = "badger"
	SourceMongo  = "mongo"
	SourceRedis  = "redis"
)

// DataConfig selects and tunes the corpus repository.
type DataConfig struct {
	// Source is one of csv, duckdb, badger, mongo, redis.
	Source string `koanf:"source"`

	// RatingsPath and MoviesPath point at MovieLens CSV files.
	// Used by the csv source and as the default input of the duckdb source.
	RatingsPath string `koanf:"ratings_path"`
	MoviesPath  string `koanf:"movies_path"`

	// LoadTimeout bounds a full corpus load including retries.
	LoadTimeout time.Duration `koanf:"load_timeout"`

	// RetryAttempts and RetryBackoff apply to remote sources (mongo, redis).
	// Backoff grows linearly: attempt n waits n*RetryBackoff.
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryBackoff  time.Duration `koanf:"retry_backoff"`

	// Breaker configures the circuit breaker around remote sources.
	Breaker BreakerConfig `koanf:"breaker"`
}

// IsRemote reports whether the source is reached over the network.
func (d DataConfig) IsRemote() bool {
	return d.Source == SourceMongo || d.Source == SourceRedis
}

// BreakerConfig holds gobreaker settings.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`      // Requests allowed in half-open state
	Interval         time.Duration `koanf:"interval"`          // Closed-state count reset interval
	Timeout          time.Duration `koanf:"timeout"`           // Open-state duration before half-open
	FailureThreshold uint32        `koanf:"failure_threshold"` // Consecutive failures that trip the breaker
}

// RecommendConfig mirrors recommend.Config in koanf form.
type RecommendConfig struct {
	Neighbors       int            `koanf:"neighbors"`
	Candidates      int            `koanf:"candidates"`
	TopN            int            `koanf:"top_n"`
	AllowCustomTopN bool           `koanf:"allow_custom_top_n"`
	MeanMode        string         `koanf:"mean_mode"`
	Workers         int            `koanf:"workers"`
	Eviction        EvictionConfig `koanf:"eviction"`
}

// EvictionConfig bounds growth of runtime-registered users.
type EvictionConfig struct {
	MaxSyntheticUsers int           `koanf:"max_synthetic_users"`
	TTL               time.Duration `koanf:"ttl"`
	Interval          time.Duration `koanf:"interval"`
}

// MongoConfig holds MongoDB repository settings.
type MongoConfig struct {
	URI               string        `koanf:"uri"`
	Database          string        `koanf:"database"`
	MoviesCollection  string        `koanf:"movies_collection"`
	RatingsCollection string        `koanf:"ratings_collection"`
	ConnectTimeout    time.Duration `koanf:"connect_timeout"`
}

// RedisConfig holds Redis repository settings.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// BadgerConfig holds the Badger snapshot store settings.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// DuckDBConfig holds DuckDB repository settings.
type DuckDBConfig struct {
	// Path is the database file; empty opens an in-memory database.
	Path string `koanf:"path"`

	// RatingsQuery and MoviesQuery override the default read_csv_auto
	// queries over data.ratings_path and data.movies_path.
	RatingsQuery string `koanf:"ratings_query"`
	MoviesQuery  string `koanf:"movies_query"`

	Threads   int    `koanf:"threads"` // 0 = DuckDB default
	MaxMemory string `koanf:"max_memory"`
}

// Event backends
const (
	EventsBackendChannel = "channel"
	EventsBackendNATS    = "nats"
)

// EventsConfig holds recommendation event publishing settings.
type EventsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Backend string `koanf:"backend"` // channel or nats
	Topic   string `koanf:"topic"`

	NATSURL string `koanf:"nats_url"`

	// Embedded starts an in-process nats-server and publishes to it.
	Embedded     bool   `koanf:"embedded"`
	EmbeddedHost string `koanf:"embedded_host"`
	EmbeddedPort int    `koanf:"embedded_port"`

	PublishTimeout time.Duration `koanf:"publish_timeout"`
}

// SecurityConfig holds CORS and rate-limit settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// RecommendRateLimitReqs is the per-IP budget for POST /recommendations
	// within RateLimitWindow.
	RecommendRateLimitReqs int `koanf:"recommend_rate_limit_reqs"`
}

// Load loads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// EngineConfig converts the recommend section to a recommend.Config.
func (c *Config) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Neighbors:       c.Recommend.Neighbors,
		Candidates:      c.Recommend.Candidates,
		TopN:            c.Recommend.TopN,
		AllowCustomTopN: c.Recommend.AllowCustomTopN,
		MeanMode:        recommend.MeanMode(c.Recommend.MeanMode),
		Workers:         c.Recommend.Workers,
		Eviction: recommend.EvictionConfig{
			MaxSyntheticUsers: c.Recommend.Eviction.MaxSyntheticUsers,
			TTL:               c.Recommend.Eviction.TTL,
			Interval:          c.Recommend.Eviction.Interval,
		},
	}
}

// LogConfig converts the logging section to a logging.Config.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	if c.Logging.Format != "" {
		cfg.Format = c.Logging.Format
	}
	cfg.Caller = c.Logging.Caller
	return cfg
}
