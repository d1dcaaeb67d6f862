// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviematch/config.yaml",
	"/etc/moviematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			Source:        SourceCSV,
			RatingsPath:   "data/ratings.csv",
			MoviesPath:    "data/movies.csv",
			LoadTimeout:   2 * time.Minute,
			RetryAttempts: 3,
			RetryBackoff:  2 * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 3,
			},
		},
		Recommend: RecommendConfig{
			Neighbors:  10,
			Candidates: 20,
			TopN:       10,
			MeanMode:   "full",
			Workers:    1,
			Eviction: EvictionConfig{
				MaxSyntheticUsers: 0, // Disabled by default
				TTL:               0, // Disabled by default
				Interval:          time.Minute,
			},
		},
		Mongo: MongoConfig{
			URI:               "",
			Database:          "movielens",
			MoviesCollection:  "movies",
			RatingsCollection: "ratings",
			ConnectTimeout:    10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			DB:        0,
			KeyPrefix: "moviematch:",
		},
		Badger: BadgerConfig{
			Path:     "/data/moviematch/badger",
			InMemory: false,
		},
		DuckDB: DuckDBConfig{
			Path:      "", // In-memory
			Threads:   0,
			MaxMemory: "1GB",
		},
		Events: EventsConfig{
			Enabled:        false,
			Backend:        EventsBackendChannel,
			Topic:          "moviematch.recommendations",
			NATSURL:        "nats://127.0.0.1:4222",
			Embedded:       false,
			EmbeddedHost:   "127.0.0.1",
			EmbeddedPort:   4222,
			PublishTimeout: 2 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:            []string{},
			RateLimitReqs:          100,
			RateLimitWindow:        time.Minute,
			RateLimitDisabled:      false,
			RecommendRateLimitReqs: 30,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults. The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, RECOMMEND_NEIGHBORS -> recommend.neighbors
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML values are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_request_timeout":  "server.request_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Data source mappings
	"data_source":               "data.source",
	"ratings_path":              "data.ratings_path",
	"movies_path":               "data.movies_path",
	"data_load_timeout":         "data.load_timeout",
	"data_retry_attempts":       "data.retry_attempts",
	"data_retry_backoff":        "data.retry_backoff",
	"breaker_max_requests":      "data.breaker.max_requests",
	"breaker_interval":          "data.breaker.interval",
	"breaker_timeout":           "data.breaker.timeout",
	"breaker_failure_threshold": "data.breaker.failure_threshold",

	// Recommend mappings
	"recommend_neighbors":         "recommend.neighbors",
	"recommend_candidates":        "recommend.candidates",
	"recommend_top_n":             "recommend.top_n",
	"recommend_allow_custom_topn": "recommend.allow_custom_top_n",
	"recommend_mean_mode":         "recommend.mean_mode",
	"recommend_workers":           "recommend.workers",
	"recommend_max_synthetic":     "recommend.eviction.max_synthetic_users",
	"recommend_synthetic_ttl":     "recommend.eviction.ttl",
	"recommend_eviction_interval": "recommend.eviction.interval",

	// MongoDB mappings
	"mongodb_uri":                "mongo.uri",
	"mongodb_database":           "mongo.database",
	"mongodb_movies_collection":  "mongo.movies_collection",
	"mongodb_ratings_collection": "mongo.ratings_collection",
	"mongodb_connect_timeout":    "mongo.connect_timeout",

	// Redis mappings
	"redis_addr":       "redis.addr",
	"redis_password":   "redis.password",
	"redis_db":         "redis.db",
	"redis_key_prefix": "redis.key_prefix",

	// Badger mappings
	"badger_path":      "badger.path",
	"badger_in_memory": "badger.in_memory",

	// DuckDB mappings
	"duckdb_path":          "duckdb.path",
	"duckdb_ratings_query": "duckdb.ratings_query",
	"duckdb_movies_query":  "duckdb.movies_query",
	"duckdb_threads":       "duckdb.threads",
	"duckdb_max_memory":    "duckdb.max_memory",

	// Events mappings
	"events_enabled":         "events.enabled",
	"events_backend":         "events.backend",
	"events_topic":           "events.topic",
	"events_publish_timeout": "events.publish_timeout",
	"nats_url":               "events.nats_url",
	"nats_embedded":          "events.embedded",
	"nats_embedded_host":     "events.embedded_host",
	"nats_embedded_port":     "events.embedded_port",

	// Security mappings
	"cors_origins":                  "security.cors_origins",
	"rate_limit_requests":           "security.rate_limit_reqs",
	"rate_limit_window":             "security.rate_limit_window",
	"disable_rate_limit":            "security.rate_limit_disabled",
	"recommend_rate_limit_requests": "security.recommend_rate_limit_reqs",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATA_SOURCE -> data.source
//   - RECOMMEND_NEIGHBORS -> recommend.neighbors
//   - MONGODB_URI -> mongo.uri
//   - NATS_URL -> events.nats_url
//
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
