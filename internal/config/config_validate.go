// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/moviematch/internal/logging"
)

// validLogFormats enumerates the supported log output formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that the configuration is usable.
// All section errors are reported together.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateLogging(),
		c.validateData(),
		c.validateRecommend(),
		c.validateEvents(),
		c.validateSecurity(),
	)
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must not be negative, got %v", c.Server.RequestTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console, got %q", c.Logging.Format)
	}
	return nil
}

// validateData validates the selected data source and its section
func (c *Config) validateData() error {
	switch c.Data.Source {
	case SourceCSV:
		return c.validateCSVPaths()
	case SourceDuckDB:
		if c.DuckDB.RatingsQuery == "" || c.DuckDB.MoviesQuery == "" {
			return c.validateCSVPaths()
		}
		return nil
	case SourceBadger:
		if c.Badger.Path == "" && !c.Badger.InMemory {
			return fmt.Errorf("BADGER_PATH is required when DATA_SOURCE=badger")
		}
		return nil
	case SourceMongo:
		if err := c.validateMongo(); err != nil {
			return err
		}
		return c.validateRetry()
	case SourceRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when DATA_SOURCE=redis")
		}
		return c.validateRetry()
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: csv, duckdb, badger, mongo, redis, got %q", c.Data.Source)
	}
}

// validateCSVPaths validates MovieLens CSV file paths
func (c *Config) validateCSVPaths() error {
	if c.Data.RatingsPath == "" {
		return fmt.Errorf("RATINGS_PATH is required when DATA_SOURCE=%s", c.Data.Source)
	}
	if c.Data.MoviesPath == "" {
		return fmt.Errorf("MOVIES_PATH is required when DATA_SOURCE=%s", c.Data.Source)
	}
	return nil
}

// validateMongo validates MongoDB settings
func (c *Config) validateMongo() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI is required when DATA_SOURCE=mongo")
	}
	if err := validateMongoURI(c.Mongo.URI); err != nil {
		return fmt.Errorf("MONGODB_URI is invalid: %w", err)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGODB_DATABASE is required when DATA_SOURCE=mongo")
	}
	return nil
}

// validateRetry validates retry and circuit breaker settings for remote sources
func (c *Config) validateRetry() error {
	if c.Data.RetryAttempts < 1 {
		return fmt.Errorf("DATA_RETRY_ATTEMPTS must be at least 1, got %d", c.Data.RetryAttempts)
	}
	if c.Data.RetryBackoff < 0 {
		return fmt.Errorf("DATA_RETRY_BACKOFF must not be negative, got %v", c.Data.RetryBackoff)
	}
	if c.Data.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if c.Data.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %v", c.Data.Breaker.Timeout)
	}
	return nil
}

// validateRecommend delegates to the engine's own validation
func (c *Config) validateRecommend() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateEvents validates event publishing settings (only if enabled)
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required when EVENTS_ENABLED=true")
	}
	switch c.Events.Backend {
	case EventsBackendChannel:
		return nil
	case EventsBackendNATS:
		if c.Events.Embedded {
			return validatePort(c.Events.EmbeddedPort, "NATS_EMBEDDED_PORT")
		}
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of: channel, nats, got %q", c.Events.Backend)
	}
}

// validateSecurity validates CORS and rate limiting configuration
func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limit values
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RecommendRateLimitReqs < 1 {
		return fmt.Errorf("RECOMMEND_RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RecommendRateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

func validatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", fieldName, port)
	}
	return nil
}
