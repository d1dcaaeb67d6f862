// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/moviematch/internal/recommend"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			envVars: map[string]string{},
			wantErr: false,
		},
		{
			name: "custom port",
			envVars: map[string]string{
				"HTTP_PORT": "9000",
			},
			wantErr: false,
		},
		{
			name: "invalid port",
			envVars: map[string]string{
				"HTTP_PORT": "70000",
			},
			wantErr: true,
			errMsg:  "HTTP_PORT must be between 1 and 65535",
		},
		{
			name: "mongo without uri",
			envVars: map[string]string{
				"DATA_SOURCE": "mongo",
			},
			wantErr: true,
			errMsg:  "MONGODB_URI is required",
		},
		{
			name: "mongo with bad scheme",
			envVars: map[string]string{
				"DATA_SOURCE": "mongo",
				"MONGODB_URI": "postgres://localhost:5432",
			},
			wantErr: true,
			errMsg:  "scheme must be mongodb or mongodb+srv",
		},
		{
			name: "valid mongo",
			envVars: map[string]string{
				"DATA_SOURCE": "mongo",
				"MONGODB_URI": "mongodb://localhost:27017",
			},
			wantErr: false,
		},
		{
			name: "redis source",
			envVars: map[string]string{
				"DATA_SOURCE": "redis",
				"REDIS_ADDR":  "cache:6379",
			},
			wantErr: false,
		},
		{
			name: "non-default top n",
			envVars: map[string]string{
				"RECOMMEND_TOP_N": "5",
			},
			wantErr: true,
			errMsg:  "top_n is fixed at 10",
		},
		{
			name: "custom top n allowed",
			envVars: map[string]string{
				"RECOMMEND_TOP_N":             "5",
				"RECOMMEND_ALLOW_CUSTOM_TOPN": "true",
			},
			wantErr: false,
		},
		{
			name: "invalid mean mode",
			envVars: map[string]string{
				"RECOMMEND_MEAN_MODE": "median",
			},
			wantErr: true,
			errMsg:  "mean_mode",
		},
		{
			name: "events nats with bad url",
			envVars: map[string]string{
				"EVENTS_ENABLED": "true",
				"EVENTS_BACKEND": "nats",
				"NATS_URL":       "http://localhost:4222",
			},
			wantErr: true,
			errMsg:  "NATS_URL is invalid",
		},
		{
			name: "events embedded nats",
			envVars: map[string]string{
				"EVENTS_ENABLED":     "true",
				"EVENTS_BACKEND":     "nats",
				"NATS_EMBEDDED":      "true",
				"NATS_EMBEDDED_PORT": "14222",
			},
			wantErr: false,
		},
		{
			name: "invalid cors origin",
			envVars: map[string]string{
				"CORS_ORIGINS": "ftp://files.example.com",
			},
			wantErr: true,
			errMsg:  "CORS_ORIGINS scheme must be http or https",
		},
		{
			name: "wildcard cors origin",
			envVars: map[string]string{
				"CORS_ORIGINS": "*",
			},
			wantErr: false,
		},
		{
			name: "rate limit zero",
			envVars: map[string]string{
				"RATE_LIMIT_REQUESTS": "0",
			},
			wantErr: true,
			errMsg:  "RATE_LIMIT_REQUESTS must be at least 1",
		},
		{
			name: "rate limit zero but disabled",
			envVars: map[string]string{
				"RATE_LIMIT_REQUESTS": "0",
				"DISABLE_RATE_LIMIT":  "true",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Load() error = %q, want it to contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}
			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}
		})
	}
}

func TestValidate_JoinsSectionErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	cfg.Data.Source = "postgres"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
	for _, want := range []string{"HTTP_PORT", "DATA_SOURCE", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), want)
		}
	}
}

func TestValidateData(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "csv defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "csv without movies path",
			mutate:  func(c *Config) { c.Data.MoviesPath = "" },
			wantErr: "MOVIES_PATH is required when DATA_SOURCE=csv",
		},
		{
			name: "duckdb with queries needs no paths",
			mutate: func(c *Config) {
				c.Data.Source = SourceDuckDB
				c.Data.RatingsPath = ""
				c.Data.MoviesPath = ""
				c.DuckDB.RatingsQuery = "SELECT 1, 1, 4.0"
				c.DuckDB.MoviesQuery = "SELECT 1, 'Toy Story', ''"
			},
		},
		{
			name: "duckdb without queries needs paths",
			mutate: func(c *Config) {
				c.Data.Source = SourceDuckDB
				c.Data.RatingsPath = ""
			},
			wantErr: "RATINGS_PATH is required when DATA_SOURCE=duckdb",
		},
		{
			name: "badger in memory",
			mutate: func(c *Config) {
				c.Data.Source = SourceBadger
				c.Badger.Path = ""
				c.Badger.InMemory = true
			},
		},
		{
			name: "badger without path",
			mutate: func(c *Config) {
				c.Data.Source = SourceBadger
				c.Badger.Path = ""
			},
			wantErr: "BADGER_PATH is required",
		},
		{
			name: "redis without addr",
			mutate: func(c *Config) {
				c.Data.Source = SourceRedis
				c.Redis.Addr = ""
			},
			wantErr: "REDIS_ADDR is required",
		},
		{
			name: "remote with zero retries",
			mutate: func(c *Config) {
				c.Data.Source = SourceRedis
				c.Data.RetryAttempts = 0
			},
			wantErr: "DATA_RETRY_ATTEMPTS must be at least 1",
		},
		{
			name: "remote with zero breaker threshold",
			mutate: func(c *Config) {
				c.Data.Source = SourceRedis
				c.Data.Breaker.FailureThreshold = 0
			},
			wantErr: "BREAKER_FAILURE_THRESHOLD must be at least 1",
		},
		{
			name: "mongo without database",
			mutate: func(c *Config) {
				c.Data.Source = SourceMongo
				c.Mongo.URI = "mongodb+srv://cluster.example.net"
				c.Mongo.Database = ""
			},
			wantErr: "MONGODB_DATABASE is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.validateData()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateData() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateData() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEvents(t *testing.T) {
	tests := []struct {
		name    string
		events  EventsConfig
		wantErr bool
	}{
		{"disabled ignores everything", EventsConfig{Enabled: false, Backend: "kafka"}, false},
		{"channel backend", EventsConfig{Enabled: true, Backend: EventsBackendChannel, Topic: "t"}, false},
		{"missing topic", EventsConfig{Enabled: true, Backend: EventsBackendChannel}, true},
		{"unknown backend", EventsConfig{Enabled: true, Backend: "kafka", Topic: "t"}, true},
		{"nats url", EventsConfig{Enabled: true, Backend: EventsBackendNATS, Topic: "t", NATSURL: "nats://nats:4222"}, false},
		{"nats tls url", EventsConfig{Enabled: true, Backend: EventsBackendNATS, Topic: "t", NATSURL: "tls://nats:4222"}, false},
		{"nats missing host", EventsConfig{Enabled: true, Backend: EventsBackendNATS, Topic: "t", NATSURL: "nats://"}, true},
		{"embedded bad port", EventsConfig{Enabled: true, Backend: EventsBackendNATS, Topic: "t", Embedded: true, EmbeddedPort: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Events = tt.events
			err := cfg.validateEvents()
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEvents() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://app.example.com", false},
		{"http://localhost:3000", false},
		{"https://app.example.com/", false},
		{"https://app.example.com/path", true},
		{"https://app.example.com?x=1", true},
		{"ws://app.example.com", true},
		{"https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateHTTPURL(tt.url, "CORS_ORIGINS")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNATSURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"nats://localhost:4222", false},
		{"nats://a:4222, nats://b:4222", false},
		{"tls://nats.example.com", false},
		{"http://localhost:4222", true},
		{"nats://a:4222,localhost", true},
		{"nats://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateNATSURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"mongodb://localhost:27017", "mongodb://localhost:27017"},
		{"mongodb://reader:s3cret@db:27017/movielens", "mongodb://reader:xxxxx@db:27017/movielens"},
		{"nats://user@broker:4222", "nats://user@broker:4222"},
		{"mongodb://%zz", "[invalid url]"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := RedactURL(tt.in); got != tt.want {
				t.Errorf("RedactURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasWildcardCORS(t *testing.T) {
	cfg := defaultConfig()
	if cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = true for empty origins, want false")
	}
	cfg.Security.CORSOrigins = []string{"https://a.example.com", " * "}
	if !cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = false, want true")
	}
}

func TestDataConfigIsRemote(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{SourceCSV, false},
		{SourceDuckDB, false},
		{SourceBadger, false},
		{SourceMongo, true},
		{SourceRedis, true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := (DataConfig{Source: tt.source}).IsRemote(); got != tt.want {
				t.Errorf("IsRemote() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.Neighbors = 15
	cfg.Recommend.MeanMode = "common"
	cfg.Recommend.Workers = 4
	cfg.Recommend.Eviction.MaxSyntheticUsers = 500
	cfg.Recommend.Eviction.TTL = time.Hour

	ec := cfg.EngineConfig()
	if ec.Neighbors != 15 {
		t.Errorf("Neighbors = %d, want 15", ec.Neighbors)
	}
	if ec.MeanMode != recommend.MeanCommon {
		t.Errorf("MeanMode = %q, want %q", ec.MeanMode, recommend.MeanCommon)
	}
	if ec.Workers != 4 {
		t.Errorf("Workers = %d, want 4", ec.Workers)
	}
	if ec.Eviction.MaxSyntheticUsers != 500 || ec.Eviction.TTL != time.Hour {
		t.Errorf("Eviction = %+v, want {500 1h ...}", ec.Eviction)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("EngineConfig().Validate() = %v, want nil", err)
	}
}

func TestLogConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging = LoggingConfig{Level: "debug", Format: "console", Caller: true}

	lc := cfg.LogConfig()
	if lc.Level != "debug" {
		t.Errorf("Level = %q, want debug", lc.Level)
	}
	if lc.Format != "console" {
		t.Errorf("Format = %q, want console", lc.Format)
	}
	if !lc.Caller {
		t.Error("Caller = false, want true")
	}

	cfg.Logging.Format = ""
	if lc := cfg.LogConfig(); lc.Format == "" {
		t.Error("LogConfig() with empty format should keep the logging default")
	}
}
