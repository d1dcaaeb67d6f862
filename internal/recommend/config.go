// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// DefaultTopN is the number of predictions returned per recommendation run.
const DefaultTopN = 10

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Neighbors is the neighborhood size k.
	// Default: 10.
	Neighbors int `json:"neighbors"`

	// Candidates is the number of movies shown to a new user for rating.
	// Default: 20.
	Candidates int `json:"candidates"`

	// TopN is the number of predictions returned.
	// Fixed at 10 unless AllowCustomTopN is set.
	TopN int `json:"top_n"`

	// AllowCustomTopN permits a TopN other than DefaultTopN.
	AllowCustomTopN bool `json:"allow_custom_top_n"`

	// MeanMode selects which ratings the Pearson means are taken over.
	// Default: MeanFull.
	MeanMode MeanMode `json:"mean_mode"`

	// Workers is the number of goroutines used for neighbor search.
	// Values <= 1 run sequentially.
	// Default: 1.
	Workers int `json:"workers"`

	// Eviction bounds growth of synthetic users.
	Eviction EvictionConfig `json:"eviction"`
}

// EvictionConfig controls removal of users registered at runtime.
// Users loaded from the repository are never evicted.
type EvictionConfig struct {
	// MaxSyntheticUsers caps the number of runtime users retained.
	// Zero disables the cap.
	MaxSyntheticUsers int `json:"max_synthetic_users"`

	// TTL is how long a runtime user is retained.
	// Zero disables expiry.
	TTL time.Duration `json:"ttl"`

	// Interval is how often expired users are swept.
	// Default: 1m.
	Interval time.Duration `json:"interval"`
}

// Enabled reports whether any eviction policy is active.
func (e EvictionConfig) Enabled() bool {
	return e.MaxSyntheticUsers > 0 || e.TTL > 0
}

// DefaultConfig returns a Config with the reference defaults.
func DefaultConfig() *Config {
	return &Config{
		Neighbors:  10,
		Candidates: 20,
		TopN:       DefaultTopN,
		MeanMode:   MeanFull,
		Workers:    1,
		Eviction: EvictionConfig{
			Interval: time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.Candidates < 1 {
		return fmt.Errorf("candidates must be positive, got %d", c.Candidates)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.TopN != DefaultTopN && !c.AllowCustomTopN {
		return fmt.Errorf("top_n is fixed at %d, got %d (set allow_custom_top_n to override)", DefaultTopN, c.TopN)
	}
	if !c.MeanMode.Valid() {
		return fmt.Errorf("mean_mode must be %q or %q, got %q", MeanFull, MeanCommon, c.MeanMode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.Eviction.MaxSyntheticUsers < 0 {
		return fmt.Errorf("eviction.max_synthetic_users must be non-negative, got %d", c.Eviction.MaxSyntheticUsers)
	}
	if c.Eviction.TTL < 0 {
		return fmt.Errorf("eviction.ttl must be non-negative, got %v", c.Eviction.TTL)
	}
	if c.Eviction.TTL > 0 && c.Eviction.Interval <= 0 {
		return fmt.Errorf("eviction.interval must be positive when ttl is set, got %v", c.Eviction.Interval)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All fields are value types
	clone := *c
	return &clone
}

// MarshalJSON implements custom JSON marshaling for duration fields.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Eviction struct {
			MaxSyntheticUsers int    `json:"max_synthetic_users"`
			TTL               string `json:"ttl"`
			Interval          string `json:"interval"`
		} `json:"eviction"`
	}{
		Alias: (*Alias)(c),
		Eviction: struct {
			MaxSyntheticUsers int    `json:"max_synthetic_users"`
			TTL               string `json:"ttl"`
			Interval          string `json:"interval"`
		}{
			MaxSyntheticUsers: c.Eviction.MaxSyntheticUsers,
			TTL:               c.Eviction.TTL.String(),
			Interval:          c.Eviction.Interval.String(),
		},
	})
}
