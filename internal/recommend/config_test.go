// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Neighbors != 10 {
		t.Errorf("Neighbors = %d, want 10", cfg.Neighbors)
	}
	if cfg.Candidates != 20 {
		t.Errorf("Candidates = %d, want 20", cfg.Candidates)
	}
	if cfg.TopN != DefaultTopN {
		t.Errorf("TopN = %d, want %d", cfg.TopN, DefaultTopN)
	}
	if cfg.MeanMode != MeanFull {
		t.Errorf("MeanMode = %q, want %q", cfg.MeanMode, MeanFull)
	}
	if cfg.Eviction.Enabled() {
		t.Error("Eviction.Enabled() = true, want disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "default is valid", modify: func(c *Config) {}},
		{name: "zero neighbors", modify: func(c *Config) { c.Neighbors = 0 }, wantError: true},
		{name: "zero candidates", modify: func(c *Config) { c.Candidates = 0 }, wantError: true},
		{name: "zero top_n", modify: func(c *Config) { c.TopN = 0 }, wantError: true},
		{name: "custom top_n without override", modify: func(c *Config) { c.TopN = 25 }, wantError: true},
		{name: "custom top_n with override", modify: func(c *Config) {
			c.TopN = 25
			c.AllowCustomTopN = true
		}},
		{name: "unknown mean mode", modify: func(c *Config) { c.MeanMode = "median" }, wantError: true},
		{name: "common mean mode", modify: func(c *Config) { c.MeanMode = MeanCommon }},
		{name: "negative workers", modify: func(c *Config) { c.Workers = -1 }, wantError: true},
		{name: "negative eviction cap", modify: func(c *Config) { c.Eviction.MaxSyntheticUsers = -1 }, wantError: true},
		{name: "negative ttl", modify: func(c *Config) { c.Eviction.TTL = -time.Second }, wantError: true},
		{name: "ttl without interval", modify: func(c *Config) {
			c.Eviction.TTL = time.Hour
			c.Eviction.Interval = 0
		}, wantError: true},
		{name: "ttl with interval", modify: func(c *Config) { c.Eviction.TTL = time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.Neighbors = 99
	clone.Eviction.TTL = time.Hour

	if original.Neighbors != 10 {
		t.Errorf("original.Neighbors = %d, want 10 after clone modification", original.Neighbors)
	}
	if original.Eviction.TTL != 0 {
		t.Errorf("original.Eviction.TTL = %v, want 0 after clone modification", original.Eviction.TTL)
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Eviction.TTL = 30 * time.Minute

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	eviction, ok := decoded["eviction"].(map[string]interface{})
	if !ok {
		t.Fatalf("eviction = %T, want object", decoded["eviction"])
	}
	if eviction["ttl"] != "30m0s" {
		t.Errorf("eviction.ttl = %v, want %q", eviction["ttl"], "30m0s")
	}
	if decoded["mean_mode"] != "full" {
		t.Errorf("mean_mode = %v, want %q", decoded["mean_mode"], "full")
	}
}
