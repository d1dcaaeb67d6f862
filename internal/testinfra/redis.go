// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

//go:build integration

package testinfra

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

const (
	// DefaultRedisImage is the Redis image used for integration tests
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the Redis port
	DefaultRedisPort = "6379"
)

// RedisContainer represents a running Redis container for testing.
type RedisContainer struct {
	testcontainers.Container
	Addr string
}

// NewRedisContainer creates and starts a Redis container.
func NewRedisContainer(ctx context.Context) (*RedisContainer, error) {
	container, endpoint, err := startService(ctx, serviceSpec{
		name:         "redis",
		image:        DefaultRedisImage,
		port:         DefaultRedisPort,
		startTimeout: 60 * time.Second,
		waitLog:      "Ready to accept connections",
	})
	if err != nil {
		return nil, err
	}

	return &RedisContainer{
		Container: container,
		Addr:      endpoint,
	}, nil
}
