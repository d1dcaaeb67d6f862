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
	// DefaultMongoImage is the MongoDB image used for integration tests
	DefaultMongoImage = "mongo:7"

	// DefaultMongoPort is the MongoDB wire protocol port
	DefaultMongoPort = "27017"
)

// MongoContainer represents a running MongoDB container for testing.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// NewMongoContainer creates and starts a MongoDB container.
//
// Example:
//
//	mongo, err := testinfra.NewMongoContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	loader := repository.NewMongoLoader(config.MongoConfig{URI: mongo.URI, ...})
func NewMongoContainer(ctx context.Context) (*MongoContainer, error) {
	container, endpoint, err := startService(ctx, serviceSpec{
		name:         "mongo",
		image:        DefaultMongoImage,
		port:         DefaultMongoPort,
		startTimeout: 90 * time.Second,
		waitLog:      "Waiting for connections",
	})
	if err != nil {
		return nil, err
	}

	return &MongoContainer{
		Container: container,
		URI:       "mongodb://" + endpoint,
	}, nil
}
