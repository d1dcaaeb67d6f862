// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run the remote corpus sources
// (MongoDB and Redis) that the repository package reads from. All files
// carry the integration build tag:
//
//	go test -tags integration ./internal/repository/...
//
// # Containers
//
//	func TestMongoLoader(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//	    // mongo.URI is mongodb://host:port
//	}
//
// NewRedisContainer works the same way and exposes Addr (host:port).
//
// # CI Considerations
//
// These tests require Docker and network access. Tests are skipped
// gracefully if Docker is unavailable. First run may need to download
// container images.
package testinfra
