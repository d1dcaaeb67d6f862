// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// CleanupContainer terminates a container and logs any error.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}

// serviceSpec describes a single-port service container.
type serviceSpec struct {
	name         string
	image        string
	port         string
	env          map[string]string
	startTimeout time.Duration
	waitLog      string // readiness line written by the service
}

// startService starts a container and returns it with its host:port endpoint.
func startService(ctx context.Context, spec serviceSpec) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        spec.image,
		ExposedPorts: []string{spec.port + "/tcp"},
		Env:          spec.env,
		WaitingFor:   wait.ForLog(spec.waitLog).WithStartupTimeout(spec.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create %s container: %w", spec.name, err)
	}

	// Endpoint with an empty proto returns host:port of the lowest exposed port
	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, "", fmt.Errorf("get %s endpoint: %w", spec.name, err)
	}

	return container, endpoint, nil
}
