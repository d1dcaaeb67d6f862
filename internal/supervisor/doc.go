// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package supervisor runs MovieMatch's long-lived services under a suture v4
supervisor tree.

# Layout

	moviematch
	├── data-layer
	│   └── eviction-sweeper   (when recommend.eviction.ttl > 0)
	├── messaging-layer
	│   └── embedded-nats      (when events.embedded is set)
	└── api-layer
	    └── http-server

Each layer restarts independently. If the embedded broker dies, the
messaging layer restarts it while the API keeps serving; publishes in the
meantime fail, are counted in moviematch_events_published_total, and are
logged.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewEvictionService(engine, interval, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, 10*time.Second, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

# Restart policy

TreeConfig maps directly onto suture.Spec. Defaults match suture's: back
off for 15s once more than 5 failures accumulate, with failures decaying
over 30s. ShutdownTimeout is applied per service; anything still running
after it shows up in UnstoppedServiceReport.

Supervisor events (start, stop, panic, backoff) are logged through
sutureslog into the application's slog bridge, so they share the zerolog
output format.
*/
package supervisor
