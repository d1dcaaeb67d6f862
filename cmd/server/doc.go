// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Command server runs the MovieMatch recommendation API.

Startup order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Corpus load from data.source (csv, duckdb, badger, mongo, redis); a
    failure here is fatal
 3. recommend.Engine over the loaded corpus
 4. Recommendation events (optional): publisher, plus an embedded NATS
    server when EVENTS_BACKEND=nats and NATS_EMBEDDED=true
 5. Supervisor tree: eviction sweeper (data), embedded NATS (messaging),
    HTTP server (api)

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
requests for HTTP_SHUTDOWN_TIMEOUT before closing connections.

Examples:

	# MovieLens small, CSV on disk
	RATINGS_PATH=data/ratings.csv MOVIES_PATH=data/movies.csv ./moviematch

	# Load a Badger snapshot written by cmd/snapshot, bound runtime users
	DATA_SOURCE=badger BADGER_PATH=/var/lib/moviematch \
	RECOMMEND_SYNTHETIC_TTL=1h ./moviematch

	# Publish an event per recommendation to an in-process broker
	EVENTS_ENABLED=true EVENTS_BACKEND=nats NATS_EMBEDDED=true ./moviematch
*/
package main
