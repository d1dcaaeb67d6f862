// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package logging provides zerolog-based structured logging for MovieMatch.
//
// JSON output is the default; console output is available for local
// development. Components derive a child logger tagged with their name
// and request handlers use Ctx to pick up the request ID.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("source", "csv").Msg("Loading corpus")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Publish failed")
//
// # slog Interop
//
// NewSlogLogger bridges zerolog to log/slog for the supervisor tree and
// the event publisher.
package logging
