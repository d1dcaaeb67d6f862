// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package services adapts MovieMatch components to suture.Service.

  - HTTPServerService: ListenAndServe with graceful Shutdown on cancel,
    falling back to Close when draining exceeds the timeout.
  - EvictionService: ticker that sweeps expired synthetic users from the
    engine and refreshes the corpus gauges.
  - EmbeddedNATSService: health-checks an in-process nats-server and
    returns ErrBrokerStopped if it dies so the supervisor starts a new one.

Every service returns ctx.Err() on cancellation and a non-nil error on
failure, which is what suture uses to decide on restarts.
*/
package services
