// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: per-request ID in the X-Request-ID header and logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation

Both are written as http.HandlerFunc decorators. The api package adapts
them to chi's func(http.Handler) http.Handler signature:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

PrometheusMetrics labels requests by chi route pattern, so
/api/v1/movies/1 and /api/v1/movies/2 share the /api/v1/movies/{id} series.
Requests that match no route are labelled "unmatched".

Upstream request IDs are kept when they are printable ASCII of at most 128
bytes; anything else is replaced with a fresh UUID so header values cannot
inject content into logs.
*/
package middleware
