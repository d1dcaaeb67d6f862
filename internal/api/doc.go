// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package api provides the HTTP interface to the recommendation engine.

# Routes

	GET  /api/v1/health/live          liveness probe
	GET  /api/v1/health/ready         200 once a non-empty corpus is loaded, else 503
	GET  /api/v1/status               corpus size, engine counters, engine config
	GET  /api/v1/movies/candidates    most-rated movies to show a new user (?n=, max 100)
	GET  /api/v1/movies/{id}          movie metadata
	POST /api/v1/recommendations      register ratings and return the top predictions
	GET  /metrics                     Prometheus metrics

# Middleware

Global, in order: request ID (internal/middleware), chi RealIP, chi
Recoverer, go-chi/cors. Every /api/v1 route adds security headers and the
Prometheus middleware. Everything except health has a go-chi/httprate
per-IP limit; POST /recommendations has a second, stricter one.

# Responses

Every JSON body uses models.APIResponse:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "...", "query_time_ms": 3}}

	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "NO_RATINGS", "message": "no ratings provided"}}

Error codes: VALIDATION_ERROR and BAD_REQUEST (400), NO_RATINGS (400),
NOT_FOUND (404), TOO_MANY_REQUESTS (429), CORPUS_UNAVAILABLE (503),
TIMEOUT (504), INTERNAL_ERROR (500).
*/
package api
