// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package metrics provides Prometheus metrics collection and export.

All metrics are registered at package init through promauto against the
default registry and exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - moviematch_recommendations_total: Recommendation runs (counter)
    Labels: status (success, no_ratings, unavailable, error)
  - moviematch_recommendation_duration_seconds: Successful run latency (histogram)
  - moviematch_recommendation_neighbors: Neighbors used per run (histogram)

Corpus Metrics:
  - moviematch_corpus_users: Users in the ratings table (gauge)
  - moviematch_corpus_synthetic_users: Runtime-registered users (gauge)
  - moviematch_corpus_items: Movies in the catalog (gauge)
  - moviematch_corpus_ratings: Ratings held in memory (gauge)
  - moviematch_synthetic_users_evicted_total: Evicted runtime users (counter)

Repository Metrics:
  - moviematch_repository_load_duration_seconds: Corpus load time (histogram)
    Labels: source (csv, duckdb, badger, mongo, redis)
  - moviematch_repository_load_errors_total: Failed load attempts (counter)
  - moviematch_repository_rows_dropped_total: Malformed rows skipped (counter)
    Labels: source, kind (rating, movie)

Circuit Breaker Metrics:
  - moviematch_circuit_breaker_state: Current state (gauge)
    Labels: name. Values: 0=closed, 1=half-open, 2=open
  - moviematch_circuit_breaker_requests_total: Calls by result (counter)
    Labels: name, result (success, failure, rejected)
  - moviematch_circuit_breaker_transitions_total: State changes (counter)
    Labels: name, from, to

Event Metrics:
  - moviematch_events_published_total: Published events (counter)
    Labels: result (success, failure)

API Metrics:
  - moviematch_api_requests_total: Requests (counter)
    Labels: method, endpoint (chi route pattern), status
  - moviematch_api_request_duration_seconds: Request latency (histogram)
  - moviematch_api_active_requests: In-flight requests (gauge)

# Usage

	start := time.Now()
	result, err := engine.Recommend(ctx, ratings)
	metrics.RecordRecommendation("success", time.Since(start), len(result.Neighbors))

# Example PromQL

	# p95 recommendation latency
	histogram_quantile(0.95, rate(moviematch_recommendation_duration_seconds_bucket[5m]))

	# runtime users retained in memory
	moviematch_corpus_synthetic_users
*/
package metrics
