// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_recommendations_total",
			Help: "Total number of recommendation runs by outcome",
		},
		[]string{"status"}, // "success", "no_ratings", "unavailable", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviematch_recommendation_duration_seconds",
			Help:    "Duration of recommendation runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RecommendationNeighbors = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviematch_recommendation_neighbors",
			Help:    "Number of neighbors used per recommendation run",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)

	// Corpus Metrics
	CorpusUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_corpus_users",
			Help: "Number of users in the ratings table",
		},
	)

	CorpusSyntheticUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_corpus_synthetic_users",
			Help: "Number of users registered at runtime and held in memory",
		},
	)

	CorpusItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_corpus_items",
			Help: "Number of movies in the catalog",
		},
	)

	CorpusRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_corpus_ratings",
			Help: "Number of ratings in the ratings table",
		},
	)

	SyntheticUsersEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviematch_synthetic_users_evicted_total",
			Help: "Total number of runtime users evicted",
		},
	)

	// Repository Metrics
	RepositoryLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviematch_repository_load_duration_seconds",
			Help:    "Duration of corpus loads by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	RepositoryLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_repository_load_errors_total",
			Help: "Total number of failed corpus load attempts by source",
		},
		[]string{"source"},
	)

	RepositoryRowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_repository_rows_dropped_total",
			Help: "Total number of malformed rows dropped during ingestion",
		},
		[]string{"source", "kind"}, // kind: "rating", "movie"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviematch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_events_published_total",
			Help: "Total recommendation events published by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviematch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviematch_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviematch_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome of a recommendation run.
func RecordRecommendation(status string, duration time.Duration, neighbors int) {
	RecommendationsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		RecommendationDuration.Observe(duration.Seconds())
		RecommendationNeighbors.Observe(float64(neighbors))
	}
}

// UpdateCorpusGauges sets the corpus size gauges.
func UpdateCorpusGauges(users, synthetic, items, ratings int) {
	CorpusUsers.Set(float64(users))
	CorpusSyntheticUsers.Set(float64(synthetic))
	CorpusItems.Set(float64(items))
	CorpusRatings.Set(float64(ratings))
}

// RecordEviction records runtime users removed from the corpus.
func RecordEviction(n int) {
	if n > 0 {
		SyntheticUsersEvicted.Add(float64(n))
	}
}

// RecordRepositoryLoad records a corpus load attempt.
func RecordRepositoryLoad(source string, duration time.Duration, err error) {
	if err != nil {
		RepositoryLoadErrors.WithLabelValues(source).Inc()
		return
	}
	RepositoryLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordRowsDropped records malformed rows skipped during ingestion.
func RecordRowsDropped(source, kind string, n int) {
	if n > 0 {
		RepositoryRowsDropped.WithLabelValues(source, kind).Add(float64(n))
	}
}

// RecordEventPublish records the result of publishing an event.
func RecordEventPublish(err error) {
	if err != nil {
		EventsPublished.WithLabelValues("failure").Inc()
		return
	}
	EventsPublished.WithLabelValues("success").Inc()
}
