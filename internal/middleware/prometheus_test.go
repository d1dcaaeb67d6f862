// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/moviematch/internal/metrics"
)

func chiWrap(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

func TestPrometheusMetrics_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(chiWrap(PrometheusMetrics))
	r.Get("/api/v1/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/movies/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/v1/movies/1", "/api/v1/movies/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests on route pattern = %v, want 2", got)
	}
}

func TestPrometheusMetrics_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		write  bool
	}{
		{name: "implicit 200", method: http.MethodGet, status: http.StatusOK, write: false},
		{name: "explicit 201", method: http.MethodPost, status: http.StatusCreated, write: true},
		{name: "server error", method: http.MethodPost, status: http.StatusInternalServerError, write: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				if tt.write {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("ok"))
			})

			req := httptest.NewRequest(tt.method, "/plain", nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestMetricsResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusTeapot)

	if rw.statusCode != http.StatusAccepted {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusAccepted)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the underlying writer")
	}
}

func TestEndpointLabel(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/no/router", nil)
	if got := endpointLabel(req); got != "/no/router" {
		t.Errorf("endpointLabel() without router = %q, want %q", got, "/no/router")
	}

	rctx := chi.NewRouteContext()
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	if got := endpointLabel(req); got != unmatchedEndpoint {
		t.Errorf("endpointLabel() unmatched = %q, want %q", got, unmatchedEndpoint)
	}
}
