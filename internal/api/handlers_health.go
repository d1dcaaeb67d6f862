// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/moviematch/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK while the process is serving, regardless of corpus state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.HealthResponse{Status: "alive"}, 0)
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK once a non-empty corpus is loaded, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	if !h.engine.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Data:   models.HealthResponse{Status: "not_ready"},
			Metadata: models.Metadata{
				Timestamp: time.Now(),
			},
			Error: &models.APIError{
				Code:    ErrCodeCorpusUnavailable,
				Message: "No ratings corpus is loaded",
			},
		})
		return
	}

	respondSuccess(w, r, models.HealthResponse{
		Status: "ready",
		Users:  stats.Users,
		Items:  stats.Items,
	}, 0)
}
