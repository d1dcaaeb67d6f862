// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"

	"github.com/tomtom215/moviematch/internal/models"
)

// Status handles GET /api/v1/status
// Reports corpus size, engine counters and the active engine config.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	m := h.engine.Metrics()

	respondSuccess(w, r, models.StatusResponse{
		Corpus: models.CorpusStatus{
			Source:         h.source,
			Users:          stats.Users,
			SyntheticUsers: stats.SyntheticUsers,
			Items:          stats.Items,
			Ratings:        stats.Ratings,
			MaxUserID:      stats.MaxUserID,
		},
		Engine: models.EngineStatus{
			Requests: m.Requests,
			Errors:   m.Errors,
			Evicted:  m.Evicted,
		},
		Config: h.engine.Config(),
	}, 0)
}
