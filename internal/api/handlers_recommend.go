// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/models"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Recommend handles POST /api/v1/recommendations
//
// Registers the supplied ratings as a new user and returns the top
// predictions with the neighborhood they came from.
//
//	{"ratings": [{"item_id": 1, "rating": 4.5}, {"item_id": 318, "rating": 5}]}
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ratings := make([]recommend.ItemRating, 0, len(req.Ratings))
	for _, in := range req.Ratings {
		ratings = append(ratings, recommend.ItemRating{
			ItemID: recommend.ItemID(in.ItemID),
			Rating: in.Rating,
		})
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	result, err := h.engine.Recommend(ctx, ratings)
	if err != nil {
		metrics.RecordRecommendation(recommendStatus(err), 0, 0)
		respondEngineError(w, err)
		return
	}
	metrics.RecordRecommendation("success", result.Metadata.Latency, len(result.Neighbors))

	stats := h.engine.Stats()
	metrics.UpdateCorpusGauges(stats.Users, stats.SyntheticUsers, stats.Items, stats.Ratings)

	logging.Ctx(ctx).Info().
		Int("user_id", int(result.UserID)).
		Int("ratings", len(ratings)).
		Int("returned", len(result.Predictions)).
		Int64("latency_ms", result.Metadata.LatencyMS).
		Msg("Served recommendations")

	respondSuccess(w, r, result, result.Metadata.Latency)
}

// recommendStatus is the moviematch_recommendations_total label for err.
func recommendStatus(err error) string {
	switch {
	case errors.Is(err, recommend.ErrNoRatings):
		return "no_ratings"
	case errors.Is(err, recommend.ErrEmptyCorpus):
		return "unavailable"
	default:
		return "error"
	}
}
