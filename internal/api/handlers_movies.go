// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviematch/internal/models"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// catalogCacheControl applies to catalog reads, which change only on reload.
const catalogCacheControl = "public, max-age=60"

// Candidates handles GET /api/v1/movies/candidates?n=
// Returns the most-rated movies for a new user to rate. n defaults to the
// configured candidate count and is capped at models.MaxCandidates.
func (h *Handler) Candidates(w http.ResponseWriter, r *http.Request) {
	n, err := getIntParam(r, "n", h.engine.Config().Candidates)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if n < 1 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "n must be at least 1", nil)
		return
	}
	if n > models.MaxCandidates {
		n = models.MaxCandidates
	}

	candidates := h.engine.Candidates(n)
	movies := make([]models.CandidateMovie, 0, len(candidates))
	for _, c := range candidates {
		movies = append(movies, models.CandidateMovie{
			ItemID:      int(c.ItemID),
			Title:       c.Title,
			Genres:      c.Genres,
			RatingCount: c.RatingCount,
		})
	}

	w.Header().Set("Cache-Control", catalogCacheControl)
	respondSuccess(w, r, models.CandidatesResponse{
		Movies: movies,
		Count:  len(movies),
	}, 0)
}

// Movie handles GET /api/v1/movies/{id}
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "id must be a positive integer", nil)
		return
	}

	itemID := recommend.ItemID(id)
	meta, err := h.engine.Movie(itemID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	w.Header().Set("Cache-Control", catalogCacheControl)
	respondSuccess(w, r, models.MovieResponse{
		ItemID:      id,
		Title:       meta.Title,
		Genres:      meta.Genres,
		RatingCount: h.engine.RatingCount(itemID),
	}, 0)
}
