// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package models

// MaxRatingsPerRequest bounds the ratings accepted in one request body.
const MaxRatingsPerRequest = 500

// MaxCandidates bounds the n parameter of the candidates endpoint.
const MaxCandidates = 100

// RatingInput is one movie rating supplied by a new user.
type RatingInput struct {
	ItemID int     `json:"item_id" validate:"gte=1"`
	Rating float64 `json:"rating" validate:"gte=1,lte=5,half_step"`
}

// RecommendRequest is the body of POST /api/v1/recommendations.
//
//	{"ratings": [{"item_id": 1, "rating": 4.5}, {"item_id": 318, "rating": 5}]}
//
// An empty list passes validation and is rejected by the engine with
// NO_RATINGS, keeping that error distinct from malformed input.
type RecommendRequest struct {
	Ratings []RatingInput `json:"ratings" validate:"required,max=500,dive"`
}

// CandidateMovie is a movie offered to a new user for rating.
type CandidateMovie struct {
	ItemID      int      `json:"item_id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	RatingCount int      `json:"rating_count"`
}

// CandidatesResponse is returned by GET /api/v1/movies/candidates.
type CandidatesResponse struct {
	Movies []CandidateMovie `json:"movies"`
	Count  int              `json:"count"`
}

// MovieResponse is returned by GET /api/v1/movies/{id}.
type MovieResponse struct {
	ItemID      int      `json:"item_id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	RatingCount int      `json:"rating_count"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users,omitempty"`
	Items  int    `json:"items,omitempty"`
}

// CorpusStatus summarizes the in-memory corpus.
type CorpusStatus struct {
	Source         string `json:"source"`
	Users          int    `json:"users"`
	SyntheticUsers int    `json:"synthetic_users"`
	Items          int    `json:"items"`
	Ratings        int    `json:"ratings"`
	MaxUserID      int    `json:"max_user_id"`
}

// EngineStatus summarizes engine counters.
type EngineStatus struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
	Evicted  int64 `json:"evicted"`
}

// StatusResponse is returned by GET /api/v1/status.
type StatusResponse struct {
	Corpus CorpusStatus `json:"corpus"`
	Engine EngineStatus `json:"engine"`
	Config interface{}  `json:"config"`
}
