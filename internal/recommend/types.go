// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"errors"
	"time"
)

// UserID identifies a user in the ratings table.
type UserID int

// ItemID identifies a movie in the catalog.
type ItemID int

// Sentinel errors returned by the engine and corpus.
var (
	// ErrNoRatings is returned when a new user submits no ratings.
	ErrNoRatings = errors.New("no ratings provided")

	// ErrEmptyCorpus is returned when the ratings table holds no users.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrUnknownUser is returned when a user id is not in the ratings table.
	ErrUnknownUser = errors.New("unknown user")

	// ErrMovieNotFound is returned when an item id is not in the catalog.
	ErrMovieNotFound = errors.New("movie not found")
)

// ItemRating is a single rating a user gave to an item.
type ItemRating struct {
	ItemID ItemID  `json:"item_id"`
	Rating float64 `json:"rating"`
}

// RatingVector is the ordered set of ratings for one user.
// Item ids are unique within a vector.
type RatingVector []ItemRating

// Lookup returns the rating for item, if present.
func (v RatingVector) Lookup(item ItemID) (float64, bool) {
	for _, r := range v {
		if r.ItemID == item {
			return r.Rating, true
		}
	}
	return 0, false
}

// index returns the vector as an item -> rating map.
func (v RatingVector) index() map[ItemID]float64 {
	m := make(map[ItemID]float64, len(v))
	for _, r := range v {
		m[r.ItemID] = r.Rating
	}
	return m
}

// dedupe returns a copy of v keeping the first rating seen for each item.
func dedupe(v []ItemRating) RatingVector {
	seen := make(map[ItemID]struct{}, len(v))
	out := make(RatingVector, 0, len(v))
	for _, r := range v {
		if _, ok := seen[r.ItemID]; ok {
			continue
		}
		seen[r.ItemID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ItemMeta is the catalog metadata for a movie.
type ItemMeta struct {
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// Neighbor is a user ranked by similarity to a target user.
type Neighbor struct {
	UserID     UserID       `json:"user_id"`
	Similarity float64      `json:"similarity"`
	Ratings    RatingVector `json:"-"`
}

// Prediction is a predicted rating for an item the target user has not rated.
// PredictedRating is rounded to one decimal place.
type Prediction struct {
	ItemID          ItemID   `json:"item_id"`
	Title           string   `json:"title"`
	Genres          []string `json:"genres"`
	PredictedRating float64  `json:"predicted_rating"`
}

// Result is the outcome of a recommendation run for a new user.
type Result struct {
	// UserID is the id assigned to the new user.
	UserID UserID `json:"user_id"`

	// Predictions holds the top predictions, best first.
	Predictions []Prediction `json:"recommendations"`

	// Neighbors holds the neighborhood used for prediction.
	Neighbors []Neighbor `json:"neighbors"`

	// Metadata contains information about the run.
	Metadata ResultMetadata `json:"metadata"`
}

// ResultMetadata contains information about how a result was produced.
type ResultMetadata struct {
	RatingsCount    int           `json:"ratings_count"`
	UsersConsidered int           `json:"users_considered"`
	UnratedItems    int           `json:"unrated_items"`
	MeanMode        MeanMode      `json:"mean_mode"`
	Latency         time.Duration `json:"-"`
	LatencyMS       int64         `json:"latency_ms"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// RatingRecord is one row of raw rating data.
type RatingRecord struct {
	UserID UserID  `json:"user_id"`
	ItemID ItemID  `json:"item_id"`
	Rating float64 `json:"rating"`
}

// MovieRecord is one row of raw catalog data.
type MovieRecord struct {
	ItemID ItemID   `json:"item_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// Dataset is the raw corpus as read from a repository.
// Order of both slices is significant: it becomes the iteration order
// of the ratings table and the catalog.
type Dataset struct {
	Ratings []RatingRecord `json:"ratings"`
	Movies  []MovieRecord  `json:"movies"`
}

// Stats summarizes corpus size.
type Stats struct {
	Users          int `json:"users"`
	SyntheticUsers int `json:"synthetic_users"`
	Items          int `json:"items"`
	Ratings        int `json:"ratings"`
	MaxUserID      int `json:"max_user_id"`
}
