// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/moviematch/internal/recommend"
)

// SchemaVersion is the current RecommendationServed payload version.
const SchemaVersion = 1

// RecommendationServed is published after every successful recommendation run.
type RecommendationServed struct {
	SchemaVersion int    `json:"schema_version"`
	EventID       string `json:"event_id"`

	UserID       recommend.UserID   `json:"user_id"`
	RatingsCount int                `json:"ratings_count"`
	Items        []recommend.ItemID `json:"items"`

	// TopPrediction is the best prediction, nil when nothing was predicted.
	TopPrediction *recommend.Prediction `json:"top_prediction,omitempty"`

	ServedAt time.Time `json:"served_at"`
}

// NewRecommendationServed builds an event from a recommendation result.
// Items lists the recommended item ids in rank order.
func NewRecommendationServed(result *recommend.Result) *RecommendationServed {
	e := &RecommendationServed{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		UserID:        result.UserID,
		RatingsCount:  result.Metadata.RatingsCount,
		Items:         make([]recommend.ItemID, 0, len(result.Predictions)),
		ServedAt:      result.Metadata.GeneratedAt.UTC(),
	}
	if e.ServedAt.IsZero() {
		e.ServedAt = time.Now().UTC()
	}
	for _, p := range result.Predictions {
		e.Items = append(e.Items, p.ItemID)
	}
	if len(result.Predictions) > 0 {
		top := result.Predictions[0]
		e.TopPrediction = &top
	}
	return e
}

// Validate checks required fields.
func (e *RecommendationServed) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.UserID <= 0 {
		return &ValidationError{Field: "user_id", Message: "must be positive"}
	}
	if e.RatingsCount <= 0 {
		return &ValidationError{Field: "ratings_count", Message: "must be positive"}
	}
	return nil
}

// ValidationError represents an event field validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Marshal validates and encodes an event as JSON.
func Marshal(e *RecommendationServed) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON event payload.
func Unmarshal(data []byte) (*RecommendationServed, error) {
	var e RecommendationServed
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}
