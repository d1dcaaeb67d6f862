// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator with user-friendly error
// messages and conversion to the API's VALIDATION_ERROR format.
//
// # Quick Start
//
//	type RecommendRequest struct {
//	    Ratings []RatingInput `json:"ratings" validate:"required,max=500,dive"`
//	}
//
//	type RatingInput struct {
//	    ItemID int     `json:"item_id" validate:"gte=1"`
//	    Rating float64 `json:"rating" validate:"gte=1,lte=5,half_step"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Field Names
//
// Field names in errors come from the json struct tag, and Namespace reports
// the full path without the root type (for example "ratings[3].rating"), so
// clients can map errors back to the request body.
//
// # Custom Validators
//
//   - half_step: numeric value must be a multiple of 0.5 (the MovieLens rating scale)
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use. The validator
// caches struct metadata after the first validation of each type.
package validation
