// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package models defines the HTTP API request and response structures.

Key Components:

  - APIResponse: Standardized response wrapper with Metadata and APIError
  - RecommendRequest: The new user's ratings, validated with validator tags
  - CandidatesResponse, MovieResponse: Catalog views
  - StatusResponse: Corpus and engine state

Domain types (ratings, predictions, neighbors) live in the recommend
package; recommend.Result is serialized directly as the data of a
recommendation response.

JSON encoding uses github.com/goccy/go-json.
*/
package models
