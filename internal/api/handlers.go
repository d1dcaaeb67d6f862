// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/moviematch/internal/recommend"
)

// Recommender is the engine surface the handlers depend on.
// *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, ratings []recommend.ItemRating) (*recommend.Result, error)
	Candidates(n int) []recommend.Candidate
	Movie(id recommend.ItemID) (recommend.ItemMeta, error)
	RatingCount(id recommend.ItemID) int
	Ready() bool
	Stats() recommend.Stats
	Metrics() recommend.Metrics
	Config() *recommend.Config
}

var _ Recommender = (*recommend.Engine)(nil)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness probes
//   - handlers_movies.go: candidate list and movie lookup
//   - handlers_recommend.go: recommendation runs
//   - handlers_status.go: corpus and engine status
type Handler struct {
	engine         Recommender
	source         string
	requestTimeout time.Duration
	startTime      time.Time
}

// NewHandler creates an API handler.
//
// source names the repository the corpus was loaded from and is reported
// by the status endpoint. requestTimeout bounds each recommendation run;
// zero disables the deadline.
//
// Example:
//
//	handler := api.NewHandler(engine, cfg.Data.Source, cfg.Server.RequestTimeout)
//	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(engine Recommender, source string, requestTimeout time.Duration) *Handler {
	return &Handler{
		engine:         engine,
		source:         source,
		requestTimeout: requestTimeout,
		startTime:      time.Now(),
	}
}
