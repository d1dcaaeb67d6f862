// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/models"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// envelope mirrors models.APIResponse with a raw payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

// scenarioDataset is three loaded users over a four-movie catalog.
// Movie 40 has no ratings.
func scenarioDataset() *recommend.Dataset {
	return &recommend.Dataset{
		Ratings: []recommend.RatingRecord{
			{UserID: 1, ItemID: 10, Rating: 5},
			{UserID: 1, ItemID: 20, Rating: 3},
			{UserID: 2, ItemID: 10, Rating: 5},
			{UserID: 2, ItemID: 20, Rating: 3},
			{UserID: 2, ItemID: 30, Rating: 4},
			{UserID: 3, ItemID: 10, Rating: 1},
			{UserID: 3, ItemID: 20, Rating: 1},
		},
		Movies: []recommend.MovieRecord{
			{ItemID: 10, Title: "Toy Story (1995)", Genres: []string{"Animation", "Comedy"}},
			{ItemID: 20, Title: "Heat (1995)", Genres: []string{"Action", "Crime"}},
			{ItemID: 30, Title: "Casino (1995)", Genres: []string{"Crime", "Drama"}},
			{ItemID: 40, Title: "Unrated Film (2001)", Genres: []string{}},
		},
	}
}

func newTestEngine(t *testing.T, ds *recommend.Dataset) *recommend.Engine {
	t.Helper()
	engine, err := recommend.NewEngine(recommend.NewCorpus(ds), recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func newTestRouter(t *testing.T, engine Recommender, mwCfg *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	return NewRouter(NewHandler(engine, "csv", 5*time.Second), NewChiMiddleware(mwCfg)).SetupChi()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestHealthLive(t *testing.T) {
	h := newTestRouter(t, newTestEngine(t, &recommend.Dataset{}), nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var health models.HealthResponse
	decodeData(t, env, &health)
	if health.Status != "alive" {
		t.Errorf("Status = %q, want alive", health.Status)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		ds         *recommend.Dataset
		wantStatus int
		wantState  string
	}{
		{"loaded corpus", scenarioDataset(), http.StatusOK, "ready"},
		{"empty corpus", &recommend.Dataset{}, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, newTestEngine(t, tt.ds), nil)

			rec, env := do(t, h, http.MethodGet, "/api/v1/health/ready", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var health models.HealthResponse
			decodeData(t, env, &health)
			if health.Status != tt.wantState {
				t.Errorf("Status = %q, want %q", health.Status, tt.wantState)
			}
			if tt.wantStatus == http.StatusOK && (health.Users != 3 || health.Items != 4) {
				t.Errorf("health = %+v, want 3 users and 4 items", health)
			}
			if tt.wantStatus != http.StatusOK && (env.Error == nil || env.Error.Code != ErrCodeCorpusUnavailable) {
				t.Errorf("Error = %+v, want %s", env.Error, ErrCodeCorpusUnavailable)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	h := newTestRouter(t, newTestEngine(t, scenarioDataset()), nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"default count capped by catalog", "", http.StatusOK, 4},
		{"explicit n", "?n=2", http.StatusOK, 2},
		{"n above cap", "?n=1000", http.StatusOK, 4},
		{"zero", "?n=0", http.StatusBadRequest, 0},
		{"negative", "?n=-3", http.StatusBadRequest, 0},
		{"non numeric", "?n=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodGet, "/api/v1/movies/candidates"+tt.query, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if env.Error == nil || env.Error.Code != ErrCodeValidation {
					t.Errorf("Error = %+v, want %s", env.Error, ErrCodeValidation)
				}
				return
			}

			var resp models.CandidatesResponse
			decodeData(t, env, &resp)
			if resp.Count != tt.wantCount || len(resp.Movies) != tt.wantCount {
				t.Errorf("Count = %d, len = %d, want %d", resp.Count, len(resp.Movies), tt.wantCount)
			}
			if got := rec.Header().Get("Cache-Control"); got != catalogCacheControl {
				t.Errorf("Cache-Control = %q, want %q", got, catalogCacheControl)
			}
		})
	}
}

func TestCandidates_MostRatedFirst(t *testing.T) {
	h := newTestRouter(t, newTestEngine(t, scenarioDataset()), nil)

	_, env := do(t, h, http.MethodGet, "/api/v1/movies/candidates?n=4", "")
	var resp models.CandidatesResponse
	decodeData(t, env, &resp)

	if len(resp.Movies) != 4 {
		t.Fatalf("len(Movies) = %d, want 4", len(resp.Movies))
	}
	if resp.Movies[0].RatingCount != 3 {
		t.Errorf("first RatingCount = %d, want 3", resp.Movies[0].RatingCount)
	}
	if last := resp.Movies[3]; last.ItemID != 40 || last.RatingCount != 0 {
		t.Errorf("last = %+v, want unrated movie 40", last)
	}
}

func TestMovie(t *testing.T) {
	h := newTestRouter(t, newTestEngine(t, scenarioDataset()), nil)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantCode   string
	}{
		{"known", "20", http.StatusOK, ""},
		{"unknown", "999", http.StatusNotFound, ErrCodeNotFound},
		{"non numeric", "heat", http.StatusBadRequest, ErrCodeValidation},
		{"zero", "0", http.StatusBadRequest, ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodGet, "/api/v1/movies/"+tt.id, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("Error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}

			var movie models.MovieResponse
			decodeData(t, env, &movie)
			if movie.Title != "Heat (1995)" || movie.RatingCount != 3 {
				t.Errorf("movie = %+v, want Heat (1995) with 3 ratings", movie)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	engine := newTestEngine(t, scenarioDataset())
	h := newTestRouter(t, engine, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/recommendations",
		`{"ratings":[{"item_id":10,"rating":5},{"item_id":20,"rating":3}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var result recommend.Result
	decodeData(t, env, &result)
	if result.UserID != 4 {
		t.Errorf("UserID = %d, want 4", result.UserID)
	}
	// Items 10 and 20 are rated, leaving 30 and 40
	if len(result.Predictions) != 2 {
		t.Fatalf("len(Predictions) = %d, want 2", len(result.Predictions))
	}
	for _, p := range result.Predictions {
		if p.ItemID == 10 || p.ItemID == 20 {
			t.Errorf("prediction for rated item %d", p.ItemID)
		}
		if p.PredictedRating < 0 || p.PredictedRating > 5 {
			t.Errorf("PredictedRating = %v, want within [0, 5]", p.PredictedRating)
		}
	}
	if len(result.Neighbors) == 0 {
		t.Error("Neighbors is empty")
	}
	if !strings.Contains(string(env.Data), `"recommendations"`) {
		t.Errorf("data %s missing recommendations key", env.Data)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}

	// The new user joins the corpus
	if stats := engine.Stats(); stats.Users != 4 || stats.SyntheticUsers != 1 {
		t.Errorf("Stats() = %+v, want 4 users with 1 synthetic", stats)
	}
}

func TestRecommend_Errors(t *testing.T) {
	tests := []struct {
		name       string
		ds         *recommend.Dataset
		body       string
		wantStatus int
		wantCode   string
	}{
		{"empty ratings", scenarioDataset(), `{"ratings":[]}`, http.StatusBadRequest, ErrCodeNoRatings},
		{"missing ratings", scenarioDataset(), `{}`, http.StatusBadRequest, ErrCodeValidation},
		{"rating above range", scenarioDataset(), `{"ratings":[{"item_id":10,"rating":6}]}`, http.StatusBadRequest, ErrCodeValidation},
		{"rating below range", scenarioDataset(), `{"ratings":[{"item_id":10,"rating":0.5}]}`, http.StatusBadRequest, ErrCodeValidation},
		{"not a half step", scenarioDataset(), `{"ratings":[{"item_id":10,"rating":3.3}]}`, http.StatusBadRequest, ErrCodeValidation},
		{"zero item", scenarioDataset(), `{"ratings":[{"item_id":0,"rating":3}]}`, http.StatusBadRequest, ErrCodeValidation},
		{"malformed json", scenarioDataset(), `{"ratings":`, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown field", scenarioDataset(), `{"ratings":[],"user":1}`, http.StatusBadRequest, ErrCodeBadRequest},
		{"trailing data", scenarioDataset(), `{"ratings":[]} {}`, http.StatusBadRequest, ErrCodeBadRequest},
		{"empty corpus", &recommend.Dataset{}, `{"ratings":[{"item_id":10,"rating":4}]}`, http.StatusServiceUnavailable, ErrCodeCorpusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, newTestEngine(t, tt.ds), nil)

			rec, env := do(t, h, http.MethodPost, "/api/v1/recommendations", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Status != "error" {
				t.Errorf("Status = %q, want error", env.Status)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("Error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

// timeoutEngine fails every run with a deadline error.
type timeoutEngine struct {
	*recommend.Engine
}

func (timeoutEngine) Recommend(context.Context, []recommend.ItemRating) (*recommend.Result, error) {
	return nil, context.DeadlineExceeded
}

func TestRecommend_Timeout(t *testing.T) {
	h := newTestRouter(t, timeoutEngine{newTestEngine(t, scenarioDataset())}, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/recommendations", `{"ratings":[{"item_id":10,"rating":4}]}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusGatewayTimeout)
	}
	if env.Error == nil || env.Error.Code != ErrCodeTimeout {
		t.Errorf("Error = %+v, want %s", env.Error, ErrCodeTimeout)
	}
}

func TestStatus(t *testing.T) {
	engine := newTestEngine(t, scenarioDataset())
	h := newTestRouter(t, engine, nil)

	do(t, h, http.MethodPost, "/api/v1/recommendations", `{"ratings":[{"item_id":10,"rating":4}]}`)

	rec, env := do(t, h, http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var status struct {
		Corpus models.CorpusStatus `json:"corpus"`
		Engine models.EngineStatus `json:"engine"`
		Config map[string]any      `json:"config"`
	}
	decodeData(t, env, &status)

	if status.Corpus.Source != "csv" {
		t.Errorf("Source = %q, want csv", status.Corpus.Source)
	}
	if status.Corpus.Users != 4 || status.Corpus.SyntheticUsers != 1 {
		t.Errorf("Corpus = %+v, want 4 users with 1 synthetic", status.Corpus)
	}
	if status.Engine.Requests != 1 {
		t.Errorf("Requests = %d, want 1", status.Engine.Requests)
	}
	if status.Config["top_n"] != float64(10) {
		t.Errorf("config top_n = %v, want 10", status.Config["top_n"])
	}
}
