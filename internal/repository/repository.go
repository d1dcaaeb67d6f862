// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Loader reads the full ratings corpus from a backing store.
type Loader interface {
	// Load returns every valid rating and movie in source order.
	Load(ctx context.Context) (*recommend.Dataset, error)

	// Name identifies the source in logs and metrics.
	Name() string
}

// Store is a Loader that can also persist a dataset snapshot.
type Store interface {
	Loader
	Save(ctx context.Context, ds *recommend.Dataset) error
}

// ErrSnapshotNotFound is returned when a snapshot store holds no dataset.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// noGenres is the MovieLens placeholder for a movie without genres.
const noGenres = "(no genres listed)"

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 4096

// LoadDataset loads a dataset with an overall timeout and records load metrics.
// A timeout of zero means no deadline beyond ctx.
func LoadDataset(ctx context.Context, l Loader, timeout time.Duration) (*recommend.Dataset, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	ds, err := l.Load(ctx)
	elapsed := time.Since(start)
	metrics.RecordRepositoryLoad(l.Name(), elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("load corpus from %s: %w", l.Name(), err)
	}

	logging.Info().
		Str("source", l.Name()).
		Int("ratings", len(ds.Ratings)).
		Int("movies", len(ds.Movies)).
		Dur("duration", elapsed).
		Msg("Corpus loaded")
	return ds, nil
}

// Close closes l if it holds open resources.
func Close(l Loader) error {
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// builder accumulates validated rows and counts the rejects.
type builder struct {
	source         string
	ds             *recommend.Dataset
	droppedRatings int
	droppedMovies  int
}

func newBuilder(source string) *builder {
	return &builder{
		source: source,
		ds:     &recommend.Dataset{},
	}
}

// addRating appends a rating row, dropping it when malformed.
func (b *builder) addRating(user, item int64, rating float64) {
	if user <= 0 || item <= 0 || !validRating(rating) {
		b.droppedRatings++
		return
	}
	b.ds.Ratings = append(b.ds.Ratings, recommend.RatingRecord{
		UserID: recommend.UserID(user),
		ItemID: recommend.ItemID(item),
		Rating: rating,
	})
}

// addMovie appends a catalog row, dropping it when malformed.
func (b *builder) addMovie(item int64, title string, genres []string) {
	if item <= 0 {
		b.droppedMovies++
		return
	}
	if genres == nil {
		genres = []string{}
	}
	b.ds.Movies = append(b.ds.Movies, recommend.MovieRecord{
		ItemID: recommend.ItemID(item),
		Title:  strings.TrimSpace(title),
		Genres: genres,
	})
}

func (b *builder) dropRating() { b.droppedRatings++ }
func (b *builder) dropMovie()  { b.droppedMovies++ }

// dataset returns the accumulated rows and reports what was dropped.
func (b *builder) dataset() *recommend.Dataset {
	metrics.RecordRowsDropped(b.source, "rating", b.droppedRatings)
	metrics.RecordRowsDropped(b.source, "movie", b.droppedMovies)
	if b.droppedRatings > 0 || b.droppedMovies > 0 {
		logging.Debug().
			Str("source", b.source).
			Int("ratings_dropped", b.droppedRatings).
			Int("movies_dropped", b.droppedMovies).
			Msg("Dropped malformed rows")
	}
	return b.ds
}

// validRating accepts any finite positive rating. Zero, negative and
// non-numeric values are dropped; the scale itself is not enforced.
func validRating(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0
}

// parseGenres splits a pipe-delimited MovieLens genre field.
func parseGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == noGenres {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// joinGenres is the inverse of parseGenres for stores that hold a flat string.
func joinGenres(genres []string) string {
	if len(genres) == 0 {
		return noGenres
	}
	return strings.Join(genres, "|")
}

// cancelled reports ctx cancellation every ctxCheckInterval rows.
func cancelled(ctx context.Context, row int) error {
	if row%ctxCheckInterval != 0 {
		return nil
	}
	return ctx.Err()
}
