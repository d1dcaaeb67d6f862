// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// CSVLoader reads MovieLens ratings.csv and movies.csv files.
//
// ratings.csv: userId,movieId,rating,timestamp
// movies.csv:  movieId,title,genres
//
// Both files carry a header row. Columns are located by header name and
// fall back to position when a name is missing.
type CSVLoader struct {
	RatingsPath string
	MoviesPath  string
}

// NewCSVLoader creates a loader for the given file paths.
func NewCSVLoader(ratingsPath, moviesPath string) *CSVLoader {
	return &CSVLoader{RatingsPath: ratingsPath, MoviesPath: moviesPath}
}

// Name implements Loader.
func (l *CSVLoader) Name() string { return config.SourceCSV }

// Load implements Loader.
func (l *CSVLoader) Load(ctx context.Context) (*recommend.Dataset, error) {
	rf, err := os.Open(l.RatingsPath)
	if err != nil {
		return nil, fmt.Errorf("open ratings: %w", err)
	}
	defer rf.Close()

	mf, err := os.Open(l.MoviesPath)
	if err != nil {
		return nil, fmt.Errorf("open movies: %w", err)
	}
	defer mf.Close()

	return ParseCSV(ctx, bufio.NewReader(rf), bufio.NewReader(mf))
}

// ParseCSV parses MovieLens-formatted ratings and movies streams.
func ParseCSV(ctx context.Context, ratings, movies io.Reader) (*recommend.Dataset, error) {
	b := newBuilder(config.SourceCSV)

	if err := readRatingsCSV(ctx, ratings, b); err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	if err := readMoviesCSV(ctx, movies, b); err != nil {
		return nil, fmt.Errorf("read movies: %w", err)
	}
	return b.dataset(), nil
}

func readRatingsCSV(ctx context.Context, r io.Reader, b *builder) error {
	reader := newCSVReader(r)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	userCol := cols.lookup("userid", 0)
	itemCol := cols.lookup("movieid", 1)
	ratingCol := cols.lookup("rating", 2)

	for row := 1; ; row++ {
		if err := cancelled(ctx, row); err != nil {
			return err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				b.dropRating()
				continue
			}
			return err
		}

		user, ok1 := parseID(field(rec, userCol))
		item, ok2 := parseID(field(rec, itemCol))
		rating, err := strconv.ParseFloat(strings.TrimSpace(field(rec, ratingCol)), 64)
		if !ok1 || !ok2 || err != nil {
			b.dropRating()
			continue
		}
		b.addRating(user, item, rating)
	}
}

func readMoviesCSV(ctx context.Context, r io.Reader, b *builder) error {
	reader := newCSVReader(r)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	itemCol := cols.lookup("movieid", 0)
	titleCol := cols.lookup("title", 1)
	genresCol := cols.lookup("genres", 2)

	for row := 1; ; row++ {
		if err := cancelled(ctx, row); err != nil {
			return err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				b.dropMovie()
				continue
			}
			return err
		}

		item, ok := parseID(field(rec, itemCol))
		if !ok || titleCol >= len(rec) {
			b.dropMovie()
			continue
		}
		b.addMovie(item, rec[titleCol], parseGenres(field(rec, genresCol)))
	}
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}

// columns maps lower-cased header names to positions.
type columns map[string]int

func columnIndex(header []string) columns {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	return cols
}

func (c columns) lookup(name string, fallback int) int {
	if i, ok := c[name]; ok {
		return i
	}
	return fallback
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
