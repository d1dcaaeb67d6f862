// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB database/sql driver

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// DuckDBLoader reads the corpus through DuckDB SQL.
//
// The ratings query must return (user_id, item_id, rating) and the movies
// query (item_id, title, genres), where genres is a pipe-delimited string.
// Columns may be NULL; such rows are dropped.
type DuckDBLoader struct {
	dsn          string
	ratingsQuery string
	moviesQuery  string
}

// NewDuckDBLoader creates a loader from the duckdb section. When no
// queries are configured the MovieLens CSV files at ratingsPath and
// moviesPath are read with read_csv_auto.
func NewDuckDBLoader(cfg config.DuckDBConfig, ratingsPath, moviesPath string) *DuckDBLoader {
	ratingsQuery := cfg.RatingsQuery
	if ratingsQuery == "" {
		ratingsQuery = defaultRatingsQuery(ratingsPath)
	}
	moviesQuery := cfg.MoviesQuery
	if moviesQuery == "" {
		moviesQuery = defaultMoviesQuery(moviesPath)
	}
	return &DuckDBLoader{
		dsn:          duckDBDSN(cfg),
		ratingsQuery: ratingsQuery,
		moviesQuery:  moviesQuery,
	}
}

// Name implements Loader.
func (l *DuckDBLoader) Name() string { return config.SourceDuckDB }

// Load implements Loader.
func (l *DuckDBLoader) Load(ctx context.Context) (*recommend.Dataset, error) {
	conn, err := sql.Open("duckdb", l.dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close DuckDB connection")
		}
	}()

	b := newBuilder(config.SourceDuckDB)
	if err := l.readRatings(ctx, conn, b); err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	if err := l.readMovies(ctx, conn, b); err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return b.dataset(), nil
}

func (l *DuckDBLoader) readRatings(ctx context.Context, conn *sql.DB, b *builder) error {
	rows, err := conn.QueryContext(ctx, l.ratingsQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user, item sql.NullInt64
		var rating sql.NullFloat64
		if err := rows.Scan(&user, &item, &rating); err != nil {
			return fmt.Errorf("scan rating: %w", err)
		}
		if !user.Valid || !item.Valid || !rating.Valid {
			b.dropRating()
			continue
		}
		b.addRating(user.Int64, item.Int64, rating.Float64)
	}
	return rows.Err()
}

func (l *DuckDBLoader) readMovies(ctx context.Context, conn *sql.DB, b *builder) error {
	rows, err := conn.QueryContext(ctx, l.moviesQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item sql.NullInt64
		var title, genres sql.NullString
		if err := rows.Scan(&item, &title, &genres); err != nil {
			return fmt.Errorf("scan movie: %w", err)
		}
		if !item.Valid || !title.Valid {
			b.dropMovie()
			continue
		}
		b.addMovie(item.Int64, title.String, parseGenres(genres.String))
	}
	return rows.Err()
}

// defaultRatingsQuery reads ratings.csv with every column as VARCHAR so a
// malformed value becomes NULL instead of failing type inference.
func defaultRatingsQuery(path string) string {
	return fmt.Sprintf(`SELECT
	TRY_CAST(userId AS BIGINT) AS user_id,
	TRY_CAST(movieId AS BIGINT) AS item_id,
	TRY_CAST(rating AS DOUBLE) AS rating
FROM read_csv_auto(%s, header = true, all_varchar = true, null_padding = true)`, sqlString(path))
}

func defaultMoviesQuery(path string) string {
	return fmt.Sprintf(`SELECT
	TRY_CAST(movieId AS BIGINT) AS item_id,
	title,
	genres
FROM read_csv_auto(%s, header = true, all_varchar = true, null_padding = true)`, sqlString(path))
}

// sqlString quotes s as a SQL string literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// duckDBDSN builds the connection string. An empty path opens an
// in-memory database.
func duckDBDSN(cfg config.DuckDBConfig) string {
	params := url.Values{}
	params.Set("autoinstall_known_extensions", "false")
	params.Set("autoload_known_extensions", "false")
	if cfg.Threads > 0 {
		params.Set("threads", strconv.Itoa(cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		params.Set("max_memory", cfg.MaxMemory)
	}
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	} else {
		params.Set("access_mode", "read_only")
	}
	return path + "?" + params.Encode()
}
