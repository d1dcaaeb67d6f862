// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package repository loads the ratings corpus that seeds the recommendation engine.

Every source implements Loader and returns a recommend.Dataset whose row
order is the source order. Malformed rows (non-numeric fields, ids <= 0,
ratings outside (0, 5]) are dropped, counted in
moviematch_repository_rows_dropped_total and summarized in a debug log line.

# Sources

  - CSVLoader: MovieLens ratings.csv and movies.csv (encoding/csv)
  - DuckDBLoader: SQL over DuckDB, read_csv_auto over the same files by default
  - BadgerStore: a snapshot written by cmd/snapshot (BadgerDB)
  - MongoLoader: movies and ratings collections (mongo-driver v2)
  - RedisStore: hashes and sorted sets written by cmd/snapshot (go-redis v9)

New selects a source from data.source. Remote sources (mongo, redis) are
wrapped in Resilient, which adds a sony/gobreaker circuit breaker and
linear-backoff retry.

# Usage

	loader, err := repository.New(cfg)
	if err != nil {
	    return err
	}
	defer repository.Close(loader)

	ds, err := repository.LoadDataset(ctx, loader, cfg.Data.LoadTimeout)
	if err != nil {
	    return err
	}
	corpus := recommend.NewCorpus(ds)

# Snapshots

BadgerStore and RedisStore also implement Store. Save replaces the stored
snapshot. Within one user, ratings are read back in ascending item order;
user and movie order is preserved.
*/
package repository
