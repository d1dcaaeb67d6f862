// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/repository"
)

type summary struct {
	Ratings  int
	Movies   int
	Verified bool
}

// copySnapshot loads src and saves it to dst. With verify, dst is read back
// and must produce the same corpus size as src.
func copySnapshot(ctx context.Context, src repository.Loader, dst repository.Store, timeout time.Duration, verify bool) (summary, error) {
	ds, err := repository.LoadDataset(ctx, src, timeout)
	if err != nil {
		return summary{}, err
	}
	if err := dst.Save(ctx, ds); err != nil {
		return summary{}, fmt.Errorf("save snapshot to %s: %w", dst.Name(), err)
	}

	want := recommend.NewCorpus(ds).Stats()
	sum := summary{Ratings: want.Ratings, Movies: want.Items}
	if !verify {
		return sum, nil
	}

	back, err := repository.LoadDataset(ctx, dst, timeout)
	if err != nil {
		return sum, fmt.Errorf("verify snapshot: %w", err)
	}
	got := recommend.NewCorpus(back).Stats()
	if got.Users != want.Users || got.Items != want.Items || got.Ratings != want.Ratings {
		return sum, fmt.Errorf("verify snapshot: got %d users/%d items/%d ratings, want %d/%d/%d",
			got.Users, got.Items, got.Ratings, want.Users, want.Items, want.Ratings)
	}
	sum.Verified = true
	return sum, nil
}
