// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"fmt"
	"sort"
	"sync"
)

// NeighborOptions tunes neighbor search.
type NeighborOptions struct {
	// MeanMode is passed through to Similarity.
	MeanMode MeanMode

	// Workers splits similarity computation across goroutines.
	// Values <= 1 run sequentially. Output does not depend on it.
	Workers int
}

// FindNeighbors ranks every other user in the table by similarity to
// target and returns at most k of them, most similar first. Ties keep
// table insertion order. No similarity cutoff is applied, so zero and
// negative correlations are returned when k exceeds the positive ones.
func FindNeighbors(target UserID, table *Table, k int, opts NeighborOptions) ([]Neighbor, error) {
	vec, ok := table.Vector(target)
	if !ok {
		return nil, fmt.Errorf("find neighbors for user %d: %w", target, ErrUnknownUser)
	}
	return rankNeighbors(target, vec, table, k, opts), nil
}

// rankNeighbors is FindNeighbors with the target vector supplied directly.
func rankNeighbors(target UserID, vec RatingVector, table *Table, k int, opts NeighborOptions) []Neighbor {
	if k <= 0 {
		return nil
	}

	users := table.Users()
	others := make([]UserID, 0, len(users))
	for _, id := range users {
		if id != target {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return nil
	}

	sims := make([]float64, len(others))
	score := func(start, end int) {
		for i := start; i < end; i++ {
			other, _ := table.Vector(others[i])
			sims[i] = Similarity(vec, other, opts.MeanMode)
		}
	}

	workers := opts.Workers
	if workers <= 1 || len(others) < workers*2 {
		score(0, len(others))
	} else {
		// Each worker owns a disjoint index range of sims
		var wg sync.WaitGroup
		chunkSize := (len(others) + workers - 1) / workers

		for w := 0; w < workers; w++ {
			start := w * chunkSize
			end := start + chunkSize
			if end > len(others) {
				end = len(others)
			}
			if start >= end {
				break
			}

			wg.Add(1)
			go func(s, e int) {
				defer wg.Done()
				score(s, e)
			}(start, end)
		}

		wg.Wait()
	}

	neighbors := make([]Neighbor, len(others))
	for i, id := range others {
		ratings, _ := table.Vector(id)
		neighbors[i] = Neighbor{UserID: id, Similarity: sims[i], Ratings: ratings}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}
