// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import "sort"

// Candidate is a movie offered to a new user for rating.
type Candidate struct {
	ItemID      ItemID   `json:"item_id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	RatingCount int      `json:"rating_count"`
}

// PopularCandidates returns the n catalog items rated by the most loaded
// users. Ties keep catalog order. Items nobody rated are included last
// when the catalog has fewer than n rated items.
func PopularCandidates(cat *Catalog, n int) []Candidate {
	if n <= 0 || cat.Len() == 0 {
		return nil
	}

	items := cat.Items()
	ranked := make([]Candidate, 0, len(items))
	for _, id := range items {
		meta, _ := cat.Get(id)
		ranked = append(ranked, Candidate{
			ItemID:      id,
			Title:       meta.Title,
			Genres:      nonNil(meta.Genres),
			RatingCount: cat.RatingCount(id),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RatingCount > ranked[j].RatingCount
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
