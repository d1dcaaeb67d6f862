// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import "math"

// FallbackRating is returned when no neighbor provides usable signal.
const FallbackRating = 1.0

// Predict returns the similarity-weighted average of the neighbors'
// ratings for item, rounded to one decimal place.
//
// Similarities are used as-is. A negatively correlated neighbor lowers
// both the weighted sum and the weight total; once the total is zero or
// negative the prediction falls back to FallbackRating.
func Predict(item ItemID, neighbors []Neighbor) float64 {
	return newPredictor(neighbors).predict(item)
}

// predictor indexes neighbor vectors so many items can be scored
// against the same neighborhood.
type predictor struct {
	sims    []float64
	ratings []map[ItemID]float64
}

func newPredictor(neighbors []Neighbor) *predictor {
	p := &predictor{
		sims:    make([]float64, len(neighbors)),
		ratings: make([]map[ItemID]float64, len(neighbors)),
	}
	for i, n := range neighbors {
		p.sims[i] = n.Similarity
		p.ratings[i] = n.Ratings.index()
	}
	return p
}

func (p *predictor) predict(item ItemID) float64 {
	var weighted, simSum float64
	for i, idx := range p.ratings {
		rating, ok := idx[item]
		if !ok {
			continue
		}
		weighted += rating * p.sims[i]
		simSum += p.sims[i]
	}

	if simSum > 0 {
		return round1(weighted / simSum)
	}
	return FallbackRating
}

// round1 rounds to one decimal place, halves away from zero.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
