// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"math"
	"sort"
)

// MeanMode selects which ratings the Pearson means are computed over.
type MeanMode string

const (
	// MeanFull takes each user's mean over their entire rating history.
	// This is the reference behavior and the default.
	MeanFull MeanMode = "full"

	// MeanCommon takes each user's mean over the co-rated items only,
	// which is the textbook Pearson correlation.
	MeanCommon MeanMode = "common"
)

// Valid reports whether m is a known mode.
func (m MeanMode) Valid() bool {
	return m == MeanFull || m == MeanCommon
}

// Similarity returns the Pearson correlation of a and b over the items
// both users rated. The result is in [-1, 1]; it is 0 when the vectors
// share no items or either side has no variance over the shared items.
//
// With MeanFull the deviations are taken from each user's overall mean,
// not the mean of the co-rated subset. Scores therefore differ from the
// textbook coefficient whenever a user rated items the other did not.
func Similarity(a, b RatingVector, mode MeanMode) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the shorter vector, look up in the longer one
	small, large := a, b
	swapped := false
	if len(b) < len(a) {
		small, large = b, a
		swapped = true
	}
	idx := large.index()

	type pair struct {
		item ItemID
		x, y float64
	}
	common := make([]pair, 0, len(small))
	for _, r := range small {
		other, ok := idx[r.ItemID]
		if !ok {
			continue
		}
		if swapped {
			common = append(common, pair{item: r.ItemID, x: other, y: r.Rating})
		} else {
			common = append(common, pair{item: r.ItemID, x: r.Rating, y: other})
		}
	}
	if len(common) == 0 {
		return 0
	}
	// Sum in item order so Similarity(a, b) == Similarity(b, a) bit for bit.
	sort.Slice(common, func(i, j int) bool { return common[i].item < common[j].item })

	var avgA, avgB float64
	switch mode {
	case MeanCommon:
		for _, p := range common {
			avgA += p.x
			avgB += p.y
		}
		avgA /= float64(len(common))
		avgB /= float64(len(common))
	default:
		avgA = mean(a)
		avgB = mean(b)
	}

	var numerator, sumSqA, sumSqB float64
	for _, p := range common {
		da := p.x - avgA
		db := p.y - avgB
		numerator += da * db
		sumSqA += da * da
		sumSqB += db * db
	}

	denom := sumSqA * sumSqB
	if denom == 0 {
		return 0
	}

	sim := numerator / math.Sqrt(denom)
	// Clamp rounding overshoot
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}

func mean(v RatingVector) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, r := range v {
		sum += r.Rating
	}
	return sum / float64(len(v))
}
