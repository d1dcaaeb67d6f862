// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/moviematch/internal/recommend"
)

// recommender is the part of *recommend.Engine the CLI drives.
type recommender interface {
	Candidates(n int) []recommend.Candidate
	Recommend(ctx context.Context, ratings []recommend.ItemRating) (*recommend.Result, error)
}

var _ recommender = (*recommend.Engine)(nil)

const (
	minRating = 1.0
	maxRating = 5.0
)

// parseRating accepts 1 to 5 in half steps.
func parseRating(s string) (float64, bool) {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(r) {
		return 0, false
	}
	if r < minRating || r > maxRating || r*2 != math.Trunc(r*2) {
		return 0, false
	}
	return r, true
}

// collectRatings prompts once per candidate until it gets a valid rating, a
// skip (empty line or "s"), or a quit ("q"). EOF ends collection early.
func collectRatings(sc *bufio.Scanner, out io.Writer, candidates []recommend.Candidate) []recommend.ItemRating {
	var ratings []recommend.ItemRating
	fmt.Fprintf(out, "Rate these movies from 1 to 5 (halves allowed). Enter or \"s\" skips, \"q\" stops.\n\n")

	for i, c := range candidates {
		for {
			fmt.Fprintf(out, "[%d/%d] %s (%s): ", i+1, len(candidates), c.Title, strings.Join(c.Genres, "|"))
			if !sc.Scan() {
				fmt.Fprintln(out)
				return ratings
			}
			in := strings.TrimSpace(sc.Text())
			switch strings.ToLower(in) {
			case "", "s":
			case "q":
				return ratings
			default:
				r, ok := parseRating(in)
				if !ok {
					fmt.Fprintf(out, "  %q is not a rating from 1 to 5.\n", in)
					continue
				}
				ratings = append(ratings, recommend.ItemRating{ItemID: c.ItemID, Rating: r})
			}
			break
		}
	}
	return ratings
}

// printResult writes the predictions as a ranked table.
func printResult(out io.Writer, res *recommend.Result) {
	fmt.Fprintf(out, "\nTop %d recommendations (you are user %d):\n\n", len(res.Predictions), res.UserID)
	for i, p := range res.Predictions {
		fmt.Fprintf(out, "%3d. %-60s %.1f\n", i+1, p.Title, p.PredictedRating)
	}
	if len(res.Neighbors) > 0 {
		fmt.Fprintf(out, "\nBased on %d similar users (closest: user %d, similarity %.3f)\n",
			len(res.Neighbors), res.Neighbors[0].UserID, res.Neighbors[0].Similarity)
	}
}

// runSession is one interactive recommendation round. It returns the
// process exit code.
func runSession(ctx context.Context, engine recommender, candidates int, in io.Reader, out io.Writer) int {
	sc := bufio.NewScanner(in)
	ratings := collectRatings(sc, out, engine.Candidates(candidates))

	res, err := engine.Recommend(ctx, ratings)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	printResult(out, res)
	return 0
}
