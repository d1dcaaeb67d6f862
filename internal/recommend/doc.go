// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package recommend implements memory-based user collaborative filtering
// for movie ratings.
//
// # Architecture
//
// A recommendation run for a new user flows through four stages:
//
//   - Similarity: Pearson correlation over co-rated items (Similarity)
//   - Neighborhood: top-k most similar other users (FindNeighbors)
//   - Prediction: similarity-weighted average of neighbor ratings (Predict)
//   - Orchestration: register user, score unrated items, rank (Engine.Recommend)
//
// The ratings table and catalog live in a Corpus, which is built once from
// a Dataset and owned by the caller.
//
// # Behavior Notes
//
// By default Pearson means are taken over each user's whole history, not
// the co-rated subset. Set Config.MeanMode to MeanCommon for the textbook
// coefficient.
//
// Predictions do not clamp negative similarities. When the weights for an
// item sum to zero or less the predicted rating is FallbackRating (1).
//
// New users are kept in the corpus after Recommend returns and become
// candidate neighbors for later requests. Without an EvictionConfig the
// corpus grows by one user per request for the life of the process.
//
// # Usage
//
//	corpus := recommend.NewCorpus(dataset)
//	engine, err := recommend.NewEngine(corpus, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	result, err := engine.Recommend(ctx, []recommend.ItemRating{
//	    {ItemID: 1, Rating: 5},
//	    {ItemID: 50, Rating: 3},
//	})
//
// # Thread Safety
//
// Engine and Corpus are safe for concurrent use. Registering a user takes
// the corpus write lock; neighbor search and prediction share a read lock.
package recommend
