// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

//go:build integration

package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/testinfra"
)

func TestMongoLoader_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	client, err := mongo.Connect(options.Client().ApplyURI(container.URI))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect(ctx) //nolint:errcheck

	db := client.Database("movielens")
	ds := sampleDataset()

	ratings := make([]interface{}, 0, len(ds.Ratings))
	for _, r := range ds.Ratings {
		ratings = append(ratings, bson.D{
			{Key: "userId", Value: int(r.UserID)},
			{Key: "movieId", Value: int(r.ItemID)},
			{Key: "rating", Value: r.Rating},
		})
	}
	if _, err := db.Collection("ratings").InsertMany(ctx, ratings); err != nil {
		t.Fatalf("insert ratings: %v", err)
	}

	movies := []interface{}{
		bson.D{{Key: "movieId", Value: 10}, {Key: "title", Value: "Toy Story (1995)"}, {Key: "genres", Value: []string{"Adventure", "Animation"}}},
		bson.D{{Key: "movieId", Value: 20}, {Key: "title", Value: "Jumanji (1995)"}, {Key: "genres", Value: []string{"(no genres listed)"}}},
	}
	if _, err := db.Collection("movies").InsertMany(ctx, movies); err != nil {
		t.Fatalf("insert movies: %v", err)
	}

	loader := NewMongoLoader(config.MongoConfig{
		URI:               container.URI,
		Database:          "movielens",
		MoviesCollection:  "movies",
		RatingsCollection: "ratings",
		ConnectTimeout:    10 * time.Second,
	})
	defer loader.Close() //nolint:errcheck

	got, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("Load() = %+v, want %+v", got, ds)
	}
}

func TestRedisStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	store := NewRedisStore(config.RedisConfig{Addr: container.Addr, KeyPrefix: "mm-test:"})
	defer store.Close() //nolint:errcheck

	if _, err := store.Load(ctx); err != ErrSnapshotNotFound {
		t.Fatalf("Load() on empty redis = %v, want ErrSnapshotNotFound", err)
	}

	ds := sampleDataset()
	if err := store.Save(ctx, ds); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("Load() = %+v, want %+v", got, ds)
	}

	// Resilient path over a live store
	resilient := NewResilient(NewRedisStoreFromClient(store.client, "mm-test:"), config.DataConfig{
		RetryAttempts: 2,
		Breaker:       config.BreakerConfig{FailureThreshold: 3, Timeout: time.Minute},
	})
	if _, err := resilient.Load(ctx); err != nil {
		t.Errorf("Resilient Load() error = %v", err)
	}
}
