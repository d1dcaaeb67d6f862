// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// movieDoc is a document in the movies collection.
type movieDoc struct {
	MovieID int64    `bson:"movieId"`
	Title   string   `bson:"title"`
	Genres  []string `bson:"genres"`
}

// ratingDoc is a document in the ratings collection.
type ratingDoc struct {
	UserID  int64   `bson:"userId"`
	MovieID int64   `bson:"movieId"`
	Rating  float64 `bson:"rating"`
}

// MongoLoader reads the corpus from MongoDB collections.
type MongoLoader struct {
	cfg config.MongoConfig

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongoLoader creates a loader; the client connects on first Load.
func NewMongoLoader(cfg config.MongoConfig) *MongoLoader {
	return &MongoLoader{cfg: cfg}
}

// Name implements Loader.
func (l *MongoLoader) Name() string { return config.SourceMongo }

// connect establishes the client once and verifies it with a ping.
func (l *MongoLoader) connect(ctx context.Context) (*mongo.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(l.cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(l.cfg.ConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, l.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	l.client = client
	return client, nil
}

// Close disconnects the client.
func (l *MongoLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.cfg.ConnectTimeout)
	defer cancel()
	err := l.client.Disconnect(ctx)
	l.client = nil
	return err
}

// Load implements Loader.
func (l *MongoLoader) Load(ctx context.Context) (*recommend.Dataset, error) {
	client, err := l.connect(ctx)
	if err != nil {
		return nil, err
	}
	db := client.Database(l.cfg.Database)

	b := newBuilder(config.SourceMongo)
	if err := readMongoRatings(ctx, db.Collection(l.cfg.RatingsCollection), b); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.cfg.RatingsCollection, err)
	}
	if err := readMongoMovies(ctx, db.Collection(l.cfg.MoviesCollection), b); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.cfg.MoviesCollection, err)
	}
	return b.dataset(), nil
}

func readMongoRatings(ctx context.Context, coll *mongo.Collection, b *builder) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}, {Key: "rating", Value: 1}})

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	defer closeCursor(ctx, cursor)

	for cursor.Next(ctx) {
		var doc ratingDoc
		if err := cursor.Decode(&doc); err != nil {
			b.dropRating()
			continue
		}
		b.addRating(doc.UserID, doc.MovieID, doc.Rating)
	}
	return cursor.Err()
}

func readMongoMovies(ctx context.Context, coll *mongo.Collection, b *builder) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "movieId", Value: 1}, {Key: "title", Value: 1}, {Key: "genres", Value: 1}})

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	defer closeCursor(ctx, cursor)

	for cursor.Next(ctx) {
		var doc movieDoc
		if err := cursor.Decode(&doc); err != nil {
			b.dropMovie()
			continue
		}
		b.addMovie(doc.MovieID, doc.Title, normalizeGenres(doc.Genres))
	}
	return cursor.Err()
}

// normalizeGenres drops the MovieLens placeholder when a store kept it as a list item.
func normalizeGenres(genres []string) []string {
	if len(genres) == 1 {
		return parseGenres(genres[0])
	}
	return genres
}

func closeCursor(ctx context.Context, cursor *mongo.Cursor) {
	if err := cursor.Close(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to close Mongo cursor")
	}
}
