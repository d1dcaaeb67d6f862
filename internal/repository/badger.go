// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	ratingKeyPrefix = "rating:"
	movieKeyPrefix  = "movie:"
	metaOrderKey    = "meta:order"
)

// snapshotOrder records the load order of a saved dataset.
type snapshotOrder struct {
	Users  []recommend.UserID `json:"users"`
	Movies []recommend.ItemID `json:"movies"`
}

// BadgerStore persists a dataset snapshot in BadgerDB.
//
// Layout:
//
//	rating:<user>:<item>  JSON RatingRecord (item zero-padded)
//	movie:<item>          JSON MovieRecord
//	meta:order            JSON snapshotOrder
//
// Ratings of one user are read back in ascending item order. Users and
// movies keep the order they were saved in.
type BadgerStore struct {
	cfg config.BadgerConfig

	mu sync.Mutex
	db *badger.DB
}

// NewBadgerStore creates a store; the database is opened on first use.
func NewBadgerStore(cfg config.BadgerConfig) *BadgerStore {
	return &BadgerStore{cfg: cfg}
}

// NewBadgerStoreFromDB wraps an already open database.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Name implements Loader.
func (s *BadgerStore) Name() string { return config.SourceBadger }

func (s *BadgerStore) open() (*badger.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	opts := badger.DefaultOptions(s.cfg.Path)
	if s.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s.db = db
	return db, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Save replaces any existing snapshot with ds.
// Duplicate (user, item) pairs keep the first rating.
func (s *BadgerStore) Save(ctx context.Context, ds *recommend.Dataset) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	if err := db.DropPrefix([]byte(ratingKeyPrefix), []byte(movieKeyPrefix), []byte(metaOrderKey)); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()

	order := snapshotOrder{
		Users:  make([]recommend.UserID, 0),
		Movies: make([]recommend.ItemID, 0, len(ds.Movies)),
	}

	seenUsers := make(map[recommend.UserID]struct{})
	seenRatings := make(map[string]struct{}, len(ds.Ratings))
	for i, r := range ds.Ratings {
		if err := cancelled(ctx, i); err != nil {
			return err
		}
		key := ratingKey(r.UserID, r.ItemID)
		if _, dup := seenRatings[key]; dup {
			continue
		}
		seenRatings[key] = struct{}{}
		if _, ok := seenUsers[r.UserID]; !ok {
			seenUsers[r.UserID] = struct{}{}
			order.Users = append(order.Users, r.UserID)
		}

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal rating: %w", err)
		}
		if err := wb.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set rating: %w", err)
		}
	}

	seenMovies := make(map[recommend.ItemID]struct{}, len(ds.Movies))
	for _, m := range ds.Movies {
		if _, dup := seenMovies[m.ItemID]; dup {
			continue
		}
		seenMovies[m.ItemID] = struct{}{}
		order.Movies = append(order.Movies, m.ItemID)

		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal movie: %w", err)
		}
		if err := wb.Set([]byte(movieKey(m.ItemID)), data); err != nil {
			return fmt.Errorf("set movie: %w", err)
		}
	}

	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	if err := wb.Set([]byte(metaOrderKey), data); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	logging.Info().
		Int("users", len(order.Users)).
		Int("ratings", len(seenRatings)).
		Int("movies", len(order.Movies)).
		Msg("Badger snapshot saved")
	return nil
}

// Load implements Loader.
func (s *BadgerStore) Load(ctx context.Context) (*recommend.Dataset, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	b := newBuilder(config.SourceBadger)
	err = db.View(func(txn *badger.Txn) error {
		var order snapshotOrder
		item, err := txn.Get([]byte(metaOrderKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &order)
		}); err != nil {
			return fmt.Errorf("decode order: %w", err)
		}

		for _, user := range order.Users {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := readUserRatings(txn, user, b); err != nil {
				return err
			}
		}

		for _, id := range order.Movies {
			if err := readMovie(txn, id, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.dataset(), nil
}

func readUserRatings(txn *badger.Txn, user recommend.UserID, b *builder) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	prefix := []byte(fmt.Sprintf("%s%d:", ratingKeyPrefix, user))
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var r recommend.RatingRecord
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		}); err != nil {
			b.dropRating()
			continue
		}
		b.addRating(int64(r.UserID), int64(r.ItemID), r.Rating)
	}
	return nil
}

func readMovie(txn *badger.Txn, id recommend.ItemID, b *builder) error {
	item, err := txn.Get([]byte(movieKey(id)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		b.dropMovie()
		return nil
	}
	if err != nil {
		return fmt.Errorf("get movie %d: %w", id, err)
	}

	var m recommend.MovieRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &m)
	}); err != nil {
		b.dropMovie()
		return nil
	}
	b.addMovie(int64(m.ItemID), m.Title, m.Genres)
	return nil
}

func ratingKey(user recommend.UserID, item recommend.ItemID) string {
	return fmt.Sprintf("%s%d:%010d", ratingKeyPrefix, user, item)
}

func movieKey(item recommend.ItemID) string {
	return fmt.Sprintf("%s%d", movieKeyPrefix, item)
}
