// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// redisBatchSize bounds the commands queued per pipeline round trip.
const redisBatchSize = 500

// NewRedisClient creates a client from the redis section.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	logging.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Connecting to Redis")
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// redisKeys builds keys under a common prefix.
//
//	<prefix>users              ZSET user id, score = load order
//	<prefix>movies             ZSET item id, score = load order
//	<prefix>user:<id>:ratings  HASH item id -> rating
//	<prefix>movie:<id>         HASH title, genres (pipe-delimited)
type redisKeys string

func (p redisKeys) users() string  { return string(p) + "users" }
func (p redisKeys) movies() string { return string(p) + "movies" }
func (p redisKeys) userRatings(id recommend.UserID) string {
	return fmt.Sprintf("%suser:%d:ratings", p, id)
}
func (p redisKeys) movie(id recommend.ItemID) string {
	return fmt.Sprintf("%smovie:%d", p, id)
}

// RedisStore reads and writes the corpus as Redis hashes and sorted sets.
// Ratings of one user are read back in ascending item order.
type RedisStore struct {
	client *redis.Client
	keys   redisKeys
	owned  bool
}

// NewRedisStore creates a store with its own client.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{client: NewRedisClient(cfg), keys: redisKeys(cfg.KeyPrefix), owned: true}
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keys: redisKeys(keyPrefix)}
}

// Name implements Loader.
func (s *RedisStore) Name() string { return config.SourceRedis }

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// Load implements Loader.
func (s *RedisStore) Load(ctx context.Context) (*recommend.Dataset, error) {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	users, err := s.client.ZRange(ctx, s.keys.users(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	movies, err := s.client.ZRange(ctx, s.keys.movies(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read movies: %w", err)
	}
	if len(users) == 0 && len(movies) == 0 {
		return nil, ErrSnapshotNotFound
	}

	b := newBuilder(config.SourceRedis)
	if err := s.readRatings(ctx, users, b); err != nil {
		return nil, err
	}
	if err := s.readMovies(ctx, movies, b); err != nil {
		return nil, err
	}
	return b.dataset(), nil
}

func (s *RedisStore) readRatings(ctx context.Context, users []string, b *builder) error {
	for start := 0; start < len(users); start += redisBatchSize {
		batch := users[start:min(start+redisBatchSize, len(users))]

		ids := make([]int64, len(batch))
		cmds := make([]*redis.MapStringStringCmd, len(batch))
		pipe := s.client.Pipeline()
		for i, member := range batch {
			id, ok := parseID(member)
			if !ok {
				b.dropRating()
				continue
			}
			ids[i] = id
			cmds[i] = pipe.HGetAll(ctx, s.keys.userRatings(recommend.UserID(id)))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("read ratings: %w", err)
		}

		for i, cmd := range cmds {
			if cmd == nil {
				continue
			}
			addRatingHash(ids[i], cmd.Val(), b)
		}
	}
	return nil
}

// addRatingHash adds one user's ratings in ascending item order.
func addRatingHash(user int64, fields map[string]string, b *builder) {
	type pair struct {
		item   int64
		rating float64
	}
	pairs := make([]pair, 0, len(fields))
	for k, v := range fields {
		item, ok := parseID(k)
		rating, err := strconv.ParseFloat(v, 64)
		if !ok || err != nil {
			b.dropRating()
			continue
		}
		pairs = append(pairs, pair{item, rating})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].item < pairs[j].item })
	for _, p := range pairs {
		b.addRating(user, p.item, p.rating)
	}
}

func (s *RedisStore) readMovies(ctx context.Context, movies []string, b *builder) error {
	for start := 0; start < len(movies); start += redisBatchSize {
		batch := movies[start:min(start+redisBatchSize, len(movies))]

		ids := make([]int64, len(batch))
		cmds := make([]*redis.MapStringStringCmd, len(batch))
		pipe := s.client.Pipeline()
		for i, member := range batch {
			id, ok := parseID(member)
			if !ok {
				b.dropMovie()
				continue
			}
			ids[i] = id
			cmds[i] = pipe.HGetAll(ctx, s.keys.movie(recommend.ItemID(id)))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("read movies: %w", err)
		}

		for i, cmd := range cmds {
			if cmd == nil {
				continue
			}
			fields := cmd.Val()
			title, ok := fields["title"]
			if !ok {
				b.dropMovie()
				continue
			}
			b.addMovie(ids[i], title, parseGenres(fields["genres"]))
		}
	}
	return nil
}

// Save replaces the stored corpus with ds.
// Duplicate (user, item) pairs keep the first rating.
func (s *RedisStore) Save(ctx context.Context, ds *recommend.Dataset) error {
	if err := s.clear(ctx); err != nil {
		return err
	}

	byUser := make(map[recommend.UserID]map[string]interface{})
	var users []recommend.UserID
	for _, r := range ds.Ratings {
		fields, ok := byUser[r.UserID]
		if !ok {
			fields = make(map[string]interface{})
			byUser[r.UserID] = fields
			users = append(users, r.UserID)
		}
		item := strconv.Itoa(int(r.ItemID))
		if _, dup := fields[item]; !dup {
			fields[item] = strconv.FormatFloat(r.Rating, 'f', -1, 64)
		}
	}

	for start := 0; start < len(users); start += redisBatchSize {
		batch := users[start:min(start+redisBatchSize, len(users))]
		_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range batch {
				pipe.HSet(ctx, s.keys.userRatings(id), byUser[id])
				pipe.ZAdd(ctx, s.keys.users(), redis.Z{Score: float64(start + i), Member: int(id)})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("write ratings: %w", err)
		}
	}

	movies := make([]recommend.MovieRecord, 0, len(ds.Movies))
	seenMovies := make(map[recommend.ItemID]struct{}, len(ds.Movies))
	for _, m := range ds.Movies {
		if _, dup := seenMovies[m.ItemID]; !dup {
			seenMovies[m.ItemID] = struct{}{}
			movies = append(movies, m)
		}
	}

	for start := 0; start < len(movies); start += redisBatchSize {
		batch := movies[start:min(start+redisBatchSize, len(movies))]
		_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, m := range batch {
				pipe.HSet(ctx, s.keys.movie(m.ItemID), "title", m.Title, "genres", joinGenres(m.Genres))
				pipe.ZAdd(ctx, s.keys.movies(), redis.Z{Score: float64(start + i), Member: int(m.ItemID)})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("write movies: %w", err)
		}
	}

	logging.Info().
		Int("users", len(users)).
		Int("ratings", len(ds.Ratings)).
		Int("movies", len(movies)).
		Msg("Redis snapshot saved")
	return nil
}

// clear removes every key the store owns.
func (s *RedisStore) clear(ctx context.Context) error {
	var cursor uint64
	match := string(s.keys) + "*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, redisBatchSize).Result()
		if err != nil {
			return fmt.Errorf("scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
