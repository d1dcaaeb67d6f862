// MovieMatch - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"sync"
	"time"
)

// Table is the ratings table: user vectors in insertion order.
// A Table is not safe for concurrent mutation; access it through Corpus.
type Table struct {
	order   []UserID
	vectors map[UserID]RatingVector
}

// NewTable returns an empty ratings table.
func NewTable() *Table {
	return &Table{vectors: make(map[UserID]RatingVector)}
}

// Len returns the number of users.
func (t *Table) Len() int {
	return len(t.order)
}

// Users returns user ids in insertion order. The slice must not be modified.
func (t *Table) Users() []UserID {
	return t.order
}

// Vector returns the ratings for a user.
func (t *Table) Vector(id UserID) (RatingVector, bool) {
	v, ok := t.vectors[id]
	return v, ok
}

// add inserts or replaces a user. Empty vectors are ignored.
func (t *Table) add(id UserID, v RatingVector) {
	if len(v) == 0 {
		return
	}
	if _, exists := t.vectors[id]; !exists {
		t.order = append(t.order, id)
	}
	t.vectors[id] = v
}

// remove deletes the given users, preserving the order of the rest.
func (t *Table) remove(ids map[UserID]struct{}) {
	if len(ids) == 0 {
		return
	}
	kept := t.order[:0]
	for _, id := range t.order {
		if _, drop := ids[id]; drop {
			delete(t.vectors, id)
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
}

// Catalog is the read-only movie catalog in load order.
type Catalog struct {
	order        []ItemID
	items        map[ItemID]ItemMeta
	ratingCounts map[ItemID]int
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Items returns item ids in catalog order. The slice must not be modified.
func (c *Catalog) Items() []ItemID {
	return c.order
}

// Get returns the metadata for an item.
func (c *Catalog) Get(id ItemID) (ItemMeta, bool) {
	m, ok := c.items[id]
	return m, ok
}

// RatingCount returns how many loaded users rated the item.
func (c *Catalog) RatingCount(id ItemID) int {
	return c.ratingCounts[id]
}

type syntheticUser struct {
	id        UserID
	createdAt time.Time
}

// Corpus owns the ratings table and catalog for the process lifetime.
// Reads share a lock; adding or evicting users takes it exclusively.
type Corpus struct {
	mu        sync.RWMutex
	table     *Table
	catalog   *Catalog
	maxUserID UserID
	ratings   int

	// Runtime-registered users, oldest first
	synthetic []syntheticUser
	eviction  EvictionConfig

	now func() time.Time
}

// NewCorpus builds a corpus from a dataset. Rows keep their source order;
// duplicate (user, item) ratings keep the first occurrence. Ratings for
// items missing from the catalog are retained in user vectors.
func NewCorpus(ds *Dataset) *Corpus {
	c := &Corpus{
		table: NewTable(),
		catalog: &Catalog{
			items:        make(map[ItemID]ItemMeta),
			ratingCounts: make(map[ItemID]int),
		},
		now: time.Now,
	}
	if ds == nil {
		return c
	}

	for _, m := range ds.Movies {
		if _, exists := c.catalog.items[m.ItemID]; exists {
			continue
		}
		c.catalog.order = append(c.catalog.order, m.ItemID)
		c.catalog.items[m.ItemID] = ItemMeta{Title: m.Title, Genres: m.Genres}
	}

	grouped := make(map[UserID][]ItemRating)
	var order []UserID
	for _, r := range ds.Ratings {
		if _, seen := grouped[r.UserID]; !seen {
			order = append(order, r.UserID)
		}
		grouped[r.UserID] = append(grouped[r.UserID], ItemRating{ItemID: r.ItemID, Rating: r.Rating})
	}
	for _, id := range order {
		v := dedupe(grouped[id])
		c.table.add(id, v)
		c.ratings += len(v)
		for _, r := range v {
			c.catalog.ratingCounts[r.ItemID]++
		}
		if id > c.maxUserID {
			c.maxUserID = id
		}
	}

	return c
}

// SetEvictionPolicy configures bounds on runtime-registered users.
func (c *Corpus) SetEvictionPolicy(cfg EvictionConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eviction = cfg
}

// Registration describes a user added at runtime.
type Registration struct {
	UserID  UserID
	Ratings RatingVector

	// Evicted is the number of older runtime users removed to make room.
	Evicted int
}

// AddUser registers a new user with id max(existing)+1.
// Returns ErrNoRatings for empty input and ErrEmptyCorpus when no users
// have been loaded.
func (c *Corpus) AddUser(ratings []ItemRating) (Registration, error) {
	if len(ratings) == 0 {
		return Registration{}, ErrNoRatings
	}
	v := dedupe(ratings)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table.Len() == 0 {
		return Registration{}, ErrEmptyCorpus
	}

	c.maxUserID++
	id := c.maxUserID
	c.table.add(id, v)
	c.ratings += len(v)
	c.synthetic = append(c.synthetic, syntheticUser{id: id, createdAt: c.now()})

	evicted := 0
	if limit := c.eviction.MaxSyntheticUsers; limit > 0 && len(c.synthetic) > limit {
		evicted = c.evictLocked(len(c.synthetic) - limit)
	}

	return Registration{UserID: id, Ratings: v, Evicted: evicted}, nil
}

// EvictExpired removes runtime users older than the configured TTL and
// returns how many were removed.
func (c *Corpus) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eviction.TTL <= 0 {
		return 0
	}
	cutoff := c.now().Add(-c.eviction.TTL)
	n := 0
	for n < len(c.synthetic) && c.synthetic[n].createdAt.Before(cutoff) {
		n++
	}
	return c.evictLocked(n)
}

// evictLocked removes the n oldest synthetic users. Caller holds mu.
func (c *Corpus) evictLocked(n int) int {
	if n <= 0 {
		return 0
	}
	drop := make(map[UserID]struct{}, n)
	for _, u := range c.synthetic[:n] {
		drop[u.id] = struct{}{}
		if v, ok := c.table.Vector(u.id); ok {
			c.ratings -= len(v)
		}
	}
	c.table.remove(drop)
	c.synthetic = append([]syntheticUser(nil), c.synthetic[n:]...)
	return n
}

// Read runs fn with shared access to the table and catalog.
// fn must not retain either past its return.
func (c *Corpus) Read(fn func(t *Table, cat *Catalog) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(c.table, c.catalog)
}

// Catalog returns the catalog. It is immutable after construction.
func (c *Corpus) Catalog() *Catalog {
	return c.catalog
}

// Stats returns a snapshot of corpus size.
func (c *Corpus) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Users:          c.table.Len(),
		SyntheticUsers: len(c.synthetic),
		Items:          c.catalog.Len(),
		Ratings:        c.ratings,
		MaxUserID:      int(c.maxUserID),
	}
}
