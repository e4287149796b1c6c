// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"menuboard/internal/models"
)

const (
	// storeKeyPrefix is the Valkey key prefix for cached store profiles.
	storeKeyPrefix = "store:"

	// DefaultStoreTTL is how long a store profile stays cached.
	DefaultStoreTTL = 5 * time.Minute
)

// StoreFinder resolves a store by UUID or slug; nil, nil when absent.
type StoreFinder interface {
	FindStore(ctx context.Context, idOrSlug string) (*models.Store, error)
}

// StoreCache is a read-through cache of store profiles. Every calendar, grid
// and import call resolves its store first, so this keeps that lookup off
// the database. Valkey errors are logged and fall back to the database.
type StoreCache struct {
	next   StoreFinder
	client redis.Cmdable
	ttl    time.Duration
}

// NewStoreCache wraps next. A nil client disables caching.
func NewStoreCache(next StoreFinder, client redis.Cmdable, ttl time.Duration) *StoreCache {
	if ttl <= 0 {
		ttl = DefaultStoreTTL
	}
	return &StoreCache{next: next, client: client, ttl: ttl}
}

func storeKey(idOrSlug string) string {
	return storeKeyPrefix + idOrSlug
}

// FindStore returns the cached profile for idOrSlug, loading and caching it
// on a miss. Missing stores are not cached.
func (c *StoreCache) FindStore(ctx context.Context, idOrSlug string) (*models.Store, error) {
	if c.client == nil {
		return c.next.FindStore(ctx, idOrSlug)
	}

	if s, ok := c.get(ctx, idOrSlug); ok {
		return s, nil
	}

	s, err := c.next.FindStore(ctx, idOrSlug)
	if err != nil || s == nil {
		return s, err
	}
	c.set(ctx, s)
	return s, nil
}

func (c *StoreCache) get(ctx context.Context, idOrSlug string) (*models.Store, bool) {
	val, err := c.client.Get(ctx, storeKey(idOrSlug)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("store cache get error", "store", idOrSlug, "error", err)
		return nil, false
	}
	var s models.Store
	if err := json.Unmarshal(val, &s); err != nil {
		slog.Warn("store cache decode error", "store", idOrSlug, "error", err)
		return nil, false
	}
	slog.Debug("store cache hit", "store", idOrSlug)
	return &s, true
}

// set stores s under both its UUID and its slug.
func (c *StoreCache) set(ctx context.Context, s *models.Store) {
	val, err := json.Marshal(s)
	if err != nil {
		slog.Warn("store cache encode error", "store_id", s.ID, "error", err)
		return
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, storeKey(s.ID.String()), val, c.ttl)
	pipe.Set(ctx, storeKey(s.Slug), val, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("store cache set error", "store_id", s.ID, "error", err)
	}
}
