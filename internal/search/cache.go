// internal/search/cache.go
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/models"
)

const (
	cacheKeyPrefix     = "medsearch:candidates:"
	cacheGenerationKey = "medsearch:generation"
)

// CacheBackend is the subset of *redis.Client the cache needs.
type CacheBackend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CachedStore is a read-through cache in front of a RecordStore. Any cache
// failure falls through to the wrapped store.
type CachedStore struct {
	next    RecordStore
	backend CacheBackend
	ttl     time.Duration
	log     *logrus.Entry
}

func NewCachedStore(next RecordStore, backend CacheBackend, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:    next,
		backend: backend,
		ttl:     ttl,
		log:     logrus.WithField("component", "search_cache"),
	}
}

func (c *CachedStore) FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.InventoryItem, error) {
	key, err := c.key(ctx, filter)
	if err != nil {
		c.log.WithError(err).Warn("Search cache unavailable, reading through")
		return c.next.FindCandidates(ctx, filter)
	}

	raw, err := c.backend.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []models.InventoryItem
		jsonErr := json.Unmarshal(raw, &items)
		if jsonErr == nil {
			return items, nil
		}
		c.log.WithError(jsonErr).Warn("Discarding undecodable search cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).Warn("Search cache read failed")
	}

	items, err := c.next.FindCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := c.backend.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("Search cache write failed")
		}
	}
	return items, nil
}

// Invalidate retires every cached candidate set by bumping the generation.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	return c.backend.Incr(ctx, cacheGenerationKey).Err()
}

func (c *CachedStore) key(ctx context.Context, filter CandidateFilter) (string, error) {
	generation, err := c.backend.Get(ctx, cacheGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	sum := sha256.Sum256([]byte(filter.Text + "|" + filter.Day() + "|" + strconv.FormatInt(generation, 10)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}
