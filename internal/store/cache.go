package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faultline/faultline/internal/model"
)

// ResultCache maps a content fingerprint to a previously computed report
// under cache:{fingerprint}. Entries carry a fixed TTL set on write;
// repeated submissions of identical content bypass the whole pipeline.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultCache creates a result cache with the given entry lifetime
func NewResultCache(r *Redis, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: r.Client, ttl: ttl}
}

func cacheKey(fingerprint string) string {
	return cacheKeyPrefix + fingerprint
}

// Lookup returns the cached entry for a fingerprint. A miss is a normal
// outcome, reported through found, not an error.
func (c *ResultCache) Lookup(ctx context.Context, fingerprint string) (entry *model.CacheEntry, found bool, err error) {
	data, err := c.rdb.Get(ctx, cacheKey(fingerprint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, unavailable("cache lookup", err)
	}

	var e model.CacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, err
	}
	return &e, true, nil
}

// Store writes a cache entry, overwriting any previous value for the
// fingerprint and refreshing the TTL. Idempotent.
func (c *ResultCache) Store(ctx context.Context, fingerprint string, result *model.AnalysisReport, markdown string) error {
	entry := model.CacheEntry{
		Result:   *result,
		Markdown: markdown,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, cacheKey(fingerprint), data, c.ttl).Err(); err != nil {
		return unavailable("cache store", err)
	}
	return nil
}
