package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimStore provides per-fingerprint single flight. A submission writes
// a write-once inflight:{fingerprint} marker holding its job id; a second
// concurrent submission of identical content finds the marker and joins
// the claiming job instead of running the pipeline again. The short TTL
// bounds how long a crashed owner can block new work.
type ClaimStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClaimStore creates a claim store with the given marker lifetime
func NewClaimStore(r *Redis, ttl time.Duration) *ClaimStore {
	return &ClaimStore{rdb: r.Client, ttl: ttl}
}

func claimKey(fingerprint string) string {
	return inflightKeyPrefix + fingerprint
}

// Acquire attempts to claim a fingerprint for jobID. When the claim is
// already held, the owning job id is returned with acquired=false.
func (c *ClaimStore) Acquire(ctx context.Context, fingerprint, jobID string) (owner string, acquired bool, err error) {
	ok, err := c.rdb.SetNX(ctx, claimKey(fingerprint), jobID, c.ttl).Result()
	if err != nil {
		return "", false, unavailable("acquire claim", err)
	}
	if ok {
		return jobID, true, nil
	}

	owner, err = c.rdb.Get(ctx, claimKey(fingerprint)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// owner finished or expired between SetNX and Get; treat as
			// unclaimed and let the caller retry
			return "", false, nil
		}
		return "", false, unavailable("read claim", err)
	}
	return owner, false, nil
}

// Refresh extends the claim's TTL while the owning pipeline is still
// making progress
func (c *ClaimStore) Refresh(ctx context.Context, fingerprint string) error {
	if err := c.rdb.Expire(ctx, claimKey(fingerprint), c.ttl).Err(); err != nil {
		return unavailable("refresh claim", err)
	}
	return nil
}

// Release removes the claim if jobID still owns it
func (c *ClaimStore) Release(ctx context.Context, fingerprint, jobID string) error {
	owner, err := c.rdb.Get(ctx, claimKey(fingerprint)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return unavailable("release claim", err)
	}
	if owner != jobID {
		return nil
	}
	if err := c.rdb.Del(ctx, claimKey(fingerprint)).Err(); err != nil {
		return unavailable("release claim", err)
	}
	return nil
}

// SweepOrphans deletes claims whose owning job record no longer exists,
// left behind by a process that crashed mid-pipeline. Returns the number
// of claims removed.
func (c *ClaimStore) SweepOrphans(ctx context.Context) (int, error) {
	removed := 0

	iter := c.rdb.Scan(ctx, 0, inflightKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		jobID, err := c.rdb.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return removed, unavailable("sweep claims", err)
		}

		exists, err := c.rdb.Exists(ctx, jobKey(jobID)).Result()
		if err != nil {
			return removed, unavailable("sweep claims", err)
		}
		if exists == 0 {
			if err := c.rdb.Del(ctx, key).Err(); err != nil {
				return removed, unavailable("sweep claims", err)
			}
			removed++
			slog.Info("Removed orphaned claim",
				"fingerprint", strings.TrimPrefix(key, inflightKeyPrefix),
				"job_id", jobID,
			)
		}
	}
	if err := iter.Err(); err != nil {
		return removed, unavailable("sweep claims", err)
	}
	return removed, nil
}
