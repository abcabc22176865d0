package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes in the shared key-value store
const (
	jobKeyPrefix      = "job:"
	cacheKeyPrefix    = "cache:"
	inflightKeyPrefix = "inflight:"
)

// Redis wraps the shared Redis connection. It is constructed once at
// startup and injected; lifetime is bound to the service's own.
type Redis struct {
	Client *redis.Client
}

// Connect establishes a connection to Redis and verifies it with a ping
func Connect(ctx context.Context, url string) (*Redis, error) {
	slog.Info("Connecting to Redis")

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 10 * time.Second
	opts.WriteTimeout = 10 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	slog.Info("Successfully connected to Redis")
	return &Redis{Client: client}, nil
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client) *Redis {
	return &Redis{Client: client}
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	slog.Info("Disconnecting from Redis")
	if err := r.Client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
