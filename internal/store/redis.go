package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"scrawl/internal/stats"
)

const (
	statsPrefix = "scrawl:stats:"
	ratePrefix  = "scrawl:rate:"
)

// Redis stores stats snapshots as JSON with a TTL and backs the shared
// fixed-window rate limiter.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis server at addr. Snapshots expire after ttl.
func New(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) LoadStats(ctx context.Context, key string) (stats.Stats, bool, error) {
	data, err := r.client.Get(ctx, statsPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return stats.Stats{}, false, nil
	}
	if err != nil {
		return stats.Stats{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var s stats.Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return stats.Stats{}, false, fmt.Errorf("decode stats %s: %w", key, err)
	}
	return s, true, nil
}

func (r *Redis) SaveStats(ctx context.Context, key string, s stats.Stats) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode stats %s: %w", key, err)
	}
	if err := r.client.Set(ctx, statsPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// IsRateLimited counts a request for identifier in the current one-minute
// window and reports whether limit has been exceeded.
func (r *Redis) IsRateLimited(ctx context.Context, identifier string, limit int) (bool, error) {
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("%s%s:%d", ratePrefix, identifier, window)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit %s: %w", identifier, err)
	}
	return incr.Val() > int64(limit), nil
}
