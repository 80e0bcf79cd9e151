package cache

import (
	"context"
	"errors"
	"fmt"
	"parcel-dispatch-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultReportTTL = 10 * time.Minute

// RedisReportCache stores rendered reports under a key prefix.
// Reports are derived from an immutable simulation, so entries only expire.
type RedisReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisReportCache connects to addr (host:port or a redis:// URL).
func NewRedisReportCache(ctx context.Context, addr, prefix string, ttl time.Duration) (*RedisReportCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis report cache: address must not be empty")
	}

	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("redis report cache: parse url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis report cache: ping %q: %w", addr, err)
	}

	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportCache{client: client, prefix: prefix, ttl: ttl}, nil
}

func (c *RedisReportCache) key(k string) string { return c.prefix + k }

func (c *RedisReportCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "report.cache.Get")(&err)

	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get report cache key=%q: %w", key, err)
	}
	return b, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte) (err error) {
	defer obs.Time(ctx, "report.cache.Set")(&err)

	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("set report cache key=%q: %w", key, err)
	}
	return nil
}

func (c *RedisReportCache) Close() error { return c.client.Close() }
