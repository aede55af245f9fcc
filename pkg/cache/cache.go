package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per cached thing
const (
	TTLCredential = 5 * time.Minute  // platform credentials (invalidated on rotation)
	TTLPost       = 30 * time.Second // post read model
	TTLDefault    = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixCredential = "crosspost:credential:"
	PrefixPost       = "post:"
)

// ErrCacheMiss is returned when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Service is a thin JSON cache over redis. A nil-client service degrades to
// a no-op so callers need no redis-availability branches.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetCredential(ctx context.Context, platform string, dest interface{}) error
	SetCredential(ctx context.Context, platform string, value interface{}) error
	InvalidateCredential(ctx context.Context, platform string) error

	GetPost(ctx context.Context, id uint64, dest interface{}) error
	SetPost(ctx context.Context, id uint64, value interface{}) error
	InvalidatePost(ctx context.Context, id uint64) error

	IsAvailable() bool
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service over the given redis client (may be nil)
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a redis client is wired
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetCredential(ctx context.Context, platform string, dest interface{}) error {
	return c.Get(ctx, PrefixCredential+platform, dest)
}

func (c *redisCache) SetCredential(ctx context.Context, platform string, value interface{}) error {
	return c.Set(ctx, PrefixCredential+platform, value, TTLCredential)
}

func (c *redisCache) InvalidateCredential(ctx context.Context, platform string) error {
	return c.Delete(ctx, PrefixCredential+platform)
}

func (c *redisCache) GetPost(ctx context.Context, id uint64, dest interface{}) error {
	return c.Get(ctx, postKey(id), dest)
}

func (c *redisCache) SetPost(ctx context.Context, id uint64, value interface{}) error {
	return c.Set(ctx, postKey(id), value, TTLPost)
}

func (c *redisCache) InvalidatePost(ctx context.Context, id uint64) error {
	return c.Delete(ctx, postKey(id))
}

func postKey(id uint64) string {
	return fmt.Sprintf("%s%d", PrefixPost, id)
}
