package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"bmgrades.app/tracker/common/llm"
	"github.com/redis/go-redis/v9"
)

// Cache stores raw model answers keyed by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, answer string) error
}

// CacheKey identifies a scan by mode and image content.
func CacheKey(mode Mode, img llm.Image) string {
	sum := sha256.Sum256(img.Data)
	return string(mode) + ":" + hex.EncodeToString(sum[:])
}

type redisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisCache returns a Cache backed by Redis string keys that expire
// after ttl.
func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration) Cache {
	return &redisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	answer, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get scan cache: %w", err)
	}
	return answer, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, answer string) error {
	if err := c.client.Set(ctx, c.prefix+key, answer, c.ttl).Err(); err != nil {
		return fmt.Errorf("set scan cache: %w", err)
	}
	return nil
}
