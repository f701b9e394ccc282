package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// ErrCacheMiss is returned when the key does not exist.
var ErrCacheMiss = apperrors.New(apperrors.ErrCodeNotFound, "cache miss")

// Cache memoizes JSON-serializable results. Comparison responses for a
// user's policy set are the main tenant.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	InvalidateUser(ctx context.Context, userID string) (int64, error)
	Ping(ctx context.Context) error
}

type resultCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	defaultTTL   time.Duration
	singleflight singleflight.Group
}

// CacheOption customizes a result cache.
type CacheOption func(*resultCache)

// WithPrefix overrides the key namespace.
func WithPrefix(prefix string) CacheOption {
	return func(c *resultCache) { c.prefix = prefix }
}

// WithDefaultTTL overrides the TTL applied when Set receives zero.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *resultCache) { c.defaultTTL = ttl }
}

// NewResultCache builds a Cache over the shared client.
func NewResultCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &resultCache{
		client:     client,
		logger:     log,
		prefix:     "insuraiq:",
		defaultTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComparisonKey derives a stable cache key for a user's comparison request.
// The id order in the request must not affect the key.
func ComparisonKey(userID string, policyIDs []int64) string {
	ids := make([]int64, len(policyIDs))
	copy(ids, policyIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("compare:%s:%s", userID, strings.Join(parts, "-"))
}

// userKeyPrefix namespaces every key by its owning user so invalidation
// after a policy write can target one user's entries.
func userKeyPrefix(userID string) string {
	return "compare:" + userID + ":"
}

func (c *resultCache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations by +/- 10% to avoid synchronized misses.
func (c *resultCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *resultCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "failed to read from cache")
	}
	return json.Unmarshal(data, dest)
}

func (c *resultCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to serialize cache value")
	}
	return c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err()
}

func (c *resultCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	return c.client.Del(ctx, fullKeys...).Err()
}

// GetOrSet returns the cached value or loads it, collapsing concurrent
// loads for the same key into a single call.
func (c *resultCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("cache read failed, falling through to loader",
			logging.String("key", key), logging.Err(err))
	}

	val, err, _ := c.singleflight.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("failed to populate cache", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(val)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to serialize loaded value")
	}
	return json.Unmarshal(data, dest)
}

// InvalidateUser drops every cached comparison for the user. Called after
// any policy mutation so stale matrices are never served.
func (c *resultCache) InvalidateUser(ctx context.Context, userID string) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.fullKey(userKeyPrefix(userID)) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "failed to scan cache keys")
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "failed to delete cache keys")
			}
			deleted += int64(len(keys))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

func (c *resultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

// NopCache satisfies Cache when Redis is not configured. Get always
// misses and GetOrSet runs the loader directly.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string, dest interface{}) error { return ErrCacheMiss }

func (NopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (NopCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (NopCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	val, err := loader(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (NopCache) InvalidateUser(ctx context.Context, userID string) (int64, error) { return 0, nil }

func (NopCache) Ping(ctx context.Context) error { return nil }
