package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-toolkit/config"
)

// Cache TTL constants
const (
	CacheTTLOptions   = 1 * time.Hour
	CacheTTLPostsList = 15 * time.Minute
	CacheTTLPost      = 1 * time.Hour
	CacheTTLWidget    = 10 * time.Minute
)

// Cache key prefixes, evicted with CacheDeletePattern(prefix + ":*").
const (
	CachePrefixOptions = "options"
	CachePrefixPosts   = "posts"
	CachePrefixWidgets = "widgets"
)

// ErrCacheUnavailable is returned when Redis is not connected.
var ErrCacheUnavailable = errors.New("redis not available")

// CacheGet retrieves cached data and unmarshals it into dest
func CacheGet(ctx context.Context, key string, dest interface{}) error {
	client := config.GetRedis()
	if client == nil {
		return ErrCacheUnavailable
	}

	val, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

// CacheSet stores data in cache with TTL
func CacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	client := config.GetRedis()
	if client == nil {
		return ErrCacheUnavailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// CacheDelete removes a single cache key
func CacheDelete(ctx context.Context, key string) error {
	client := config.GetRedis()
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}

// CacheDeletePattern removes all keys matching pattern (e.g., "posts:*")
func CacheDeletePattern(ctx context.Context, pattern string) error {
	client := config.GetRedis()
	if client == nil {
		return nil
	}

	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

// CacheRemember returns the cached value for key, or calls load, caches its
// result and stores it in dest. Cache failures never fail the call.
func CacheRemember(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() (interface{}, error)) error {
	if err := CacheGet(ctx, key, dest); err == nil {
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}
	_ = CacheSet(ctx, key, value, ttl)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// BuildCacheKey builds a cache key from parts
func BuildCacheKey(parts ...interface{}) string {
	strs := make([]string, len(parts))
	for i, part := range parts {
		strs[i] = fmt.Sprintf("%v", part)
	}
	return strings.Join(strs, ":")
}
