// Copyright 2025 Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-portal/portal/pkg/log"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates that the key was not found in cache
	ErrCacheMiss = redis.Nil
)

// QueryFunc queries data from the database on cache miss.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// KeyFunc generates the cache key from the query parameters.
type KeyFunc func(params ...any) string

// CachedQuery provides a generic cache-aside pattern implementation.
// It queries the cache first and falls back to the database on miss.
type CachedQuery[T any] struct {
	cache     ICache
	keyFunc   KeyFunc
	queryFunc QueryFunc[T]
	ttl       time.Duration
	logPrefix string
}

// CachedQueryOption configures CachedQuery behavior
type CachedQueryOption[T any] func(*CachedQuery[T])

// WithTTL sets the cache expiration time
func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.ttl = ttl
	}
}

// WithLogPrefix sets the log prefix for debugging
func WithLogPrefix[T any](prefix string) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.logPrefix = prefix
	}
}

// NewCachedQuery creates a new CachedQuery instance
func NewCachedQuery[T any](
	cache ICache,
	keyFunc KeyFunc,
	queryFunc QueryFunc[T],
	opts ...CachedQueryOption[T],
) *CachedQuery[T] {
	cq := &CachedQuery[T]{
		cache:     cache,
		keyFunc:   keyFunc,
		queryFunc: queryFunc,
		ttl:       1 * time.Hour,
		logPrefix: "[CachedQuery]",
	}

	for _, opt := range opts {
		opt(cq)
	}

	return cq
}

// Get queries data with the cache-aside pattern. A nil cache skips
// straight to the query function.
func (cq *CachedQuery[T]) Get(ctx context.Context, params ...any) (T, error) {
	var zero T
	cacheKey := cq.keyFunc(params...)

	if cq.cache != nil {
		cacheData, err := cq.cache.Get(ctx, cacheKey).Result()
		if err == nil && cacheData != "" {
			var result T
			if err := sonic.UnmarshalString(cacheData, &result); err == nil {
				log.Debugw(cq.logPrefix+" cache hit", "key", cacheKey)
				return result, nil
			}
			log.Warnw(cq.logPrefix+" failed to unmarshal cached data", "key", cacheKey, "error", err)
		} else if !errors.Is(err, ErrCacheMiss) {
			log.Warnw(cq.logPrefix+" cache get error", "key", cacheKey, "error", err)
		}
	}

	result, err := cq.queryFunc(ctx)
	if err != nil {
		return zero, err
	}

	if cq.cache != nil {
		data, err := sonic.MarshalString(result)
		if err != nil {
			log.Warnw(cq.logPrefix+" failed to marshal result for caching", "key", cacheKey, "error", err)
			return result, nil
		}
		if err := cq.cache.Set(ctx, cacheKey, data, cq.ttl).Err(); err != nil {
			log.Warnw(cq.logPrefix+" failed to cache result", "key", cacheKey, "error", err)
		}
	}

	return result, nil
}

// Invalidate removes the cache entry for the given parameters.
func (cq *CachedQuery[T]) Invalidate(ctx context.Context, params ...any) {
	if cq.cache == nil {
		return
	}
	cacheKey := cq.keyFunc(params...)
	if err := cq.cache.Del(ctx, cacheKey).Err(); err != nil {
		log.Warnw(cq.logPrefix+" failed to invalidate cache", "key", cacheKey, "error", err)
	}
}
