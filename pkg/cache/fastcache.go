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
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/go-portal/portal/pkg/safe"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 16MB
}

// FastCache is an in-process ICache implementation backed by
// VictoriaMetrics fastcache. It is used when no Redis instance is
// configured, so call sites can stay cache-agnostic.
type FastCache struct {
	cache *fastcache.Cache
	ttls  sync.Map // map[string]time.Time expiration per key
	mu    sync.RWMutex
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}

	return &FastCache{
		cache: fastcache.New(maxBytes),
	}
}

// Get returns the value for the given key. A missing or expired key
// yields a StringCmd carrying redis.Nil, matching RedisCache semantics.
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx)

	if exp, ok := fc.ttls.Load(key); ok {
		if time.Now().After(exp.(time.Time)) {
			cmd.SetErr(redis.Nil)
			return cmd
		}
	}

	value := fc.cache.Get(nil, []byte(key))
	if value == nil {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	cmd.SetVal(string(value))
	return cmd
}

// Set sets the value for the given key with expiration
func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.cache.Set([]byte(key), valueBytes)

	if expiration > 0 {
		fc.ttls.Store(key, time.Now().Add(expiration))
		safe.Go(func() {
			<-time.After(expiration)
			fc.cleanupExpiredKey(key)
		})
	}

	cmd.SetVal("OK")
	return cmd
}

// cleanupExpiredKey removes a key once its recorded expiration passed.
func (fc *FastCache) cleanupExpiredKey(key string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if exp, ok := fc.ttls.Load(key); ok {
		if time.Now().After(exp.(time.Time)) {
			fc.cache.Del([]byte(key))
			fc.ttls.Delete(key)
		}
	}
}

// Del deletes the given keys
func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	count := 0
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) {
			fc.cache.Del([]byte(key))
			count++
			fc.ttls.Delete(key)
		}
	}

	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(count))
	return cmd
}

// Expire updates the expiration of an existing key
func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)

	if !fc.cache.Has([]byte(key)) {
		cmd.SetVal(false)
		return cmd
	}

	fc.ttls.Store(key, time.Now().Add(expiration))
	cmd.SetVal(true)
	return cmd
}
