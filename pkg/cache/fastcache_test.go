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
	"os"
	"testing"
	"time"

	"github.com/go-portal/portal/pkg/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

func TestFastCacheSetGet(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	err := fc.Set(ctx, "k1", "v1", 0).Err()
	assert.NoError(t, err)

	val, err := fc.Get(ctx, "k1").Result()
	assert.NoError(t, err)
	assert.Equal(t, "v1", val)
}

func TestFastCacheMissReturnsNil(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})

	_, err := fc.Get(context.Background(), "absent").Result()
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestFastCacheExpiration(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "k1", "v1", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, err := fc.Get(ctx, "k1").Result()
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestFastCacheDel(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	fc.Set(ctx, "k1", "v1", 0)
	fc.Set(ctx, "k2", "v2", 0)

	n, err := fc.Del(ctx, "k1", "k2", "k3").Result()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFastCacheMarshalsStructs(t *testing.T) {
	fc := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	err := fc.Set(ctx, "k1", payload{Name: "portal"}, 0).Err()
	assert.NoError(t, err)

	val, err := fc.Get(ctx, "k1").Result()
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"portal"}`, val)
}
