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
	"time"

	"github.com/redis/go-redis/v9"
)

// ICache define cache interface (abstract)
type ICache interface {
	// Get returns the cached value for key
	Get(ctx context.Context, key string) *redis.StringCmd
	// Set stores value under key with expiration
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	// Del removes keys from the cache
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	// Expire sets the expiration of key
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}
