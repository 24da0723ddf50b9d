// Package ratelimit bounds how many submissions a client may make inside a
// rolling window. The check and the record of an attempt happen atomically
// in the backing store.
package ratelimit

import (
	"context"
	"time"

	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"

	u "labforms/internal/utils"
)

// Store records attempts per key. Hit prunes attempts at or before
// now-window, and if fewer than max remain it records one at now. It reports
// whether the attempt was recorded and how many attempts the window holds
// afterwards.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (allowed bool, count int, err error)
}

// RedisConfig points the limiter at a Redis database. An empty Addr selects
// the in-process store.
type RedisConfig struct {
	Addr string
	DB   int
}

// NewStore returns a Redis-backed store when configured and reachable, and
// the in-process store otherwise.
func NewStore(cfg RedisConfig) (store Store) {
	store = NewMemoryStore(memoryStorage.New())
	if cfg.Addr == "" {
		return store
	}

	defer func() {
		if r := recover(); r != nil {
			u.Error("Redis limiter store init panicked, falling back to memory", "panic", r)
		}
	}()
	rs := redisStorage.New(redisStorage.Config{
		Addrs:    []string{cfg.Addr},
		Database: cfg.DB,
	})
	u.Info("Using Redis for rate limiting", "addr", cfg.Addr, "db", cfg.DB)
	return NewRedisStore(rs.Conn())
}
