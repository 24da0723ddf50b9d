package ratelimit

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// MemoryStore keeps attempt timestamps in a fiber.Storage inside this
// process. Keys expire with their window so idle clients are collected.
type MemoryStore struct {
	mu      sync.Mutex
	storage fiber.Storage
}

// NewMemoryStore wraps storage, typically gofiber/storage/memory.
func NewMemoryStore(storage fiber.Storage) *MemoryStore {
	return &MemoryStore{storage: storage}
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, max int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(keyPrefix + key)
	if err != nil {
		return false, 0, err
	}

	cutoff := now.Add(-window).UnixMilli()
	kept := make([]int64, 0, len(raw)/8+1)
	for _, ts := range decodeStamps(raw) {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= max {
		return false, len(kept), nil
	}
	kept = append(kept, now.UnixMilli())
	if err := s.storage.Set(keyPrefix+key, encodeStamps(kept), window); err != nil {
		return false, 0, err
	}
	return true, len(kept), nil
}

func encodeStamps(stamps []int64) []byte {
	buf := make([]byte, 8*len(stamps))
	for i, ts := range stamps {
		binary.BigEndian.PutUint64(buf[i*8:], uint64(ts))
	}
	return buf
}

func decodeStamps(buf []byte) []int64 {
	stamps := make([]int64, 0, len(buf)/8)
	for i := 0; i+8 <= len(buf); i += 8 {
		stamps = append(stamps, int64(binary.BigEndian.Uint64(buf[i:])))
	}
	return stamps
}
