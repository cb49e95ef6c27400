package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"represent/pkg/platform/sentinel"
	"represent/pkg/requestcontext"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store on an expirable LRU. The LRU bounds resident
// entries; per-entry deadlines enforce the namespace TTLs, which can be
// shorter than the LRU's own expiry.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
}

// NewMemory creates an in-process cache holding at most maxEntries entries.
// maxTTL should be at least the longest namespace TTL in play.
func NewMemory(maxEntries int, maxTTL time.Duration) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, memoryEntry](maxEntries, nil, maxTTL),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	entry, ok := m.lru.Get(key)
	if !ok || requestcontext.Now(ctx).After(entry.expiresAt) {
		missesTotal.WithLabelValues("memory").Inc()
		return nil, sentinel.ErrNotFound
	}
	hitsTotal.WithLabelValues("memory").Inc()
	return entry.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.lru.Add(key, memoryEntry{
		value:     value,
		expiresAt: requestcontext.Now(ctx).Add(ttl),
	})
	return nil
}
