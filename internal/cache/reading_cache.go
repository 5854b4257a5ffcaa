package cache

import (
	"context"
	"sync"
	"time"

	"letrario/internal/http-api/dto"
)

// ReadingCache memoizes a user's assembled reading list for a short TTL.
// It is a pure performance layer: implementations are best-effort and a miss
// is always safe. Invalidate must be callable from unrelated request handlers
// (save/unsave/delete paths) so a user's own write is visible immediately.
type ReadingCache interface {
	Get(ctx context.Context, userID string) ([]dto.ReadingItem, bool)
	Set(ctx context.Context, userID string, items []dto.ReadingItem, ttl time.Duration)
	Invalidate(ctx context.Context, userID string)
}

type memoryEntry struct {
	items     []dto.ReadingItem
	expiresAt time.Time
}

// MemoryCache is the in-process implementation, keyed by user ID.
type MemoryCache struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, userID string) ([]dto.ReadingItem, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.items, true
}

func (c *MemoryCache) Set(_ context.Context, userID string, items []dto.ReadingItem, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{
		items:     items,
		expiresAt: c.now().Add(ttl),
	}
}

func (c *MemoryCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
