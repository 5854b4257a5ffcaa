package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letrario/internal/http-api/dto"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	items := []dto.ReadingItem{{Type: dto.ContentTypeWork, Slug: "la-sombra", Title: "La Sombra"}}

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, "u1", items, 10*time.Second)

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, items, got)

	// entries are per user
	_, ok = c.Get(ctx, "u2")
	assert.False(t, ok)
}

func TestMemoryCacheExpires(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "u1", []dto.ReadingItem{{Slug: "w1"}}, 10*time.Second)

	now = now.Add(9 * time.Second)
	_, ok := c.Get(ctx, "u1")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "u1", []dto.ReadingItem{{Slug: "w1"}}, time.Minute)
	c.Set(ctx, "u2", []dto.ReadingItem{{Slug: "w2"}}, time.Minute)

	c.Invalidate(ctx, "u1")

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "u2")
	assert.True(t, ok)

	// invalidating a missing key is a no-op
	c.Invalidate(ctx, "nadie")
}

func TestMemoryCacheEmptyListIsCacheable(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "u1", []dto.ReadingItem{}, time.Minute)

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Empty(t, got)
}
