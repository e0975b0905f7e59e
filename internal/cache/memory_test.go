package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	doc := map[string]any{"heuristics": []any{}}
	c.Set("k", doc, 0)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, doc, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", map[string]any{}, time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMemoryCache_ExplicitTTLOverridesDefault(t *testing.T) {
	c := NewMemoryCache(time.Millisecond, time.Minute)
	c.Set("short", map[string]any{}, 0)
	c.Set("long", map[string]any{}, time.Minute)

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)
}

func TestDocumentKey(t *testing.T) {
	mtime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	k1 := DocumentKey("/a.json", mtime, 10)
	assert.Equal(t, k1, DocumentKey("/a.json", mtime, 10))
	assert.NotEqual(t, k1, DocumentKey("/a.json", mtime.Add(time.Second), 10))
	assert.NotEqual(t, k1, DocumentKey("/a.json", mtime, 11))
	assert.NotEqual(t, k1, DocumentKey("/b.json", mtime, 10))
	assert.Contains(t, k1, "noosphere:v1:")
}
