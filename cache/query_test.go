package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolscout/types"
)

func TestQueryCacheNormalizesKeysAndExpires(t *testing.T) {
	c, err := NewQueryCache("", 15*time.Minute)
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("  MCP   Server ", []types.SourceItem{{ID: "1"}})

	items, ok := c.Get("mcp server")
	require.True(t, ok)
	assert.Equal(t, "1", items[0].ID)

	now = now.Add(16 * time.Minute)
	_, ok = c.Get("mcp server")
	assert.False(t, ok, "entry should expire after the ttl")
}

func TestQueryCachePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := NewQueryCache(path, time.Hour)
	require.NoError(t, err)
	c.Put("agent framework", []types.SourceItem{{ID: "a"}, {ID: "b"}})
	require.NoError(t, c.Flush())

	reloaded, err := NewQueryCache(path, time.Hour)
	require.NoError(t, err)
	items, ok := reloaded.Get("Agent Framework")
	require.True(t, ok)
	assert.Len(t, items, 2)
}
