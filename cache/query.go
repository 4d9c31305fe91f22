// Package cache holds short-lived lookups that let a run avoid repeating paid calls.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"toolscout/deduplication"
	"toolscout/types"
)

type entry struct {
	Items     []types.SourceItem `json:"items"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// QueryCache maps normalized search queries to their last results.
// When path is empty the cache lives in memory only.
type QueryCache struct {
	mu      sync.Mutex
	path    string
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewQueryCache loads path if it exists. A missing or unreadable file starts empty.
func NewQueryCache(path string, ttl time.Duration) (*QueryCache, error) {
	c := &QueryCache{path: path, ttl: ttl, now: time.Now, entries: make(map[string]entry)}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to read query cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]entry)
		return c, fmt.Errorf("failed to parse query cache: %w", err)
	}
	return c, nil
}

// Key normalizes a query for lookup
func Key(query string) string {
	return deduplication.NormalizeText(query)
}

// Get returns cached items for query if they are younger than the TTL
func (c *QueryCache) Get(query string) ([]types.SourceItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[Key(query)]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.FetchedAt) > c.ttl {
		delete(c.entries, Key(query))
		return nil, false
	}
	return e.Items, true
}

// Put stores items for query
func (c *QueryCache) Put(query string, items []types.SourceItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(query)] = entry{Items: items, FetchedAt: c.now()}
}

// Flush writes unexpired entries to disk
func (c *QueryCache) Flush() error {
	if c.path == "" {
		return nil
	}
	c.mu.Lock()
	live := make(map[string]entry, len(c.entries))
	for k, e := range c.entries {
		if c.now().Sub(e.FetchedAt) <= c.ttl {
			live[k] = e
		}
	}
	c.mu.Unlock()

	data, err := json.Marshal(live)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write query cache: %w", err)
	}
	return os.Rename(tmp, c.path)
}
