package deduplication

import (
	"context"
	"fmt"
	"sync"

	"toolscout/types"
)

// SeenStore persists the ordered list of processed source-item IDs, oldest first.
type SeenStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// SeenSet is the in-memory view of previously processed source-item IDs.
// Capacity applies on Save; eviction drops the oldest entries.
type SeenSet struct {
	mu    sync.Mutex
	order []string
	index map[string]struct{}
	limit int
}

// NewSeenSet creates an empty set that keeps at most limit IDs when saved.
// A limit <= 0 keeps everything.
func NewSeenSet(limit int) *SeenSet {
	return &SeenSet{index: make(map[string]struct{}), limit: limit}
}

// LoadSeenSet reads the set from store. A nil store yields an empty set.
func LoadSeenSet(ctx context.Context, store SeenStore, limit int) (*SeenSet, error) {
	s := NewSeenSet(limit)
	if store == nil {
		return s, nil
	}
	ids, err := store.Load(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to load seen set: %w", err)
	}
	s.Add(ids...)
	return s, nil
}

// Has reports whether id was already processed
func (s *SeenSet) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

// Add appends unseen IDs in order and returns how many were new
func (s *SeenSet) Add(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
		added++
	}
	return added
}

// Unseen returns the items whose IDs are not in the set, preserving order.
// Duplicates within items are dropped too.
func (s *SeenSet) Unseen(items []types.SourceItem) []types.SourceItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.SourceItem, 0, len(items))
	batch := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := s.index[it.ID]; ok {
			continue
		}
		if _, ok := batch[it.ID]; ok {
			continue
		}
		batch[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Len returns the number of IDs currently held
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// IDs returns the most recent limit IDs, oldest first
func (s *SeenSet) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.order
	if s.limit > 0 && len(ids) > s.limit {
		ids = ids[len(ids)-s.limit:]
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Save writes the capped set back to store
func (s *SeenSet) Save(ctx context.Context, store SeenStore) error {
	if store == nil {
		return nil
	}
	if err := store.Save(ctx, s.IDs()); err != nil {
		return fmt.Errorf("failed to save seen set: %w", err)
	}
	return nil
}
