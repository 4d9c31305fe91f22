package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"toolscout/types"
)

// Enricher resolves one item's link into text. An empty string means nothing was found.
type Enricher interface {
	EnrichItem(ctx context.Context, item types.SourceItem) string
}

// enrichAll runs enricher over items with a fixed number of workers pulling from a shared cursor.
// Results are keyed by item id, so completion order does not matter.
func enrichAll(ctx context.Context, enricher Enricher, items []types.SourceItem, workers int) types.EnrichmentResult {
	results := make(types.EnrichmentResult, len(items))
	if enricher == nil || len(items) == 0 {
		return results
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	var (
		cursor atomic.Int64
		mu     sync.Mutex
		wg     sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1) - 1)
				if i >= len(items) || ctx.Err() != nil {
					return
				}
				text := enricher.EnrichItem(ctx, items[i])
				if text == "" {
					continue
				}
				mu.Lock()
				results[items[i].ID] = text
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return results
}

// pair joins items with their enrichment, preserving item order
func pair(items []types.SourceItem, res types.EnrichmentResult) []types.EnrichedItem {
	out := make([]types.EnrichedItem, len(items))
	for i, it := range items {
		out[i] = types.EnrichedItem{Item: it, Content: res[it.ID]}
	}
	return out
}
