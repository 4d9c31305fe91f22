package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"toolscout/types"
)

type fakeEnricher struct {
	active atomic.Int32
	peak   atomic.Int32
	delay  time.Duration
	empty  map[string]bool

	mu   sync.Mutex
	seen []string
}

func (f *fakeEnricher) EnrichItem(ctx context.Context, item types.SourceItem) string {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.seen = append(f.seen, item.ID)
	f.mu.Unlock()
	if f.empty[item.ID] {
		return ""
	}
	return "content:" + item.ID
}

func makeItems(prefix string, n int) []types.SourceItem {
	items := make([]types.SourceItem, n)
	for i := range items {
		items[i] = types.SourceItem{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			Text:      "item " + prefix,
			Permalink: fmt.Sprintf("https://x.com/dev/status/%s%d", prefix, i),
		}
	}
	return items
}

func TestEnrichAllBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	enricher := &fakeEnricher{delay: 5 * time.Millisecond, empty: map[string]bool{"a-3": true}}
	items := makeItems("a", 10)

	res := enrichAll(context.Background(), enricher, items, 3)

	if got := enricher.peak.Load(); got > 3 {
		t.Fatalf("peak concurrency = %d; want <= 3", got)
	}
	if len(enricher.seen) != 10 {
		t.Fatalf("enriched %d items; want each of 10 exactly once", len(enricher.seen))
	}
	if len(res) != 9 {
		t.Fatalf("results = %d; want 9 (empty text is absent)", len(res))
	}
	if _, ok := res["a-3"]; ok {
		t.Fatalf("empty enrichment must not be recorded")
	}

	paired := pair(items, res)
	for i, p := range paired {
		if p.Item.ID != items[i].ID {
			t.Fatalf("pair reordered items at %d", i)
		}
	}
	if paired[0].Content != "content:a-0" || paired[3].Content != "" {
		t.Fatalf("unexpected pairing: %+v", paired[:4])
	}
}

func TestEnrichAllStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enricher := &fakeEnricher{}
	res := enrichAll(ctx, enricher, makeItems("b", 20), 3)
	if len(res) != 0 || len(enricher.seen) != 0 {
		t.Fatalf("canceled context still enriched %d items", len(enricher.seen))
	}
}
