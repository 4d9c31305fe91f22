package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolscout/common"
	"toolscout/config"
	"toolscout/curation"
	"toolscout/deduplication"
	"toolscout/orchestrator"
	"toolscout/types"
)

// listSource serves fixed pages, one per Next call
type listSource struct {
	pages   [][]types.SourceItem
	unit    float64
	entered func()
	block   chan struct{}
}

func (s *listSource) Name() string     { return "list" }
func (s *listSource) Exhausted() bool { return len(s.pages) == 0 }

func (s *listSource) Next(ctx context.Context, n int) ([]types.SourceItem, float64, error) {
	if s.entered != nil {
		s.entered()
	}
	if s.block != nil {
		<-s.block
	}
	if len(s.pages) == 0 {
		return nil, 0, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, float64(len(page)) * s.unit, nil
}

type echoEnricher struct{}

func (echoEnricher) EnrichItem(ctx context.Context, item types.SourceItem) string {
	return "page for " + item.ID
}

type acceptAll struct{}

func (acceptAll) Evaluate(ctx context.Context, items []types.EnrichedItem) []types.Discovery {
	out := make([]types.Discovery, len(items))
	for i, it := range items {
		out[i] = types.Discovery{
			ID:     it.Item.ID,
			Title:  it.Item.Text,
			Source: types.SourceRef{URL: "https://example.com/" + it.Item.ID},
		}
	}
	return out
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []types.Discovery
}

func (f *fakePublisher) PublishDiscoveries(ctx context.Context, ds []types.Discovery) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, ds...)
	return len(ds), nil
}

type fakeArchive struct {
	records []common.RunRecord
	err     error
}

func (f *fakeArchive) Store(ctx context.Context, rec common.RunRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func items(prefix string, n int) []types.SourceItem {
	out := make([]types.SourceItem, n)
	for i := range out {
		out[i] = types.SourceItem{ID: fmt.Sprintf("%s%d", prefix, i), Text: "tool " + prefix}
	}
	return out
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DataDir:           t.TempDir(),
		BudgetCap:         0.50,
		UnitCost:          0.005,
		BatchSize:         15,
		TargetDiscoveries: 6,
		MaxBatches:        10,
		MaxPicks:          6,
		MinPicks:          6,
		SeenCap:           100,
	}
}

func TestRunOncePublishesCappedPicks(t *testing.T) {
	cfg := testConfig(t)
	pub := &fakePublisher{}
	arch := &fakeArchive{}
	p := New(cfg, Deps{
		Sources: func() []orchestrator.Source {
			return []orchestrator.Source{&listSource{pages: [][]types.SourceItem{items("a", 8)}, unit: 0.005}}
		},
		SeenStore: deduplication.NewFileStore(filepath.Join(cfg.DataDir, "seen.json")),
		Enricher:  echoEnricher{},
		Judge:     acceptAll{},
		Publisher: pub,
		Archive:   arch,
	}, nil)

	out, err := p.RunOnce(context.Background(), false)
	require.NoError(t, err)

	assert.Len(t, out.Discoveries, 6)
	assert.Equal(t, 8, out.Summary.Accepted)
	assert.Equal(t, 6, out.Summary.Published)
	assert.Len(t, pub.sent, 6)
	assert.InDelta(t, 0.04, out.Summary.Cost.Spend, 1e-9)
	assert.Equal(t, 8, out.Summary.Cost.ItemsProcessed)
	require.Len(t, arch.records, 1)
	assert.Equal(t, out.Summary.RunID, arch.records[0].RunID)
	assert.False(t, arch.records[0].Scrapped)

	last, ok := p.LastSummary()
	require.True(t, ok)
	assert.Equal(t, out.Summary.RunID, last.RunID)
}

func TestRunOnceScrapsAndSecondRunSeesNothingNew(t *testing.T) {
	cfg := testConfig(t)
	store := deduplication.NewFileStore(filepath.Join(cfg.DataDir, "seen.json"))
	pub := &fakePublisher{}
	arch := &fakeArchive{err: errors.New("s3 down")}
	upstream := items("u", 7)

	p := New(cfg, Deps{
		Sources: func() []orchestrator.Source {
			return []orchestrator.Source{&listSource{pages: [][]types.SourceItem{upstream}, unit: 0.005}}
		},
		SeenStore: store,
		Enricher:  echoEnricher{},
		Judge:     acceptAll{},
		Publisher: pub,
		Archive:   arch,
	}, nil)

	first, err := p.RunOnce(context.Background(), false)
	require.NoError(t, err, "archive failures are best effort")
	assert.Len(t, first.Discoveries, 6)

	second, err := p.RunOnce(context.Background(), false)
	assert.ErrorIs(t, err, curation.ErrInsufficientDiscoveries)
	assert.True(t, second.Summary.Scrapped)
	assert.Empty(t, second.Discoveries)
	assert.Zero(t, second.Summary.Accepted)
	assert.Len(t, pub.sent, 6, "scrapped runs publish nothing")
	assert.InDelta(t, 0.035, second.Summary.Cost.Spend, 1e-9, "budget resets per run")

	bypassed, err := p.RunOnce(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, bypassed.Discoveries)
	assert.False(t, bypassed.Summary.Scrapped)
}

func TestRunOnceRejectsConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	block := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	p := New(cfg, Deps{
		Sources: func() []orchestrator.Source {
			return []orchestrator.Source{&listSource{
				pages:   [][]types.SourceItem{items("c", 6)},
				entered: func() { once.Do(func() { close(entered) }) },
				block:   block,
			}}
		},
		Enricher: echoEnricher{},
		Judge:    acceptAll{},
	}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.RunOnce(context.Background(), false)
		done <- err
	}()
	<-entered

	_, err := p.RunOnce(context.Background(), false)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(block)
	require.NoError(t, <-done)
}
