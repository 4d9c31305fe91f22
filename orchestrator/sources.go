package orchestrator

import (
	"context"
	"fmt"
	"time"

	"toolscout/cache"
	"toolscout/types"
	"toolscout/xapi"
)

// Source is one ingestion channel. Next returns up to n items and the cost of reading them.
type Source interface {
	Name() string
	Next(ctx context.Context, n int) ([]types.SourceItem, float64, error)
	Exhausted() bool
}

// TimelineClient lists the personalized feed
type TimelineClient interface {
	HomeTimeline(ctx context.Context, since time.Time, token string, max int) (xapi.Page, error)
}

// SearchClient runs keyword search against the source API
type SearchClient interface {
	SearchRecent(ctx context.Context, query string, max int) (xapi.Page, error)
}

// FeedSource pages through the home timeline for the lookback window
type FeedSource struct {
	client   TimelineClient
	unitCost float64
	lookback time.Duration
	now      func() time.Time

	token string
	done  bool
}

// NewFeedSource creates a feed source charging unitCost per item read
func NewFeedSource(client TimelineClient, unitCost float64, lookback time.Duration) *FeedSource {
	return &FeedSource{client: client, unitCost: unitCost, lookback: lookback, now: time.Now}
}

func (s *FeedSource) Name() string { return "feed" }

// Exhausted is true once the timeline returned no continuation token, or failed
func (s *FeedSource) Exhausted() bool { return s.done }

func (s *FeedSource) Next(ctx context.Context, n int) ([]types.SourceItem, float64, error) {
	if s.done {
		return nil, 0, nil
	}
	since := s.now().Add(-s.lookback)
	page, err := s.client.HomeTimeline(ctx, since, s.token, n)
	if err != nil {
		s.done = true
		return nil, 0, fmt.Errorf("feed page: %w", err)
	}
	s.token = page.NextToken
	if s.token == "" {
		s.done = true
	}
	return page.Items, float64(len(page.Items)) * s.unitCost, nil
}

// SearchSource runs one query per batch. Cache hits are free.
type SearchSource struct {
	client   SearchClient
	queries  []string
	cache    *cache.QueryCache
	unitCost float64
	pos      int
}

// NewSearchSource creates a keyword source. qc may be nil.
func NewSearchSource(client SearchClient, queries []string, qc *cache.QueryCache, unitCost float64) *SearchSource {
	return &SearchSource{client: client, queries: queries, cache: qc, unitCost: unitCost}
}

func (s *SearchSource) Name() string { return "search" }

// Exhausted is true once every query term has been used
func (s *SearchSource) Exhausted() bool { return s.pos >= len(s.queries) }

// Remaining returns the number of unused query terms
func (s *SearchSource) Remaining() int { return len(s.queries) - s.pos }

func (s *SearchSource) Next(ctx context.Context, n int) ([]types.SourceItem, float64, error) {
	if s.Exhausted() {
		return nil, 0, nil
	}
	query := s.queries[s.pos]
	s.pos++

	if s.cache != nil {
		if items, ok := s.cache.Get(query); ok {
			return truncateItems(items, n), 0, nil
		}
	}
	page, err := s.client.SearchRecent(ctx, query, n)
	if err != nil {
		return nil, 0, fmt.Errorf("search %q: %w", query, err)
	}
	if s.cache != nil {
		s.cache.Put(query, page.Items)
	}
	return page.Items, float64(len(page.Items)) * s.unitCost, nil
}

func truncateItems(items []types.SourceItem, n int) []types.SourceItem {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
