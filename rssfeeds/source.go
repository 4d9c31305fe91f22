package rssfeeds

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toolscout/config"
	"toolscout/logging"
	"toolscout/types"
)

// feedWorkers bounds concurrent feed downloads
const feedWorkers = 3

// Source serves the configured feeds as one ingestion source.
// Feeds are downloaded on the first Next call and then paged out.
type Source struct {
	feeds []config.FeedConfig
	log   *zap.SugaredLogger
	fetch func(ctx context.Context, url string, count int) ([]types.SourceItem, error)

	once    sync.Once
	pending []types.SourceItem
	drained bool
}

// NewSource creates a feed source. An empty feed list is exhausted immediately.
func NewSource(feeds []config.FeedConfig, log *zap.SugaredLogger) *Source {
	return &Source{feeds: feeds, log: logging.OrNop(log), fetch: FetchFeed}
}

func (s *Source) Name() string { return "rss" }

// Exhausted reports whether every downloaded item has been handed out
func (s *Source) Exhausted() bool {
	return len(s.feeds) == 0 || s.drained
}

// Next returns up to n items. Feed reads are free, so the cost is always zero.
func (s *Source) Next(ctx context.Context, n int) ([]types.SourceItem, float64, error) {
	s.once.Do(func() { s.pending = FetchAll(ctx, s.feeds, s.fetch, s.log) })

	if n <= 0 || n > len(s.pending) {
		n = len(s.pending)
	}
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	if len(s.pending) == 0 {
		s.drained = true
	}
	return batch, 0, nil
}

// FetchAll downloads every feed concurrently and concatenates the results in feed order.
// A failing feed is logged and skipped.
func FetchAll(ctx context.Context, feeds []config.FeedConfig,
	fetch func(ctx context.Context, url string, count int) ([]types.SourceItem, error),
	log *zap.SugaredLogger) []types.SourceItem {

	results := make([][]types.SourceItem, len(feeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedWorkers)
	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			items, err := fetch(gctx, feed.URL, feed.Count)
			if err != nil {
				log.Warnf("⚠️  Feed %s failed: %v", feed.Name, err)
				return nil
			}
			log.Infof("📰 Fetched %d items from %s", len(items), feed.Name)
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var out []types.SourceItem
	for _, items := range results {
		out = append(out, items...)
	}
	return out
}
