// Package curation merges a run's discoveries into the final bounded pick list.
package curation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"toolscout/config"
	"toolscout/deduplication"
	"toolscout/logging"
	"toolscout/types"
)

// ErrInsufficientDiscoveries fails a run that produced fewer than the minimum picks
var ErrInsufficientDiscoveries = errors.New("insufficient discoveries")

// Collapser removes duplicate discoveries, keeping first arrivals
type Collapser interface {
	Collapse(ctx context.Context, in []types.Discovery) ([]types.Discovery, []deduplication.DeduplicationResult)
}

// Aggregator enforces the pick policy for one compilation cycle
type Aggregator struct {
	minPicks int
	maxPicks int
	dedup    Collapser
	log      *zap.SugaredLogger
}

// Result is the aggregation outcome. Picks is empty when the run was scrapped.
type Result struct {
	Picks      []types.Discovery                   `json:"picks"`
	Duplicates []deduplication.DeduplicationResult `json:"duplicates,omitempty"`
	Trimmed    int                                 `json:"trimmed"`
	Scrapped   bool                                `json:"scrapped"`
}

// NewAggregator creates an aggregator. Non-positive limits use the defaults; dedup may be nil.
func NewAggregator(minPicks, maxPicks int, dedup Collapser, log *zap.SugaredLogger) *Aggregator {
	if maxPicks <= 0 {
		maxPicks = config.MaxPicks
	}
	if minPicks < 0 {
		minPicks = config.MinPicks
	}
	if minPicks > maxPicks {
		minPicks = maxPicks
	}
	return &Aggregator{minPicks: minPicks, maxPicks: maxPicks, dedup: dedup, log: logging.OrNop(log)}
}

// Curate collapses duplicates, ranks by quality total (stable on arrival order) and caps at maxPicks.
// Below minPicks it returns ErrInsufficientDiscoveries unless bypass is set.
func (a *Aggregator) Curate(ctx context.Context, discoveries []types.Discovery, bypass bool) (Result, error) {
	res := Result{}
	merged := append([]types.Discovery(nil), discoveries...)
	if a.dedup != nil {
		merged, res.Duplicates = a.dedup.Collapse(ctx, merged)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ScoreTotal() > merged[j].ScoreTotal()
	})
	if len(merged) > a.maxPicks {
		res.Trimmed = len(merged) - a.maxPicks
		merged = merged[:a.maxPicks]
	}

	if len(merged) < a.minPicks {
		if !bypass {
			a.log.Warnf("🗑️  Run scrapped: %d discoveries, need %d", len(merged), a.minPicks)
			res.Scrapped = true
			return res, fmt.Errorf("%w: got %d, need %d", ErrInsufficientDiscoveries, len(merged), a.minPicks)
		}
		a.log.Infof("Minimum picks bypassed: accepting %d of %d", len(merged), a.minPicks)
	}

	res.Picks = merged
	a.log.Infof("✅ Curated %d discoveries (%d duplicates collapsed, %d trimmed)",
		len(merged), len(res.Duplicates), res.Trimmed)
	return res, nil
}
