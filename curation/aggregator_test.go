package curation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"toolscout/deduplication"
	"toolscout/types"
)

func disc(id string, total float64) types.Discovery {
	d := types.Discovery{ID: id, Source: types.SourceRef{URL: "https://example.com/" + id}}
	if total >= 0 {
		d.QualityScore = &types.QualityScore{Total: total}
	}
	return d
}

func ids(ds []types.Discovery) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

func TestCurateRanksStablyAndCaps(t *testing.T) {
	in := []types.Discovery{
		disc("a", 3.0), disc("b", 4.5), disc("c", -1), disc("d", 3.0),
		disc("e", 4.0), disc("f", 2.0), disc("g", 3.0), disc("h", 1.0),
	}
	agg := NewAggregator(6, 6, nil, nil)

	res, err := agg.Curate(context.Background(), in, false)
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	want := []string{"b", "e", "a", "d", "g", "f"}
	if diff := cmp.Diff(want, ids(res.Picks)); diff != "" {
		t.Fatalf("picks mismatch (-want +got):\n%s", diff)
	}
	if res.Trimmed != 2 {
		t.Fatalf("Trimmed = %d; want 2", res.Trimmed)
	}
}

func TestCurateScrapsShortRun(t *testing.T) {
	agg := NewAggregator(6, 6, nil, nil)
	in := []types.Discovery{disc("a", 1), disc("b", 2)}

	res, err := agg.Curate(context.Background(), in, false)
	if !errors.Is(err, ErrInsufficientDiscoveries) {
		t.Fatalf("err = %v; want ErrInsufficientDiscoveries", err)
	}
	if !res.Scrapped || len(res.Picks) != 0 {
		t.Fatalf("scrapped run must not return picks: %+v", res)
	}

	res, err = agg.Curate(context.Background(), in, true)
	if err != nil {
		t.Fatalf("bypass: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids(res.Picks)); diff != "" {
		t.Fatalf("bypass picks (-want +got):\n%s", diff)
	}
}

func TestCurateCollapsesDuplicatesBeforeCounting(t *testing.T) {
	in := make([]types.Discovery, 0, 7)
	for i := 0; i < 6; i++ {
		in = append(in, disc(fmt.Sprintf("d%d", i), 2))
	}
	dup := disc("dup", 5)
	dup.Source.URL = "https://WWW.example.com/d0/?utm_source=x"
	in = append(in, dup)

	agg := NewAggregator(6, 6, deduplication.NewDeduplicator(nil, 0, nil), nil)
	res, err := agg.Curate(context.Background(), in, false)
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	if len(res.Duplicates) != 1 || res.Duplicates[0].DroppedID != "dup" {
		t.Fatalf("duplicates = %+v", res.Duplicates)
	}
	if len(res.Picks) != 6 || res.Picks[0].ID != "d0" {
		t.Fatalf("picks = %v", ids(res.Picks))
	}
}

func TestNeverExceedsMaxPicks(t *testing.T) {
	for n := 0; n <= 12; n++ {
		in := make([]types.Discovery, n)
		for i := range in {
			in[i] = disc(fmt.Sprintf("x%d", i), float64(i%5))
		}
		res, err := NewAggregator(6, 6, nil, nil).Curate(context.Background(), in, false)
		if len(res.Picks) > 6 {
			t.Fatalf("n=%d: %d picks", n, len(res.Picks))
		}
		if (err == nil) != (n >= 6) {
			t.Fatalf("n=%d: err = %v", n, err)
		}
	}
}
