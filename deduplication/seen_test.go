package deduplication

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"toolscout/types"
)

func TestSeenSetCapKeepsMostRecent(t *testing.T) {
	s := NewSeenSet(3)
	if n := s.Add("a", "b", "a", "", "c", "d", "e"); n != 5 {
		t.Fatalf("Add returned %d new ids; want 5", n)
	}
	if diff := cmp.Diff([]string{"c", "d", "e"}, s.IDs()); diff != "" {
		t.Fatalf("IDs mismatch (-want +got):\n%s", diff)
	}
	// In-memory membership is not truncated until the next load
	if !s.Has("a") {
		t.Fatalf("expected a to remain seen for the current run")
	}
}

func TestSeenSetUnseenFiltersAndDedupes(t *testing.T) {
	s := NewSeenSet(10)
	s.Add("1")
	items := []types.SourceItem{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "2"}}
	got := s.Unseen(items)
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("Unseen = %+v; want ids 2,3", got)
	}
}

func TestFileStoreRoundTripAndMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "seen.json")
	store := NewFileStore(path)

	s, err := LoadSeenSet(ctx, store, 2)
	if err != nil {
		t.Fatalf("LoadSeenSet on missing file: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty set, got %d", s.Len())
	}

	s.Add("x", "y", "z")
	if err := s.Save(ctx, store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadSeenSet(ctx, store, 2)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff([]string{"y", "z"}, reloaded.IDs()); diff != "" {
		t.Fatalf("reloaded mismatch (-want +got):\n%s", diff)
	}
	if reloaded.Has("x") {
		t.Fatalf("oldest id should have been evicted on save")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSeenSet(context.Background(), NewFileStore(path), 10)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if s == nil || s.Len() != 0 {
		t.Fatalf("expected usable empty set alongside the error")
	}
}

func TestSeenSetIdempotentAcrossRuns(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "seen.json"))
	upstream := []types.SourceItem{{ID: "p1"}, {ID: "p2"}}

	first, _ := LoadSeenSet(ctx, store, 100)
	fresh := first.Unseen(upstream)
	for _, it := range fresh {
		first.Add(it.ID)
	}
	if err := first.Save(ctx, store); err != nil {
		t.Fatal(err)
	}

	second, _ := LoadSeenSet(ctx, store, 100)
	if got := second.Unseen(upstream); len(got) != 0 {
		t.Fatalf("second run saw %d new items; want 0", len(got))
	}
}
