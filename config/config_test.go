package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	t.Setenv("TOOLSCOUT_BUDGET", "0.10")
	t.Setenv("TOOLSCOUT_BATCH_SIZE", "not-a-number")
	t.Setenv("TOOLSCOUT_BATCH_DELAY", "1s")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "a:9092, b:9092,")
	t.Setenv("S3_PREFIX", "/archive/")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()

	if cfg.BudgetCap != 0.10 {
		t.Fatalf("BudgetCap = %v; want 0.10", cfg.BudgetCap)
	}
	if cfg.BatchSize != BatchSize {
		t.Fatalf("BatchSize = %d; want default %d on parse failure", cfg.BatchSize, BatchSize)
	}
	if cfg.BatchDelay != time.Second {
		t.Fatalf("BatchDelay = %v; want 1s", cfg.BatchDelay)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.S3Prefix != "archive/" {
		t.Fatalf("S3Prefix = %q; want archive/", cfg.S3Prefix)
	}
	if cfg.HasJudge() {
		t.Fatal("HasJudge should be false without model keys")
	}
}

func TestCapabilities(t *testing.T) {
	cfg := Config{SearchAPIKey: "k"}
	if cfg.HasSearch() {
		t.Fatal("search needs both key and engine id")
	}
	cfg.SearchEngineID = "cx"
	if !cfg.HasSearch() {
		t.Fatal("search should be available")
	}
	if (Config{XClientID: "id"}).HasSource() {
		t.Fatal("client id alone is not enough for the source API")
	}
	if !(Config{XClientID: "id", XRefreshToken: "rt"}).HasSource() {
		t.Fatal("client id + refresh token should enable the source API")
	}
}

func TestLoadQueriesMissingFileUsesDefaults(t *testing.T) {
	q, err := LoadQueries(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Search) != len(DefaultSearchQueries) {
		t.Fatalf("got %d queries; want %d", len(q.Search), len(DefaultSearchQueries))
	}
	if len(q.Feeds) != 1 || q.Feeds[0].URL != FeedPresets["showhn"].URL {
		t.Fatalf("unexpected default feeds: %+v", q.Feeds)
	}
}

func TestLoadQueriesParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	body := `search:
  - "  rust cli  "
  - ""
  - mcp server
feeds:
  - url: hn
  - name: Lobsters
    url: https://lobste.rs/rss
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	q, err := LoadQueries(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Search) != 2 || q.Search[0] != "rust cli" {
		t.Fatalf("Search = %q", q.Search)
	}
	if len(q.Feeds) != 2 {
		t.Fatalf("Feeds = %+v", q.Feeds)
	}
	if q.Feeds[0].URL != FeedPresets["hn"].URL {
		t.Fatalf("preset not resolved: %+v", q.Feeds[0])
	}
	if q.Feeds[1].Name != "Lobsters" || q.Feeds[1].Count != BatchSize {
		t.Fatalf("custom feed = %+v", q.Feeds[1])
	}
}
