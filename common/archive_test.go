package common

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"toolscout/budget"
	"toolscout/types"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.bucket, f.key, f.contentType = bucket, key, contentType
	b, err := io.ReadAll(body)
	f.body = b
	return err
}

func TestRunArchiveStore(t *testing.T) {
	put := &fakePutter{}
	archive := NewRunArchive(put, "bucket", "toolscout/")

	rec := RunRecord{
		RunID:       "run-1",
		Discoveries: []types.Discovery{{ID: "d1", Title: "Acme"}},
		Cost:        budget.Summary{Spend: 0.075, Budget: 0.5, Remaining: 0.425, ItemsProcessed: 15},
	}
	if err := archive.Store(context.Background(), rec); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if put.bucket != "bucket" || put.key != "toolscout/runs/run-1.json" {
		t.Fatalf("wrote %s/%s", put.bucket, put.key)
	}
	if put.contentType != "application/json" {
		t.Fatalf("content type = %q", put.contentType)
	}

	var got RunRecord
	if err := json.Unmarshal(put.body, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if got.RunID != "run-1" || len(got.Discoveries) != 1 || got.Cost.ItemsProcessed != 15 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRunArchiveStoreError(t *testing.T) {
	archive := NewRunArchive(&fakePutter{err: errors.New("denied")}, "b", "")
	if err := archive.Store(context.Background(), RunRecord{RunID: "x"}); err == nil {
		t.Fatal("expected upload error")
	}
	if got := archive.Key("x"); got != "runs/x.json" {
		t.Fatalf("Key = %q", got)
	}
}
