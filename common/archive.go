package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"toolscout/budget"
	"toolscout/types"
)

// ObjectPutter is the part of S3 the archive needs
type ObjectPutter interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// RunRecord is the archived outcome of one compilation run
type RunRecord struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	Scrapped    bool              `json:"scrapped"`
	Discoveries []types.Discovery `json:"discoveries"`
	Cost        budget.Summary    `json:"cost"`
}

// RunArchive writes run records under <prefix>runs/
type RunArchive struct {
	store  ObjectPutter
	bucket string
	prefix string
}

// NewRunArchive creates an archive. prefix is either empty or ends with "/".
func NewRunArchive(store ObjectPutter, bucket, prefix string) *RunArchive {
	return &RunArchive{store: store, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a run id
func (a *RunArchive) Key(runID string) string {
	return a.prefix + "runs/" + runID + ".json"
}

// Store uploads the record as indented JSON
func (a *RunArchive) Store(ctx context.Context, rec RunRecord) error {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}
	if err := a.store.Put(ctx, a.bucket, a.Key(rec.RunID), bytes.NewReader(b), "application/json"); err != nil {
		return fmt.Errorf("failed to upload run %s: %w", rec.RunID, err)
	}
	return nil
}
