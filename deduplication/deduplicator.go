package deduplication

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"toolscout/logging"
	"toolscout/types"
)

// DeduplicationResult records why a discovery was collapsed into an earlier one
type DeduplicationResult struct {
	DroppedID       string  `json:"dropped_id"`
	MatchingID      string  `json:"matching_id"`
	Reason          string  `json:"reason"` // "url" or "semantic"
	SimilarityScore float32 `json:"similarity_score,omitempty"`
}

// Deduplicator collapses discoveries that point at the same thing.
// Exact matches use the normalized source URL; near matches use embeddings when a provider is set.
type Deduplicator struct {
	embedder            EmbeddingsProvider
	similarityThreshold float32
	log                 *zap.SugaredLogger
}

// NewDeduplicator creates a deduplicator. embedder may be nil to disable semantic collapse.
func NewDeduplicator(embedder EmbeddingsProvider, threshold float32, log *zap.SugaredLogger) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.95
	}
	return &Deduplicator{embedder: embedder, similarityThreshold: threshold, log: logging.OrNop(log)}
}

// Collapse returns the discoveries with duplicates removed, keeping the first arrival of each group
func (d *Deduplicator) Collapse(ctx context.Context, in []types.Discovery) ([]types.Discovery, []DeduplicationResult) {
	var results []DeduplicationResult
	kept := make([]types.Discovery, 0, len(in))
	byURL := make(map[string]string, len(in))

	for _, disc := range in {
		key := NormalizeURL(disc.Source.URL)
		if key != "" {
			if first, ok := byURL[key]; ok {
				results = append(results, DeduplicationResult{DroppedID: disc.ID, MatchingID: first, Reason: "url"})
				d.log.Debugf("Dropped %s: same source as %s", disc.ID, first)
				continue
			}
			byURL[key] = disc.ID
		}
		kept = append(kept, disc)
	}

	if d.embedder == nil || len(kept) < 2 {
		return kept, results
	}

	texts := make([]string, len(kept))
	for i, disc := range kept {
		texts[i] = embeddingText(disc)
	}
	vectors, err := d.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(kept) {
		d.log.Warnf("Skipping semantic collapse (%s): %v", d.embedder.ModelName(), err)
		return kept, results
	}

	out := make([]types.Discovery, 0, len(kept))
	outVecs := make([][]float32, 0, len(kept))
	for i, disc := range kept {
		dup := false
		for j, prev := range outVecs {
			sim := cosineSimilarity(vectors[i], prev)
			if sim >= d.similarityThreshold {
				results = append(results, DeduplicationResult{
					DroppedID:       disc.ID,
					MatchingID:      out[j].ID,
					Reason:          "semantic",
					SimilarityScore: sim,
				})
				d.log.Debugf("Dropped %s: %.3f similar to %s", disc.ID, sim, out[j].ID)
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, disc)
		outVecs = append(outVecs, vectors[i])
	}
	return out, results
}

func embeddingText(d types.Discovery) string {
	return strings.TrimSpace(d.Title + ". " + d.OneLiner)
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
