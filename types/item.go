package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Engagement holds the public metrics attached to a source item
type Engagement struct {
	Likes       int `json:"likes"`
	Reposts     int `json:"reposts"`
	Replies     int `json:"replies"`
	Impressions int `json:"impressions"`
}

// Signals is the count used for the heuristic's minimum-engagement gate
func (e Engagement) Signals() int {
	return e.Likes + e.Reposts + e.Replies
}

// SourceItem represents a single ingested post or feed entry
type SourceItem struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	AuthorHandle string     `json:"author_handle,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	URLs         []string   `json:"urls,omitempty"`
	Metrics      Engagement `json:"metrics"`
	Permalink    string     `json:"permalink"`
	// Origin names the channel the item came from: "feed", "search" or "rss"
	Origin string `json:"origin,omitempty"`
}

// EnrichedItem pairs a source item with the page content resolved for it
type EnrichedItem struct {
	Item    SourceItem `json:"item"`
	Content string     `json:"content"`
}

// EnrichmentResult maps SourceItem IDs to enriched text. A missing key means no enrichment was available.
type EnrichmentResult map[string]string

// ResearchBrief is the structured output of the research agent
type ResearchBrief struct {
	Summary string `json:"summary"`
	Install string `json:"install"`
	DocsURL string `json:"docs_url"`
	Caveats string `json:"caveats"`
}

// IsEmpty reports whether the brief carries no information
func (b ResearchBrief) IsEmpty() bool {
	return b.Summary == "" && b.Install == "" && b.DocsURL == "" && b.Caveats == ""
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
