package config

import "time"

// Orchestration Constants
const (
	// BatchSize is the number of items requested from a source per batch
	BatchSize = 15

	// TargetDiscoveries stops the orchestrator once this many items are accepted
	TargetDiscoveries = 6

	// MaxBatches bounds the number of source batches per run
	MaxBatches = 10

	// EnrichWorkers is the number of concurrent enrichment tasks within a batch
	EnrichWorkers = 3

	// BatchDelay is the courtesy pause between source batches
	BatchDelay = 400 * time.Millisecond

	// FeedLookback is the time window requested from the personalized feed
	FeedLookback = 24 * time.Hour
)

// Curation Constants
const (
	// MaxPicks caps the number of discoveries emitted per run
	MaxPicks = 6

	// MinPicks is the minimum number of discoveries for a run to succeed
	MinPicks = 6

	// AcceptThreshold applies to judge confidence and every per-axis score
	AcceptThreshold = 0.5

	// TrendingEngagement marks a discovery as trending
	TrendingEngagement = 100

	// SemanticDuplicateThreshold collapses discoveries with near-identical embeddings
	SemanticDuplicateThreshold float32 = 0.95
)

// Budget Constants
const (
	// BudgetCap is the default spend ceiling (USD) for one run's paid calls
	BudgetCap = 0.50

	// UnitCost is the cost (USD) of reading one item from the source API
	UnitCost = 0.005
)

// Research Constants
const (
	// MaxHops bounds the number of pages the research agent fetches
	MaxHops = 8

	// MaxLinksPerHop is the number of candidate links offered to the model per hop
	MaxLinksPerHop = 20

	// ContentLimit truncates page text, README text and fallback summaries (characters)
	ContentLimit = 3000

	// MinPlainContent is the minimum plain-fetch text length worth keeping (characters)
	MinPlainContent = 200

	// SearchResults is the number of web results used for a search fallback summary
	SearchResults = 3
)

// Timeout Constants
const (
	PlainFetchTimeout    = 5 * time.Second
	ResearchFetchTimeout = 8 * time.Second
	BrowserTimeout       = 15 * time.Second
	ModelTimeout         = 15 * time.Second
	SourceTimeout        = 10 * time.Second
	ReadmeTimeout        = 8 * time.Second
	SearchTimeout        = 8 * time.Second

	// MaxRateLimitWait caps the sleep before the single 429 retry
	MaxRateLimitWait = 60 * time.Second
)

// Persistence Constants
const (
	// SeenCap is the number of most recent item IDs retained in the seen set
	SeenCap = 5000

	// QueryCacheTTL is how long cached search results stay valid
	QueryCacheTTL = 15 * time.Minute

	// DataDir holds the seen set and query cache files
	DataDir = ".toolscout"
)
