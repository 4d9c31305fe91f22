package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"toolscout/cache"
	"toolscout/common"
	"toolscout/config"
	"toolscout/curation"
	"toolscout/deduplication"
	"toolscout/enrichment"
	"toolscout/fetch"
	"toolscout/judge"
	"toolscout/llm"
	"toolscout/logging"
	"toolscout/orchestrator"
	"toolscout/rssfeeds"
	"toolscout/shared/kafka"
	"toolscout/xapi"
)

// Build wires the production collaborators from cfg. Missing credentials disable the
// matching capability for the process; they never fail the build.
func Build(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*Pipeline, error) {
	log = logging.OrNop(log)
	var closers []io.Closer

	queries, err := config.LoadQueries(cfg.QueriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}
	log.Infof("Loaded %d search queries and %d feeds", len(queries.Search), len(queries.Feeds))

	qc, err := cache.NewQueryCache(cfg.QueryCacheFile(), cfg.QueryCacheTTL)
	if err != nil {
		log.Warnf("⚠️  Starting with an empty query cache: %v", err)
	}

	var x *xapi.Client
	if cfg.HasSource() {
		if x, err = xapi.New(ctx, xapi.OptionsFromConfig(cfg, log)); err != nil {
			log.Warnf("⚠️  Source API disabled: %v", err)
			x = nil
		}
	} else {
		log.Info("Source API credentials not set; feed and search sources disabled")
	}

	model, err := llm.New(ctx, cfg)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Info("No judge model configured; using the keyword heuristic")
		model = nil
	case err != nil:
		log.Warnf("⚠️  Judge model disabled: %v", err)
		model = nil
	default:
		log.Infof("🧠 Judge model: %s", model.Name())
	}

	opts := enrichment.Options{
		Readme:   fetch.NewReadmeFetcher(cfg.GitHubToken, nil),
		Plain:    fetch.NewPlainFetcher(nil),
		Managed:  fetch.NewManagedBrowser(cfg.BrowserDebugAddr, log),
		Headless: fetch.NewHeadlessBrowser(cfg.ChromePath),
		Model:    model,
		Log:      log,
	}
	if x != nil {
		opts.Social = x
	}
	if cfg.HasSearch() {
		ws, err := fetch.NewWebSearch(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			log.Warnf("⚠️  Web search fallback disabled: %v", err)
		} else {
			opts.Search = ws
		}
	}

	store := seenStore(cfg, log, &closers)

	embedder := deduplication.NewEmbeddingsProvider(cfg.CohereAPIKey, cfg.CohereModel, cfg.OpenAIAPIKey, cfg.OpenAIBase)
	if embedder != nil {
		log.Infof("Semantic duplicate collapse via %s", embedder.ModelName())
	}
	dedup := deduplication.NewDeduplicator(embedder, config.SemanticDuplicateThreshold, log)

	deps := Deps{
		Sources:       sourceFactory(cfg, x, queries, qc),
		Supplementary: supplementFactory(queries, log),
		SeenStore:     store,
		Enricher:      enrichment.NewEngine(opts),
		Judge:         judge.New(model, log),
		Curator:       curation.NewAggregator(cfg.MinPicks, cfg.MaxPicks, dedup, log),
		Cache:         qc,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic, Log: log})
		if err != nil {
			log.Warnf("⚠️  Kafka publication disabled: %v", err)
		} else {
			deps.Publisher = producer
			closers = append(closers, producer)
		}
	}

	if cfg.S3Bucket != "" {
		s3c, err := common.NewS3(ctx, common.S3Config{Region: cfg.S3Region, Profile: cfg.S3Profile, UsePathStyle: cfg.S3UsePathStyle})
		if err != nil {
			log.Warnf("⚠️  S3 archive disabled: %v", err)
		} else {
			deps.Archive = common.NewRunArchive(s3c, cfg.S3Bucket, cfg.S3Prefix)
		}
	}

	deps.Closers = closers
	return New(cfg, deps, log), nil
}

// sourceFactory returns fresh rotation sources in order: feed, then search
func sourceFactory(cfg config.Config, x *xapi.Client, q config.Queries, qc *cache.QueryCache) func() []orchestrator.Source {
	return func() []orchestrator.Source {
		if x == nil {
			return nil
		}
		return []orchestrator.Source{
			orchestrator.NewFeedSource(x, cfg.UnitCost, config.FeedLookback),
			orchestrator.NewSearchSource(x, q.Search, qc, cfg.UnitCost),
		}
	}
}

// supplementFactory returns the RSS source drained after the rotation, if any feeds are configured
func supplementFactory(q config.Queries, log *zap.SugaredLogger) func() []orchestrator.Source {
	return func() []orchestrator.Source {
		if len(q.Feeds) == 0 {
			return nil
		}
		return []orchestrator.Source{rssfeeds.NewSource(q.Feeds, log)}
	}
}

func seenStore(cfg config.Config, log *zap.SugaredLogger, closers *[]io.Closer) deduplication.SeenStore {
	if cfg.RedisAddr != "" {
		rs, err := deduplication.NewRedisStore(deduplication.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisSeenKey,
		})
		if err == nil {
			log.Infof("Seen set stored in Redis at %s", cfg.RedisAddr)
			*closers = append(*closers, rs)
			return rs
		}
		log.Warnf("⚠️  Redis unavailable, falling back to %s: %v", cfg.SeenFile(), err)
	}
	return deduplication.NewFileStore(cfg.SeenFile())
}
