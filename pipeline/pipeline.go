// Package pipeline runs one bounded compilation cycle: orchestrate, curate, publish.
package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toolscout/budget"
	"toolscout/cache"
	"toolscout/common"
	"toolscout/config"
	"toolscout/curation"
	"toolscout/deduplication"
	"toolscout/logging"
	"toolscout/orchestrator"
	"toolscout/types"
)

// ErrRunInProgress is returned when RunOnce is called while another run is active
var ErrRunInProgress = errors.New("a curation run is already in progress")

// Publisher hands discoveries to the downstream consumer
type Publisher interface {
	PublishDiscoveries(ctx context.Context, discoveries []types.Discovery) (int, error)
}

// Archiver stores a finished run
type Archiver interface {
	Store(ctx context.Context, rec common.RunRecord) error
}

// Deps are the run's collaborators. Sources and Supplementary are called once per run
// so stateful sources start fresh.
type Deps struct {
	Sources       func() []orchestrator.Source
	Supplementary func() []orchestrator.Source
	SeenStore     deduplication.SeenStore
	Enricher      orchestrator.Enricher
	Judge         orchestrator.Evaluator
	Curator       *curation.Aggregator
	Publisher     Publisher
	Archive       Archiver
	Cache         *cache.QueryCache
	Closers       []io.Closer
}

// Summary describes one finished run
type Summary struct {
	RunID      string                  `json:"runId"`
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt time.Time               `json:"finishedAt"`
	Batches    int                     `json:"batches"`
	Plan       []string                `json:"plan"`
	Extra      []string                `json:"extra,omitempty"`
	Stop       orchestrator.StopReason `json:"stop"`
	Accepted   int                     `json:"accepted"`
	Picks      int                     `json:"picks"`
	Duplicates int                     `json:"duplicates"`
	Scrapped   bool                    `json:"scrapped"`
	Published  int                     `json:"published"`
	Cost       budget.Summary          `json:"cost"`
}

// Outcome is what a run hands back to its caller
type Outcome struct {
	Discoveries []types.Discovery `json:"discoveries"`
	Summary     Summary           `json:"summary"`
}

// Pipeline owns the budget ledger across runs and serializes them
type Pipeline struct {
	cfg    config.Config
	deps   Deps
	budget *budget.Tracker
	log    *zap.SugaredLogger
	now    func() time.Time

	running sync.Mutex
	status  *statusTracker
	mu      sync.Mutex
	last    *Summary
}

// maxStatusLogs bounds the status log ring
const maxStatusLogs = 50

// New creates a pipeline from already built collaborators
func New(cfg config.Config, deps Deps, log *zap.SugaredLogger) *Pipeline {
	if deps.Curator == nil {
		deps.Curator = curation.NewAggregator(cfg.MinPicks, cfg.MaxPicks, nil, log)
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		budget: budget.NewTracker(cfg.BudgetCap, cfg.UnitCost),
		log:    logging.OrNop(log),
		now:    time.Now,
		status: newStatusTracker(maxStatusLogs),
	}
}

// RunOnce executes one compilation cycle. It fails with curation.ErrInsufficientDiscoveries
// when the run is scrapped, and with ErrRunInProgress when another run holds the pipeline.
func (p *Pipeline) RunOnce(ctx context.Context, bypassMinPicks bool) (Outcome, error) {
	if !p.running.TryLock() {
		return Outcome{}, ErrRunInProgress
	}
	defer p.running.Unlock()

	sum := Summary{RunID: uuid.NewString(), StartedAt: p.now()}
	p.log.Infof("=== toolscout run %s ===", sum.RunID)
	p.status.begin(sum.RunID)

	p.budget.Reset(p.cfg.BudgetCap)
	seen, err := deduplication.LoadSeenSet(ctx, p.deps.SeenStore, p.cfg.SeenCap)
	if err != nil {
		p.log.Warnf("⚠️  Starting with an empty seen set: %v", err)
	}

	var sources []orchestrator.Source
	if p.deps.Sources != nil {
		sources = p.deps.Sources()
	}
	var extra []orchestrator.Source
	if p.deps.Supplementary != nil {
		extra = p.deps.Supplementary()
	}
	if len(sources) == 0 && len(extra) == 0 {
		p.log.Warn("⚠️  No ingestion sources configured")
	}

	orch := orchestrator.New(orchestrator.Options{
		Sources:       sources,
		Supplementary: extra,
		Budget:        p.budget,
		Seen:          seen,
		Store:         p.deps.SeenStore,
		Enricher:      p.deps.Enricher,
		Judge:         p.deps.Judge,
		BatchSize:     p.cfg.BatchSize,
		Target:        p.cfg.TargetDiscoveries,
		MaxBatches:    p.cfg.MaxBatches,
		Workers:       config.EnrichWorkers,
		Delay:         p.cfg.BatchDelay,
		Log:           p.log,
	})
	res := orch.Run(ctx)

	if p.deps.Cache != nil {
		if err := p.deps.Cache.Flush(); err != nil {
			p.log.Warnf("⚠️  Failed to write query cache: %v", err)
		}
	}

	sum.Batches = res.Batches
	sum.Plan = res.Plan
	sum.Extra = res.Extra
	sum.Stop = res.Stop
	sum.Accepted = len(res.Discoveries)
	p.status.addLog("Orchestration stopped (%s) after %d batches: %d accepted", res.Stop, res.Batches, sum.Accepted)

	p.status.set(PhaseCurating)
	curated, curateErr := p.deps.Curator.Curate(ctx, res.Discoveries, bypassMinPicks)
	sum.Picks = len(curated.Picks)
	sum.Duplicates = len(curated.Duplicates)
	sum.Scrapped = curated.Scrapped

	if curateErr == nil {
		p.status.set(PhasePublishing)
		sum.Published = p.publish(ctx, curated.Picks)
	}
	sum.Cost = p.budget.Snapshot()
	sum.FinishedAt = p.now()
	p.archive(ctx, sum, curated.Picks)
	p.remember(sum)

	p.log.Infow("Run finished",
		"run", sum.RunID,
		"picks", sum.Picks,
		"scrapped", sum.Scrapped,
		"stop", sum.Stop,
		"cost", sum.Cost.String(),
	)
	if curateErr != nil {
		p.status.fail(curateErr)
		return Outcome{Summary: sum}, curateErr
	}
	p.status.addLog("Curated %d discoveries, published %d", sum.Picks, sum.Published)
	p.status.set(PhaseComplete)
	return Outcome{Discoveries: curated.Picks, Summary: sum}, nil
}

// Status returns the live run phase and recent log lines
func (p *Pipeline) Status() Status {
	return p.status.snapshot()
}

func (p *Pipeline) publish(ctx context.Context, picks []types.Discovery) int {
	if p.deps.Publisher == nil || len(picks) == 0 {
		return 0
	}
	sent, err := p.deps.Publisher.PublishDiscoveries(ctx, picks)
	if err != nil {
		p.log.Warnf("⚠️  Published %d of %d discoveries: %v", sent, len(picks), err)
	}
	return sent
}

func (p *Pipeline) archive(ctx context.Context, sum Summary, picks []types.Discovery) {
	if p.deps.Archive == nil {
		return
	}
	uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	rec := common.RunRecord{
		RunID:       sum.RunID,
		StartedAt:   sum.StartedAt,
		FinishedAt:  sum.FinishedAt,
		Scrapped:    sum.Scrapped,
		Discoveries: picks,
		Cost:        sum.Cost,
	}
	if rec.Discoveries == nil {
		rec.Discoveries = []types.Discovery{}
	}
	if err := p.deps.Archive.Store(uctx, rec); err != nil {
		p.log.Warnf("⚠️  Run archive failed: %v", err)
	}
}

func (p *Pipeline) remember(sum Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = &sum
}

// LastSummary returns the most recent run summary, if any run has finished
func (p *Pipeline) LastSummary() (Summary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return Summary{}, false
	}
	return *p.last, true
}

// CostSummary returns the live budget ledger
func (p *Pipeline) CostSummary() budget.Summary {
	return p.budget.Snapshot()
}

// Close releases connections held by the collaborators
func (p *Pipeline) Close() error {
	var errs []error
	for _, c := range p.deps.Closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
