// Package orchestrator drives the budget-gated batch loop over the ingestion sources.
package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"toolscout/budget"
	"toolscout/config"
	"toolscout/deduplication"
	"toolscout/logging"
	"toolscout/types"
)

// StopReason names why a run ended
type StopReason string

const (
	StopTarget     StopReason = "target"
	StopMaxBatches StopReason = "max_batches"
	StopExhausted  StopReason = "exhausted"
	StopBudget     StopReason = "budget"
	StopCanceled   StopReason = "canceled"
)

// Evaluator turns enriched items into accepted Discoveries
type Evaluator interface {
	Evaluate(ctx context.Context, items []types.EnrichedItem) []types.Discovery
}

// Options configures one orchestrator. Zero values fall back to the config defaults.
type Options struct {
	// Sources alternate batch by batch
	Sources []Source
	// Supplementary sources are drained after the rotation, outside the batch limit
	Supplementary []Source
	Budget        *budget.Tracker
	Seen          *deduplication.SeenSet
	Store         deduplication.SeenStore
	Enricher      Enricher
	Judge         Evaluator

	BatchSize  int
	Target     int
	MaxBatches int
	Workers    int
	Delay      time.Duration
	Log        *zap.SugaredLogger
}

// Result is the outcome of one orchestration
type Result struct {
	Discoveries []types.Discovery
	Batches     int
	// Plan lists the source used for each batch, in order
	Plan []string
	Stop StopReason
	// Extra lists the supplementary batches, which are not counted in Batches
	Extra []string
}

// Orchestrator owns the per-run state: budget ledger, seen set and the discovery accumulator
type Orchestrator struct {
	opts Options
	log  *zap.SugaredLogger
}

// New creates an orchestrator
func New(opts Options) *Orchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = config.BatchSize
	}
	if opts.Target <= 0 {
		opts.Target = config.TargetDiscoveries
	}
	if opts.MaxBatches <= 0 {
		opts.MaxBatches = config.MaxBatches
	}
	if opts.Workers <= 0 {
		opts.Workers = config.EnrichWorkers
	}
	if opts.Budget == nil {
		opts.Budget = budget.NewTracker(config.BudgetCap, config.UnitCost)
	}
	if opts.Seen == nil {
		opts.Seen = deduplication.NewSeenSet(config.SeenCap)
	}
	return &Orchestrator{opts: opts, log: logging.OrNop(opts.Log)}
}

// Run executes batches until the target, the batch limit, source exhaustion or the budget stops it.
// The seen set is saved once, after the last batch.
func (o *Orchestrator) Run(ctx context.Context) Result {
	res := Result{}
	defer o.saveSeen(ctx)

	cursor := 0
	for {
		if len(res.Discoveries) >= o.opts.Target {
			res.Stop = StopTarget
			break
		}
		if res.Batches >= o.opts.MaxBatches {
			res.Stop = StopMaxBatches
			break
		}
		src, next, ok := o.pick(cursor)
		if !ok {
			res.Stop = StopExhausted
			break
		}
		estimate := o.opts.Budget.Estimate(o.opts.BatchSize)
		if remaining := o.opts.Budget.Remaining(); remaining < estimate/2 {
			o.log.Infow("💰 Budget too low for another batch",
				"remaining", remaining,
				"estimate", estimate,
			)
			res.Stop = StopBudget
			break
		}
		if res.Batches > 0 && !o.pause(ctx) {
			res.Stop = StopCanceled
			break
		}
		cursor = next

		res.Batches++
		res.Plan = append(res.Plan, src.Name())
		accepted, overCap := o.batch(ctx, res.Batches, src)
		res.Discoveries = append(res.Discoveries, accepted...)
		if overCap {
			res.Stop = StopBudget
			break
		}
		if ctx.Err() != nil {
			res.Stop = StopCanceled
			break
		}
	}
	o.supplement(ctx, &res)

	o.log.Infof("🏁 Orchestration finished after %d batches (%s): %d discoveries, %s",
		res.Batches, res.Stop, len(res.Discoveries), o.opts.Budget.Summary())
	return res
}

// supplement drains the supplementary sources when the rotation ended short of the
// target for a reason other than budget or cancellation
func (o *Orchestrator) supplement(ctx context.Context, res *Result) {
	if res.Stop != StopExhausted && res.Stop != StopMaxBatches {
		return
	}
	for _, src := range o.opts.Supplementary {
		for src != nil && !src.Exhausted() {
			if len(res.Discoveries) >= o.opts.Target {
				res.Stop = StopTarget
				return
			}
			if ctx.Err() != nil {
				res.Stop = StopCanceled
				return
			}
			res.Extra = append(res.Extra, src.Name())
			accepted, overCap := o.batch(ctx, res.Batches+len(res.Extra), src)
			res.Discoveries = append(res.Discoveries, accepted...)
			if overCap {
				res.Stop = StopBudget
				return
			}
		}
	}
}

// pick returns the first non-exhausted source at or after cursor, and the cursor for the following batch
func (o *Orchestrator) pick(cursor int) (Source, int, bool) {
	n := len(o.opts.Sources)
	for i := 0; i < n; i++ {
		idx := (cursor + i) % n
		if src := o.opts.Sources[idx]; src != nil && !src.Exhausted() {
			return src, (idx + 1) % n, true
		}
	}
	return nil, cursor, false
}

// batch reads, filters, charges, enriches and judges one batch. Items join the seen set
// only once judged. overCap is true when the realized cost no longer fit under the cap.
func (o *Orchestrator) batch(ctx context.Context, n int, src Source) (accepted []types.Discovery, overCap bool) {
	items, cost, err := src.Next(ctx, o.opts.BatchSize)
	if err != nil {
		o.log.Warnf("⚠️  Batch %d: %s source failed: %v", n, src.Name(), err)
	}

	fresh := o.opts.Seen.Unseen(items)

	if cost > 0 && !o.opts.Budget.RecordSpend(cost) {
		o.log.Warnw("💰 Batch cost exceeds the remaining budget, stopping after this batch",
			"batch", n,
			"cost", cost,
			"remaining", o.opts.Budget.Remaining(),
		)
		overCap = true
	}

	o.log.Infof("📦 Batch %d from %s: %d items, %d new", n, src.Name(), len(items), len(fresh))
	if len(fresh) == 0 {
		return nil, overCap
	}

	enriched := enrichAll(ctx, o.opts.Enricher, fresh, o.opts.Workers)
	if ctx.Err() != nil {
		// Unjudged items stay unseen so a later run picks them up
		o.log.Warnf("⚠️  Batch %d canceled during enrichment, %d items left unseen", n, len(fresh))
		return nil, overCap
	}
	o.opts.Budget.AddProcessed(len(fresh))

	if o.opts.Judge != nil {
		accepted = o.opts.Judge.Evaluate(ctx, pair(fresh, enriched))
	}
	ids := make([]string, len(fresh))
	for i, it := range fresh {
		ids[i] = it.ID
	}
	o.opts.Seen.Add(ids...)
	o.log.Infow("Batch judged",
		"batch", n,
		"source", src.Name(),
		"enriched", len(enriched),
		"accepted", len(accepted),
	)
	return accepted, overCap
}

// pause waits out the courtesy delay between batches. It returns false if ctx ends first.
func (o *Orchestrator) pause(ctx context.Context) bool {
	if o.opts.Delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(o.opts.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (o *Orchestrator) saveSeen(ctx context.Context) {
	if o.opts.Store == nil {
		return
	}
	// The run context may already be done; the save still has to land.
	if err := o.opts.Seen.Save(context.WithoutCancel(ctx), o.opts.Store); err != nil {
		o.log.Warnf("⚠️  Failed to save seen set: %v", err)
		return
	}
	o.log.Debugf("Saved seen set (%d ids)", o.opts.Seen.Len())
}
