// Package judge scores enriched items and turns the accepted ones into Discoveries.
package judge

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"toolscout/config"
	"toolscout/fetch"
	"toolscout/llm"
	"toolscout/logging"
	"toolscout/types"
)

// promptContentLimit bounds each item's enriched text inside the batch prompt
const promptContentLimit = 1500

const judgeSystem = `You curate a newsletter of actionable, installable developer tools for people building with AI agents.
For each numbered item decide whether a reader could install or adopt something concrete today.
Reply with a single JSON object of the form {"verdicts":[...]} holding one verdict per item:
{"index":0,"actionable":true,"confidence":0.0-1.0,"category":"tool|integration|infrastructure|skill|workflow",
 "title":"product name","one_liner":"what it does in one sentence","value_prop":"why a developer should care",
 "install_hint":"shell commands, one per line","skip_reason":"only when actionable is false",
 "scores":{"utility":0-1,"downloadability":0-1,"specificity":0-1,"signal":0-1,"novelty":0-1}}
Score conservatively. Announcements without a way to try the thing, opinion threads and job posts are not actionable.`

// Judge gates items through the model, or the keyword heuristic when no model is available
type Judge struct {
	model     llm.Client
	threshold float64
	log       *zap.SugaredLogger
}

// New creates a judge. A nil model means every item goes through the heuristic.
func New(model llm.Client, log *zap.SugaredLogger) *Judge {
	return &Judge{model: model, threshold: config.AcceptThreshold, log: logging.OrNop(log)}
}

// Verdicts asks the model about the whole batch. The result has one slot per item,
// in order; a nil slot means the model gave no valid verdict for that item.
func (j *Judge) Verdicts(ctx context.Context, items []types.EnrichedItem) []*types.JudgeVerdict {
	if j.model == nil || len(items) == 0 {
		return make([]*types.JudgeVerdict, len(items))
	}
	raw, err := j.model.Complete(ctx, judgeSystem, buildPrompt(items))
	if err != nil {
		j.log.Warnf("⚠️  Judge call failed, using heuristic for %d items: %v", len(items), err)
		return make([]*types.JudgeVerdict, len(items))
	}
	verdicts, err := parseVerdicts(raw, len(items))
	if err != nil {
		j.log.Warnf("⚠️  Judge reply unusable, using heuristic: %v", err)
	}
	return verdicts
}

// Evaluate returns the Discoveries accepted from items, in item order
func (j *Judge) Evaluate(ctx context.Context, items []types.EnrichedItem) []types.Discovery {
	verdicts := j.Verdicts(ctx, items)
	var out []types.Discovery
	for i, it := range items {
		v := verdicts[i]
		if v == nil {
			if d, ok := Heuristic(it); ok {
				out = append(out, d)
			}
			continue
		}
		if ok, failing := j.Accept(v); !ok {
			j.logRejection(it, v, failing)
			continue
		}
		out = append(out, FromVerdict(it, v))
	}
	return out
}

// Accept applies the gate: actionable, confident, and every axis at or above the threshold.
// It also returns the names of the failing axes.
func (j *Judge) Accept(v *types.JudgeVerdict) (bool, []string) {
	var failing []string
	for _, a := range v.Scores.Axes() {
		if a.Value < j.threshold {
			failing = append(failing, a.Name)
		}
	}
	ok := v.Actionable && v.Confidence >= j.threshold && len(failing) == 0
	return ok, failing
}

func (j *Judge) logRejection(it types.EnrichedItem, v *types.JudgeVerdict, failing []string) {
	switch {
	case !v.Actionable:
		j.log.Debugw("Judge skipped item", "item", it.Item.ID, "reason", v.SkipReason)
	case v.Confidence < j.threshold:
		j.log.Debugw("Judge rejected item on confidence", "item", it.Item.ID, "confidence", v.Confidence)
	default:
		j.log.Infow("Judge rejected item on axis scores",
			"item", it.Item.ID,
			"title", v.Title,
			"failing_axes", failing,
		)
	}
}

func buildPrompt(items []types.EnrichedItem) string {
	var b strings.Builder
	for i, it := range items {
		m := it.Item.Metrics
		fmt.Fprintf(&b, "### Item %d\nAuthor: @%s\nEngagement: %d likes, %d reposts, %d replies\nLink: %s\nPost:\n%s\n",
			i, it.Item.AuthorHandle, m.Likes, m.Reposts, m.Replies, it.Item.Permalink, it.Item.Text)
		if c := strings.TrimSpace(it.Content); c != "" {
			fmt.Fprintf(&b, "Linked content:\n%s\n", fetch.Truncate(c, promptContentLimit))
		}
		b.WriteString("\n")
	}
	return b.String()
}
