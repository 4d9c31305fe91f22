package judge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"toolscout/config"
	"toolscout/fetch"
	"toolscout/types"
	"toolscout/vocab"
)

const (
	titleLimit       = 80
	oneLinerLimit    = 160
	descriptionLimit = 480
	maxInstallSteps  = 5
)

// minSignals is the engagement floor for heuristic acceptance
const minSignals = 3

// FromVerdict builds the Discovery for an accepted judge verdict
func FromVerdict(it types.EnrichedItem, v *types.JudgeVerdict) types.Discovery {
	d := baseDiscovery(it)
	d.Category = v.Category
	if v.Title != "" {
		d.Title = fetch.Truncate(v.Title, titleLimit)
	}
	if v.OneLiner != "" {
		d.OneLiner = fetch.Truncate(v.OneLiner, oneLinerLimit)
	}
	if v.ValueProp != "" {
		d.Impact = v.ValueProp
	}
	d.Rationale = fmt.Sprintf("Judge confidence %.2f; %s", v.Confidence, describeScores(v.Scores))

	steps := installSteps(v.InstallHint)
	if len(steps) == 0 {
		steps = vocab.FindInstallCommands(it.Content+"\n"+it.Item.Text, maxInstallSteps)
	}
	d.InstallSteps = steps
	d.InstallTime = installTime(steps)
	d.QualityScore = types.NewQualityScore(v.Scores)
	d.Security = types.SecurityPending
	return d
}

// Heuristic accepts an item without a model: enough engagement, something installable
// or linkable, and at least one domain keyword. The category comes from keyword buckets.
func Heuristic(it types.EnrichedItem) (types.Discovery, bool) {
	if it.Item.Metrics.Signals() < minSignals {
		return types.Discovery{}, false
	}
	text := it.Item.Text + "\n" + it.Content
	hasLink := false
	for _, u := range it.Item.URLs {
		if fetch.IsAbsoluteURL(u) && !fetch.IsSocial(u) {
			hasLink = true
			break
		}
	}
	if !hasLink && !strings.Contains(text, "```") && !vocab.HasInstallPattern(text) {
		return types.Discovery{}, false
	}
	keywords := vocab.MatchKeywords(text)
	if len(keywords) == 0 {
		return types.Discovery{}, false
	}

	d := baseDiscovery(it)
	d.Category = vocab.InferCategory(text)
	d.Rationale = "Keyword match: " + strings.Join(keywords, ", ")
	d.InstallSteps = vocab.FindInstallCommands(it.Content+"\n"+it.Item.Text, maxInstallSteps)
	d.InstallTime = installTime(d.InstallSteps)
	d.Security = types.SecurityUnverified
	return d, true
}

// baseDiscovery fills the fields that do not depend on the verdict
func baseDiscovery(it types.EnrichedItem) types.Discovery {
	item := it.Item
	title := firstLine(item.Text)

	d := types.Discovery{
		ID:           DiscoveryID(item),
		Title:        fetch.Truncate(title, titleLimit),
		OneLiner:     fetch.Truncate(oneLine(item.Text), oneLinerLimit),
		Description:  describe(it),
		InstallSteps: []string{},
		Source: types.SourceRef{
			URL:    SourceURL(item),
			Type:   sourceType(item),
			Author: item.AuthorHandle,
		},
		Signal: types.SignalRef{
			Engagement: item.Metrics.Likes + item.Metrics.Reposts,
			Comments:   item.Metrics.Replies,
			Trending:   item.Metrics.Signals() >= config.TrendingEngagement,
		},
	}
	if !item.CreatedAt.IsZero() {
		created := item.CreatedAt
		d.Source.Date = &created
	}
	d.Impact = d.OneLiner
	return d
}

// DiscoveryID is stable per permalink so reruns produce the same id
func DiscoveryID(item types.SourceItem) string {
	key := item.Permalink
	if key == "" {
		key = item.ID
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// SourceURL is the first well-formed external link, else the item's permalink
func SourceURL(item types.SourceItem) string {
	for _, u := range item.URLs {
		if fetch.IsAbsoluteURL(u) && !fetch.IsSocial(u) {
			return u
		}
	}
	return item.Permalink
}

func sourceType(item types.SourceItem) string {
	if item.Origin == "rss" {
		return "rss"
	}
	return "x"
}

func describe(it types.EnrichedItem) string {
	text := strings.TrimSpace(it.Content)
	if text == "" {
		text = it.Item.Text
	}
	return fetch.Truncate(oneLine(text), descriptionLimit)
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// installSteps splits a hint into shell-runnable commands
func installSteps(hint string) []string {
	var steps []string
	for _, line := range strings.Split(hint, "\n") {
		for _, part := range strings.Split(line, " && ") {
			part = strings.TrimSpace(strings.Trim(strings.TrimSpace(part), "`"))
			part = strings.TrimPrefix(part, "$ ")
			if part != "" {
				steps = append(steps, part)
			}
		}
		if len(steps) >= maxInstallSteps {
			return steps[:maxInstallSteps]
		}
	}
	return steps
}

func installTime(steps []string) string {
	switch n := len(steps); {
	case n == 0:
		return ""
	case n == 1:
		return "1 min"
	case n <= 3:
		return "5 min"
	default:
		return "15 min"
	}
}

func describeScores(s types.Scores) string {
	parts := make([]string, 0, 5)
	for _, a := range s.Axes() {
		parts = append(parts, fmt.Sprintf("%s %.2f", a.Name, a.Value))
	}
	return strings.Join(parts, ", ")
}
