package judge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"toolscout/llm"
	"toolscout/types"
)

func enriched(id, text string, likes int, urls ...string) types.EnrichedItem {
	return types.EnrichedItem{
		Item: types.SourceItem{
			ID:           id,
			Text:         text,
			AuthorHandle: "dev",
			CreatedAt:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			URLs:         urls,
			Metrics:      types.Engagement{Likes: likes, Reposts: 1, Replies: 1},
			Permalink:    "https://x.com/dev/status/" + id,
			Origin:       "feed",
		},
	}
}

const goodVerdict = `{"index":0,"actionable":true,"confidence":0.9,"category":"integration","title":"PG MCP",
  "one_liner":"Postgres for agents","value_prop":"Query your DB from any agent","install_hint":"npx pg-mcp init && npx pg-mcp serve",
  "scores":{"utility":0.8,"downloadability":0.9,"specificity":0.7,"signal":0.6,"novelty":0.5}}`

func TestAcceptedVerdictBuildsDiscovery(t *testing.T) {
	model := &llm.MockClient{Responses: []string{`{"verdicts":[` + goodVerdict + `]}`}}
	j := New(model, nil)

	items := []types.EnrichedItem{enriched("1", "New PG MCP server", 40, "https://x.com/dev/status/0", "https://github.com/dev/pg-mcp")}
	out := j.Evaluate(context.Background(), items)
	require.Len(t, out, 1)

	d := out[0]
	assert.Equal(t, types.CategoryIntegration, d.Category)
	assert.Equal(t, "PG MCP", d.Title)
	assert.Equal(t, "https://github.com/dev/pg-mcp", d.Source.URL)
	assert.Equal(t, "x", d.Source.Type)
	assert.Equal(t, []string{"npx pg-mcp init", "npx pg-mcp serve"}, d.InstallSteps)
	assert.Equal(t, "5 min", d.InstallTime)
	require.NotNil(t, d.QualityScore)
	assert.InDelta(t, 3.5, d.QualityScore.Total, 1e-9)
	assert.Equal(t, types.SecurityPending, d.Security)
	assert.Equal(t, DiscoveryID(items[0].Item), d.ID)
	assert.Equal(t, 41, d.Signal.Engagement)
	assert.False(t, d.Signal.Trending)
	require.NotNil(t, d.Source.Date)
}

func TestSingleFailingAxisIsRejectedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	weak := `[{"index":0,"actionable":true,"confidence":0.9,"category":"tool","title":"Weak",
	  "scores":{"utility":0.9,"downloadability":0.9,"specificity":0.9,"signal":0.9,"novelty":0.3}}]`
	j := New(&llm.MockClient{Responses: []string{weak}}, zap.New(core).Sugar())

	out := j.Evaluate(context.Background(), []types.EnrichedItem{enriched("1", "npm install weak-agent tool", 50)})
	assert.Empty(t, out)

	entries := logs.FilterMessage("Judge rejected item on axis scores").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []interface{}{"novelty"}, entries[0].ContextMap()["failing_axes"])
}

func TestAcceptGate(t *testing.T) {
	j := New(nil, nil)
	all := types.Scores{Utility: 0.5, Downloadability: 0.5, Specificity: 0.5, Signal: 0.5, Novelty: 0.5}

	ok, failing := j.Accept(&types.JudgeVerdict{Actionable: true, Confidence: 0.5, Scores: all})
	assert.True(t, ok)
	assert.Empty(t, failing)

	ok, _ = j.Accept(&types.JudgeVerdict{Actionable: false, Confidence: 1, Scores: all})
	assert.False(t, ok)

	ok, _ = j.Accept(&types.JudgeVerdict{Actionable: true, Confidence: 0.49, Scores: all})
	assert.False(t, ok)

	low := all
	low.Signal, low.Utility = 0.1, 0.2
	ok, failing = j.Accept(&types.JudgeVerdict{Actionable: true, Confidence: 0.9, Scores: low})
	assert.False(t, ok)
	assert.Equal(t, []string{"utility", "signal"}, failing)
}

func TestModelErrorFallsBackToHeuristic(t *testing.T) {
	j := New(&llm.MockClient{Error: errors.New("quota")}, nil)
	items := []types.EnrichedItem{
		enriched("1", "Open source CLI for agents\n$ brew install acme", 10),
		enriched("2", "Lunch was great", 100),
	}
	out := j.Evaluate(context.Background(), items)
	require.Len(t, out, 1)
	assert.Equal(t, types.SecurityUnverified, out[0].Security)
	assert.Nil(t, out[0].QualityScore)
	assert.Equal(t, []string{"brew install acme"}, out[0].InstallSteps)
}

func TestMissingOrInvalidVerdictUsesHeuristic(t *testing.T) {
	reply := `{"verdicts":[
	  {"index":1,"actionable":true,"confidence":0.9,"category":"gadget",
	   "scores":{"utility":0.9,"downloadability":0.9,"specificity":0.9,"signal":0.9,"novelty":0.9}},
	  {"index":2,"actionable":true,"confidence":1.4,"category":"tool",
	   "scores":{"utility":0.9,"downloadability":0.9,"specificity":0.9,"signal":0.9,"novelty":0.9}}
	]}`
	j := New(&llm.MockClient{Responses: []string{reply}}, nil)
	items := []types.EnrichedItem{
		enriched("0", "New MCP server: npx acme-mcp", 5),
		enriched("1", "Deploy agents with one docker run command", 5),
		enriched("2", "nothing relevant here", 5),
	}
	verdicts := j.Verdicts(context.Background(), items)
	assert.Equal(t, []*types.JudgeVerdict{nil, nil, nil}, verdicts)

	out := j.Evaluate(context.Background(), items)
	require.Len(t, out, 2)
	assert.Equal(t, types.CategoryIntegration, out[0].Category)
	assert.Equal(t, types.CategoryInfrastructure, out[1].Category)
}

func TestParseVerdictsArrayAndDuplicates(t *testing.T) {
	reply := "```json\n[" + goodVerdict + "," + goodVerdict + `,{"actionable":false,"confidence":0.2,"category":"","skip_reason":"meme",
	  "scores":{"utility":0,"downloadability":0,"specificity":0,"signal":0,"novelty":0}}]` + "\n```"
	verdicts, err := parseVerdicts(reply, 3)
	require.NoError(t, err)
	require.NotNil(t, verdicts[0])
	assert.Nil(t, verdicts[1], "duplicate index 0 is ignored")
	require.NotNil(t, verdicts[2], "position is used when index is absent")
	assert.False(t, verdicts[2].Actionable)
	assert.Equal(t, "meme", verdicts[2].SkipReason)
	assert.Equal(t, types.CategoryTool, verdicts[2].Category)
}

func TestParseVerdictsGarbage(t *testing.T) {
	verdicts, err := parseVerdicts("sorry, I can't help", 2)
	assert.Error(t, err)
	assert.Len(t, verdicts, 2)
}
