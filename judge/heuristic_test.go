package judge

import (
	"testing"

	"toolscout/types"
)

func TestHeuristic(t *testing.T) {
	cases := []struct {
		name     string
		item     types.EnrichedItem
		accept   bool
		category types.Category
	}{
		{"low engagement", enriched("1", "npm install agent-cli", 0), false, ""},
		{"no link or install", enriched("2", "Agents are the future of tooling", 20), false, ""},
		{"link but no keyword", enriched("3", "Look at my cat", 20, "https://cats.dev"), false, ""},
		{"social link only", enriched("4", "New agent framework", 20, "https://x.com/a/status/1"), false, ""},
		{"link and keyword", enriched("5", "A new agent framework", 20, "https://agents.dev"), true, types.CategoryTool},
		{"code block", enriched("6", "Workflow automation:\n```\nrun it\n```", 20), true, types.CategoryWorkflow},
		{"install in enriched content", types.EnrichedItem{
			Item:    enriched("7", "Prompt pack for coding agents", 20).Item,
			Content: "pip install promptpack",
		}, true, types.CategorySkill},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, ok := Heuristic(c.item)
			if ok != c.accept {
				t.Fatalf("Heuristic accept = %v; want %v", ok, c.accept)
			}
			if !ok {
				return
			}
			if d.Category != c.category {
				t.Fatalf("category = %s; want %s", d.Category, c.category)
			}
			if d.Source.URL == "" {
				t.Fatalf("source url must fall back to the permalink")
			}
		})
	}
}

func TestInstallSteps(t *testing.T) {
	got := installSteps("`brew tap acme/tap` && `brew install acme`\n$ acme init\n\n")
	want := []string{"brew tap acme/tap", "brew install acme", "acme init"}
	if len(got) != len(want) {
		t.Fatalf("installSteps = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("installSteps[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}
