package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toolscout/types"
)

func TestHasInstallPattern(t *testing.T) {
	assert.True(t, HasInstallPattern("Get started:\n  NPM install -g acme-cli"))
	assert.True(t, HasInstallPattern("run `uvx acme-mcp` to try it"))
	assert.False(t, HasInstallPattern("We love tools and agents"))
}

func TestFindInstallCommands(t *testing.T) {
	text := "Install\n$ brew install acme\n- pip install acme\n```\nbrew install acme\n```\nthen enjoy"
	assert.Equal(t, []string{"brew install acme", "pip install acme"}, FindInstallCommands(text, 0))
	assert.Len(t, FindInstallCommands(text, 1), 1)
}

func TestMatchKeywordsWordBoundaries(t *testing.T) {
	assert.Equal(t, []string{"agent"}, MatchKeywords("Two new agents shipped"))
	assert.Empty(t, MatchKeywords("my toolbox is full"))
	assert.Contains(t, MatchKeywords("An MCP server for Postgres"), "mcp")
}

func TestInferCategory(t *testing.T) {
	cases := map[string]types.Category{
		"New MCP server for Linear":          types.CategoryIntegration,
		"One-command deploy to k8s":          types.CategoryInfrastructure,
		"A system prompt that writes tests":  types.CategorySkill,
		"Automation pipeline for PR reviews": types.CategoryWorkflow,
		"A fast CLI for diffs":               types.CategoryTool,
	}
	for text, want := range cases {
		assert.Equal(t, want, InferCategory(text), text)
	}
}
