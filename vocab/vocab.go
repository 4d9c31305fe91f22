// Package vocab holds the fixed word lists shared by the fetch cascade and the heuristic judge.
package vocab

import (
	"strings"

	"toolscout/types"
)

// InstallPrefixes are package-manager invocations that mark a page or post as installable
var InstallPrefixes = []string{
	"npm install", "npm i ", "npx ", "pnpm add", "pnpm dlx", "yarn add", "bun add", "bunx ",
	"pip install", "pipx install", "uv add", "uv tool install", "uvx ",
	"brew install", "cargo install", "cargo add", "go install", "go get ",
	"gem install", "docker run", "docker pull", "helm install", "apt install", "apt-get install",
	"curl -fsSL", "curl -sSL", "git clone",
}

// DomainKeywords are the terms the heuristic requires at least one of
var DomainKeywords = []string{
	"agent", "tool", "sdk", "framework", "mcp", "deploy", "cli", "library", "plugin",
	"extension", "api", "open source", "open-source", "github", "llm", "prompt",
	"workflow", "automation", "server", "integration", "self-host", "runtime",
}

// bucket assigns a category when any keyword matches. Order decides ties.
type bucket struct {
	category types.Category
	keywords []string
}

var buckets = []bucket{
	{types.CategoryIntegration, []string{"mcp", "integration", "connector", "plugin", "extension", "webhook"}},
	{types.CategoryInfrastructure, []string{"deploy", "docker", "kubernetes", "k8s", "infra", "serverless", "hosting", "terraform", "database"}},
	{types.CategorySkill, []string{"skill", "prompt", "system prompt", "guide", "cheatsheet"}},
	{types.CategoryWorkflow, []string{"workflow", "automation", "pipeline", "orchestrat", "cron"}},
}

// HasInstallPattern reports whether text contains a known install invocation
func HasInstallPattern(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range InstallPrefixes {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// FindInstallCommands returns the lines of text that start with an install invocation, in order.
// Shell prompts and list markers are stripped.
func FindInstallCommands(text string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "$>-*` ")
		line = strings.TrimRight(line, "` ")
		lower := strings.ToLower(line)
		for _, p := range InstallPrefixes {
			if strings.HasPrefix(lower, strings.ToLower(p)) {
				if !seen[line] {
					seen[line] = true
					out = append(out, line)
				}
				break
			}
		}
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// MatchKeywords returns the domain keywords present in text
func MatchKeywords(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, k := range DomainKeywords {
		if containsWord(lower, k) {
			hits = append(hits, k)
		}
	}
	return hits
}

// InferCategory maps text to a category by keyword bucket, defaulting to tool
func InferCategory(text string) types.Category {
	lower := strings.ToLower(text)
	for _, b := range buckets {
		for _, k := range b.keywords {
			if strings.Contains(lower, k) {
				return b.category
			}
		}
	}
	return types.CategoryTool
}

// containsWord matches k at a word boundary so "tool" does not hit "toolbox"
// but "agents" still hits "agent".
func containsWord(text, k string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], k)
		if j < 0 {
			return false
		}
		start := i + j
		if start == 0 || !isWordByte(text[start-1]) {
			end := start + len(k)
			if end == len(text) || !isWordByte(text[end]) || text[end] == 's' {
				return true
			}
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
