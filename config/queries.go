package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FeedConfig represents the configuration for a single RSS feed
type FeedConfig struct {
	Name  string `yaml:"name" json:"name"`
	URL   string `yaml:"url" json:"url"`
	Count int    `yaml:"count" json:"count"`
}

// Queries holds the keyword-search terms and the supplementary RSS feeds
type Queries struct {
	Search []string     `yaml:"search"`
	Feeds  []FeedConfig `yaml:"feeds"`
}

// DefaultSearchQueries are used when no queries file is present
var DefaultSearchQueries = []string{
	"new mcp server",
	"open source cli tool for developers",
	"\"npx\" agent tool",
	"\"pip install\" llm",
	"\"brew install\" developer tool",
	"released sdk for ai agents",
	"claude code skill",
	"self-hosted deploy tool",
}

// FeedPresets maps friendly keys to RSS feed configurations
var FeedPresets = map[string]FeedConfig{
	"showhn": {
		Name:  "Show HN",
		URL:   "https://hnrss.org/show",
		Count: 15,
	},
	"hn": {
		Name:  "Hacker News",
		URL:   "https://hnrss.org/newest?points=50",
		Count: 15,
	},
}

// LoadQueries reads the YAML queries file. A missing file yields the defaults.
func LoadQueries(path string) (Queries, error) {
	q := Queries{
		Search: append([]string(nil), DefaultSearchQueries...),
		Feeds:  []FeedConfig{FeedPresets["showhn"]},
	}
	if strings.TrimSpace(path) == "" {
		return q, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return q, nil
	}
	if err != nil {
		return q, fmt.Errorf("failed to read queries file: %w", err)
	}

	var parsed Queries
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return q, fmt.Errorf("failed to parse queries file: %w", err)
	}

	if len(parsed.Search) > 0 {
		q.Search = compact(parsed.Search)
	}
	if parsed.Feeds != nil {
		q.Feeds = make([]FeedConfig, 0, len(parsed.Feeds))
		for _, f := range parsed.Feeds {
			q.Feeds = append(q.Feeds, resolveFeed(f))
		}
	}
	return q, nil
}

// resolveFeed expands a preset name given in place of a URL
func resolveFeed(f FeedConfig) FeedConfig {
	if preset, ok := FeedPresets[f.URL]; ok {
		if f.Name != "" {
			preset.Name = f.Name
		}
		if f.Count > 0 {
			preset.Count = f.Count
		}
		return preset
	}
	if f.Name == "" {
		f.Name = f.URL
	}
	if f.Count <= 0 {
		f.Count = BatchSize
	}
	return f
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
