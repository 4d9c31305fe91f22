// Package research follows links from an origin page until a model says it knows enough.
package research

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"toolscout/config"
	"toolscout/fetch"
	"toolscout/llm"
	"toolscout/logging"
)

// PageFetcher returns a page with markup for link extraction
type PageFetcher interface {
	FetchRaw(ctx context.Context, url string) (*fetch.Page, error)
}

// Searcher summarizes web results for a query
type Searcher interface {
	Summary(ctx context.Context, query string) (string, error)
}

// Options wires the agent's collaborators. Only Pages is required.
type Options struct {
	Model  llm.Client
	Pages  PageFetcher
	Search Searcher
	// Direct resolves repository and social-post origins without the hop loop
	Direct func(ctx context.Context, target fetch.Target) string
	// SinglePass enriches a URL in one pass. It replaces the hop loop when no model is
	// configured and stands in for a first page that failed or came back thin.
	SinglePass func(ctx context.Context, url string) string
	MaxHops    int
	Log        *zap.SugaredLogger
}

// Agent runs the hop loop: fetch a page, ask the model, follow or finish
type Agent struct {
	opts Options
	log  *zap.SugaredLogger
}

// NewAgent creates an agent; MaxHops defaults to config.MaxHops
func NewAgent(opts Options) *Agent {
	if opts.MaxHops <= 0 {
		opts.MaxHops = config.MaxHops
	}
	return &Agent{opts: opts, log: logging.OrNop(opts.Log)}
}

// Research returns brief text for origin, or "" when nothing was found. It never fails:
// every error degrades to the best partial answer.
func (a *Agent) Research(ctx context.Context, origin string) string {
	target := fetch.Classify(origin)
	if target.Kind != fetch.KindGeneric && a.opts.Direct != nil {
		return a.opts.Direct(ctx, target)
	}
	if a.opts.Model == nil {
		if a.opts.SinglePass != nil {
			return a.opts.SinglePass(ctx, origin)
		}
		return ""
	}

	var hops []Hop
	visited := map[string]bool{}
	current := origin

	for len(hops) < a.opts.MaxHops {
		page, err := a.fetch(ctx, current)
		if len(hops) == 0 {
			page, err = a.escalate(ctx, current, page, err)
		}
		if err != nil {
			if len(hops) == 0 {
				a.log.Debugf("Research fetch failed at %s: %v", current, err)
				if a.opts.SinglePass != nil {
					// The single pass already ended with the search stage
					return ""
				}
				return a.searchFallback(ctx, origin)
			}
			a.log.Debugf("Research hop %d failed at %s: %v", len(hops), current, err)
			return a.synthesize(ctx, hops)
		}
		visited[current] = true
		visited[page.URL] = true
		hops = append(hops, Hop{URL: page.URL, Text: page.Text})

		if len(hops) == a.opts.MaxHops {
			break
		}

		links := unvisited(fetch.ExtractLinks(page.HTML, page.URL, 0), visited, config.MaxLinksPerHop)
		if len(links) == 0 {
			return a.synthesize(ctx, hops)
		}

		d := Decide(ctx, a.opts.Model, hops, links)
		switch d.Status {
		case StatusFollow:
			if !fetch.IsAbsoluteURL(d.URL) {
				a.log.Debugf("Research model picked invalid url %q", d.URL)
				return a.synthesize(ctx, hops)
			}
			a.log.Debugf("Research hop %d -> %s (%s)", len(hops), d.URL, d.Reason)
			current = d.URL
		default:
			if !d.Brief.IsEmpty() {
				return FormatBrief(d.Brief)
			}
			return concatHops(hops)
		}
	}

	a.log.Debugf("Research reached %d hops for %s", len(hops), origin)
	return a.synthesize(ctx, hops)
}

func (a *Agent) fetch(ctx context.Context, url string) (*fetch.Page, error) {
	if a.opts.Pages == nil {
		return nil, fetch.ErrUnavailable
	}
	return a.opts.Pages.FetchRaw(ctx, url)
}

// escalate runs the single pass when the first page failed or has fewer than
// MinPlainContent characters. A thin page keeps its markup for link extraction.
func (a *Agent) escalate(ctx context.Context, url string, page *fetch.Page, err error) (*fetch.Page, error) {
	if a.opts.SinglePass == nil {
		return page, err
	}
	if err == nil && len([]rune(strings.TrimSpace(page.Text))) >= config.MinPlainContent {
		return page, nil
	}
	text := strings.TrimSpace(a.opts.SinglePass(ctx, url))
	if text == "" {
		return page, err
	}
	a.log.Debugf("Research replaced the first page at %s with the single-pass text", url)
	text = fetch.Truncate(text, config.ContentLimit)
	if err != nil {
		return &fetch.Page{URL: url, Text: text}, nil
	}
	rescued := *page
	rescued.Text = text
	return &rescued, nil
}

// synthesize makes one final call with no links, then falls back to the raw hop text
func (a *Agent) synthesize(ctx context.Context, hops []Hop) string {
	if len(hops) == 0 {
		return ""
	}
	d := Decide(ctx, a.opts.Model, hops, nil)
	if d.Status == StatusDone && !d.Brief.IsEmpty() {
		return FormatBrief(d.Brief)
	}
	return concatHops(hops)
}

func (a *Agent) searchFallback(ctx context.Context, origin string) string {
	if a.opts.Search == nil {
		return ""
	}
	summary, err := a.opts.Search.Summary(ctx, origin)
	if err != nil {
		a.log.Debugf("Research search fallback failed for %s: %v", origin, err)
		return ""
	}
	return summary
}

func concatHops(hops []Hop) string {
	parts := make([]string, 0, len(hops))
	for _, h := range hops {
		if t := strings.TrimSpace(h.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return fetch.Truncate(strings.Join(parts, "\n\n"), config.ContentLimit)
}

func unvisited(links []fetch.Link, visited map[string]bool, max int) []fetch.Link {
	out := make([]fetch.Link, 0, max)
	for _, l := range links {
		if visited[l.URL] {
			continue
		}
		out = append(out, l)
		if len(out) == max {
			break
		}
	}
	return out
}
