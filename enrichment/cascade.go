package enrichment

import (
	"context"
	"errors"
	"strings"

	"toolscout/fetch"
	"toolscout/research"
)

// Strategy is one stage of the generic-page cascade
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, url string) (string, error)
}

type plainStrategy struct{ f PageFetcher }

func (s plainStrategy) Name() string { return "plain" }

func (s plainStrategy) Fetch(ctx context.Context, url string) (string, error) {
	return s.f.Fetch(ctx, url)
}

// browserStrategy prefers the managed service and drops to a local headless browser
// only when the service is not reachable
type browserStrategy struct {
	managed  ManagedBrowser
	headless TextFetcher
}

func (s browserStrategy) Name() string { return "browser" }

func (s browserStrategy) Fetch(ctx context.Context, url string) (string, error) {
	if s.managed != nil && s.managed.Available() {
		return s.managed.Fetch(ctx, url)
	}
	if s.headless != nil {
		return s.headless.Fetch(ctx, url)
	}
	return "", fetch.ErrUnavailable
}

type searchStrategy struct{ s research.Searcher }

func (s searchStrategy) Name() string { return "search" }

func (s searchStrategy) Fetch(ctx context.Context, url string) (string, error) {
	return s.s.Summary(ctx, url)
}

func buildCascade(opts Options) []Strategy {
	var chain []Strategy
	if opts.Plain != nil {
		chain = append(chain, plainStrategy{opts.Plain})
	}
	if opts.Managed != nil || opts.Headless != nil {
		chain = append(chain, browserStrategy{managed: opts.Managed, headless: opts.Headless})
	}
	if opts.Search != nil {
		chain = append(chain, searchStrategy{opts.Search})
	}
	return chain
}

// cascade runs the strategies in order and returns the first non-empty result
func (e *Engine) cascade(ctx context.Context, url string) string {
	for _, s := range e.strategies {
		if ctx.Err() != nil {
			return ""
		}
		text, err := s.Fetch(ctx, url)
		text = strings.TrimSpace(text)
		if err == nil && text != "" {
			e.log.Debugf("Enriched %s via %s", url, s.Name())
			return text
		}
		if err != nil && !errors.Is(err, fetch.ErrUnavailable) {
			e.log.Debugf("%s stage failed for %s: %v", s.Name(), url, err)
		}
	}
	return ""
}
