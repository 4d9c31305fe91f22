// Package enrichment resolves a source item's link into substantive text.
package enrichment

import (
	"context"

	"go.uber.org/zap"

	"toolscout/fetch"
	"toolscout/llm"
	"toolscout/logging"
	"toolscout/research"
	"toolscout/types"
	"toolscout/xapi"
)

// SocialClient is the platform lookup the social-post flow needs
type SocialClient interface {
	LookupPost(ctx context.Context, id string) (*xapi.Post, error)
	AuthorReplies(ctx context.Context, conversationID, handle string) ([]xapi.Post, error)
	ProfileURL(ctx context.Context, handle string) (string, error)
}

// ReadmeFetcher returns a repository README
type ReadmeFetcher interface {
	Fetch(ctx context.Context, owner, repo string) (string, error)
}

// PageFetcher is the plain HTTP fetcher
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	FetchRaw(ctx context.Context, url string) (*fetch.Page, error)
}

// ManagedBrowser is a browser service checked for reachability before use
type ManagedBrowser interface {
	Available() bool
	Fetch(ctx context.Context, url string) (string, error)
}

// TextFetcher returns page text for a URL
type TextFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options lists the collaborators. Any of them may be nil; the matching stage is skipped.
type Options struct {
	Social   SocialClient
	Readme   ReadmeFetcher
	Plain    PageFetcher
	Managed  ManagedBrowser
	Headless TextFetcher
	Search   research.Searcher
	Model    llm.Client
	Log      *zap.SugaredLogger
}

// Engine dispatches by URL shape: social post, code repository or generic page
type Engine struct {
	opts       Options
	agent      *research.Agent
	strategies []Strategy
	log        *zap.SugaredLogger
}

// NewEngine builds the cascade and the research agent from opts
func NewEngine(opts Options) *Engine {
	e := &Engine{opts: opts, log: logging.OrNop(opts.Log)}
	e.strategies = buildCascade(opts)

	var pages research.PageFetcher
	if opts.Plain != nil {
		pages = opts.Plain
	}
	var search research.Searcher
	if opts.Search != nil {
		search = opts.Search
	}
	e.agent = research.NewAgent(research.Options{
		Model:      opts.Model,
		Pages:      pages,
		Search:     search,
		Direct:     e.direct,
		SinglePass: e.cascade,
		Log:        opts.Log,
	})
	return e
}

// Enrich returns text for url, or "" when nothing usable was found. It never fails.
func (e *Engine) Enrich(ctx context.Context, url string) string {
	if url == "" || ctx.Err() != nil {
		return ""
	}
	target := fetch.Classify(url)
	switch target.Kind {
	case fetch.KindSocial:
		return e.social(ctx, target)
	case fetch.KindRepo:
		return e.readme(ctx, target)
	default:
		// The agent runs the cascade itself without a model or when the first page is thin
		return e.agent.Research(ctx, url)
	}
}

// EnrichItem picks the item's first non-social link, falling back to its permalink
func (e *Engine) EnrichItem(ctx context.Context, item types.SourceItem) string {
	return e.Enrich(ctx, Target(item))
}

// Target is the URL enrichment will resolve for item
func Target(item types.SourceItem) string {
	for _, u := range item.URLs {
		if fetch.IsAbsoluteURL(u) && !fetch.IsSocial(u) {
			return u
		}
	}
	return item.Permalink
}

func (e *Engine) direct(ctx context.Context, target fetch.Target) string {
	switch target.Kind {
	case fetch.KindSocial:
		return e.social(ctx, target)
	case fetch.KindRepo:
		return e.readme(ctx, target)
	default:
		return ""
	}
}

func (e *Engine) readme(ctx context.Context, target fetch.Target) string {
	if e.opts.Readme == nil {
		return ""
	}
	text, err := e.opts.Readme.Fetch(ctx, target.Owner, target.Repo)
	if err != nil {
		e.log.Debugf("README fetch failed for %s/%s: %v", target.Owner, target.Repo, err)
		return ""
	}
	return text
}
