package fetch

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"toolscout/config"
)

// WebSearch summarizes the top results of a Programmable Search Engine query
type WebSearch struct {
	svc     *customsearch.Service
	cx      string
	results int64
}

// NewWebSearch creates a client for engine cx. Extra options reach the underlying service.
func NewWebSearch(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*WebSearch, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}
	return &WebSearch{svc: svc, cx: cx, results: config.SearchResults}, nil
}

// Result is one web hit
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Search returns the top results for query
func (w *WebSearch) Search(ctx context.Context, query string) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SearchTimeout)
	defer cancel()

	resp, err := w.svc.Cse.List().Cx(w.cx).Q(query).Num(w.results).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("web search %q: %w", query, err)
	}
	out := make([]Result, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, Result{Title: it.Title, URL: it.Link, Snippet: strings.TrimSpace(it.Snippet)})
	}
	return out, nil
}

// Summary formats the top results as plain text
func (w *WebSearch) Summary(ctx context.Context, query string) (string, error) {
	results, err := w.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", ErrNoContent
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Web results for %q:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n%s\n%s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return Truncate(strings.TrimSpace(b.String()), config.ContentLimit), nil
}
