package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"toolscout/config"
)

// ReadmeFetcher reads repository READMEs through the GitHub REST API
type ReadmeFetcher struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewReadmeFetcher creates a fetcher. token is optional and only raises the rate limit.
func NewReadmeFetcher(token string, client *http.Client) *ReadmeFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &ReadmeFetcher{baseURL: "https://api.github.com", token: token, client: client}
}

// WithBaseURL points the fetcher at another API host (GitHub Enterprise, tests)
func (r *ReadmeFetcher) WithBaseURL(base string) *ReadmeFetcher {
	r.baseURL = strings.TrimRight(base, "/")
	return r
}

// Fetch returns the raw README text, truncated to ContentLimit
func (r *ReadmeFetcher) Fetch(ctx context.Context, owner, repo string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ReadmeTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/repos/%s/%s/readme", r.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", userAgent)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("readme %s/%s: status %d", owner, repo, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", ErrNoContent
	}
	return Truncate(text, config.ContentLimit), nil
}
