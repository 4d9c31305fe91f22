// Package xapi is a small client for the X API v2 endpoints used as ingestion sources.
package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"toolscout/config"
	"toolscout/fetch"
	"toolscout/logging"
	"toolscout/types"
)

// ErrRateLimited is returned when a request is still throttled after the single retry
var ErrRateLimited = errors.New("x api rate limited")

const (
	tweetFields = "created_at,public_metrics,entities,conversation_id,author_id"
	userFields  = "username,url,entities"
)

// Options configures a Client. Either BearerToken or ClientID+RefreshToken must be set.
type Options struct {
	BaseURL      string
	BearerToken  string
	ClientID     string
	RefreshToken string
	UserID       string
	Timeout      time.Duration
	// HTTPClient is the transport under the oauth2 wrapper; nil uses http.DefaultClient
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

// OptionsFromConfig maps process configuration to client options
func OptionsFromConfig(cfg config.Config, log *zap.SugaredLogger) Options {
	return Options{
		BaseURL:      cfg.XBaseURL,
		BearerToken:  cfg.XBearerToken,
		ClientID:     cfg.XClientID,
		RefreshToken: cfg.XRefreshToken,
		UserID:       cfg.XUserID,
		Timeout:      config.SourceTimeout,
		Log:          log,
	}
}

// Client calls the X API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.SugaredLogger

	mu     sync.Mutex
	userID string

	// sleep waits out a rate-limit window; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New creates an authenticated client. A user-context OAuth token is preferred over the app bearer.
func New(ctx context.Context, opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.x.com/2"
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	var httpClient *http.Client
	switch {
	case opts.ClientID != "" && opts.RefreshToken != "":
		conf := &oauth2.Config{
			ClientID: opts.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		// An empty access token forces a refresh on first use
		httpClient = conf.Client(ctx, &oauth2.Token{RefreshToken: opts.RefreshToken})
	case opts.BearerToken != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.BearerToken,
			TokenType:   "Bearer",
		}))
	default:
		return nil, errors.New("x api credentials not configured")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.SourceTimeout
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		userID:  opts.UserID,
		timeout: timeout,
		log:     logging.OrNop(opts.Log),
		sleep:   sleepContext,
		now:     time.Now,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HomeTimeline lists the authenticated user's reverse-chronological timeline since the given time
func (c *Client) HomeTimeline(ctx context.Context, since time.Time, token string, max int) (Page, error) {
	uid, err := c.me(ctx)
	if err != nil {
		return Page{}, err
	}
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(clamp(max, 1, 100)))
	q.Set("tweet.fields", tweetFields)
	q.Set("expansions", "author_id")
	q.Set("user.fields", userFields)
	if !since.IsZero() {
		q.Set("start_time", since.UTC().Format(time.RFC3339))
	}
	if token != "" {
		q.Set("pagination_token", token)
	}

	var resp listResponse
	if err := c.get(ctx, "/users/"+url.PathEscape(uid)+"/timelines/reverse_chronological", q, &resp); err != nil {
		return Page{}, err
	}
	return toPage(resp, "feed", max), nil
}

// SearchRecent runs a recent-search query
func (c *Client) SearchRecent(ctx context.Context, query string, max int) (Page, error) {
	q := url.Values{}
	q.Set("query", query)
	// the endpoint rejects max_results below 10
	q.Set("max_results", strconv.Itoa(clamp(max, 10, 100)))
	q.Set("tweet.fields", tweetFields)
	q.Set("expansions", "author_id")
	q.Set("user.fields", userFields)

	var resp listResponse
	if err := c.get(ctx, "/tweets/search/recent", q, &resp); err != nil {
		return Page{}, err
	}
	return toPage(resp, "search", max), nil
}

// LookupPost fetches one post with author and mention expansions
func (c *Client) LookupPost(ctx context.Context, id string) (*Post, error) {
	q := url.Values{}
	q.Set("expansions", "author_id,entities.mentions.username")
	q.Set("tweet.fields", tweetFields)
	q.Set("user.fields", userFields)

	var resp postResponse
	if err := c.get(ctx, "/tweets/"+url.PathEscape(id), q, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("post %s not found: %s", id, errorText(resp.Errors))
	}

	post := &Post{
		Item:           toItem(*resp.Data, handles(resp.Includes.Users), "feed"),
		ConversationID: resp.Data.ConversationID,
	}
	for _, m := range resp.Data.Entities.Mentions {
		if m.Username != "" {
			post.Mentions = append(post.Mentions, m.Username)
		}
	}
	return post, nil
}

// AuthorReplies returns the replies the author posted in their own conversation
func (c *Client) AuthorReplies(ctx context.Context, conversationID, handle string) ([]Post, error) {
	if conversationID == "" || handle == "" {
		return nil, nil
	}
	page, err := c.SearchRecent(ctx, fmt.Sprintf("conversation_id:%s from:%s", conversationID, handle), 10)
	if err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(page.Items))
	for _, it := range page.Items {
		out = append(out, Post{Item: it, ConversationID: conversationID})
	}
	return out, nil
}

// ProfileURL returns the website a user declares on their profile, or ""
func (c *Client) ProfileURL(ctx context.Context, handle string) (string, error) {
	q := url.Values{}
	q.Set("user.fields", userFields)

	var resp userResponse
	if err := c.get(ctx, "/users/by/username/"+url.PathEscape(strings.TrimPrefix(handle, "@")), q, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil {
		return "", fmt.Errorf("user %s not found: %s", handle, errorText(resp.Errors))
	}
	return resp.Data.declaredURL(), nil
}

func (c *Client) me(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return c.userID, nil
	}
	var resp userResponse
	if err := c.get(ctx, "/users/me", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to resolve user id: %w", err)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return "", errors.New("failed to resolve user id: empty response")
	}
	c.userID = resp.Data.ID
	return c.userID, nil
}

// get performs a GET with one bounded retry on 429
func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	for attempt := 0; ; attempt++ {
		status, header, body, err := c.do(ctx, endpoint)
		if err != nil {
			return err
		}
		if status == http.StatusTooManyRequests {
			if attempt > 0 {
				return fmt.Errorf("%s: %w", path, ErrRateLimited)
			}
			wait := c.resetWait(header)
			c.log.Warnf("⏳ Rate limited on %s, retrying in %s", path, wait)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}
		if status < 200 || status >= 300 {
			return fmt.Errorf("x api %s: status %d: %s", path, status, fetch.Truncate(string(body), 200))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
		return nil
	}
}

func (c *Client) do(ctx context.Context, endpoint string) (int, http.Header, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

// resetWait reads x-rate-limit-reset (unix seconds) and caps the wait
func (c *Client) resetWait(h http.Header) time.Duration {
	wait := time.Second
	if raw := h.Get("x-rate-limit-reset"); raw != "" {
		if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if d := time.Unix(secs, 0).Sub(c.now()); d > 0 {
				wait = d
			}
		}
	}
	if wait > config.MaxRateLimitWait {
		wait = config.MaxRateLimitWait
	}
	return wait
}

func toPage(resp listResponse, origin string, max int) Page {
	byID := handles(resp.Includes.Users)
	items := make([]types.SourceItem, 0, len(resp.Data))
	for _, t := range resp.Data {
		items = append(items, toItem(t, byID, origin))
	}
	if max > 0 && len(items) > max {
		items = items[:max]
	}
	return Page{Items: items, NextToken: resp.Meta.NextToken}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
