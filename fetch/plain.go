package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"toolscout/config"
	"toolscout/vocab"
)

const (
	maxBodyBytes = 2 << 20
	userAgent    = "Mozilla/5.0 (compatible; toolscout/1.0; +https://github.com/toolscout)"
)

// Page is a fetched document
type Page struct {
	URL         string
	ContentType string
	HTML        string // empty for text/plain
	Text        string
}

// PlainFetcher fetches pages over HTTP without running scripts
type PlainFetcher struct {
	client *http.Client
}

// NewPlainFetcher wraps client; nil uses a client with no global timeout
func NewPlainFetcher(client *http.Client) *PlainFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &PlainFetcher{client: client}
}

// Fetch is the fast first stage of the cascade. A page is accepted only if it is
// HTML or plain text, has at least MinPlainContent characters and shows an install command.
func (f *PlainFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	page, err := f.Get(ctx, rawURL, config.PlainFetchTimeout)
	if err != nil {
		return "", err
	}
	text := page.Text
	if len([]rune(text)) < config.MinPlainContent {
		return "", fmt.Errorf("%w: %d characters", ErrRejected, len([]rune(text)))
	}
	// The install command can sit in a code block readability dropped
	if !vocab.HasInstallPattern(text) && !vocab.HasInstallPattern(page.HTML) {
		return "", fmt.Errorf("%w: no install command", ErrRejected)
	}
	return Truncate(text, config.ContentLimit), nil
}

// FetchRaw returns markup and truncated text for the research agent
func (f *PlainFetcher) FetchRaw(ctx context.Context, rawURL string) (*Page, error) {
	page, err := f.Get(ctx, rawURL, config.ResearchFetchTimeout)
	if err != nil {
		return nil, err
	}
	page.Text = Truncate(page.Text, config.ContentLimit)
	return page, nil
}

// Get downloads rawURL and extracts its readable text
func (f *PlainFetcher) Get(ctx context.Context, rawURL string, timeout time.Duration) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !IsAbsoluteURL(rawURL) {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/html" && mediaType != "text/plain" && mediaType != "application/xhtml+xml" {
		return nil, fmt.Errorf("%w: content type %q", ErrRejected, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	page := &Page{URL: resp.Request.URL.String(), ContentType: mediaType}
	if mediaType == "text/plain" {
		page.Text = CleanText(string(body))
		return page, nil
	}

	page.HTML = string(body)
	page.Text = htmlText(body, u)
	return page, nil
}

// htmlText prefers the readability main content and falls back to the whole body text
func htmlText(body []byte, u *url.URL) string {
	if article, err := readability.FromReader(bytes.NewReader(body), u); err == nil {
		if text := CleanText(article.TextContent); text != "" {
			if article.Title != "" && !strings.HasPrefix(text, article.Title) {
				text = article.Title + "\n\n" + text
			}
			return text
		}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return CleanText(doc.Find("body").Text())
}
