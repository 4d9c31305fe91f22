package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"toolscout/config"
)

// HeadlessBrowser launches a throwaway headless Chrome per fetch
type HeadlessBrowser struct {
	timeout  time.Duration
	execPath string
}

// NewHeadlessBrowser uses the Chrome found on PATH unless execPath is set
func NewHeadlessBrowser(execPath string) *HeadlessBrowser {
	return &HeadlessBrowser{timeout: config.BrowserTimeout, execPath: execPath}
}

// Fetch navigates to url and returns the rendered body text
func (h *HeadlessBrowser) Fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
	if h.execPath != "" {
		opts = append(opts, chromedp.ExecPath(h.execPath))
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("headless fetch %s: %w", url, err)
	}
	text = CleanText(text)
	if text == "" {
		return "", ErrNoContent
	}
	return Truncate(text, config.ContentLimit), nil
}
