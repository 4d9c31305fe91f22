package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"toolscout/config"
	"toolscout/logging"
)

// ManagedBrowser drives an already running Chrome exposed over the DevTools protocol.
// Reachability is checked once; an unreachable service stays unavailable for the process.
type ManagedBrowser struct {
	addr    string
	timeout time.Duration
	log     *zap.SugaredLogger

	once    sync.Once
	browser *rod.Browser
	// resolve maps host:port to the websocket debugger URL; replaced in tests
	resolve func(addr string) (string, error)
}

// NewManagedBrowser creates a client for the debugger at addr (host:port or ws URL).
// An empty addr disables it.
func NewManagedBrowser(addr string, log *zap.SugaredLogger) *ManagedBrowser {
	return &ManagedBrowser{addr: addr, timeout: config.BrowserTimeout, log: logging.OrNop(log), resolve: launcher.ResolveURL}
}

// Available checks the service on first call and caches the answer
func (m *ManagedBrowser) Available() bool {
	m.once.Do(m.checkReachable)
	return m.browser != nil
}

func (m *ManagedBrowser) checkReachable() {
	if strings.TrimSpace(m.addr) == "" {
		return
	}
	controlURL, err := m.resolve(m.addr)
	if err != nil {
		m.log.Infof("Managed browser not reachable at %s: %v", m.addr, err)
		return
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		m.log.Infof("Managed browser connect failed: %v", err)
		return
	}
	m.browser = browser
	m.log.Infof("🌐 Managed browser connected at %s", m.addr)
}

// Fetch opens url in a new tab, waits for load and returns the page text
func (m *ManagedBrowser) Fetch(ctx context.Context, url string) (string, error) {
	if !m.Available() {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	page, err := m.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx)
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load: %w", err)
	}
	body, err := p.Element("body")
	if err != nil {
		return "", fmt.Errorf("find body: %w", err)
	}
	text, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	text = CleanText(text)
	if text == "" {
		return "", ErrNoContent
	}
	return Truncate(text, config.ContentLimit), nil
}
