package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
	"github.com/Ho-Thien-Sinh/news-crawler/app/extract"
	"github.com/Ho-Thien-Sinh/news-crawler/app/rotation"
)

// ErrAlreadyRunning is returned by Initialize when a session is already
// launching or ready. Starting a second browser from the same session is a
// caller error.
var ErrAlreadyRunning = errors.New("browser session already running")

// NavigationError wraps a failed or timed-out page navigation. The article is
// skipped, not retried at this layer; recrawl policy lives in the scheduler.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// BrowserCrashError signals that the headless process died and could not be
// relaunched.
type BrowserCrashError struct {
	Err error
}

func (e *BrowserCrashError) Error() string {
	return fmt.Sprintf("headless browser crashed and relaunch failed: %v", e.Err)
}

func (e *BrowserCrashError) Unwrap() error { return e.Err }

type state int

const (
	stateUninitialized state = iota
	stateLaunching
	stateReady
)

const navigationTimeout = 60 * time.Second

// deniedURLPatterns rejects video/playlist pages before a tab is even opened:
// they never carry extractable article text.
var deniedURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`//video\.`),
	regexp.MustCompile(`//tv\.`),
	regexp.MustCompile(`/video/`),
	regexp.MustCompile(`/playlist[/.]`),
	regexp.MustCompile(`/truyen-hinh/`),
}

// blockedResources are aborted at the network layer. Text extraction needs
// none of them, and skipping them both speeds up loads and avoids the
// "client that fetches nothing visual" giveaway of a naive scraper.
var blockedResources = map[network.ResourceType]bool{
	network.ResourceTypeImage:      true,
	network.ResourceTypeStylesheet: true,
	network.ResourceTypeFont:       true,
	network.ResourceTypeMedia:      true,
	network.ResourceTypeWebSocket:  true,
	network.ResourceTypeXHR:        true,
}

// Session owns exactly one headless browser process and exposes page-scoped
// fetch and extract operations. All access goes through the embedded mutex;
// pages are never shared between callers.
type Session struct {
	pool      *rotation.Pool
	extractor *extract.Extractor

	mu            sync.Mutex
	state         state
	parentCtx     context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	startedAt     time.Time
	endedAt       time.Time
}

func NewSession(pool *rotation.Pool, extractor *extract.Extractor) *Session {
	return &Session{
		pool:      pool,
		extractor: extractor,
	}
}

// Initialize launches the browser process. It fails with ErrAlreadyRunning if
// a session is already launching or ready, and tears down any partially
// created process on launch failure.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Session) initializeLocked(ctx context.Context) error {
	if s.state == stateLaunching || s.state == stateReady {
		return ErrAlreadyRunning
	}
	s.state = stateLaunching

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		// Containerized hosts run without a user namespace for the sandbox.
		chromedp.NoSandbox,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(s.pool.UserAgent()),
		chromedp.WindowSize(1200+rand.Intn(400), 700+rand.Intn(300)),
	)
	if proxy := s.pool.Proxy(); proxy != "" {
		opts = append(opts, chromedp.ProxyServer(proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so launch failures surface here
	// instead of on the first article.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		s.state = stateUninitialized
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	s.parentCtx = ctx
	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	s.startedAt = time.Now().UTC()
	s.endedAt = time.Time{}
	s.state = stateReady
	slog.Info("Browser session launched")
	return nil
}

// Cleanup closes the browser if open and returns the session to
// Uninitialized. Idempotent: a no-op when never initialized.
func (s *Session) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
}

func (s *Session) cleanupLocked() {
	if s.state == stateUninitialized {
		return
	}
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.browserCtx = nil
	s.browserCancel = nil
	s.allocCancel = nil
	s.endedAt = time.Now().UTC()
	s.state = stateUninitialized
	slog.Info("Browser session closed")
}

// Running reports whether the browser is currently launched.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateReady
}

// ensureAlive relaunches the browser when its process died underneath us. The
// relaunch reuses the context Initialize was given, not the per-call one, so
// the fresh process outlives the current article. Called with the lock held.
func (s *Session) ensureAlive() error {
	if s.state != stateReady {
		return errors.New("browser session not initialized")
	}
	if s.browserCtx.Err() == nil {
		return nil
	}

	slog.Warn("Browser process died, relaunching")
	parent := s.parentCtx
	s.cleanupLocked()
	if err := s.initializeLocked(parent); err != nil {
		return &BrowserCrashError{Err: err}
	}
	return nil
}

// IsDeniedURL reports whether a URL matches the video/playlist denylist.
func IsDeniedURL(url string) bool {
	for _, pattern := range deniedURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// WithPage opens a fresh tab, applies the stealth script and resource
// blocking, runs fn, and guarantees the tab is closed on every exit path.
func (s *Session) WithPage(ctx context.Context, fn func(tabCtx context.Context) error) error {
	s.mu.Lock()
	if err := s.ensureAlive(); err != nil {
		s.mu.Unlock()
		return err
	}
	browserCtx := s.browserCtx
	s.mu.Unlock()

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	interceptRequests(tabCtx)

	if err := chromedp.Run(tabCtx,
		fetch.Enable(),
		stealthAction(),
	); err != nil {
		return fmt.Errorf("failed to prepare page: %w", err)
	}

	return fn(tabCtx)
}

// OpenArticle loads url in a page scoped to this call and extracts a raw
// article from it. Video/playlist URLs are rejected up front without opening
// a page; navigation failure or timeout yields (nil, *NavigationError).
func (s *Session) OpenArticle(ctx context.Context, url, categorySlug string) (*article.RawArticle, error) {
	if IsDeniedURL(url) {
		slog.Debug("Skipping non-article URL", "url", url)
		return nil, nil
	}

	var raw *article.RawArticle
	err := s.WithPage(ctx, func(tabCtx context.Context) error {
		navCtx, cancel := context.WithTimeout(tabCtx, navigationTimeout)
		defer cancel()

		var html string
		if err := chromedp.Run(navCtx,
			chromedp.Navigate(url),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		); err != nil {
			return &NavigationError{URL: url, Err: err}
		}

		extracted, err := s.extractor.Run([]byte(html), url, categorySlug)
		if err != nil {
			return err
		}
		raw = extracted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// ExtractLinks loads url and collects all anchor hrefs, excluding javascript:
// and fragment-only links. A page that never renders an <a href> within 10s
// yields an empty list rather than an error.
func (s *Session) ExtractLinks(ctx context.Context, url string) ([]string, error) {
	var links []string
	err := s.WithPage(ctx, func(tabCtx context.Context) error {
		navCtx, cancel := context.WithTimeout(tabCtx, navigationTimeout)
		defer cancel()

		if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
			return &NavigationError{URL: url, Err: err}
		}

		waitCtx, waitCancel := context.WithTimeout(tabCtx, 10*time.Second)
		defer waitCancel()
		if err := chromedp.Run(waitCtx, chromedp.WaitReady("a[href]", chromedp.ByQuery)); err != nil {
			slog.Debug("No links appeared on page", "url", url)
			return nil
		}

		return chromedp.Run(tabCtx, chromedp.Evaluate(collectLinksJS, &links))
	})
	if err != nil {
		return nil, err
	}
	return filterLinks(links), nil
}

func filterLinks(links []string) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "javascript:") || strings.HasPrefix(l, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}

// interceptRequests aborts requests for resource types irrelevant to text
// extraction. Decisions run in their own goroutine because the CDP event
// handler must not block.
func interceptRequests(tabCtx context.Context) {
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(tabCtx)
			execCtx := cdp.WithExecutor(tabCtx, c.Target)
			if blockedResources[e.ResourceType] {
				_ = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
			} else {
				_ = fetch.ContinueRequest(e.RequestID).Do(execCtx)
			}
		}()
	})
}

func stealthAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	})
}
