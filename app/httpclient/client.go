package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ho-Thien-Sinh/news-crawler/app/rotation"
)

// NetworkError is returned once every retry attempt has been exhausted. It
// wraps the last underlying transport or HTTP error.
type NetworkError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BlockedError signals an anti-bot challenge page. It is not retried at this
// layer: retrying a challenge with the same fingerprint only raises the
// upstream suspicion score.
type BlockedError struct {
	URL    string
	Marker string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request to %s blocked by anti-bot challenge (marker %q)", e.URL, e.Marker)
}

// challengeMarkers are substrings that identify well-known challenge
// interstitials in a response body.
var challengeMarkers = []string{
	"just a moment",
	"checking your browser",
	"cf-challenge",
	"captcha-delivery",
	"access denied",
	"you have been blocked",
}

// Options control a single Fetch call.
type Options struct {
	Timeout   time.Duration // per-request timeout, defaults to 30s
	CacheBust bool          // append a _t=<unixnano> query param
}

// Client is the lightweight fetcher used for RSS and plain-HTML requests.
// Every request carries a rotated user agent and the upstream locale's
// Accept-Language. Retries use linear backoff: base * attempt.
type Client struct {
	http       *http.Client
	pool       *rotation.Pool
	maxRetries int
	retryBase  time.Duration
}

// New builds a Client. maxRetries is the number of retries after the first
// attempt (at most maxRetries+1 physical requests per Fetch).
func New(pool *rotation.Pool, maxRetries int, retryBase time.Duration) *Client {
	if maxRetries < 0 {
		maxRetries = 3
	}
	if retryBase <= 0 {
		retryBase = time.Second
	}
	return &Client{
		http:       &http.Client{},
		pool:       pool,
		maxRetries: maxRetries,
		retryBase:  retryBase,
	}
}

// Fetch downloads url and returns the response body. On repeated failure it
// returns a *NetworkError carrying the last error; a detected challenge page
// returns a *BlockedError immediately.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts Options) ([]byte, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	target := rawURL
	if opts.CacheBust {
		target = cacheBust(rawURL)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		body, err := c.doRequest(ctx, target, opts.Timeout)
		if err == nil {
			if marker := detectChallenge(body); marker != "" {
				return nil, &BlockedError{URL: rawURL, Marker: marker}
			}
			return body, nil
		}
		lastErr = err

		if attempt <= c.maxRetries {
			delay := c.retryBase * time.Duration(attempt)
			slog.Debug("Fetch failed, backing off", "url", rawURL, "attempt", attempt, "delay", delay, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &NetworkError{URL: rawURL, Attempts: attempt, Err: ctx.Err()}
			}
		}
	}

	return nil, &NetworkError{URL: rawURL, Attempts: c.maxRetries + 1, Err: lastErr}
}

func (c *Client) doRequest(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.pool.UserAgent())
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func cacheBust(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("_t", fmt.Sprintf("%d", time.Now().UnixNano()))
	u.RawQuery = q.Encode()
	return u.String()
}

// detectChallenge scans the first chunk of a body for challenge markers. Only
// the head is inspected: real article bodies can legitimately mention these
// phrases further down.
func detectChallenge(body []byte) string {
	head := body
	if len(head) > 4096 {
		head = head[:4096]
	}
	lower := strings.ToLower(string(head))
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return marker
		}
	}
	return ""
}
