package rotation

import (
	"math/rand"
	"sync"
)

// defaultUserAgents mirrors a spread of current desktop browsers. A crawler
// that always presents the same UA string is trivial to fingerprint.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Pool holds fixed lists of user agents and proxy endpoints and hands out a
// random entry per request. No state beyond the lists; safe for concurrent
// use.
type Pool struct {
	mu         sync.Mutex
	rng        *rand.Rand
	userAgents []string
	proxies    []string
}

// NewPool builds a pool from the given lists. Empty slices fall back to the
// embedded user-agent defaults and no proxies.
func NewPool(userAgents, proxies []string, seed int64) *Pool {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &Pool{
		rng:        rand.New(rand.NewSource(seed)),
		userAgents: userAgents,
		proxies:    proxies,
	}
}

// UserAgent picks a random user agent string.
func (p *Pool) UserAgent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userAgents[p.rng.Intn(len(p.userAgents))]
}

// Proxy picks a random proxy endpoint, or "" when none are configured.
func (p *Pool) Proxy() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.proxies) == 0 {
		return ""
	}
	return p.proxies[p.rng.Intn(len(p.proxies))]
}
