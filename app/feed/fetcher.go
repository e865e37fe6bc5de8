package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
	"github.com/Ho-Thien-Sinh/news-crawler/app/httpclient"
)

// HTTPFetcher is the slice of the HTTP client the feed fetcher needs.
type HTTPFetcher interface {
	Fetch(ctx context.Context, url string, opts httpclient.Options) ([]byte, error)
}

var imgSrcPattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

// Fetcher pulls a category RSS feed and turns its items into shallow article
// stubs (title, link, summary, optional image, publish date; no body).
type Fetcher struct {
	client  HTTPFetcher
	parser  *gofeed.Parser
	baseURL string
}

func NewFetcher(client HTTPFetcher, baseURL string) *Fetcher {
	return &Fetcher{
		client:  client,
		parser:  gofeed.NewParser(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FeedURL builds the feed endpoint for a category slug.
func (f *Fetcher) FeedURL(slug string) string {
	return fmt.Sprintf("%s/rss/%s.rss", f.baseURL, slug)
}

// FetchCategory downloads and parses one category feed. Items without a link
// are dropped; a missing or unparsable pubDate defaults to fetch time. Feeds
// are polled repeatedly, so the request cache-busts past CDN copies.
func (f *Fetcher) FetchCategory(ctx context.Context, slug string) ([]article.RawArticle, error) {
	data, err := f.client.Fetch(ctx, f.FeedURL(slug), httpclient.Options{
		Timeout:   15 * time.Second,
		CacheBust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed for %q: %w", slug, err)
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed for %q: %w", slug, err)
	}

	stubs := make([]article.RawArticle, 0, len(parsed.Items))
	dropped := 0
	for _, item := range parsed.Items {
		stub, ok := f.buildStub(item, slug)
		if !ok {
			dropped++
			continue
		}
		stubs = append(stubs, stub)
	}

	if dropped > 0 {
		slog.Debug("Dropped feed items without link", "category", slug, "count", dropped)
	}
	return stubs, nil
}

func (f *Fetcher) buildStub(item *gofeed.Item, slug string) (article.RawArticle, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return article.RawArticle{}, false
	}

	stub := article.RawArticle{
		SourceURL:        link,
		Title:            strings.TrimSpace(item.Title),
		SummaryText:      stripTags(item.Description),
		ImageURL:         mineImageURL(item.Description),
		CategorySlugHint: slug,
	}

	if item.PublishedParsed != nil {
		stub.PublishedAt = *item.PublishedParsed
	} else {
		stub.PublishedAt = time.Now().UTC()
	}

	if err := stub.Validate(); err != nil {
		return article.RawArticle{}, false
	}
	return stub, true
}

// mineImageURL pulls the first <img src> embedded in a description's HTML.
// Upstream feeds ship the article thumbnail this way instead of an enclosure.
func mineImageURL(description string) string {
	m := imgSrcPattern.FindStringSubmatch(description)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
