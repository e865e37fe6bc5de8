package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
)

// ArticleOpener renders one article page in a browser tab and returns its
// extracted fields. A (nil, nil) return means the URL was deliberately not
// opened (video/playlist pages).
type ArticleOpener interface {
	OpenArticle(ctx context.Context, url, categorySlug string) (*article.RawArticle, error)
}

// ArticleWriter persists canonical articles with dedup semantics.
type ArticleWriter interface {
	Save(ctx context.Context, a *article.CanonicalArticle) (*database.Article, error)
	Exists(ctx context.Context, sourceURL string) (bool, error)
}

// CategoryClassifier maps extracted content to a category display name.
type CategoryClassifier interface {
	Run(title, body, imageURL string) string
}

// Crawler is the deep-scrape pool: a fixed set of workers draining a queue of
// article stubs, each pass producing a fully-extracted published record.
type Crawler struct {
	opener      ArticleOpener
	writer      ArticleWriter
	classifier  CategoryClassifier
	limiter     *Limiter
	session     *Session
	workerCount int
}

func New(opener ArticleOpener, writer ArticleWriter, classifier CategoryClassifier,
	itemDelay time.Duration, workerCount int) *Crawler {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Crawler{
		opener:      opener,
		writer:      writer,
		classifier:  classifier,
		limiter:     NewLimiter(itemDelay),
		session:     NewSession(),
		workerCount: workerCount,
	}
}

// Session exposes the run counters for the stats endpoint.
func (c *Crawler) Session() *Session { return c.session }

// Run drains the given stubs through the worker pool and blocks until every
// item has been processed or the context is cancelled. Per-item failures are
// folded into the session; only a concurrent-run conflict is an error.
func (c *Crawler) Run(ctx context.Context, stubs []article.RawArticle) (Snapshot, error) {
	if err := c.session.Begin(); err != nil {
		return c.session.Snapshot(), err
	}

	queue := make(chan article.RawArticle, len(stubs))
	for _, stub := range stubs {
		queue <- stub
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < c.workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.worker(ctx, id, queue)
		}(i)
	}
	wg.Wait()
	c.session.End()

	snap := c.session.Snapshot()
	slog.Info("Deep scrape completed",
		"total", snap.TotalSeen,
		"succeeded", snap.Succeeded,
		"failed", snap.Failed,
		"skipped", snap.Skipped,
		"duration", snap.EndTime.Sub(snap.StartTime).Round(time.Millisecond).String())
	return snap, nil
}

func (c *Crawler) worker(ctx context.Context, id int, queue <-chan article.RawArticle) {
	for stub := range queue {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := c.processItem(ctx, stub)
		c.session.Record(result)

		if result.Err != nil {
			slog.Warn("Article scrape failed",
				"worker_id", id, "url", result.URL, "error", result.Err)
		}
	}
}

// processItem runs the full pipeline for one stub: rate-limiter slot, browser
// render, classification, persistence.
func (c *Crawler) processItem(ctx context.Context, stub article.RawArticle) Result {
	result := Result{URL: stub.SourceURL}

	if err := c.limiter.Wait(ctx); err != nil {
		result.Err = err
		return result
	}

	raw, err := c.opener.OpenArticle(ctx, stub.SourceURL, stub.CategorySlugHint)
	if err != nil {
		result.Err = err
		return result
	}
	if raw == nil {
		return result // denied URL, counted as skipped
	}

	// Stub fields fill gaps the page itself did not yield.
	if raw.Title == "" || raw.Title == "No title" {
		if stub.Title != "" {
			raw.Title = stub.Title
		}
	}
	if raw.SummaryText == "" {
		raw.SummaryText = stub.SummaryText
	}
	if raw.ImageURL == "" {
		raw.ImageURL = stub.ImageURL
	}
	if raw.PublishedAt.IsZero() {
		raw.PublishedAt = stub.PublishedAt
	}

	category := c.classifier.Run(raw.Title, raw.BodyText, raw.ImageURL)
	canonical := article.Canonicalize(*raw, category)

	if _, err := c.writer.Save(ctx, &canonical); err != nil {
		var denied *database.AccessDeniedError
		if errors.As(err, &denied) {
			slog.Error("Article write denied on all paths", "url", result.URL)
		}
		result.Err = err
		return result
	}

	result.Saved = true
	return result
}
