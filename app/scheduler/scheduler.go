package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
	"github.com/Ho-Thien-Sinh/news-crawler/app/categories"
	"github.com/Ho-Thien-Sinh/news-crawler/app/crawler"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
)

// FeedFetcher yields RSS stubs for one category.
type FeedFetcher interface {
	FetchCategory(ctx context.Context, slug string) ([]article.RawArticle, error)
}

// StubWriter persists RSS stubs and answers existence pre-checks.
type StubWriter interface {
	Save(ctx context.Context, a *article.CanonicalArticle) (*database.Article, error)
	Exists(ctx context.Context, sourceURL string) (bool, error)
}

// DeepScraper drains a batch of stubs through the browser pipeline.
type DeepScraper interface {
	Run(ctx context.Context, stubs []article.RawArticle) (crawler.Snapshot, error)
}

// DraftSource lists persisted draft rows still waiting for a body. Backends
// without read support leave it nil.
type DraftSource interface {
	GetArticlesNeedingContent(ctx context.Context, limit int) ([]database.Article, error)
}

// CategoryClassifier maps stub content to a category display name.
type CategoryClassifier interface {
	Run(title, body, imageURL string) string
}

// Scheduler drives the recurring crawl: one cycle immediately on Start, then
// one per interval. A cycle walks the fixed category list sequentially (the
// source site throttles aggressive clients), persisting new stubs as drafts
// and handing them to the deep scraper afterwards.
type Scheduler struct {
	fetcher    FeedFetcher
	writer     StubWriter
	classifier CategoryClassifier
	deep       DeepScraper
	drafts     DraftSource

	interval      time.Duration
	itemDelay     time.Duration
	categoryDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(fetcher FeedFetcher, writer StubWriter, classifier CategoryClassifier,
	deep DeepScraper, drafts DraftSource, interval, itemDelay, categoryDelay time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		fetcher:       fetcher,
		writer:        writer,
		classifier:    classifier,
		deep:          deep,
		drafts:        drafts,
		interval:      interval,
		itemDelay:     itemDelay,
		categoryDelay: categoryDelay,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start launches the cycle loop. The first cycle runs immediately; later
// cycles fire on the ticker until Stop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runCycle()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runCycle()
			}
		}
	}()
}

// Stop prevents future cycles and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// runCycle walks every category, then hands accumulated new stubs to the deep
// scraper. Category failures are logged and the cycle moves on; only the
// schedule loop itself decides when a cycle stops happening.
func (s *Scheduler) runCycle() {
	start := time.Now()
	slugs := categories.Slugs()
	var pending []article.RawArticle
	newCount := 0
	duplicateCount := 0

	slog.Info("Crawl cycle started", "categories", len(slugs))

	for i, slug := range slugs {
		stubs, fresh, dupes := s.processCategory(slug)
		pending = append(pending, stubs...)
		newCount += fresh
		duplicateCount += dupes

		if i < len(slugs)-1 {
			s.pause(s.categoryDelay)
		}
		if s.ctx.Err() != nil && len(pending) == 0 {
			break
		}
	}

	pending = s.appendDraftBacklog(pending)

	if len(pending) > 0 {
		if _, err := s.deep.Run(context.Background(), pending); err != nil {
			slog.Error("Deep scrape run rejected", "error", err)
		}
	}

	slog.Info("Crawl cycle completed",
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"new", newCount,
		"duplicates", duplicateCount)
}

// draftBacklogLimit caps how many leftover drafts one cycle re-enqueues so a
// large backlog drains over several cycles instead of starving fresh items.
const draftBacklogLimit = 50

// appendDraftBacklog adds persisted drafts still lacking a body to the deep
// scrape batch. A stub whose deep scrape failed last cycle is a duplicate on
// the RSS path forever after, so this is the only way it gets revisited.
func (s *Scheduler) appendDraftBacklog(pending []article.RawArticle) []article.RawArticle {
	if s.drafts == nil {
		return pending
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := s.drafts.GetArticlesNeedingContent(ctx, draftBacklogLimit)
	if err != nil {
		slog.Warn("Draft backlog lookup failed", "error", err)
		return pending
	}

	queued := make(map[string]bool, len(pending))
	for _, stub := range pending {
		queued[stub.SourceURL] = true
	}

	requeued := 0
	for _, row := range rows {
		if queued[row.SourceURL] {
			continue
		}
		pending = append(pending, article.RawArticle{
			SourceURL:        row.SourceURL,
			Title:            row.Title,
			SummaryText:      row.Summary,
			ImageURL:         row.ImageURL,
			PublishedAt:      row.PublishedAt,
			CategorySlugHint: categories.SlugForName(row.Category),
		})
		requeued++
	}

	if requeued > 0 {
		slog.Info("Re-enqueued leftover drafts for deep scrape", "count", requeued)
	}
	return pending
}

// processCategory fetches one RSS feed and persists its unseen stubs as
// drafts. Returned stubs are the fresh ones queued for the deep scrape.
func (s *Scheduler) processCategory(slug string) (fresh []article.RawArticle, newCount, duplicateCount int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stubs, err := s.fetcher.FetchCategory(ctx, slug)
	if err != nil {
		slog.Warn("Category fetch failed, skipping", "category", slug, "error", err)
		return nil, 0, 0
	}

	for _, stub := range stubs {
		exists, err := s.writer.Exists(ctx, stub.SourceURL)
		if err != nil {
			slog.Warn("Existence check failed", "url", stub.SourceURL, "error", err)
			continue
		}
		if exists {
			duplicateCount++
			continue
		}

		category := s.classifier.Run(stub.Title, stub.SummaryText, stub.ImageURL)
		canonical := article.Canonicalize(stub, category)
		if _, err := s.writer.Save(ctx, &canonical); err != nil {
			slog.Warn("Stub save failed", "url", stub.SourceURL, "error", err)
			continue
		}

		newCount++
		fresh = append(fresh, stub)
		s.pause(s.itemDelay)
	}

	slog.Debug("Category processed", "category", slug,
		"total", len(stubs), "new", newCount, "duplicates", duplicateCount)
	return fresh, newCount, duplicateCount
}

func (s *Scheduler) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.ctx.Done():
	}
}
