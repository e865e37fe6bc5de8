package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
)

// ErrStoreUnavailable is returned when the store cannot be reached at all.
// During startup it is fatal; during a run the item is counted as failed and
// the cycle moves on.
var ErrStoreUnavailable = errors.New("article store unavailable")

// Writer persists canonical articles with dedup semantics: existence
// pre-checks by canonical source URL, upsert on conflict, and a privileged
// secondary path used only when the primary store rejects a write on access
// policy grounds.
type Writer struct {
	primary    database.Store
	privileged database.Store // nil when the backend has no policy layer
}

func New(primary, privileged database.Store) *Writer {
	return &Writer{primary: primary, privileged: privileged}
}

// Exists reports whether an article with this canonical source URL is
// already persisted. The scheduler's RSS path uses it to skip upsert traffic
// entirely for already-seen items.
func (w *Writer) Exists(ctx context.Context, sourceURL string) (bool, error) {
	return w.primary.ExistsByURL(ctx, sourceURL)
}

// Save verifies store connectivity, derives missing identity fields, and
// upserts the article keyed on its source URL. An access-policy rejection is
// retried once on the privileged path; any other error is surfaced
// unmodified.
func (w *Writer) Save(ctx context.Context, a *article.CanonicalArticle) (*database.Article, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := w.primary.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if a.Slug == "" {
		a.Slug = article.Slugify(a.Title)
	}
	if a.ID == 0 {
		a.ID = int64(article.HashID(a.SourceURL))
	}

	fields := buildFields(a)

	saved, err := w.primary.Upsert(ctx, fields)
	if err == nil {
		return saved, nil
	}

	var denied *database.AccessDeniedError
	if errors.As(err, &denied) && w.privileged != nil {
		slog.Warn("Primary write denied by access policy, using privileged path",
			"url", a.SourceURL, "error", denied.Err)
		return w.privileged.Upsert(ctx, fields)
	}

	return nil, err
}

// buildFields flattens the article into the store's field record, dropping
// empty and zero values instead of writing them.
func buildFields(a *article.CanonicalArticle) map[string]any {
	fields := map[string]any{
		"source_url": a.SourceURL,
		"slug":       a.Slug,
	}
	if a.ID != 0 {
		fields["id"] = a.ID
	}
	put := func(key, val string) {
		if val != "" {
			fields[key] = val
		}
	}
	put("title", a.Title)
	put("summary", a.SummaryText)
	put("content", a.BodyText)
	put("author", a.AuthorName)
	put("image_url", a.ImageURL)
	put("category", a.Category)
	put("status", a.Status)
	if !a.PublishedAt.IsZero() {
		fields["published_at"] = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return fields
}
