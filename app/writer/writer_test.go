package writer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
)

// fakeStore is an in-memory Store keyed on source_url, mirroring the
// conflict-key semantics of the real backends.
type fakeStore struct {
	rows       map[string]*database.Article
	pingErr    error
	upsertErr  error
	upserts    int
	existCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]*database.Article{}}
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	f.existCalls++
	_, ok := f.rows[sourceURL]
	return ok, nil
}

func (f *fakeStore) Upsert(ctx context.Context, fields map[string]any) (*database.Article, error) {
	f.upserts++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}

	sourceURL, _ := fields["source_url"].(string)
	row, ok := f.rows[sourceURL]
	if !ok {
		row = &database.Article{SourceURL: sourceURL, CreatedAt: time.Now()}
		f.rows[sourceURL] = row
	}
	if v, ok := fields["title"].(string); ok {
		row.Title = v
	}
	if v, ok := fields["slug"].(string); ok {
		row.Slug = v
	}
	if v, ok := fields["status"].(string); ok {
		row.Status = v
	}
	row.UpdatedAt = time.Now()
	return row, nil
}

func testArticle() *article.CanonicalArticle {
	return &article.CanonicalArticle{
		RawArticle: article.RawArticle{
			SourceURL:   "https://tuoitre.vn/a.html",
			Title:       "Tin mới",
			PublishedAt: time.Now(),
		},
		Status: article.StatusDraft,
	}
}

func TestSave_UpsertIdempotent(t *testing.T) {
	store := newFakeStore()
	w := New(store, nil)

	for i := 0; i < 5; i++ {
		if _, err := w.Save(context.Background(), testArticle()); err != nil {
			t.Fatalf("Save #%d failed: %v", i, err)
		}
	}

	if len(store.rows) != 1 {
		t.Errorf("expected exactly 1 persisted row after repeated saves, got %d", len(store.rows))
	}
}

func TestSave_DerivesSlugAndID(t *testing.T) {
	store := newFakeStore()
	w := New(store, nil)

	a := testArticle()
	if _, err := w.Save(context.Background(), a); err != nil {
		t.Fatal(err)
	}

	if a.Slug != "tin-moi" {
		t.Errorf("slug = %q, want derived from title", a.Slug)
	}
	if a.ID != int64(article.HashID(a.SourceURL)) {
		t.Errorf("ID = %d, want HashID of source URL", a.ID)
	}
}

func TestSave_StoreUnreachableFailsFast(t *testing.T) {
	store := newFakeStore()
	store.pingErr = errors.New("dial tcp: connection refused")
	w := New(store, nil)

	_, err := w.Save(context.Background(), testArticle())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if store.upserts != 0 {
		t.Error("no upsert should be attempted when the store is unreachable")
	}
}

func TestSave_AccessDeniedFallsBackToPrivileged(t *testing.T) {
	primary := newFakeStore()
	primary.upsertErr = &database.AccessDeniedError{Op: "upsert", Err: errors.New("row-level policy")}
	privileged := newFakeStore()
	w := New(primary, privileged)

	saved, err := w.Save(context.Background(), testArticle())
	if err != nil {
		t.Fatalf("privileged fallback should succeed: %v", err)
	}
	if saved == nil || privileged.upserts != 1 {
		t.Error("expected exactly one privileged upsert")
	}
}

func TestSave_GenericErrorNotRetried(t *testing.T) {
	primary := newFakeStore()
	wantErr := errors.New("disk full")
	primary.upsertErr = wantErr
	privileged := newFakeStore()
	w := New(primary, privileged)

	_, err := w.Save(context.Background(), testArticle())
	if !errors.Is(err, wantErr) {
		t.Errorf("generic errors must surface unmodified, got %v", err)
	}
	if privileged.upserts != 0 {
		t.Error("privileged path must only serve access-policy rejections")
	}
}

func TestSave_InvalidArticleRejected(t *testing.T) {
	store := newFakeStore()
	w := New(store, nil)

	a := testArticle()
	a.SourceURL = ""
	if _, err := w.Save(context.Background(), a); err == nil {
		t.Error("article without source URL must be rejected")
	}
	if store.upserts != 0 {
		t.Error("invalid article must not reach the store")
	}
}

func TestBuildFields_DropsEmpty(t *testing.T) {
	a := testArticle()
	a.ImageURL = ""
	a.AuthorName = ""
	a.Slug = "tin-moi"

	fields := buildFields(a)
	if _, ok := fields["image_url"]; ok {
		t.Error("empty image_url must be dropped")
	}
	if _, ok := fields["author"]; ok {
		t.Error("empty author must be dropped")
	}
	if fields["source_url"] != a.SourceURL {
		t.Error("source_url must always be present")
	}
}
