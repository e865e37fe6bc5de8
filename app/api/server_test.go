package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ho-Thien-Sinh/news-crawler/app/crawler"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
)

type fakeStore struct {
	pingErr error
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	return false, nil
}

func (f *fakeStore) Upsert(ctx context.Context, fields map[string]any) (*database.Article, error) {
	return nil, nil
}

type fakeSession struct{ snap crawler.Snapshot }

func (f *fakeSession) Snapshot() crawler.Snapshot { return f.snap }

type fakeBrowser struct{ running bool }

func (f *fakeBrowser) Running() bool { return f.running }

func newTestServer(store *fakeStore, session *fakeSession, browser *fakeBrowser) http.Handler {
	return NewServer(NewHandler(store, nil, session, browser, "test"))
}

func TestGetHealth_OK(t *testing.T) {
	srv := newTestServer(&fakeStore{}, &fakeSession{}, &fakeBrowser{running: true})

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["store"] != "ok" {
		t.Errorf("store = %v, want ok", body["store"])
	}
	if body["browser"] != true {
		t.Errorf("browser = %v, want true", body["browser"])
	}
}

func TestGetHealth_StoreUnreachable(t *testing.T) {
	srv := newTestServer(&fakeStore{pingErr: errors.New("connection refused")},
		&fakeSession{}, &fakeBrowser{})

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("health status = %d, want 503 when store is down", w.Code)
	}
}

func TestGetStats_ReturnsSessionSnapshot(t *testing.T) {
	session := &fakeSession{snap: crawler.Snapshot{
		Status:    crawler.StatusStopped,
		TotalSeen: 12,
		Succeeded: 10,
		Failed:    2,
	}}
	srv := newTestServer(&fakeStore{}, session, &fakeBrowser{})

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want 200", w.Code)
	}

	var body struct {
		Session crawler.Snapshot `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Session.TotalSeen != 12 || body.Session.Failed != 2 {
		t.Errorf("session = %+v, want snapshot passed through", body.Session)
	}
}

func TestRootBanner(t *testing.T) {
	srv := newTestServer(&fakeStore{}, &fakeSession{}, &fakeBrowser{})

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("root status = %d, want 200", w.Code)
	}
}
