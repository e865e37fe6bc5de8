package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RESTStore talks to a PostgREST-compatible article endpoint. Two handles are
// typically built from one config: a default one carrying the anon key
// (subject to row-level policies) and a privileged one carrying the service
// key. A 401/403 response surfaces as *AccessDeniedError so the writer can
// switch handles.
type RESTStore struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

var _ Store = (*RESTStore)(nil)

func NewRESTStore(baseURL, apiKey string) *RESTStore {
	return &RESTStore{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (s *RESTStore) endpoint() string {
	return s.baseURL + "/rest/v1/articles"
}

func (s *RESTStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func (s *RESTStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint()+"?select=id&limit=1", nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("store unhealthy: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (s *RESTStore) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("source_url", "eq."+sourceURL)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint()+"?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	s.setHeaders(req)

	resp, err := s.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	defer resp.Body.Close()

	if err := s.checkStatus(resp, "select"); err != nil {
		return false, err
	}

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return false, fmt.Errorf("failed to decode existence response: %w", err)
	}
	return len(rows) > 0, nil
}

// Upsert posts the flat field record with merge-duplicates semantics on the
// source_url conflict key and returns the persisted representation.
func (s *RESTStore) Upsert(ctx context.Context, fields map[string]any) (*Article, error) {
	payload, err := json.Marshal([]map[string]any{fields})
	if err != nil {
		return nil, fmt.Errorf("failed to encode upsert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.endpoint()+"?on_conflict=source_url", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upsert request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := s.checkStatus(resp, "upsert"); err != nil {
		return nil, err
	}

	var rows []restArticle
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode upsert response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("upsert returned no rows")
	}
	return rows[0].toArticle(), nil
}

func (s *RESTStore) checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &AccessDeniedError{Op: op, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store %s failed: HTTP %d: %s", op, resp.StatusCode, body)
	}
	return nil
}

type restArticle struct {
	ID          int64     `json:"id"`
	SourceURL   string    `json:"source_url"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *restArticle) toArticle() *Article {
	return &Article{
		ID:          r.ID,
		SourceURL:   r.SourceURL,
		Slug:        r.Slug,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		Author:      r.Author,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Status:      r.Status,
		PublishedAt: r.PublishedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
