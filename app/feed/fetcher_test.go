package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/Ho-Thien-Sinh/news-crawler/app/httpclient"
)

type stubHTTP struct {
	body []byte
	err  error
	urls []string
	opts []httpclient.Options
}

func (s *stubHTTP) Fetch(ctx context.Context, url string, opts httpclient.Options) ([]byte, error) {
	s.urls = append(s.urls, url)
	s.opts = append(s.opts, opts)
	return s.body, s.err
}

const minimalFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Tin mới nhất</title>
    <link>https://tuoitre.vn</link>
    <item>
      <title>Bản tin sáng</title>
      <link>https://tuoitre.vn/ban-tin-sang.html</link>
      <description>&lt;img src="https://x/y.jpg"/&gt;Tóm tắt bản tin</description>
      <pubDate>Mon, 01 Jul 2024 08:00:00 +0700</pubDate>
    </item>
    <item>
      <title>Item without link is dropped</title>
      <description>no link here</description>
    </item>
  </channel>
</rss>`

func TestFetchCategory(t *testing.T) {
	client := &stubHTTP{body: []byte(minimalFeed)}
	fetcher := NewFetcher(client, "https://tuoitre.vn")

	stubs, err := fetcher.FetchCategory(context.Background(), "thoi-su")
	if err != nil {
		t.Fatalf("FetchCategory failed: %v", err)
	}

	if len(client.urls) != 1 || client.urls[0] != "https://tuoitre.vn/rss/thoi-su.rss" {
		t.Errorf("unexpected feed URL: %v", client.urls)
	}

	if len(client.opts) != 1 || !client.opts[0].CacheBust {
		t.Error("feed polls must cache-bust so repeated cycles see fresh items")
	}

	if len(stubs) != 1 {
		t.Fatalf("expected 1 stub (linkless item dropped), got %d", len(stubs))
	}

	stub := stubs[0]
	if stub.SourceURL != "https://tuoitre.vn/ban-tin-sang.html" {
		t.Errorf("source URL = %q", stub.SourceURL)
	}
	if stub.Title != "Bản tin sáng" {
		t.Errorf("title = %q", stub.Title)
	}
	if stub.ImageURL != "https://x/y.jpg" {
		t.Errorf("image URL = %q, want the <img src> mined from description", stub.ImageURL)
	}
	if stub.PublishedAt.IsZero() {
		t.Error("publishedAt must never be zero")
	}
	if stub.CategorySlugHint != "thoi-su" {
		t.Errorf("category hint = %q", stub.CategorySlugHint)
	}
	if stub.BodyText != "" {
		t.Error("RSS stubs must not carry body text")
	}
}

func TestFetchCategory_MissingPubDateDefaultsToNow(t *testing.T) {
	feedXML := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>a</title><link>https://tuoitre.vn/a.html</link></item>
</channel></rss>`

	fetcher := NewFetcher(&stubHTTP{body: []byte(feedXML)}, "https://tuoitre.vn")
	stubs, err := fetcher.FetchCategory(context.Background(), "the-thao")
	if err != nil {
		t.Fatalf("FetchCategory failed: %v", err)
	}
	if len(stubs) != 1 || stubs[0].PublishedAt.IsZero() {
		t.Fatal("expected one stub with non-zero publishedAt")
	}
}

func TestFetchCategory_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	fetcher := NewFetcher(&stubHTTP{err: wantErr}, "https://tuoitre.vn")

	_, err := fetcher.FetchCategory(context.Background(), "thoi-su")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestMineImageURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`<img src="https://x/y.jpg"/>text`, "https://x/y.jpg"},
		{`<img width="80" src='https://x/z.png'>`, "https://x/z.png"},
		{`no image`, ""},
	}
	for _, tc := range cases {
		if got := mineImageURL(tc.in); got != tc.want {
			t.Errorf("mineImageURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
