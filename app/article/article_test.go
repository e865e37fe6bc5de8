package article

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestHashID_Deterministic(t *testing.T) {
	url := "https://tuoitre.vn/mot-bai-viet-20240101.html"

	first := HashID(url)
	for i := 0; i < 100; i++ {
		if got := HashID(url); got != first {
			t.Fatalf("HashID not deterministic: got %d, want %d", got, first)
		}
	}
}

func TestHashID_AlwaysPositive(t *testing.T) {
	urls := []string{
		"https://tuoitre.vn/a.html",
		"https://tuoitre.vn/the-thao/viet-nam-vs-thai-lan-2024.html",
		"https://example.com/" + strings.Repeat("x", 500),
		"",
		"https://tuoitre.vn/视频.html",
	}

	for _, u := range urls {
		if got := HashID(u); got < 0 {
			t.Errorf("HashID(%q) = %d, want non-negative", u, got)
		}
	}
}

func TestHashID_KnownValue(t *testing.T) {
	// Reference value computed with the JS-style rolling hash. Changing the
	// algorithm would orphan every stub row already persisted.
	if got := HashID("abc"); got != 96354 {
		t.Errorf("HashID(\"abc\") = %d, want 96354", got)
	}
}

func TestSlugify_VietnameseTitle(t *testing.T) {
	slug := Slugify("Việt Nam vs Thái Lan: Trận đấu kịch tính!!")

	if !regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`).MatchString(slug) {
		t.Errorf("slug %q contains characters outside [a-z0-9-] or bad hyphens", slug)
	}
	if len(slug) > 100 {
		t.Errorf("slug length = %d, want <= 100", len(slug))
	}
	if slug != "viet-nam-vs-thai-lan-tran-dau-kich-tinh" {
		t.Errorf("unexpected slug: %q", slug)
	}
}

func TestSlugify_LongTitleTruncated(t *testing.T) {
	slug := Slugify(strings.Repeat("tin tức ", 50))

	if len(slug) > 100 {
		t.Errorf("slug length = %d, want <= 100", len(slug))
	}
	if strings.HasSuffix(slug, "-") || strings.HasPrefix(slug, "-") {
		t.Errorf("slug %q has leading/trailing hyphen after truncation", slug)
	}
}

func TestSlugify_EmptyTitleFallback(t *testing.T) {
	slug := Slugify("")
	if !strings.HasPrefix(slug, "bai-viet-") {
		t.Errorf("empty title should produce placeholder slug, got %q", slug)
	}

	if Slugify("!!! ???") == "" {
		t.Error("symbol-only title should still produce a slug")
	}
}

func TestRawArticle_Validate(t *testing.T) {
	cases := []struct {
		url     string
		wantErr bool
	}{
		{"https://tuoitre.vn/a.html", false},
		{"http://tuoitre.vn/b.html", false},
		{"", true},
		{"/thoi-su/a.html", true},
		{"not a url\x7f://", true},
	}

	for _, tc := range cases {
		a := RawArticle{SourceURL: tc.url, Title: "t"}
		err := a.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("Validate(%q) = nil, want error", tc.url)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tc.url, err)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	raw := RawArticle{
		SourceURL:   "https://tuoitre.vn/a.html",
		Title:       "Tin mới",
		PublishedAt: time.Now(),
	}

	c := Canonicalize(raw, "Thời sự")

	if c.ID != int64(HashID(raw.SourceURL)) {
		t.Errorf("stub ID = %d, want HashID of source URL", c.ID)
	}
	if c.Status != StatusDraft {
		t.Errorf("stub without body should be draft, got %q", c.Status)
	}
	if c.Category != "Thời sự" {
		t.Errorf("category = %q", c.Category)
	}

	raw.BodyText = "full content"
	c = Canonicalize(raw, "Thời sự")
	if c.Status != StatusPublished {
		t.Errorf("article with body should be published, got %q", c.Status)
	}
}
