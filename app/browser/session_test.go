package browser

import (
	"context"
	"testing"

	"github.com/Ho-Thien-Sinh/news-crawler/app/extract"
	"github.com/Ho-Thien-Sinh/news-crawler/app/rotation"
)

func newTestSession() *Session {
	return NewSession(rotation.NewPool(nil, nil, 1), extract.New())
}

func TestIsDeniedURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://tuoitre.vn/thoi-su/mot-bai-viet.html", false},
		{"https://video.tuoitre.vn/clip-moi.html", true},
		{"https://tv.tuoitre.vn/truc-tiep.html", true},
		{"https://tuoitre.vn/video/ban-tin.html", true},
		{"https://tuoitre.vn/playlist/the-thao.html", true},
		{"https://tuoitre.vn/truyen-hinh/chuong-trinh.html", true},
	}

	for _, tc := range cases {
		if got := IsDeniedURL(tc.url); got != tc.want {
			t.Errorf("IsDeniedURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestOpenArticle_DeniedURLSkippedWithoutBrowser(t *testing.T) {
	// A video URL must be rejected before any page (or browser) is touched,
	// so this works on an uninitialized session.
	s := newTestSession()
	raw, err := s.OpenArticle(context.Background(), "https://video.tuoitre.vn/clip.html", "the-thao")
	if err != nil {
		t.Fatalf("denied URL should be a silent skip, got %v", err)
	}
	if raw != nil {
		t.Error("denied URL should yield a nil article")
	}
}

func TestWithPage_RequiresInitialize(t *testing.T) {
	s := newTestSession()
	err := s.WithPage(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("WithPage on an uninitialized session must fail")
	}
}

func TestCleanup_IdempotentWhenUninitialized(t *testing.T) {
	s := newTestSession()
	s.Cleanup()
	s.Cleanup()
	if s.Running() {
		t.Error("session should remain uninitialized")
	}
}

func TestFilterLinks(t *testing.T) {
	in := []string{
		"https://tuoitre.vn/a.html",
		"javascript:void(0)",
		"#binh-luan",
		"",
		"/thoi-su/b.html",
	}
	got := filterLinks(in)
	want := []string{"https://tuoitre.vn/a.html", "/thoi-su/b.html"}
	if len(got) != len(want) {
		t.Fatalf("filterLinks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filterLinks[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
