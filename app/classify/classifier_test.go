package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ho-Thien-Sinh/news-crawler/app/categories"
)

func TestRun_EmptyInputReturnsDefault(t *testing.T) {
	c := New()
	if got := c.Run("", "", ""); got != categories.DefaultName {
		t.Errorf("empty input should fall back to %q, got %q", categories.DefaultName, got)
	}
}

func TestRun_BelowThresholdReturnsDefault(t *testing.T) {
	c := &Classifier{rules: []Rule{
		{Category: "Thể thao", Groups: []KeywordGroup{{Keywords: []string{"bóng đá"}, Weight: 1}}},
	}}

	// One body match at weight 1 scores 1, below the minimum of 3.
	if got := c.Run("tin khác", "trận bóng đá hôm qua", ""); got != categories.DefaultName {
		t.Errorf("score below threshold should return default, got %q", got)
	}
}

func TestRun_TitleOutweighsBody(t *testing.T) {
	c := &Classifier{rules: []Rule{
		{Category: "Thể thao", Groups: []KeywordGroup{{Keywords: []string{"bóng đá"}, Weight: 2}}},
	}}

	titleScore := c.score(c.rules[0], "bóng đá việt nam", "", "")
	bodyScore := c.score(c.rules[0], "", "bóng đá việt nam", "")

	if titleScore <= bodyScore*2 {
		t.Errorf("title match (%d) must outweigh body match (%d) by more than 2x", titleScore, bodyScore)
	}
}

func TestRun_ImageFragmentBonus(t *testing.T) {
	c := &Classifier{rules: []Rule{
		{Category: "Thể thao", ImageFragments: []string{"/the-thao/"}},
		{Category: "Giải trí", Groups: []KeywordGroup{{Keywords: []string{"phim"}, Weight: 1}}},
	}}

	got := c.Run("tin tổng hợp", "có nhắc đến phim", "https://cdn.tuoitre.vn/the-thao/2024/anh.jpg")
	if got != "Thể thao" {
		t.Errorf("image bonus (+5) should beat single body match, got %q", got)
	}
}

func TestRun_TieBreakUsesDeclaredOrder(t *testing.T) {
	c := &Classifier{rules: []Rule{
		{Category: "Văn hóa", Groups: []KeywordGroup{{Keywords: []string{"chung"}, Weight: 2}}},
		{Category: "Giải trí", Groups: []KeywordGroup{{Keywords: []string{"chung"}, Weight: 2}}},
	}}

	// Both rules score identically; the first declared rule must win.
	for i := 0; i < 10; i++ {
		if got := c.Run("từ chung trong tiêu đề", "", ""); got != "Văn hóa" {
			t.Fatalf("tie must resolve to first declared rule, got %q", got)
		}
	}
}

func TestRun_DefaultRulesClassifySport(t *testing.T) {
	c := New()
	got := c.Run("Đội tuyển bóng đá Việt Nam thắng trận đấu quan trọng", "các cầu thủ thi đấu tốt", "")
	if got != "Thể thao" {
		t.Errorf("expected Thể thao, got %q", got)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	doc := `rules:
  - category: "Thể thao"
    groups:
      - keywords: ["bóng đá"]
        weight: 3
    image_fragments: ["/the-thao/"]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile failed: %v", err)
	}
	if got := c.Run("bóng đá hôm nay", "", ""); got != "Thể thao" {
		t.Errorf("loaded rules should classify, got %q", got)
	}
}

func TestNewFromFile_EmptyRulesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Error("empty rules file should be rejected")
	}
}
