package article

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status values for a canonical article. Stubs built from RSS items stay in
// draft until the deep-scrape path fills in the body.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// RawArticle is the normalized output of extraction, before classification.
// BodyText is empty for RSS stubs.
type RawArticle struct {
	SourceURL        string
	Title            string
	SummaryText      string
	BodyText         string
	AuthorName       string
	ImageURL         string
	PublishedAt      time.Time
	CategorySlugHint string
}

// Validate checks the invariant that SourceURL is a well-formed absolute URL.
// Records failing this are discarded before classification.
func (a *RawArticle) Validate() error {
	if a.SourceURL == "" {
		return fmt.Errorf("article has no source URL")
	}
	u, err := url.Parse(a.SourceURL)
	if err != nil {
		return fmt.Errorf("invalid source URL %q: %w", a.SourceURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("source URL %q is not absolute", a.SourceURL)
	}
	return nil
}

// CanonicalArticle is a RawArticle with identity and lifecycle fields filled
// in. ID is HashID(SourceURL) for stubs and database-assigned for deep-scraped
// records, so re-crawling the same URL never creates a duplicate.
type CanonicalArticle struct {
	RawArticle

	ID        int64
	Slug      string
	Category  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Canonicalize builds a CanonicalArticle from a raw one. Category is the
// resolved display name, not a slug.
func Canonicalize(raw RawArticle, category string) CanonicalArticle {
	status := StatusDraft
	if raw.BodyText != "" {
		status = StatusPublished
	}
	return CanonicalArticle{
		RawArticle: raw,
		ID:         int64(HashID(raw.SourceURL)),
		Slug:       Slugify(raw.Title),
		Category:   category,
		Status:     status,
	}
}

// HashID produces a deterministic numeric ID from a URL using the rolling
// hash h = (h<<5) - h + code with explicit 32-bit wraparound, masked to the
// positive signed range. URLs are ASCII, so iterating bytes yields the same
// code units a UTF-16 implementation would see. The value must stay
// bit-for-bit stable across runs: it is the dedup key for RSS stubs.
func HashID(u string) int32 {
	var h uint32
	for i := 0; i < len(u); i++ {
		h = (h << 5) - h + uint32(u[i])
	}
	return int32(h & 0x7FFFFFFF)
}

var (
	nonWord        = regexp.MustCompile(`[^a-z0-9\s-]+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	hyphenRun      = regexp.MustCompile(`-{2,}`)
	combiningMarks = runes.Remove(runes.In(unicode.Mn))
)

const maxSlugLen = 100

// Slugify derives a URL-safe slug from an article title: Vietnamese letters
// are transliterated to ASCII, the result lowercased, non-word characters
// stripped, whitespace turned into single hyphens, and the slug truncated to
// 100 characters. An empty title falls back to a timestamp placeholder so a
// slug is always derivable.
func Slugify(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Sprintf("bai-viet-%d", time.Now().UnixNano())
	}

	t := transform.Chain(norm.NFD, combiningMarks, norm.NFC)
	ascii, _, err := transform.String(t, title)
	if err != nil {
		ascii = title
	}
	ascii = strings.ReplaceAll(ascii, "đ", "d")
	ascii = strings.ReplaceAll(ascii, "Đ", "D")

	slug := strings.ToLower(ascii)
	slug = nonWord.ReplaceAllString(slug, "")
	slug = whitespaceRun.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = hyphenRun.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return fmt.Sprintf("bai-viet-%d", time.Now().UnixNano())
	}
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}
