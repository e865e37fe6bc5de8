package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"

	"github.com/Ho-Thien-Sinh/news-crawler/app/article"
)

// ParseError signals HTML that could not be turned into a document at all.
// Missing titles or bodies are not parse errors: the extractor degrades to
// fallback values instead of aborting the pipeline.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse page %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FallbackTitle is recorded when no title can be found anywhere on the page.
// Deep-scrape callers treat it as a skip signal; RSS stubs keep their feed
// title regardless.
const FallbackTitle = "No title"

const maxBodyLen = 10_000

var titleSelectors = []string{
	"h1.detail-title",
	"h1.article-title",
	"h1[data-role='title']",
	"h1.title-detail",
}

var summarySelectors = []string{
	"h2.detail-sapo",
	"p.sapo",
	".article-sapo",
	".detail__sapo",
}

var authorSelectors = []string{
	".detail-author .author-info a",
	".author-info .name",
	"p.author",
	".article-author",
}

var bodySelectors = []string{
	"div.detail-content",
	"div.article-content",
	"div#main-detail-body",
	"div.content-detail",
	"article .fck_detail",
	"article",
}

// removeSelectors is the denylist of structural, ad, social and comment
// blocks stripped from a body container before text extraction.
var removeSelectors = []string{
	"script", "style", "iframe", "noscript",
	".banner", ".ads", ".advertisement", "[id^='ads']", "[class*='sponsor']",
	".social-share", ".share-box", ".social",
	".comment", ".comments", "#comment-wrapper",
	".related-news", ".box-related", ".suggestion",
	".author-info", ".tags", ".breadcrumb", "figure figcaption",
}

var imagePathHints = []string{"/upload/", "/uploads/", "/media/", "/cdn/", "/images/"}

// Extractor turns a loaded page into a normalized RawArticle using ordered
// selector and meta fallbacks tuned to the upstream markup.
type Extractor struct {
	now func() time.Time
}

func New() *Extractor {
	return &Extractor{now: time.Now}
}

// Run extracts a RawArticle from raw HTML. It never fails for missing fields;
// only HTML that cannot be parsed yields a *ParseError.
func (e *Extractor) Run(html []byte, sourceURL, categoryHint string) (*article.RawArticle, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: sourceURL, Err: err}
	}

	base, _ := url.Parse(sourceURL)

	raw := &article.RawArticle{
		SourceURL:        sourceURL,
		Title:            e.extractTitle(doc),
		SummaryText:      e.extractSummary(doc),
		AuthorName:       e.extractAuthor(doc),
		ImageURL:         e.extractImage(doc, base),
		PublishedAt:      e.extractPublishedAt(doc),
		CategorySlugHint: categoryHint,
	}

	raw.BodyText = e.extractBody(doc, html, base)
	if raw.BodyText == "" && raw.SummaryText != "" {
		raw.BodyText = raw.SummaryText
	}

	return raw, nil
}

// extractTitle: known article-title classes, then any h1, then the document
// title with a trailing " | ..." site suffix stripped, then the literal
// fallback.
func (e *Extractor) extractTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if text := cleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	if text := cleanText(doc.Find("h1").First().Text()); text != "" {
		return text
	}
	if text := cleanText(doc.Find("title").First().Text()); text != "" {
		if idx := strings.Index(text, " | "); idx > 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if text != "" {
			return text
		}
	}
	return FallbackTitle
}

func (e *Extractor) extractSummary(doc *goquery.Document) string {
	if content := metaContent(doc, `meta[property="og:description"]`); content != "" {
		return content
	}
	if content := metaContent(doc, `meta[name="description"]`); content != "" {
		return content
	}
	for _, sel := range summarySelectors {
		if text := cleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func (e *Extractor) extractAuthor(doc *goquery.Document) string {
	for _, sel := range authorSelectors {
		if text := cleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	if content := metaContent(doc, `meta[name="author"]`); content != "" {
		return content
	}
	return "Unknown"
}

// extractPublishedAt walks the date sources in priority order; the first
// value dateparse accepts wins. With no parsable date the extraction time is
// used, a low-confidence value callers should not treat as authoritative.
func (e *Extractor) extractPublishedAt(doc *goquery.Document) time.Time {
	candidates := []string{
		metaContent(doc, `meta[property="article:published_time"]`),
		metaContent(doc, `meta[property="og:updated_time"]`),
	}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, dt)
	}
	candidates = append(candidates, cleanText(doc.Find(".date-time, .detail-time, .article-date").First().Text()))

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if t, err := dateparse.ParseAny(candidate); err == nil {
			return t
		}
	}
	return e.now()
}

func (e *Extractor) extractImage(doc *goquery.Document, base *url.URL) string {
	if content := metaContent(doc, `meta[property="og:image"]`); content != "" {
		return resolveURL(base, content)
	}
	if content := metaContent(doc, `meta[name="twitter:image"]`); content != "" {
		return resolveURL(base, content)
	}

	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		for _, hint := range imagePathHints {
			if strings.Contains(src, hint) {
				found = src
				return false
			}
		}
		return true
	})
	if found != "" {
		return resolveURL(base, found)
	}
	return ""
}

// extractBody locates the first matching article-body container, strips the
// denylist, and collapses the remainder to plain text. When no container
// matches, readability gets a chance before the raw <body> fallback.
func (e *Extractor) extractBody(doc *goquery.Document, html []byte, base *url.URL) string {
	var container *goquery.Selection
	for _, sel := range bodySelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			container = s
			break
		}
	}

	if container == nil {
		if text := e.readabilityText(html, base); text != "" {
			return truncate(text, maxBodyLen)
		}
		container = doc.Find("body").First()
		if container.Length() == 0 {
			return ""
		}
	}

	clone := container.Clone()
	for _, sel := range removeSelectors {
		clone.Find(sel).Remove()
	}

	return truncate(cleanText(clone.Text()), maxBodyLen)
}

func (e *Extractor) readabilityText(html []byte, base *url.URL) string {
	art, err := readability.FromReader(bytes.NewReader(html), base)
	if err != nil {
		return ""
	}
	return cleanText(art.TextContent)
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary so multi-byte Vietnamese text stays valid.
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
