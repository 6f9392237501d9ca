// Package article fetches news pages and extracts their title, body text
// and metadata using generic selectors.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html"

	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/textutil"
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs
	ErrInvalidURL = errors.New("URL must be http or https")

	// ErrNoContent is returned when a page yields no text
	ErrNoContent = errors.New("no text content found")
)

// contentSelectors are tried in order; the first match supplies the body
var contentSelectors = []string{
	"article", ".article-content", ".post-content",
	".entry-content", ".content", "main", ".story-body",
	".article-body", ".post-body", ".entry-body",
}

// minParagraphChars is the shortest paragraph kept by the fallback
const minParagraphChars = 50

// Config contains extractor configuration
type Config struct {
	HTTPTimeout  time.Duration
	UserAgent    string
	MaxBodyBytes int64 // Maximum page size read
}

// DefaultConfig returns default extractor configuration
func DefaultConfig() Config {
	return Config{
		HTTPTimeout:  15 * time.Second,
		UserAgent:    "Mozilla/5.0 (compatible; BiasAnalyzer/1.0)",
		MaxBodyBytes: 5 * 1024 * 1024,
	}
}

// Extractor fetches and parses article pages
type Extractor struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an Extractor whose HTTP client propagates trace context
func New(config Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Fetch downloads targetURL and extracts the article
func (e *Extractor) Fetch(ctx context.Context, targetURL string) (*models.Article, error) {
	parsedURL, err := url.Parse(targetURL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return nil, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body := io.Reader(resp.Body)
	if e.config.MaxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, e.config.MaxBodyBytes)
	}

	a, err := Parse(body, targetURL)
	if err != nil {
		e.logger.Warn("article extraction failed", "url", targetURL, "error", err)
		return nil, err
	}

	e.logger.Info("article extracted", "url", targetURL, "words", a.Stats.WordCount)
	return a, nil
}

// Parse extracts an article from an HTML document
func Parse(r io.Reader, pageURL string) (*models.Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Title and metadata come first; body extraction removes page chrome
	// such as header, which can hold the h1.
	title := extractTitle(doc)
	meta := extractMetadata(doc)
	content := extractContent(doc)
	if content == "" {
		return nil, ErrNoContent
	}

	if title == "" {
		title = pageURL
	}

	stats := textutil.Stats(content)
	a := &models.Article{
		ID:          uuid.NewString(),
		Title:       title,
		Description: meta.description,
		Content:     content,
		URL:         pageURL,
		Source:      meta.siteName,
		Author:      meta.author,
		Category:    meta.section,
		ScrapedAt:   time.Now(),
		Stats:       &stats,
		BiasTypes:   []string{},
	}
	if t, ok := parseTime(meta.published); ok {
		a.PublishedAt = &t
	}
	if a.Source == "" {
		if u, err := url.Parse(pageURL); err == nil {
			a.Source = u.Hostname()
		}
	}

	return a, nil
}

// extractTitle returns the page title.
// Priority: og:title > twitter:title > h1 > title tag
func extractTitle(n *html.Node) string {
	var ogTitle, twitterTitle, h1Title, htmlTitle string

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				property, name, content := metaAttrs(n)
				if property == "og:title" && ogTitle == "" {
					ogTitle = content
				} else if name == "twitter:title" && twitterTitle == "" {
					twitterTitle = content
				}
			case "h1":
				if h1Title == "" {
					h1Title = nodeText(n)
				}
			case "title":
				if htmlTitle == "" && n.FirstChild != nil {
					htmlTitle = n.FirstChild.Data
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)

	for _, t := range []string{ogTitle, twitterTitle, h1Title, htmlTitle} {
		if t = textutil.CollapseSpace(t); t != "" {
			return t
		}
	}
	return ""
}

type pageMeta struct {
	description string
	author      string
	published   string
	section     string
	siteName    string
}

func extractMetadata(n *html.Node) pageMeta {
	var m pageMeta

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			property, name, content := metaAttrs(n)
			content = strings.TrimSpace(content)
			if content == "" {
				return
			}

			switch {
			case name == "description" || property == "og:description":
				setOnce(&m.description, content)
			case name == "author" || property == "article:author":
				setOnce(&m.author, content)
			case property == "article:published_time" || name == "publish-date" || name == "date":
				setOnce(&m.published, content)
			case property == "article:section" || name == "section":
				setOnce(&m.section, content)
			case property == "og:site_name":
				setOnce(&m.siteName, content)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)

	return m
}

// extractContent returns the whitespace-collapsed body text: the first
// generic article container, else long paragraphs, else the whole page.
func extractContent(root *html.Node) string {
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style, nav, header, footer, noscript").Remove()

	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if text := textutil.CollapseSpace(s.Text()); text != "" {
				return text
			}
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > minParagraphChars {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return textutil.CollapseSpace(strings.Join(paragraphs, " "))
	}

	return textutil.CollapseSpace(doc.Find("body").Text())
}

func metaAttrs(n *html.Node) (property, name, content string) {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "property":
			property = strings.ToLower(attr.Val)
		case "name":
			name = strings.ToLower(attr.Val)
		case "content":
			content = attr.Val
		}
	}
	return property, name, content
}

// nodeText joins the trimmed text of n and its descendants
func nodeText(n *html.Node) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(parts, " ")
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
