// Package feed ingests news from RSS and Atom feeds and tags each item
// with a category, a keyword bias score and a short extractive summary.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmcdole/gofeed"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/docutag/analyzer"
	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/summarizer"
	"github.com/docutag/analyzer/textutil"
)

// ErrAllFeedsFailed is returned when no configured feed could be fetched
var ErrAllFeedsFailed = errors.New("all feeds failed")

const (
	cacheKey        = "articles"
	summarySentence = 2
)

// Recorder receives refresh outcomes
type Recorder interface {
	FeedRefreshed(articles int, err error)
}

// Config contains feed service configuration
type Config struct {
	Sources         []Source
	CacheTTL        time.Duration
	RefreshSchedule string // cron spec, e.g. "@every 5m"; empty disables
	MaxPerFeed      int    // Items kept per feed; 0 keeps all
	Concurrency     int
	HTTPTimeout     time.Duration
	UserAgent       string
}

// DefaultConfig returns default feed configuration
func DefaultConfig() Config {
	return Config{
		CacheTTL:        5 * time.Minute,
		RefreshSchedule: "@every 5m",
		MaxPerFeed:      20,
		Concurrency:     4,
		HTTPTimeout:     20 * time.Second,
		UserAgent:       "Mozilla/5.0 (compatible; BiasAnalyzer/1.0)",
	}
}

// Service fetches feeds and caches the resulting articles
type Service struct {
	config     Config
	parser     *gofeed.Parser
	summarizer *summarizer.Extractive
	cache      *expirable.LRU[string, []models.Article]
	group      singleflight.Group
	cron       *cron.Cron
	recorder   Recorder
	logger     *slog.Logger

	mu          sync.RWMutex
	lastRefresh time.Time
}

// NewService creates a feed service. recorder may be nil.
func NewService(config Config, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	parser := gofeed.NewParser()
	parser.UserAgent = config.UserAgent
	parser.Client = &http.Client{
		Timeout:   config.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &Service{
		config:     config,
		parser:     parser,
		summarizer: summarizer.NewExtractive(logger),
		cache:      expirable.NewLRU[string, []models.Article](1, nil, config.CacheTTL),
		recorder:   recorder,
		logger:     logger,
	}
}

// Articles returns cached articles, refreshing when the cache is empty or expired
func (s *Service) Articles(ctx context.Context) ([]models.Article, error) {
	if articles, ok := s.cache.Get(cacheKey); ok {
		return articles, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches every feed and replaces the cache. Concurrent callers
// share one fetch.
func (s *Service) Refresh(ctx context.Context) ([]models.Article, error) {
	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		articles, err := s.fetchAll(ctx)
		if s.recorder != nil {
			s.recorder.FeedRefreshed(len(articles), err)
		}
		if err != nil {
			return nil, err
		}

		s.cache.Add(cacheKey, articles)
		s.mu.Lock()
		s.lastRefresh = time.Now()
		s.mu.Unlock()
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Article), nil
}

// LastRefresh reports when the cache was last filled
func (s *Service) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Start schedules periodic refreshes
func (s *Service) Start() error {
	if s.config.RefreshSchedule == "" {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.config.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Warn("scheduled feed refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.config.RefreshSchedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("feed refresh scheduled", "schedule", s.config.RefreshSchedule, "feeds", len(s.config.Sources))
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Service) fetchAll(ctx context.Context) ([]models.Article, error) {
	if len(s.config.Sources) == 0 {
		return []models.Article{}, nil
	}

	var (
		mu       sync.Mutex
		articles []models.Article
		failures int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, src := range s.config.Sources {
		src := src
		g.Go(func() error {
			items, err := s.fetchSource(gctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				s.logger.Warn("feed fetch failed", "feed", src.Name, "url", src.URL, "error", err)
				return nil
			}
			articles = append(articles, items...)
			s.logger.Info("feed fetched", "feed", src.Name, "items", len(items))
			return nil
		})
	}
	_ = g.Wait()

	if failures == len(s.config.Sources) {
		return nil, ErrAllFeedsFailed
	}

	articles = dedupe(articles)
	sort.SliceStable(articles, func(i, j int) bool {
		return publishedAfter(articles[i], articles[j])
	})
	return articles, nil
}

func (s *Service) fetchSource(ctx context.Context, src Source) ([]models.Article, error) {
	f, err := s.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, err
	}

	items := f.Items
	if s.config.MaxPerFeed > 0 && len(items) > s.config.MaxPerFeed {
		items = items[:s.config.MaxPerFeed]
	}

	now := time.Now()
	out := make([]models.Article, 0, len(items))
	for _, item := range items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		out = append(out, s.toArticle(item, src, now))
	}
	return out, nil
}

// toArticle tags a feed item with category, keyword bias and summary
func (s *Service) toArticle(item *gofeed.Item, src Source, fetched time.Time) models.Article {
	title := textutil.CollapseSpace(item.Title)
	description := stripHTML(item.Description)
	content := stripHTML(item.Content)

	body := content
	if body == "" {
		body = description
	}
	quick := analyzer.QuickScore(title + " " + body)

	a := models.Article{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Content:     content,
		URL:         item.Link,
		Source:      src.Name,
		Category:    analyzer.Categorize(title, description),
		BiasScore:   quick.Score,
		BiasTypes:   quick.Types,
		ScrapedAt:   fetched,
		PublishedAt: item.PublishedParsed,
	}
	if a.PublishedAt == nil {
		a.PublishedAt = item.UpdatedParsed
	}
	if item.Author != nil {
		a.Author = item.Author.Name
	}
	if body != "" {
		a.Summary = s.summarizer.Summarize(body, summarySentence)
	}
	return a
}

// stripHTML returns the collapsed text of an HTML fragment
func stripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return textutil.CollapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return textutil.CollapseSpace(fragment)
	}
	return textutil.CollapseSpace(doc.Text())
}

func dedupe(articles []models.Article) []models.Article {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0]
	for _, a := range articles {
		key := a.URL
		if key == "" {
			key = a.Source + "|" + a.Title
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// publishedAfter orders newest first; undated items sort last
func publishedAfter(a, b models.Article) bool {
	switch {
	case a.PublishedAt == nil:
		return false
	case b.PublishedAt == nil:
		return true
	default:
		return a.PublishedAt.After(*b.PublishedAt)
	}
}
