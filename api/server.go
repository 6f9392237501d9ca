package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/docutag/analyzer"
	"github.com/docutag/analyzer/article"
	"github.com/docutag/analyzer/db"
	"github.com/docutag/analyzer/metrics"
	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/storage"
	"github.com/docutag/analyzer/summarizer"
	"github.com/docutag/analyzer/textutil"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ReportStore persists analysis reports
type ReportStore interface {
	SaveReport(ctx context.Context, report *models.BiasReport, archiveKey string) error
	GetReport(ctx context.Context, id string) (*models.BiasReport, error)
	ArchiveKey(ctx context.Context, id string) (string, error)
	ListReports(ctx context.Context, limit, offset int) ([]models.ReportSummary, error)
	CountReports(ctx context.Context) (int, error)
	DeleteReport(ctx context.Context, id string) (string, error)
}

// ArticleFetcher downloads and extracts a single article
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*models.Article, error)
}

// NewsSource serves cached feed articles
type NewsSource interface {
	Articles(ctx context.Context) ([]models.Article, error)
	Refresh(ctx context.Context) ([]models.Article, error)
	LastRefresh() time.Time
}

// Server represents the API server
type Server struct {
	analyzer    *analyzer.Analyzer
	extractive  *summarizer.Extractive
	abstractive summarizer.Abstractive
	articles    ArticleFetcher
	news        NewsSource
	store       ReportStore
	archive     storage.Archive
	metrics     *metrics.Metrics
	logger      *slog.Logger

	addr        string
	server      *http.Server
	mux         *http.ServeMux
	corsEnabled bool
}

// Config contains server configuration. Only Analyzer is required;
// nil components disable the routes that depend on them.
type Config struct {
	Addr        string
	CORSEnabled bool

	Analyzer    *analyzer.Analyzer
	Extractive  *summarizer.Extractive
	Abstractive summarizer.Abstractive
	Articles    ArticleFetcher
	News        NewsSource
	Store       ReportStore
	Archive     storage.Archive
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		CORSEnabled: true,
	}
}

// NewServer creates a new API server
func NewServer(config Config) (*Server, error) {
	if config.Analyzer == nil {
		return nil, errors.New("analyzer is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Extractive == nil {
		config.Extractive = summarizer.NewExtractive(logger)
	}
	if config.Abstractive == nil {
		config.Abstractive = summarizer.Unavailable{}
	}

	s := &Server{
		analyzer:    config.Analyzer,
		extractive:  config.Extractive,
		abstractive: config.Abstractive,
		articles:    config.Articles,
		news:        config.News,
		store:       config.Store,
		archive:     config.Archive,
		metrics:     config.Metrics,
		logger:      logger,
		addr:        config.Addr,
		mux:         http.NewServeMux(),
		corsEnabled: config.CORSEnabled,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // Article fetches and model calls
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/bias-types", s.handleBiasTypes)
	s.mux.HandleFunc("/api/summarize/extractive", s.handleExtractive)
	s.mux.HandleFunc("/api/summarize/abstractive", s.handleAbstractive)
	s.mux.HandleFunc("/api/summarize/batch", s.handleBatchSummarize)
	s.mux.HandleFunc("/api/categorize", s.handleCategorize)
	s.mux.HandleFunc("/api/article/scrape", s.handleScrape)
	s.mux.HandleFunc("/api/article/stats", s.handleStats)
	s.mux.HandleFunc("/api/news", s.handleNews)
	s.mux.HandleFunc("/api/news/refresh", s.handleNewsRefresh)
	s.mux.HandleFunc("/api/reports", s.handleListReports)
	s.mux.HandleFunc("/api/reports/{id}", s.handleReport)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.middleware(s.mux), "analyzer-api")
}

// Start starts the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// middleware applies CORS, request logging and HTTP metrics
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, r.Method, rec.status, elapsed)
		}

		// Skip health checks and scrapes to reduce noise
		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			s.logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", elapsed,
			)
		}
	})
}

// handleHealth returns server health and optional feature availability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"time":    time.Now(),
		"features": map[string]bool{
			"sentiment":   s.analyzer.SentimentAvailable(),
			"abstractive": s.abstractive.Available(),
			"articles":    s.articles != nil,
			"news":        s.news != nil,
			"database":    s.store != nil,
			"archive":     s.archive != nil,
		},
	}

	if s.store != nil {
		count, err := s.store.CountReports(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to get count")
			return
		}
		resp["reports"] = count
	}

	respondJSON(w, http.StatusOK, resp)
}

// AnalyzeRequest represents a bias analysis request
type AnalyzeRequest struct {
	Text          string   `json:"text"`
	AnalysisTypes []string `json:"analysis_types"`
	Language      string   `json:"language"` // Only "en" lexicons exist; accepted for compatibility
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := analyzer.ValidateText(req.Text); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AnalysisTypes == nil {
		req.AnalysisTypes = []string{analyzer.AllTypes}
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Text, req.AnalysisTypes)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	s.persistReport(r.Context(), report)
	respondJSON(w, http.StatusOK, report)
}

// persistReport archives and stores a report when those backends are
// configured. Failures are logged; the caller still gets the report.
func (s *Server) persistReport(ctx context.Context, report *models.BiasReport) {
	var archiveKey string
	if s.archive != nil {
		key, err := storage.SaveReport(ctx, s.archive, report)
		if err != nil {
			s.logger.Error("failed to archive report", "text_id", report.TextID, "error", err)
		} else {
			archiveKey = key
		}
	}

	if s.store != nil {
		if err := s.store.SaveReport(ctx, report, archiveKey); err != nil {
			s.logger.Error("failed to save report", "text_id", report.TextID, "error", err)
		}
	}
}

func (s *Server) handleBiasTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"available_types": analyzer.AvailableTypes(),
		"descriptions":    analyzer.Descriptions,
	})
}

// SummarizeRequest represents a summarization request
type SummarizeRequest struct {
	Text         string `json:"text"`
	NumSentences int    `json:"num_sentences"`
	MaxLength    int    `json:"max_length"`
	MinLength    int    `json:"min_length"`
}

func (s *Server) handleExtractive(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSummarize(w, r)
	if !ok {
		return
	}

	n := req.NumSentences
	if n <= 0 {
		n = summarizer.DefaultSentences
	}

	summary := s.extractive.Summarize(req.Text, n)
	s.summaryGenerated("extractive")
	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleAbstractive(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSummarize(w, r)
	if !ok {
		return
	}

	summary := s.abstractive.Summarize(r.Context(), req.Text, summarizer.Options{
		MaxLength: req.MaxLength,
		MinLength: req.MinLength,
	})
	if s.abstractive.Available() {
		s.summaryGenerated("abstractive")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summary":   summary,
		"available": s.abstractive.Available(),
	})
}

func decodeSummarize(w http.ResponseWriter, r *http.Request) (SummarizeRequest, bool) {
	var req SummarizeRequest
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return req, false
	}
	return req, true
}

// BatchSummarizeRequest summarizes the description of each article.
// Articles are passed through with a summary field added.
type BatchSummarizeRequest struct {
	Articles     []map[string]interface{} `json:"articles"`
	NumSentences int                      `json:"num_sentences"`
}

func (s *Server) handleBatchSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req BatchSummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n := req.NumSentences
	if n <= 0 {
		n = summarizer.DefaultSentences
	}

	out := make([]map[string]interface{}, 0, len(req.Articles))
	for _, a := range req.Articles {
		description, _ := a["description"].(string)
		summarized := make(map[string]interface{}, len(a)+1)
		for k, v := range a {
			summarized[k] = v
		}
		summarized["summary"] = s.extractive.Summarize(description, n)
		out = append(out, summarized)
		s.summaryGenerated("extractive")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"summarized_articles": out,
	})
}

// CategorizeRequest represents a categorization request
type CategorizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"category": analyzer.Categorize(req.Title, req.Description),
	})
}

// ScrapeRequest represents an article scrape request
type ScrapeRequest struct {
	URL          string `json:"url"`
	Analyze      bool   `json:"analyze"` // Also run the full bias analysis
	NumSentences int    `json:"num_sentences"`
}

// ScrapeResponse is an extracted article with optional full analysis
type ScrapeResponse struct {
	Article      *models.Article    `json:"article"`
	BiasAnalysis *models.BiasReport `json:"bias_analysis,omitempty"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.articles == nil {
		respondError(w, http.StatusServiceUnavailable, "article extraction not configured")
		return
	}

	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	a, err := s.articles.Fetch(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, article.ErrInvalidURL) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("scraping failed: %v", err))
		return
	}

	if a.Category == "" {
		a.Category = analyzer.Categorize(a.Title, a.Description)
	}
	quick := analyzer.QuickScore(a.Title + " " + a.Content)
	a.BiasScore, a.BiasTypes = quick.Score, quick.Types

	n := req.NumSentences
	if n <= 0 {
		n = summarizer.DefaultSentences
	}
	a.Summary = s.extractive.Summarize(a.Content, n)
	s.summaryGenerated("extractive")

	resp := ScrapeResponse{Article: a}
	if req.Analyze {
		report, err := s.analyzer.Analyze(r.Context(), truncateRunes(a.Content, analyzer.MaxTextLength), []string{analyzer.AllTypes})
		if err != nil {
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %v", err))
			return
		}
		s.persistReport(r.Context(), report)
		resp.BiasAnalysis = report
	}

	respondJSON(w, http.StatusOK, resp)
}

// StatsRequest represents a readability statistics request
type StatsRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats": textutil.Stats(req.Text),
	})
}

// handleNews returns cached feed articles, optionally filtered by category
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.news == nil {
		respondError(w, http.StatusServiceUnavailable, "news feeds not configured")
		return
	}

	articles, err := s.news.Articles(r.Context())
	if err != nil {
		s.logger.Error("failed to load news", "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch news")
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		filtered := make([]models.Article, 0, len(articles))
		for _, a := range articles {
			if strings.EqualFold(a.Category, category) {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}
	if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"articles":     articles,
		"total":        len(articles),
		"last_updated": s.news.LastRefresh(),
	})
}

func (s *Server) handleNewsRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.news == nil {
		respondError(w, http.StatusServiceUnavailable, "news feeds not configured")
		return
	}

	articles, err := s.news.Refresh(r.Context())
	if err != nil {
		s.logger.Error("failed to refresh news", "error", err)
		respondError(w, http.StatusBadGateway, "failed to refresh news")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "News refreshed successfully",
		"total":   len(articles),
	})
}

// handleListReports lists stored reports with pagination
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "report storage not configured")
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	reports, err := s.store.ListReports(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	count, err := s.store.CountReports(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   count,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleReport handles GET and DELETE of a stored report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "report storage not configured")
		return
	}

	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		report, err := s.store.GetReport(r.Context(), id)
		if errors.Is(err, db.ErrCorruptReport) {
			if archived, aerr := s.archivedReport(r.Context(), id); aerr == nil {
				s.logger.Warn("stored report is corrupt, served archived copy", "id", id, "error", err)
				report, err = archived, nil
			} else {
				s.logger.Error("stored report is corrupt and no archived copy is readable", "id", id, "error", aerr)
			}
		}
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "database error")
			return
		}
		respondJSON(w, http.StatusOK, report)

	case http.MethodDelete:
		archiveKey, err := s.store.DeleteReport(r.Context(), id)
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to delete report")
			return
		}
		if archiveKey != "" && s.archive != nil {
			if err := s.archive.Delete(r.Context(), archiveKey); err != nil {
				s.logger.Warn("failed to delete archived report", "key", archiveKey, "error", err)
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "report deleted successfully",
		})

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// archivedReport reads a report's archived copy via the key the store
// recorded for it
func (s *Server) archivedReport(ctx context.Context, id string) (*models.BiasReport, error) {
	if s.archive == nil {
		return nil, errors.New("report archive not configured")
	}
	key, err := s.store.ArchiveKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.New("report was not archived")
	}
	return storage.ReadReport(ctx, s.archive, key)
}

func (s *Server) summaryGenerated(method string) {
	if s.metrics != nil {
		s.metrics.SummaryGenerated(method)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// truncateRunes cuts s to at most n runes
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
