package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docutag/analyzer"
	"github.com/docutag/analyzer/api"
	"github.com/docutag/analyzer/article"
	"github.com/docutag/analyzer/db"
	"github.com/docutag/analyzer/feed"
	"github.com/docutag/analyzer/metrics"
	"github.com/docutag/analyzer/sentiment"
	"github.com/docutag/analyzer/storage"
	"github.com/docutag/analyzer/summarizer"
	"github.com/docutag/analyzer/tracing"
)

const serviceName = "news-bias-analyzer"

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration variable, falling back on error
func getDuration(logger *slog.Logger, key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default", "key", key, "provided", raw, "default", defaultValue)
		return defaultValue
	}
	return d
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = slog.LevelInfo
		}
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// initTracing installs the OTLP tracer when an endpoint is configured and
// returns its shutdown func. A missing endpoint is the normal local setup.
func initTracing(ctx context.Context, logger *slog.Logger, cfg tracing.Config) func() {
	tp, err := tracing.InitTracer(ctx, cfg)
	switch {
	case errors.Is(err, tracing.ErrNoEndpoint):
		logger.Info("tracing disabled, OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return func() {}
	case err != nil:
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		return func() {}
	}

	logger.Info("tracing initialized successfully", "endpoint", cfg.Endpoint)
	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("error shutting down tracer", "error", err)
		}
	}
}

func main() {
	// .env is optional; real environment variables take precedence
	envErr := godotenv.Load()

	logger := newLogger()
	slog.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", envErr)
	}

	logger.Info("analyzer service initializing", "version", api.Version)

	port := flag.String("port", getEnv("PORT", "8080"), "Server port")
	feedsPath := flag.String("feeds", getEnv("FEEDS_CONFIG", "configs/feeds.yaml"), "Path to the feeds YAML file")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	ctx := context.Background()

	shutdownTracing := initTracing(ctx, logger, tracing.ConfigFromEnv(serviceName))
	defer shutdownTracing()

	m := metrics.New("analyzer")

	config := api.DefaultConfig()
	config.Addr = ":" + *port
	config.CORSEnabled = !*disableCORS
	config.Logger = logger
	config.Metrics = m
	config.Analyzer = analyzer.New(analyzer.Config{
		Sentiment: sentiment.NewLexicon(),
		Logger:    logger,
		Recorder:  m,
	})
	config.Extractive = summarizer.NewExtractive(logger)
	config.Abstractive = summarizer.NewAbstractive(summarizer.OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}, logger)
	config.Articles = article.New(article.DefaultConfig(), logger)

	// PostgreSQL report store (optional)
	var database *db.DB
	if dbHost := getEnv("DB_HOST", ""); dbHost != "" {
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "analyzer")
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, getEnv("DB_USER", "analyzer"), getEnv("DB_PASSWORD", "analyzer_dev_pass"), dbName)

		var err error
		database, err = db.New(db.Config{DSN: dsn, Logger: logger})
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := m.RegisterDB(database.DB(), dbName); err != nil {
			logger.Warn("failed to register database metrics", "error", err)
		}
		config.Store = database
		logger.Info("using PostgreSQL database", "host", dbHost, "port", dbPort, "database", dbName)
	} else {
		logger.Info("DB_HOST not set, report storage disabled")
	}

	// Report archive (optional)
	archive, err := storage.Open(ctx, storage.Config{
		Backend:  getEnv("STORAGE_BACKEND", storage.BackendNone),
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		S3: storage.S3Config{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          os.Getenv("S3_BUCKET"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			UsePathStyle:    os.Getenv("S3_ENDPOINT") != "",
		},
	})
	if err != nil {
		logger.Error("failed to initialize report archive", "error", err)
		os.Exit(1)
	}
	if archive != nil {
		config.Archive = archive
		logger.Info("report archive enabled", "backend", archive.Backend())
	}

	// News feeds (optional)
	var news *feed.Service
	sources, err := feed.LoadSources(*feedsPath)
	if err != nil {
		logger.Warn("news feeds disabled", "path", *feedsPath, "error", err)
	} else {
		feedConfig := feed.DefaultConfig()
		feedConfig.Sources = sources
		feedConfig.CacheTTL = getDuration(logger, "NEWS_CACHE_TTL", feedConfig.CacheTTL)
		feedConfig.RefreshSchedule = getEnv("FEED_REFRESH_SCHEDULE", feedConfig.RefreshSchedule)

		news = feed.NewService(feedConfig, m, logger)
		if err := news.Start(); err != nil {
			logger.Error("failed to schedule feed refresh", "error", err)
			os.Exit(1)
		}
		defer news.Stop()
		config.News = news
	}

	server, err := api.NewServer(config)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Start server in a goroutine
	go func() {
		logger.Info("analyzer service starting",
			"port", *port,
			"database_enabled", database != nil,
			"archive_enabled", archive != nil,
			"news_enabled", news != nil,
		)

		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
