// Package metrics exposes Prometheus instrumentation for the analyzer service.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal      prometheus.Counter
	analysisFailures   prometheus.Counter
	analysisDuration   prometheus.Histogram
	overallScore       prometheus.Histogram
	detectorConfidence *prometheus.HistogramVec
	summariesTotal     *prometheus.CounterVec
	feedRefreshes      *prometheus.CounterVec
	feedArticles       prometheus.Gauge
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates and registers the service metrics under namespace
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scoreBuckets := prometheus.LinearBuckets(0, 0.1, 11)

	m := &Metrics{
		registry: reg,
		analysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed bias analyses.",
		}),
		analysisFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Bias analyses that failed.",
		}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent running bias detectors.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		overallScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_bias_score",
			Help:      "Distribution of overall bias scores.",
			Buckets:   scoreBuckets,
		}),
		detectorConfidence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detector_confidence",
			Help:      "Distribution of detector confidences.",
			Buckets:   scoreBuckets,
		}, []string{"bias_type"}),
		summariesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Generated summaries by method.",
		}, []string{"method"}),
		feedRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_refreshes_total",
			Help:      "News feed refreshes by outcome.",
		}, []string{"status"}),
		feedArticles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_articles",
			Help:      "Articles in the most recent feed refresh.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.analysesTotal,
		m.analysisFailures,
		m.analysisDuration,
		m.overallScore,
		m.detectorConfidence,
		m.summariesTotal,
		m.feedRefreshes,
		m.feedArticles,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// ObserveAnalysis records a completed analysis
func (m *Metrics) ObserveAnalysis(duration time.Duration, overallScore float64) {
	m.analysesTotal.Inc()
	m.analysisDuration.Observe(duration.Seconds())
	m.overallScore.Observe(overallScore)
}

// ObserveDetector records one detector's confidence
func (m *Metrics) ObserveDetector(biasType string, confidence float64) {
	m.detectorConfidence.WithLabelValues(biasType).Observe(confidence)
}

// AnalysisFailed counts a failed analysis
func (m *Metrics) AnalysisFailed() {
	m.analysisFailures.Inc()
}

// SummaryGenerated counts a summary produced by method
func (m *Metrics) SummaryGenerated(method string) {
	m.summariesTotal.WithLabelValues(method).Inc()
}

// FeedRefreshed records the outcome of a feed refresh
func (m *Metrics) FeedRefreshed(articles int, err error) {
	if err != nil {
		m.feedRefreshes.WithLabelValues("error").Inc()
		return
	}
	m.feedRefreshes.WithLabelValues("success").Inc()
	m.feedArticles.Set(float64(articles))
}

// ObserveHTTP records a served request
func (m *Metrics) ObserveHTTP(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RegisterDB exports connection pool statistics for db
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
