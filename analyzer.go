// Package analyzer scores news text for editorial and linguistic bias.
//
// An Analyzer runs a fixed set of lexicon and sentiment detectors over a
// text concurrently and combines their confidences into a BiasReport. It
// holds no mutable state between calls and is safe for concurrent use.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/sentiment"
	"github.com/docutag/analyzer/textutil"
)

// MaxTextLength is the largest input, in characters, the service accepts
const MaxTextLength = 10000

var (
	// ErrAnalysisFailed wraps any detector failure. No partial report is returned.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrEmptyText is returned by ValidateText for blank input
	ErrEmptyText = errors.New("text is required")

	// ErrTextTooLong is returned by ValidateText for input over MaxTextLength
	ErrTextTooLong = fmt.Errorf("text exceeds %d characters", MaxTextLength)
)

var tracer = otel.Tracer("github.com/docutag/analyzer")

// DetectorKind enumerates the bias detectors. The numeric order is the
// canonical order of results in a report.
type DetectorKind int

const (
	KindGender DetectorKind = iota
	KindConfirmation
	KindRacial
	KindLoadedLanguage
	KindSentiment
)

// AllKinds lists every detector in canonical order
var AllKinds = []DetectorKind{KindGender, KindConfirmation, KindRacial, KindLoadedLanguage, KindSentiment}

// AllTypes is the request sentinel selecting every detector
const AllTypes = "all"

var kindNames = map[DetectorKind]models.BiasType{
	KindGender:         models.BiasGender,
	KindConfirmation:   models.BiasConfirmation,
	KindRacial:         models.BiasRacial,
	KindLoadedLanguage: models.BiasLoadedLanguage,
	KindSentiment:      models.BiasSentiment,
}

// Descriptions explains each detector for API consumers
var Descriptions = map[string]string{
	string(models.BiasGender):         "Detects gender-coded language that may bias against certain genders",
	string(models.BiasConfirmation):   "Identifies language that assumes agreement or presents opinion as fact",
	string(models.BiasRacial):         "Flags potentially problematic racial/ethnic descriptors",
	string(models.BiasLoadedLanguage): "Detects emotionally charged or prejudicial terms",
	string(models.BiasSentiment):      "Analyzes extreme sentiment that might indicate bias",
	AllTypes:                          "Runs all available bias detection types",
}

// String returns the wire name of the kind
func (k DetectorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return string(name)
	}
	return fmt.Sprintf("DetectorKind(%d)", int(k))
}

// ParseKind resolves a wire name to a detector kind
func ParseKind(name string) (DetectorKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if string(n) == name {
			return k, true
		}
	}
	return 0, false
}

// ParseKinds resolves requested type names to kinds in canonical order.
// "all" selects every kind, duplicates collapse and unknown names are
// ignored. An empty request selects nothing.
func ParseKinds(names []string) []DetectorKind {
	selected := make(map[DetectorKind]bool)
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), AllTypes) {
			return append([]DetectorKind(nil), AllKinds...)
		}
		if k, ok := ParseKind(name); ok {
			selected[k] = true
		}
	}

	kinds := make([]DetectorKind, 0, len(selected))
	for _, k := range AllKinds {
		if selected[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// AvailableTypes returns the detector names plus the "all" sentinel
func AvailableTypes() []string {
	types := make([]string, 0, len(AllKinds)+1)
	for _, k := range AllKinds {
		types = append(types, k.String())
	}
	return append(types, AllTypes)
}

// Recorder receives analysis measurements. The metrics package provides
// a Prometheus implementation.
type Recorder interface {
	ObserveAnalysis(duration time.Duration, overallScore float64)
	ObserveDetector(biasType string, confidence float64)
	AnalysisFailed()
}

// Config contains analyzer configuration
type Config struct {
	Sentiment sentiment.Model // nil disables sentiment scoring
	Logger    *slog.Logger
	Recorder  Recorder
}

// DefaultConfig returns an analyzer configuration with the built-in
// sentiment lexicon
func DefaultConfig() Config {
	return Config{
		Sentiment: sentiment.NewLexicon(),
	}
}

// Analyzer runs bias detectors over text
type Analyzer struct {
	registry map[DetectorKind]DetectorFunc
	logger   *slog.Logger
	recorder Recorder
	hasModel bool
}

// New creates an Analyzer
func New(config Config) *Analyzer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Sentiment == nil {
		logger.Warn("sentiment model not configured, sentiment detector will report zero confidence")
	}

	return &Analyzer{
		registry: map[DetectorKind]DetectorFunc{
			KindGender:         detectGender,
			KindConfirmation:   detectConfirmation,
			KindRacial:         detectRacial,
			KindLoadedLanguage: detectLoadedLanguage,
			KindSentiment:      sentimentDetector(config.Sentiment),
		},
		logger:   logger,
		recorder: config.Recorder,
		hasModel: config.Sentiment != nil,
	}
}

// SentimentAvailable reports whether a sentiment model is configured
func (a *Analyzer) SentimentAvailable() bool {
	return a.hasModel
}

// ValidateText enforces the accepted input length of 1 to MaxTextLength
// characters. The analyzer itself accepts any text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// Analyze runs the requested detectors over text and aggregates their
// results. Results follow the canonical detector order regardless of
// completion order. Empty text yields zero confidence everywhere.
func (a *Analyzer) Analyze(ctx context.Context, text string, types []string) (*models.BiasReport, error) {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "analyzer.Analyze")
	defer span.End()

	kinds := ParseKinds(types)
	span.SetAttributes(
		attribute.Int("analyzer.text_length", len(text)),
		attribute.Int("analyzer.detectors", len(kinds)),
	)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	in := Input{Raw: text, Normalized: textutil.Normalize(text)}

	results, err := a.runDetectors(ctx, kinds, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if a.recorder != nil {
			a.recorder.AnalysisFailed()
		}
		a.logger.Error("bias analysis failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	elapsed := time.Since(start)
	report := &models.BiasReport{
		TextID:           "analysis_" + uuid.NewString(),
		Timestamp:        start,
		OverallBiasScore: round(OverallScore(results), 3),
		BiasResults:      results,
		WordCount:        textutil.WordCount(text),
		ProcessingTimeMS: round(float64(elapsed.Microseconds())/1000.0, 2),
	}

	if a.recorder != nil {
		a.recorder.ObserveAnalysis(elapsed, report.OverallBiasScore)
		for _, r := range results {
			a.recorder.ObserveDetector(string(r.BiasType), r.Confidence)
		}
	}

	span.SetAttributes(attribute.Float64("analyzer.overall_score", report.OverallBiasScore))
	a.logger.Debug("bias analysis complete",
		"text_id", report.TextID,
		"overall_score", report.OverallBiasScore,
		"word_count", report.WordCount,
		"duration", elapsed,
	)

	return report, nil
}

// runDetectors fans out one goroutine per kind and joins them. A panic in
// a detector becomes an error, and any error fails the whole run.
func (a *Analyzer) runDetectors(ctx context.Context, kinds []DetectorKind, in Input) ([]models.BiasResult, error) {
	for _, kind := range kinds {
		if _, ok := a.registry[kind]; !ok {
			return nil, fmt.Errorf("no detector registered for %s", kind)
		}
	}

	results := make([]models.BiasResult, len(kinds))
	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range kinds {
		fn := a.registry[kind]
		g.Go(func() (err error) {
			_, span := tracer.Start(gctx, "detector."+kind.String())
			defer span.End()

			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("detector %s panicked: %v", kind, r)
				}
			}()

			res, err := fn(in)
			if err != nil {
				return fmt.Errorf("detector %s: %w", kind, err)
			}
			span.SetAttributes(attribute.Float64("detector.confidence", res.Confidence))
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// OverallScore is the arithmetic mean of the result confidences, or 0 for
// no results
func OverallScore(results []models.BiasResult) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Confidence
	}
	return sum / float64(len(results))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
