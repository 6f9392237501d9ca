package models

import "time"

// BiasType identifies the detector that produced a BiasResult
type BiasType string

const (
	BiasGender         BiasType = "gender"
	BiasConfirmation   BiasType = "confirmation"
	BiasRacial         BiasType = "racial"
	BiasLoadedLanguage BiasType = "loaded_language"
	BiasSentiment      BiasType = "sentiment"
)

// Severity is the tier derived from a detector confidence
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// BiasResult is the output of a single detector run
type BiasResult struct {
	BiasType    BiasType `json:"bias_type"`
	Confidence  float64  `json:"confidence"`  // 0.0 - 1.0
	Evidence    []string `json:"evidence"`    // Human-readable matches or measurements
	Suggestions []string `json:"suggestions"` // Static remediation advice for the bias type
	Severity    Severity `json:"severity"`
}

// BiasReport aggregates all detector results for one analysis request
type BiasReport struct {
	TextID           string       `json:"text_id"`
	Timestamp        time.Time    `json:"timestamp"`
	OverallBiasScore float64      `json:"overall_bias_score"` // Mean of result confidences
	BiasResults      []BiasResult `json:"bias_results"`       // Canonical detector order
	WordCount        int          `json:"word_count"`         // Whitespace tokens of the raw input
	ProcessingTimeMS float64      `json:"processing_time_ms"`
}

// Result returns the result for the given bias type, if present
func (r *BiasReport) Result(t BiasType) (BiasResult, bool) {
	for _, res := range r.BiasResults {
		if res.BiasType == t {
			return res, true
		}
	}
	return BiasResult{}, false
}

// ReportSummary is a listing entry for stored reports
type ReportSummary struct {
	TextID           string    `json:"text_id"`
	OverallBiasScore float64   `json:"overall_bias_score"`
	WordCount        int       `json:"word_count"`
	CreatedAt        time.Time `json:"created_at"`
	ArchiveKey       string    `json:"archive_key,omitempty"` // Object key of the archived JSON report
}

// ArticleStats contains basic readability statistics for a text
type ArticleStats struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	ReadingEase       float64 `json:"reading_ease"` // Flesch reading ease
}

// Article represents an extracted or ingested news article
type Article struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Content     string        `json:"content,omitempty"`
	URL         string        `json:"url"`
	Source      string        `json:"source,omitempty"`
	Author      string        `json:"author,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	Category    string        `json:"category"`
	Summary     string        `json:"summary,omitempty"`
	BiasScore   float64       `json:"bias_score"`
	BiasTypes   []string      `json:"bias_types"`
	ScrapedAt   time.Time     `json:"scraped_at"`
	Stats       *ArticleStats `json:"stats,omitempty"`
}

// QuickBias is the result of keyword-only bias tagging
type QuickBias struct {
	Score float64  `json:"bias_score"`
	Types []string `json:"bias_types"`
}
