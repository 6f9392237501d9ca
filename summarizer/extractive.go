// Package summarizer produces extractive and abstractive summaries of
// article text.
package summarizer

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/docutag/analyzer/textutil"
)

const (
	// DefaultSentences is the summary length used when none is requested
	DefaultSentences = 3

	// NoTextMessage is returned when there is nothing to summarize
	NoTextMessage = "No text to summarize"
)

// Fallback describes which degenerate path produced a summary
type Fallback string

const (
	FallbackNone      Fallback = ""
	FallbackEmpty     Fallback = "empty_text"
	FallbackShortText Fallback = "short_text"
	FallbackNoWords   Fallback = "no_scored_words"
)

// Result is a summary with the selected sentences
type Result struct {
	Summary   string   `json:"summary"`
	Sentences []string `json:"sentences"`
	Fallback  Fallback `json:"fallback,omitempty"`
}

type sentenceScore struct {
	index int
	score float64
}

// Extractive selects the highest scoring sentences by normalized stemmed
// word frequency. It holds no state and is safe for concurrent use.
type Extractive struct {
	logger *slog.Logger
}

// NewExtractive creates an extractive summarizer. A nil logger uses slog.Default().
func NewExtractive(logger *slog.Logger) *Extractive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractive{logger: logger}
}

// Summarize returns at most n sentences of text in their original order.
// n <= 0 selects DefaultSentences.
func (e *Extractive) Summarize(text string, n int) string {
	return e.SummarizeDetailed(text, n).Summary
}

// SummarizeDetailed is Summarize with the selected sentences and fallback kind
func (e *Extractive) SummarizeDetailed(text string, n int) Result {
	if n <= 0 {
		n = DefaultSentences
	}

	if strings.TrimSpace(text) == "" {
		e.logger.Warn("no text provided for summarization")
		return Result{Summary: NoTextMessage, Fallback: FallbackEmpty}
	}

	sentences := textutil.SplitSentences(text)
	if len(sentences) <= n {
		e.logger.Debug("text already shorter than requested summary", "sentences", len(sentences), "requested", n)
		return Result{
			Summary:   strings.Join(sentences, " "),
			Sentences: sentences,
			Fallback:  FallbackShortText,
		}
	}

	freq := frequencies(textutil.ContentStems(text))
	if len(freq) == 0 {
		e.logger.Warn("no valid words found in text")
		return Result{Summary: text, Fallback: FallbackNoWords}
	}

	scores := scoreSentences(sentences, freq)
	if len(scores) == 0 {
		e.logger.Warn("could not calculate sentence scores")
		return Result{Summary: text, Fallback: FallbackNoWords}
	}

	selected := selectTop(scores, n)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx]
	}

	summary := strings.Join(out, " ")
	e.logger.Debug("generated extractive summary", "sentences", len(out), "words", textutil.WordCount(summary))
	return Result{Summary: summary, Sentences: out}
}

// frequencies counts stems and divides every count by the maximum
func frequencies(stems []string) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 0
	for _, s := range stems {
		counts[s]++
		if counts[s] > maxCount {
			maxCount = counts[s]
		}
	}

	freq := make(map[string]float64, len(counts))
	for w, c := range counts {
		freq[w] = float64(c) / float64(maxCount)
	}
	return freq
}

// scoreSentences averages the frequencies of each sentence's scored words.
// Sentences without any scored word are left out.
func scoreSentences(sentences []string, freq map[string]float64) []sentenceScore {
	scores := make([]sentenceScore, 0, len(sentences))
	for i, s := range sentences {
		total := 0.0
		found := 0
		for _, w := range textutil.ContentStems(s) {
			if f, ok := freq[w]; ok {
				total += f
				found++
			}
		}
		if found > 0 {
			scores = append(scores, sentenceScore{index: i, score: total / float64(found)})
		}
	}
	return scores
}

// selectTop returns the indexes of the n best sentences in source order.
// Equal scores prefer the earlier sentence.
func selectTop(scores []sentenceScore, n int) []int {
	ranked := make([]sentenceScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].index < ranked[j].index
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	indexes := make([]int, len(ranked))
	for i, s := range ranked {
		indexes[i] = s.index
	}
	sort.Ints(indexes)
	return indexes
}
