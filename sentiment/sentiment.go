// Package sentiment scores polarity and subjectivity of English text.
package sentiment

import (
	"math"

	"github.com/docutag/analyzer/textutil"
)

// Score is the sentiment measurement of a text
type Score struct {
	Polarity     float64 `json:"polarity"`     // -1.0 (negative) to 1.0 (positive)
	Subjectivity float64 `json:"subjectivity"` // 0.0 (objective) to 1.0 (subjective)
}

// Model measures the sentiment of raw text
type Model interface {
	Analyze(text string) Score
}

// entry is a lexicon value for one word
type entry struct {
	polarity     float64
	subjectivity float64
}

// Lexicon is a dictionary-based sentiment model. Intensifiers scale the
// word that follows them, and negations within a short window flip and
// damp the next sentiment word.
type Lexicon struct {
	words         map[string]entry
	intensifiers  map[string]float64
	negations     map[string]bool
	negationRange int
}

// NewLexicon returns the built-in English sentiment lexicon model
func NewLexicon() *Lexicon {
	return &Lexicon{
		words:         defaultWords,
		intensifiers:  defaultIntensifiers,
		negations:     defaultNegations,
		negationRange: 3,
	}
}

// Analyze averages the scores of every sentiment-bearing word in text.
// Text with no sentiment words is neutral and objective.
func (l *Lexicon) Analyze(text string) Score {
	tokens := textutil.Tokenize(text)

	var polarities, subjectivities []float64
	multiplier := 1.0
	negatedFor := 0

	for _, tok := range tokens {
		if l.negations[tok] {
			negatedFor = l.negationRange
			continue
		}
		if m, ok := l.intensifiers[tok]; ok {
			multiplier *= m
			continue
		}

		e, ok := l.words[tok]
		if !ok {
			multiplier = 1.0
			if negatedFor > 0 {
				negatedFor--
			}
			continue
		}

		p := e.polarity * multiplier
		s := e.subjectivity * multiplier
		if negatedFor > 0 {
			p *= -0.5
		}
		polarities = append(polarities, clamp(p, -1, 1))
		subjectivities = append(subjectivities, clamp(s, 0, 1))

		multiplier = 1.0
		negatedFor = 0
	}

	if len(polarities) == 0 {
		return Score{}
	}

	return Score{
		Polarity:     clamp(mean(polarities), -1, 1),
		Subjectivity: clamp(mean(subjectivities), 0, 1),
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
