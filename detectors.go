package analyzer

import (
	"fmt"
	"math"

	"github.com/docutag/analyzer/lexicon"
	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/sentiment"
	"github.com/docutag/analyzer/textutil"
)

// Input is what a detector sees: the raw text and its normalized form
type Input struct {
	Raw        string
	Normalized textutil.NormalizedText
}

// DetectorFunc scores one kind of bias. Detectors must be pure: they may
// only read the input and the shared read-only lexicons.
type DetectorFunc func(in Input) (models.BiasResult, error)

var (
	genderSuggestionsFmt = []string{
		"Consider using gender-neutral language",
		"Replace %s terms with neutral alternatives",
		"Review job descriptions for inclusive language",
	}
	confirmationSuggestions = []string{
		"Use more tentative language (e.g., 'may', 'could', 'appears')",
		"Provide evidence for strong claims",
		"Consider alternative viewpoints",
	}
	racialSuggestions = []string{
		"Review context of racial/ethnic descriptors",
		"Consider if descriptors are necessary",
		"Use person-first language",
	}
	loadedSuggestions = []string{
		"Use neutral, factual language",
		"Replace loaded terms with objective descriptions",
		"Consider the emotional impact of word choices",
	}
	sentimentSuggestions = []string{
		"Consider more balanced language",
		"Include multiple perspectives",
		"Use objective, factual statements",
	}
)

// SeverityFor maps a confidence to its tier: above 0.7 is high, above 0.4
// is medium, anything else is low.
func SeverityFor(confidence float64) models.Severity {
	switch {
	case confidence > 0.7:
		return models.SeverityHigh
	case confidence > 0.4:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func newResult(t models.BiasType, confidence float64, evidence, suggestions []string) models.BiasResult {
	if evidence == nil {
		evidence = []string{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return models.BiasResult{
		BiasType:    t,
		Confidence:  confidence,
		Evidence:    evidence,
		Suggestions: append([]string(nil), suggestions...),
		Severity:    SeverityFor(confidence),
	}
}

// linearConfidence is min(1, weight*count)
func linearConfidence(count int, weight float64) float64 {
	return math.Min(1.0, weight*float64(count))
}

func detectGender(in Input) (models.BiasResult, error) {
	male := lexicon.MaleCoded.Count(in.Normalized.Words)
	female := lexicon.FemaleCoded.Count(in.Normalized.Words)

	total := male + female
	if total == 0 {
		return newResult(models.BiasGender, 0, nil, nil), nil
	}

	ratio := math.Abs(float64(male-female)) / float64(total)
	confidence := math.Min(ratio*2, 1.0)

	var evidence []string
	direction := "female-coded"
	if male > female {
		direction = "male-coded"
		evidence = append(evidence, fmt.Sprintf("Male-coded terms detected: %d", male))
	} else {
		evidence = append(evidence, fmt.Sprintf("Female-coded terms detected: %d", female))
	}

	suggestions := []string{
		genderSuggestionsFmt[0],
		fmt.Sprintf(genderSuggestionsFmt[1], direction),
		genderSuggestionsFmt[2],
	}
	return newResult(models.BiasGender, confidence, evidence, suggestions), nil
}

// detectConfirmation matches phrases over every token, stop words
// included, so "without a doubt" is found. Each occurrence counts toward
// confidence; each distinct phrase is evidenced once.
func detectConfirmation(in Input) (models.BiasResult, error) {
	matches := lexicon.Confirmation.Match(in.Normalized.Tokens)

	var evidence []string
	for _, phrase := range lexicon.Unique(matches) {
		evidence = append(evidence, fmt.Sprintf("Confirmation bias phrase: '%s'", phrase))
	}

	return newResult(models.BiasConfirmation, linearConfidence(len(matches), 0.3), evidence, confirmationSuggestions), nil
}

func detectRacial(in Input) (models.BiasResult, error) {
	matches := lexicon.Racial.Match(in.Normalized.Words)

	var evidence []string
	for _, word := range matches {
		evidence = append(evidence, fmt.Sprintf("Potentially biased term: '%s'", word))
	}

	return newResult(models.BiasRacial, linearConfidence(len(matches), 0.4), evidence, racialSuggestions), nil
}

func detectLoadedLanguage(in Input) (models.BiasResult, error) {
	matches := lexicon.Loaded.Match(in.Normalized.Words)

	var evidence []string
	for _, word := range matches {
		evidence = append(evidence, fmt.Sprintf("Loaded term: '%s'", word))
	}

	return newResult(models.BiasLoadedLanguage, linearConfidence(len(matches), 0.5), evidence, loadedSuggestions), nil
}

// sentimentDetector binds a sentiment model. A nil model yields a
// zero-confidence result noting the model is unavailable.
func sentimentDetector(model sentiment.Model) DetectorFunc {
	return func(in Input) (models.BiasResult, error) {
		if model == nil {
			return newResult(models.BiasSentiment, 0, []string{"Sentiment model not available"}, nil), nil
		}

		score := model.Analyze(in.Raw)
		confidence := math.Abs(score.Polarity) * score.Subjectivity

		evidence := []string{
			fmt.Sprintf("Sentiment polarity: %.2f", score.Polarity),
			fmt.Sprintf("Subjectivity: %.2f", score.Subjectivity),
		}
		return newResult(models.BiasSentiment, confidence, evidence, sentimentSuggestions), nil
	}
}
