package textutil

import (
	"math"
	"strings"

	"github.com/docutag/analyzer/models"
)

// Stats computes word, sentence and readability statistics for text.
// Empty text yields zero stats.
func Stats(text string) models.ArticleStats {
	words := Tokenize(text)
	sentences := SplitSentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return models.ArticleStats{WordCount: len(words), SentenceCount: len(sentences)}
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))

	return models.ArticleStats{
		WordCount:         len(words),
		SentenceCount:     len(sentences),
		AvgSentenceLength: round(wordsPerSentence, 2),
		ReadingEase:       round(206.835-1.015*wordsPerSentence-84.6*syllablesPerWord, 2),
	}
}

// CountSyllables estimates syllables in a lowercase word by counting vowel
// groups, discounting a silent trailing "e". Every word has at least one.
func CountSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if count > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
