// Package textutil provides the shared text normalization used by the
// bias detectors and the summarizer.
package textutil

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// NormalizedText is the per-input derived view of a raw text
type NormalizedText struct {
	Clean     string   // Lowercased text with punctuation removed and whitespace collapsed
	Tokens    []string // Every word token in order, stop words included
	Words     []string // Content words: Tokens without stop words
	Sentences []string // Sentences in source order with original casing
}

// Normalize derives a NormalizedText from raw text. It never fails; empty
// input yields an empty value.
func Normalize(text string) NormalizedText {
	if strings.TrimSpace(text) == "" {
		return NormalizedText{}
	}

	tokens := Tokenize(text)
	return NormalizedText{
		Clean:     strings.Join(tokens, " "),
		Tokens:    tokens,
		Words:     RemoveStopWords(tokens),
		Sentences: SplitSentences(text),
	}
}

// Tokenize lowercases text and splits it into word tokens. Any rune that is
// not a letter, digit or underscore separates tokens, so "left-wing"
// becomes "left", "wing".
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Fields(cleaned)
}

// RemoveStopWords returns the tokens that are not English stop words
func RemoveStopWords(tokens []string) []string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			words = append(words, tok)
		}
	}
	return words
}

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

var fallbackSentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)

func sentenceTokenizer() *sentences.DefaultSentenceTokenizer {
	tokenizerOnce.Do(func() {
		t, err := english.NewSentenceTokenizer(nil)
		if err == nil {
			tokenizer = t
		}
	})
	return tokenizer
}

// SplitSentences splits raw text into sentences, preserving order and
// casing. Whitespace inside each sentence is collapsed to single spaces.
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var raw []string
	if t := sentenceTokenizer(); t != nil {
		for _, s := range t.Tokenize(text) {
			raw = append(raw, s.Text)
		}
	} else {
		raw = fallbackSentenceRe.FindAllString(text, -1)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = CollapseSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CollapseSpace trims s and replaces every whitespace run with one space
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WordCount counts whitespace-separated tokens of the raw text
func WordCount(text string) int {
	return len(strings.Fields(text))
}
