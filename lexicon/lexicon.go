// Package lexicon holds the static keyword tables used by the bias
// detectors and matches them against token streams.
package lexicon

import (
	"sort"
	"strings"

	"github.com/docutag/analyzer/textutil"
)

// Lexicon is an immutable named set of keywords and phrases
type Lexicon struct {
	name    string
	phrases map[string][]entry // first token -> entries, longest first
}

// entry pairs a term's normalized token form with the term as written
type entry struct {
	key  string
	size int
	term string
}

// New builds a Lexicon. Terms are tokenized with the same normalizer used
// for input text so hyphenated and multi-word entries match consistently.
// When two terms normalize alike the first one is kept.
func New(name string, terms ...string) *Lexicon {
	l := &Lexicon{
		name:    name,
		phrases: make(map[string][]entry),
	}

	seen := make(map[string]bool)
	for _, term := range terms {
		toks := textutil.Tokenize(term)
		if len(toks) == 0 {
			continue
		}
		key := strings.Join(toks, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		l.phrases[toks[0]] = append(l.phrases[toks[0]], entry{key: key, size: len(toks), term: term})
	}

	for first := range l.phrases {
		list := l.phrases[first]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].size > list[j].size
		})
	}

	return l
}

// Name returns the lexicon's category name
func (l *Lexicon) Name() string {
	return l.name
}

// Match scans tokens left to right and returns every occurrence of a term,
// preferring the longest term at each position. Matches do not overlap and
// are reported as the term was written, so "well spoken" in the token
// stream comes back as "well-spoken".
func (l *Lexicon) Match(tokens []string) []string {
	var matches []string
	for i := 0; i < len(tokens); {
		var matched *entry
		for j := range l.phrases[tokens[i]] {
			e := &l.phrases[tokens[i]][j]
			if hasPrefixTokens(tokens[i:], e.key) {
				matched = e
				break
			}
		}
		if matched == nil {
			i++
			continue
		}
		matches = append(matches, matched.term)
		i += matched.size
	}
	return matches
}

// Count returns the number of matches of the lexicon in tokens
func (l *Lexicon) Count(tokens []string) int {
	return len(l.Match(tokens))
}

func hasPrefixTokens(tokens []string, phrase string) bool {
	parts := strings.Fields(phrase)
	if len(parts) > len(tokens) {
		return false
	}
	for i, p := range parts {
		if tokens[i] != p {
			return false
		}
	}
	return true
}

// Unique returns matches with duplicates removed, keeping first occurrence order
func Unique(matches []string) []string {
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
