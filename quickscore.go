package analyzer

import (
	"math"
	"sort"

	"github.com/docutag/analyzer/lexicon"
	"github.com/docutag/analyzer/models"
	"github.com/docutag/analyzer/textutil"
)

// QuickScore tags text with keyword bias categories without running the
// detectors. Each distinct keyword found counts once. The score is
// min(1, (categories found + keywords found/10) / (categories + 1)),
// rounded to two decimals.
func QuickScore(text string) models.QuickBias {
	tokens := textutil.Tokenize(text)
	if len(tokens) == 0 {
		return models.QuickBias{Types: []string{}}
	}

	types := []string{}
	keywords := 0
	for _, cat := range lexicon.QuickCategories {
		found := len(lexicon.Unique(cat.Match(tokens)))
		if found > 0 {
			types = append(types, cat.Name())
			keywords += found
		}
	}
	sort.Strings(types)

	denominator := float64(len(lexicon.QuickCategories) + 1)
	score := math.Min(1.0, (float64(len(types))+float64(keywords)/10)/denominator)

	return models.QuickBias{
		Score: round(score, 2),
		Types: types,
	}
}
