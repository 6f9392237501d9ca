package analyzer

import "strings"

// DefaultCategory is returned when no category keyword matches
const DefaultCategory = "General"

type category struct {
	name     string
	keywords []string
}

// categories are checked in order; the first with a matching keyword wins
var categories = []category{
	{"Politics", []string{"politics", "government", "minister", "election", "parliament", "congress", "bjp"}},
	{"Technology", []string{"technology", "tech", "digital", "ai", "artificial intelligence", "software", "app"}},
	{"Sports", []string{"sports", "cricket", "football", "tennis", "match", "tournament", "player"}},
	{"Business", []string{"business", "economy", "market", "finance", "trade", "company", "corporate"}},
	{"Science", []string{"science", "research", "study", "scientific", "discovery"}},
	{"Health", []string{"health", "medical", "hospital", "doctor", "disease", "medicine"}},
	{"Entertainment", []string{"entertainment", "movie", "film", "actor", "actress", "music", "celebrity"}},
	{"World", []string{"world", "international", "global", "foreign", "diplomatic"}},
}

// Categories returns every label Categorize can produce, in priority order
func Categories() []string {
	names := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		names = append(names, c.name)
	}
	return append(names, DefaultCategory)
}

// Categorize assigns an article to one category by substring keyword
// match over its lowercased title and description.
func Categorize(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				return c.name
			}
		}
	}
	return DefaultCategory
}
