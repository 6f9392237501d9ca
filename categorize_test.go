package analyzer

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		expected    string
	}{
		{"sports", "India win cricket match", "", "Sports"},
		{"politics", "Parliament session ends", "Members debated the budget", "Politics"},
		{"politics beats business", "Minister discusses economy", "", "Politics"},
		{"technology", "New software release", "", "Technology"},
		{"business", "Company profits up", "", "Business"},
		{"science", "Researchers publish study", "", "Science"},
		{"health", "Hospital opens new wing", "", "Health"},
		{"entertainment", "Film festival begins", "", "Entertainment"},
		{"world", "Diplomatic talks resume", "", "World"},
		{"description only", "Weekend roundup", "The football season starts", "Sports"},
		{"case insensitive", "ELECTION RESULTS", "", "Politics"},
		{"no match", "Local bakery opens", "Fresh bread every morning", "General"},
		{"empty", "", "", "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.title, tt.description)
			if got != tt.expected {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.title, tt.description, got, tt.expected)
			}
		})
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	first := Categorize("Cricket match report", "Final over drama")
	for i := 0; i < 10; i++ {
		if got := Categorize("Cricket match report", "Final over drama"); got != first {
			t.Fatalf("Categorize changed result: %q vs %q", got, first)
		}
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 9 || cats[0] != "Politics" || cats[8] != "General" {
		t.Errorf("unexpected categories %v", cats)
	}
}
