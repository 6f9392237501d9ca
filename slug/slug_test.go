package slug

import (
	"strings"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "headline", input: "Council Approves Budget", expected: "council-approves-budget"},
		{name: "punctuation", input: "Shocking! Minister resigns?", expected: "shocking-minister-resigns"},
		{name: "repeated spaces", input: "Left   wing   media", expected: "left-wing-media"},
		{name: "accents stripped", input: "Café Société", expected: "cafe-societe"},
		{name: "report id", input: "analysis_3f2b9c1e-77aa-4d2e-9a51-0c6c1d2e3f40", expected: "analysis-3f2b9c1e-77aa-4d2e-9a51-0c6c1d2e3f40"},
		{name: "surrounding whitespace", input: "  Election Day  ", expected: "election-day"},
		{name: "hyphen runs", input: "left--wing---bias", expected: "left-wing-bias"},
		{name: "empty", input: "", expected: ""},
		{name: "only symbols", input: "@#$%^&*()", expected: ""},
		{name: "non latin script removed", input: "नमस्ते भारत", expected: ""},
		{name: "digits kept", input: "Budget 2024 Review", expected: "budget-2024-review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.expected {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGenerateTruncates(t *testing.T) {
	long := strings.Repeat("bias ", 40)
	got := Generate(long)
	if len(got) > maxLength {
		t.Errorf("slug length %d exceeds %d", len(got), maxLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug ends with hyphen: %q", got)
	}
}

func TestGenerateWithFallback(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		expected string
	}{
		{name: "primary used", primary: "Analysis One", fallback: "report", expected: "analysis-one"},
		{name: "empty primary", primary: "", fallback: "report", expected: "report"},
		{name: "symbol primary", primary: "!!!", fallback: "Fallback Value", expected: "fallback-value"},
		{name: "both empty", primary: "", fallback: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateWithFallback(tt.primary, tt.fallback); got != tt.expected {
				t.Errorf("GenerateWithFallback(%q, %q) = %q, want %q", tt.primary, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestMakeUnique(t *testing.T) {
	tests := []struct {
		counter  int
		expected string
	}{
		{0, "report"},
		{1, "report-1"},
		{12, "report-12"},
		{-3, "report"},
	}
	for _, tt := range tests {
		if got := MakeUnique("report", tt.counter); got != tt.expected {
			t.Errorf("MakeUnique(%d) = %q, want %q", tt.counter, got, tt.expected)
		}
	}
}

func TestReportKey(t *testing.T) {
	at := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		id       string
		attempt  int
		expected string
	}{
		{"first attempt", "analysis_abc", 0, "reports/2024/03/analysis-abc.json"},
		{"fallback slug", "???", 0, "reports/2024/03/report.json"},
		{"collision suffix", "analysis_abc", 2, "reports/2024/03/analysis-abc-2.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReportKey(tt.id, at, tt.attempt); got != tt.expected {
				t.Errorf("ReportKey(%q, %d) = %q, want %q", tt.id, tt.attempt, got, tt.expected)
			}
		})
	}
}
