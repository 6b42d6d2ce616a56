package search

import (
	"testing"

	"github.com/hyperjump/sitesearch/internal/models"
)

func scoredEntry() *models.IndexEntry {
	return &models.IndexEntry{
		ID: "1",
		Fields: []models.Field{
			{Name: "title", Value: "summer sale", Weight: 1, Words: []string{"summer", "sale"}},
			{Name: "slug", Value: "summer-sale", Weight: 1.5},
			{Name: "content", Value: "discounted sandals and boots", Weight: 3, Words: []string{"discounted", "sandals", "and", "boots"}},
		},
	}
}

func TestMatchTerm(t *testing.T) {
	e := scoredEntry()
	tests := []struct {
		term   string
		want   float64
		wantOK bool
	}{
		{"summer", 1, true},
		{"mer s", 1, true},
		{"summer-sale", 1.5, true},
		{"boots", 3, true},
		{"boats", 3.1, true},
		{"sumer", 1.1, true},
		{"discountd", 3.1, true},
		{"zebra", 0, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, ok := MatchTerm(e, tt.term)
			if ok != tt.wantOK || !approx(got, tt.want) {
				t.Errorf("MatchTerm(%q) = (%v, %v), want (%v, %v)", tt.term, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestScoreEntry(t *testing.T) {
	e := scoredEntry()
	tests := []struct {
		name   string
		terms  []string
		want   float64
		wantOK bool
	}{
		{"single", []string{"sale"}, 1, true},
		{"sum of bests", []string{"sale", "boots"}, 4, true},
		{"one miss excludes", []string{"sale", "zebra"}, 0, false},
		{"no terms", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScoreEntry(e, tt.terms)
			if ok != tt.wantOK || !approx(got, tt.want) {
				t.Errorf("ScoreEntry(%v) = (%v, %v), want (%v, %v)", tt.terms, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// A term present verbatim in a field never scores worse than that field's weight.
func TestMatchTerm_VerbatimBoundedByWeight(t *testing.T) {
	e := scoredEntry()
	for _, f := range e.Fields {
		for _, w := range f.Words {
			got, ok := MatchTerm(e, w)
			if !ok || got > f.Weight {
				t.Errorf("term %q from %s: (%v, %v), want <= %v", w, f.Name, got, ok, f.Weight)
			}
		}
	}
}
