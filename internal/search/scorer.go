package search

import (
	"strings"

	"github.com/hyperjump/sitesearch/internal/keyword"
	"github.com/hyperjump/sitesearch/internal/models"
)

// FuzzyPenalty is added to a field's weight per edit of a fuzzy match.
const FuzzyPenalty = 0.1

// MatchTerm returns the best (lowest) score of term against any field of entry.
// A field containing term scores its weight; otherwise the closest word first
// seen in that field, within the fuzzy threshold, scores weight + FuzzyPenalty*distance.
// ok is false when no field matches.
func MatchTerm(entry *models.IndexEntry, term string) (score float64, ok bool) {
	for _, f := range entry.Fields {
		var candidate float64
		if f.Value != "" && strings.Contains(f.Value, term) {
			candidate = f.Weight
		} else if d, fuzzy := keyword.FuzzyMatch(term, f.Words); fuzzy {
			candidate = f.Weight + FuzzyPenalty*float64(d)
		} else {
			continue
		}
		if !ok || candidate < score {
			score = candidate
			ok = true
		}
	}
	return score, ok
}

// ScoreEntry sums the per-term scores. Every term must match; if one does not,
// or there are no terms, the entry is not a hit.
func ScoreEntry(entry *models.IndexEntry, terms []string) (float64, bool) {
	if len(terms) == 0 {
		return 0, false
	}
	var total float64
	for _, term := range terms {
		s, ok := MatchTerm(entry, term)
		if !ok {
			return 0, false
		}
		total += s
	}
	return total, true
}
