package search

import (
	"strings"

	"github.com/hyperjump/sitesearch/internal/models"
)

// DefaultSuggestionLimit is used when a non-positive limit is requested.
const DefaultSuggestionLimit = 60

// AggregateSuggestions walks the index in order and collects up to limit
// suggestions, skipping any whose lowercased value and type were already seen.
// The first-seen casing is kept.
func AggregateSuggestions(index models.Index, limit int) []models.Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	out := make([]models.Suggestion, 0, min(limit, len(index)))
	seen := make(map[string]struct{})
	for _, entry := range index {
		for _, s := range entry.Suggestions {
			key := strings.ToLower(s.Value) + "|" + strings.ToLower(string(s.Type))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}
