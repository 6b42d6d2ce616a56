package models

import "strings"

// SearchQuery represents a search request with optional type filters.
type SearchQuery struct {
	Query string   `json:"query"`
	Types []string `json:"types,omitempty"`
	// Limit caps the returned results after counting; 0 returns everything.
	Limit int `json:"limit,omitempty"`
}

// Normalize trims the query, lowercases the type filter, and drops empty types.
// An empty query is not an error; it simply matches nothing.
func (q *SearchQuery) Normalize() {
	q.Query = strings.TrimSpace(q.Query)
	types := make([]string, 0, len(q.Types))
	for _, t := range q.Types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			types = append(types, t)
		}
	}
	q.Types = types
	if q.Limit < 0 {
		q.Limit = 0
	}
}

// AllowsType reports whether entries of type t pass the (normalized) type filter.
func (q *SearchQuery) AllowsType(t EntityType) bool {
	if len(q.Types) == 0 {
		return true
	}
	want := t.Lower()
	for _, typ := range q.Types {
		if typ == want {
			return true
		}
	}
	return false
}
