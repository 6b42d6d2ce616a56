package models

import "time"

// SearchResult represents a single search hit. Lower Score is a better match.
type SearchResult struct {
	ID      string     `json:"id"`
	Type    EntityType `json:"type"`
	Title   string     `json:"title"`
	Slug    string     `json:"slug"`
	Score   float64    `json:"score"`
	Snippet string     `json:"snippet"`
	Record  RawRecord  `json:"record"`
}

// TypeCounts tallies results per entity type.
type TypeCounts struct {
	Page  int `json:"Page"`
	Post  int `json:"Post"`
	Media int `json:"Media"`
}

// Add counts one item of type t. Unknown types are ignored.
func (c *TypeCounts) Add(t EntityType) {
	switch t {
	case EntityPage:
		c.Page++
	case EntityPost:
		c.Post++
	case EntityMedia:
		c.Media++
	}
}

// Total returns the sum over all types.
func (c TypeCounts) Total() int {
	return c.Page + c.Post + c.Media
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Counts    TypeCounts      `json:"counts"`
	Total     int             `json:"total"`
	Query     string          `json:"query"`
	Terms     []string        `json:"terms"`
	QueryTime int64           `json:"query_time_ms"`
}

// HistoryEntry is one remembered search term within a session.
type HistoryEntry struct {
	Term          string    `json:"term"`
	Count         int       `json:"count"`
	LastTimestamp time.Time `json:"last_timestamp"`
}
