// Package cli provides output helpers for the sitesearch command line.
package cli

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/hyperjump/sitesearch/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per item.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to a format. Unknown values are an error.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact, or json)", s)
	}
}

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n", r.Score, r.Type, r.ID, r.Title)
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	c := response.Counts
	fmt.Fprintf(w, "\nFound %d results in %dms (%d pages, %d posts, %d media)\n",
		response.Total, response.QueryTime, c.Page, c.Post, c.Media)
	if len(response.Terms) > 0 {
		fmt.Fprintf(w, "Terms: %s\n", strings.Join(response.Terms, ", "))
	}
	fmt.Fprintln(w)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
}

func writeOneResult(w io.Writer, rank int, result *models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "#%d [%s] Score: %.2f\n", rank, result.Type, result.Score)
	fmt.Fprintf(w, "ID: %s\n", result.ID)
	if result.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", result.Title)
	}
	if result.Slug != "" {
		fmt.Fprintf(w, "Slug: %s\n", result.Slug)
	}
	if snippet := PlainSnippet(result.Snippet); snippet != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(snippet, 240))
	}
	fmt.Fprintln(w)
}

var markReplacer = strings.NewReplacer("<mark>", "[", "</mark>", "]")

// PlainSnippet turns a highlighted snippet into terminal text: markers become
// brackets and entities are decoded.
func PlainSnippet(snippet string) string {
	return html.UnescapeString(markReplacer.Replace(snippet))
}

// WriteSuggestions writes autocomplete suggestions to w.
func WriteSuggestions(w io.Writer, suggestions []models.Suggestion, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, map[string]interface{}{"suggestions": suggestions})
	case OutputCompact:
		for _, s := range suggestions {
			fmt.Fprintln(w, s.Value)
		}
		return nil
	default:
		for _, s := range suggestions {
			fmt.Fprintf(w, "%-6s %-6s %s\n", s.Type, s.Label, s.Value)
		}
		return nil
	}
}

// WriteHistory writes a session's history entries to w.
func WriteHistory(w io.Writer, entries []models.HistoryEntry, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, map[string]interface{}{"history": entries})
	case OutputCompact:
		for _, e := range entries {
			fmt.Fprintln(w, e.Term)
		}
		return nil
	default:
		if len(entries) == 0 {
			fmt.Fprintln(w, "No search history.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%4d  %s  %s\n", e.Count, e.LastTimestamp.Local().Format("2006-01-02 15:04:05"), e.Term)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
