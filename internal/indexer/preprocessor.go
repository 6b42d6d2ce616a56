package indexer

import (
	"strings"

	"github.com/hyperjump/sitesearch/internal/extract"
	"github.com/hyperjump/sitesearch/pkg/utils"
)

// Preprocess normalizes an HTML body for indexing (strip tags, trim, collapse whitespace).
func Preprocess(e *extract.Extractor, body string) string {
	return utils.CollapseWhitespace(e.PlainText(body))
}

// joinNonEmpty joins the non-empty, trimmed parts with single spaces.
func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
