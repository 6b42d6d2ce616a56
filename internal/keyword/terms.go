package keyword

import (
	"regexp"
	"strings"
)

// termPattern matches a double-quoted phrase, a single-quoted phrase, or a bare word.
var termPattern = regexp.MustCompile(`"([^"]*)"|'([^']*)'|(\S+)`)

// ParseTerms splits a free-text query into lowercase terms. Quoted phrases stay whole,
// the connective "and" is dropped, and duplicates are removed keeping first occurrence.
func ParseTerms(query string) []string {
	matches := termPattern.FindAllStringSubmatch(query, -1)
	terms := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		var term string
		switch {
		case m[1] != "":
			term = m[1]
		case m[2] != "":
			term = m[2]
		default:
			term = m[3]
		}
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || term == "and" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}
