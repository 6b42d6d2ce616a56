package keyword

import (
	"regexp"
	"strings"
)

var nonAlphaNumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize splits a lowercased value on runs of non-alphanumeric ASCII characters
// and drops empty pieces. Callers lowercase first; uppercase letters act as separators.
func Tokenize(value string) []string {
	parts := nonAlphaNumeric.Split(value, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// WordSet accumulates deduplicated words in first-seen order up to a cap.
type WordSet struct {
	limit int
	seen  map[string]struct{}
	words []string
}

// NewWordSet returns an empty set holding at most limit words (limit <= 0 means unbounded).
func NewWordSet(limit int) *WordSet {
	return &WordSet{limit: limit, seen: make(map[string]struct{})}
}

// Add tokenizes value and records words not seen before. It returns the words this
// call added, so a caller can tell which words first appeared in which value.
func (s *WordSet) Add(value string) []string {
	var added []string
	for _, w := range Tokenize(strings.ToLower(value)) {
		if s.Full() {
			break
		}
		if _, ok := s.seen[w]; ok {
			continue
		}
		s.seen[w] = struct{}{}
		s.words = append(s.words, w)
		added = append(added, w)
	}
	return added
}

// Full reports whether the cap has been reached.
func (s *WordSet) Full() bool {
	return s.limit > 0 && len(s.words) >= s.limit
}

// Words returns the collected words.
func (s *WordSet) Words() []string {
	return s.words
}
