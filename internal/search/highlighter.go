package search

import (
	"html"
	"sort"
	"strings"
	"unicode"

	"github.com/hyperjump/sitesearch/pkg/utils"
)

// DefaultSnippetLength is the snippet window in characters.
const DefaultSnippetLength = 180

const (
	ellipsis  = "…"
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// BuildSnippet extracts a window of length characters around the first term
// found in plainText and wraps term occurrences in <mark>. Terms are tried in
// order; with no match the window starts at the beginning. An ellipsis marks
// each side where text was cut. Text outside the markers is HTML-escaped.
func BuildSnippet(plainText string, terms []string, length int) string {
	if length <= 0 {
		length = DefaultSnippetLength
	}
	text := []rune(utils.CollapseWhitespace(plainText))
	if len(text) == 0 {
		return ""
	}
	lower := lowerRunes(text)

	pos := 0
	for _, term := range terms {
		if i := indexRunes(lower, lowerRunes([]rune(term)), 0); i >= 0 {
			pos = i
			break
		}
	}
	start := max(0, pos-length/2)
	end := min(len(text), start+length)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	writeHighlighted(&b, text[start:end], lower[start:end], terms)
	if end < len(text) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

type span struct{ start, end int }

// writeHighlighted marks occurrences of each term in turn. A match that would
// overlap text already claimed by an earlier term is skipped, so markers never nest.
func writeHighlighted(b *strings.Builder, text, lower []rune, terms []string) {
	claimed := make([]bool, len(text))
	var spans []span
	for _, term := range terms {
		needle := lowerRunes([]rune(term))
		if len(needle) == 0 {
			continue
		}
		for from := 0; ; {
			i := indexRunes(lower, needle, from)
			if i < 0 {
				break
			}
			j := i + len(needle)
			if free(claimed, i, j) {
				for k := i; k < j; k++ {
					claimed[k] = true
				}
				spans = append(spans, span{i, j})
				from = j
			} else {
				from = i + 1
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	prev := 0
	for _, s := range spans {
		b.WriteString(html.EscapeString(string(text[prev:s.start])))
		b.WriteString(markOpen)
		b.WriteString(html.EscapeString(string(text[s.start:s.end])))
		b.WriteString(markClose)
		prev = s.end
	}
	b.WriteString(html.EscapeString(string(text[prev:])))
}

func free(claimed []bool, i, j int) bool {
	for k := i; k < j; k++ {
		if claimed[k] {
			return false
		}
	}
	return true
}

// lowerRunes lowercases rune by rune so indexes line up with the original text.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(haystack, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for k, r := range needle {
			if haystack[i+k] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
