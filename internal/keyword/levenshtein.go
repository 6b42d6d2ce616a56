// Package keyword provides the text-matching primitives of the search engine:
// query term parsing, word tokenization, and bounded edit-distance matching.
package keyword

import (
	"math"
	"unicode/utf8"
)

// LevenshteinDistance calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string into another.
// This is a pure function with no side effects.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return utf8.RuneCountInString(b)
	}
	if len(b) == 0 {
		return utf8.RuneCountInString(a)
	}

	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	// Two rows of the matrix are enough.
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}

// FuzzyThreshold is the largest edit distance accepted as a fuzzy match
// for a term of termLen characters: max(1, ceil(0.4*termLen)).
func FuzzyThreshold(termLen int) int {
	return max(1, int(math.Ceil(float64(termLen)*0.4)))
}

// LengthWindow bounds how much a candidate word's length may differ from the
// term's before it is skipped without computing a distance: max(3, ceil(0.6*termLen)).
// It is a tunable pruning heuristic, not part of the match contract.
func LengthWindow(termLen int) int {
	return max(3, int(math.Ceil(float64(termLen)*0.6)))
}

// ClosestDistance returns the smallest edit distance between term and any of words,
// skipping words outside the length window. ok is false when no word was compared.
func ClosestDistance(term string, words []string) (best int, ok bool) {
	termLen := utf8.RuneCountInString(term)
	window := LengthWindow(termLen)
	best = math.MaxInt
	for _, w := range words {
		diff := utf8.RuneCountInString(w) - termLen
		if diff < 0 {
			diff = -diff
		}
		if diff > window {
			continue
		}
		d := LevenshteinDistance(term, w)
		if d < best {
			best = d
			ok = true
			if d == 0 {
				break
			}
		}
	}
	return best, ok
}

// FuzzyMatch returns the closest distance between term and words when it is within
// the fuzzy threshold for term's length.
func FuzzyMatch(term string, words []string) (int, bool) {
	d, ok := ClosestDistance(term, words)
	if !ok || d > FuzzyThreshold(utf8.RuneCountInString(term)) {
		return 0, false
	}
	return d, true
}
