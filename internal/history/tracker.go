// Package history ranks a session's recent search terms by frequency and recency.
package history

import (
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/sitesearch/internal/models"
)

const (
	// DefaultMaxEntries is how many distinct terms a session keeps.
	DefaultMaxEntries = 15
	// DefaultLimit is how many entries History and Terms return when limit <= 0.
	DefaultLimit = 10
)

// Tracker holds one session's history keyed by lowercased term.
// It is not safe for concurrent use; callers serialize writes per session.
type Tracker struct {
	entries    map[string]*models.HistoryEntry
	maxEntries int
	now        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for LastTimestamp.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithMaxEntries overrides how many entries survive a push. Values <= 0 are ignored.
func WithMaxEntries(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxEntries = n
		}
	}
}

// New returns an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		entries:    make(map[string]*models.HistoryEntry),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromEntries restores a tracker from stored entries. Entries sharing a key are
// merged; the cap is applied.
func FromEntries(entries []models.HistoryEntry, opts ...Option) *Tracker {
	t := New(opts...)
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Term))
		if key == "" {
			continue
		}
		if cur, ok := t.entries[key]; ok {
			cur.Count += e.Count
			if e.LastTimestamp.After(cur.LastTimestamp) {
				cur.LastTimestamp = e.LastTimestamp
				cur.Term = e.Term
			}
			continue
		}
		entry := e
		t.entries[key] = &entry
	}
	t.truncate()
	return t
}

// Push records one use of term. Blank terms are ignored. The stored casing
// follows the most recent push.
func (t *Tracker) Push(term string) {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return
	}
	e, ok := t.entries[key]
	if !ok {
		e = &models.HistoryEntry{}
		t.entries[key] = e
	}
	e.Count++
	e.LastTimestamp = t.now()
	e.Term = term
	t.truncate()
}

// History returns up to limit entries, best first. limit <= 0 means DefaultLimit.
func (t *Tracker) History(limit int) []models.HistoryEntry {
	if limit <= 0 {
		limit = DefaultLimit
	}
	sorted := t.sorted()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]models.HistoryEntry, len(sorted))
	for i, e := range sorted {
		out[i] = *e
	}
	return out
}

// Terms returns the term strings of History(limit).
func (t *Tracker) Terms(limit int) []string {
	entries := t.History(limit)
	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.Term
	}
	return terms
}

// Entries returns every retained entry, best first, for persisting.
func (t *Tracker) Entries() []models.HistoryEntry {
	return t.History(len(t.entries))
}

// Len returns the number of retained entries.
func (t *Tracker) Len() int {
	return len(t.entries)
}

func (t *Tracker) truncate() {
	if len(t.entries) <= t.maxEntries {
		return
	}
	for _, e := range t.sorted()[t.maxEntries:] {
		delete(t.entries, strings.ToLower(strings.TrimSpace(e.Term)))
	}
}

// sorted orders by count desc, then lastTimestamp desc, then term key asc.
func (t *Tracker) sorted() []*models.HistoryEntry {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := t.entries[keys[i]], t.entries[keys[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.LastTimestamp.Equal(b.LastTimestamp) {
			return a.LastTimestamp.After(b.LastTimestamp)
		}
		return keys[i] < keys[j]
	})
	out := make([]*models.HistoryEntry, len(keys))
	for i, k := range keys {
		out[i] = t.entries[k]
	}
	return out
}
