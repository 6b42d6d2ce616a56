// Package storage loads CMS records for indexing and persists per-session search history.
package storage

import (
	"context"

	"github.com/hyperjump/sitesearch/internal/models"
)

// RecordSource supplies the pages, posts, and media an index is built from.
type RecordSource interface {
	LoadRecords(ctx context.Context) (*models.RecordSet, error)
}

// SessionStore keeps each session's search history between requests.
// Sessions are opaque keys; the store does not create or expire them.
type SessionStore interface {
	// LoadHistory returns the stored entries for a session; unknown sessions yield no entries.
	LoadHistory(ctx context.Context, sessionID string) ([]models.HistoryEntry, error)
	// SaveHistory replaces the session's entries with entries.
	SaveHistory(ctx context.Context, sessionID string, entries []models.HistoryEntry) error
	DeleteHistory(ctx context.Context, sessionID string) error
	Close() error
}

// MemoryPath selects the in-memory session store.
const MemoryPath = ":memory:"

// NewSessionStore opens the SQLite store at path, or an in-memory store when path
// is empty or MemoryPath.
func NewSessionStore(path string) (SessionStore, error) {
	if path == "" || path == MemoryPath {
		return NewMemorySessionStore(), nil
	}
	return NewSQLiteSessionStore(path)
}
