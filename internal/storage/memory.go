package storage

import (
	"context"
	"sync"

	"github.com/hyperjump/sitesearch/internal/models"
)

// MemorySessionStore keeps history in process memory. It is lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.HistoryEntry
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string][]models.HistoryEntry)}
}

// LoadHistory returns a copy of the session's entries.
func (s *MemorySessionStore) LoadHistory(_ context.Context, sessionID string) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.sessions[sessionID]
	if len(entries) == 0 {
		return nil, nil
	}
	return append([]models.HistoryEntry(nil), entries...), nil
}

// SaveHistory replaces the session's entries. Saving no entries removes the session.
func (s *MemorySessionStore) SaveHistory(_ context.Context, sessionID string, entries []models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(entries) == 0 {
		delete(s.sessions, sessionID)
		return nil
	}
	s.sessions[sessionID] = append([]models.HistoryEntry(nil), entries...)
	return nil
}

// DeleteHistory forgets a session.
func (s *MemorySessionStore) DeleteHistory(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Close is a no-op.
func (s *MemorySessionStore) Close() error {
	return nil
}
