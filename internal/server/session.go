package server

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperjump/sitesearch/internal/history"
	"github.com/hyperjump/sitesearch/internal/models"
)

const (
	// SessionCookie carries the session key for browser clients.
	SessionCookie = "sitesearch_session"
	// SessionHeader lets non-browser clients such as the CLI pick a session.
	SessionHeader = "X-Session-ID"
)

// sessionID returns the caller's session key, minting one and setting the
// cookie when the request carries none. Must run before the response is written.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// sessionLocks serializes history read-modify-write cycles per session.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (s *Server) tracker(entries []models.HistoryEntry) *history.Tracker {
	return history.FromEntries(entries,
		history.WithClock(s.now),
		history.WithMaxEntries(s.config.Search.HistoryMaxEntries),
	)
}

// loadHistory returns the session's tracker.
func (s *Server) loadHistory(ctx context.Context, id string) (*history.Tracker, error) {
	entries, err := s.sessions.LoadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.tracker(entries), nil
}

// pushHistory records term for the session. Blank terms are ignored.
func (s *Server) pushHistory(ctx context.Context, id, term string) error {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	unlock := s.locks.lock(id)
	defer unlock()

	t, err := s.loadHistory(ctx, id)
	if err != nil {
		return err
	}
	t.Push(term)
	return s.sessions.SaveHistory(ctx, id, t.Entries())
}
