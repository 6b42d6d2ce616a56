package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/sitesearch/internal/models"
)

// SQLiteSessionStore implements SessionStore using SQLite.
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSessionStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		session_id TEXT NOT NULL,
		term_key TEXT NOT NULL,
		term TEXT NOT NULL,
		count INTEGER NOT NULL,
		last_timestamp INTEGER NOT NULL,
		PRIMARY KEY (session_id, term_key)
	);

	CREATE INDEX IF NOT EXISTS idx_history_session ON search_history(session_id);
	`
	_, err := db.Exec(schema)
	return err
}

// LoadHistory returns a session's entries ordered by count, then recency.
func (s *SQLiteSessionStore) LoadHistory(ctx context.Context, sessionID string) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term, count, last_timestamp FROM search_history
		 WHERE session_id = ? ORDER BY count DESC, last_timestamp DESC, term_key`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var nanos int64
		if err := rows.Scan(&e.Term, &e.Count, &nanos); err != nil {
			return nil, err
		}
		e.LastTimestamp = time.Unix(0, nanos).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveHistory replaces all of a session's rows in a single transaction.
func (s *SQLiteSessionStore) SaveHistory(ctx context.Context, sessionID string, entries []models.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM search_history WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO search_history (session_id, term_key, term, count, last_timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Term))
		if key == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, sessionID, key, e.Term, e.Count, e.LastTimestamp.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteHistory removes every entry of a session.
func (s *SQLiteSessionStore) DeleteHistory(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE session_id = ?`, sessionID)
	return err
}

// CountSessions returns the number of sessions with stored history.
func (s *SQLiteSessionStore) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT session_id) FROM search_history`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
