// Package history persists a bounded, ordered record of past evaluation
// sessions for trend display. Eviction is FIFO: appending beyond the cap
// removes the oldest entries, never based on reads.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/interview-coach/internal/types"
)

// DSN builds the sqlite connection string for a database file. The recording
// store shares the same file, so writers wait out short lock contention
// instead of surfacing "database is locked".
func DSN(dbPath string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
}

// Store is a capped, sqlite-backed session history.
type Store struct {
	db  *sql.DB
	cap int
}

// Open opens (or creates) the history database at dbPath with the given cap.
func Open(dbPath string, capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", capacity)
	}

	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS session_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		prompt TEXT NOT NULL,
		category TEXT NOT NULL,
		confidence_score INTEGER NOT NULL,
		technical_score INTEGER NOT NULL,
		pause_count INTEGER NOT NULL,
		filler_word_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_history_created_at ON session_history(created_at);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &Store{db: db, cap: capacity}, nil
}

// Append records one session summary, evicting the oldest rows beyond the cap
// in the same transaction so the length never exceeds the cap.
func (s *Store) Append(entry types.HistoryEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err = tx.Exec(`
		INSERT INTO session_history (created_at, prompt, category, confidence_score, technical_score, pause_count, filler_word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp, entry.Prompt, entry.Category,
		entry.ConfidenceScore, entry.TechnicalScore,
		entry.PauseCount, entry.FillerWordCount,
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM session_history
		WHERE id NOT IN (SELECT id FROM session_history ORDER BY id DESC LIMIT ?)`,
		s.cap,
	)
	if err != nil {
		return fmt.Errorf("failed to evict old history entries: %w", err)
	}

	return tx.Commit()
}

// List returns all stored entries, most recent last.
func (s *Store) List() ([]types.HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT created_at, prompt, category, confidence_score, technical_score, pause_count, filler_word_count
		FROM session_history ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var e types.HistoryEntry
		if err := rows.Scan(&e.Timestamp, &e.Prompt, &e.Category,
			&e.ConfidenceScore, &e.TechnicalScore,
			&e.PauseCount, &e.FillerWordCount); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every stored entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
