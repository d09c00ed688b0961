// Package recording keeps the single most-recent recorded clip so the
// presentation layer can replay or re-submit it. It is a plain key->blob
// store with get/put/delete semantics and no pipeline logic.
package recording

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/interview-coach/internal/history"
)

// latestKey is the fixed identifier for the most recent clip.
const latestKey = "latest"

// ErrNotFound indicates no clip has been saved yet.
var ErrNotFound = errors.New("no recording stored")

// Clip is a stored recording with its content type.
type Clip struct {
	Data     []byte
	MimeType string
	SavedAt  time.Time
}

// Store persists the most recent clip in sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the recording store at dbPath. The history store
// may hold the same file, so the shared DSN applies a busy timeout.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", history.DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open recording database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS recordings (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		mime_type TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create recordings table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save replaces the stored clip.
func (s *Store) Save(data []byte, mimeType string) error {
	if len(data) == 0 {
		return errors.New("refusing to save an empty clip")
	}
	_, err := s.db.Exec(`
		INSERT INTO recordings (key, data, mime_type, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data=excluded.data, mime_type=excluded.mime_type, saved_at=excluded.saved_at`,
		latestKey, data, mimeType, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save recording: %w", err)
	}
	return nil
}

// Load returns the stored clip, or ErrNotFound.
func (s *Store) Load() (*Clip, error) {
	var clip Clip
	err := s.db.QueryRow(`SELECT data, mime_type, saved_at FROM recordings WHERE key = ?`, latestKey).
		Scan(&clip.Data, &clip.MimeType, &clip.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recording: %w", err)
	}
	return &clip, nil
}

// Clear deletes the stored clip. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM recordings WHERE key = ?`, latestKey); err != nil {
		return fmt.Errorf("failed to clear recording: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
