// Package session persists serialized order drafts to a local sqlite file so
// operators do not lose half-built orders across API restarts. The main
// database stays the source of truth for everything else; drafts have no
// persisted identity there until submission.
package session

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// NewStore opens (and initializes) the draft store at the given path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			id          TEXT PRIMARY KEY,
			business_id TEXT NOT NULL,
			payload     TEXT NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize draft store: %w", err)
	}

	return &Store{db: db}, nil
}

// Save upserts a serialized draft.
func (s *Store) Save(id, businessID string, payload []byte, updatedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO drafts (id, business_id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		id, businessID, string(payload), updatedAt.UTC())
	return err
}

// Load returns the serialized draft, or sql.ErrNoRows.
func (s *Store) Load(id string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM drafts WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

// LoadAll returns every stored draft payload, used to rebuild the in-memory
// registry at startup.
func (s *Store) LoadAll() ([][]byte, error) {
	rows, err := s.db.Query(`SELECT payload FROM drafts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			continue
		}
		payloads = append(payloads, []byte(payload))
	}
	return payloads, rows.Err()
}

// Delete removes a draft, typically after successful submission.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	return err
}

// DeleteStale drops drafts untouched since the cutoff and returns how many.
func (s *Store) DeleteStale(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM drafts WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}
