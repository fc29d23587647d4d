package client

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Credentials is what the client keeps between runs: the bearer token and
// the account it belongs to.
type Credentials struct {
	Token     string
	UserID    int64
	UserName  string
	UserEmail string
	SavedAt   time.Time
}

// CredentialStore persists credentials in a local SQLite database. It is
// touched only at defined lifecycle points: app start, login success and
// logout.
type CredentialStore struct {
	db *sql.DB
}

// OpenCredentialStore opens (and if needed creates) the credential
// database at path.
func OpenCredentialStore(path string) (*CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open credential database: %w", err)
	}

	store := &CredentialStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *CredentialStore) initSchema() error {
	// Single-row table; id is fixed so Save can upsert.
	query := `
	CREATE TABLE IF NOT EXISTS credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		user_email TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("initialize credential schema: %w", err)
	}
	return nil
}

// Load returns the stored credentials, or (nil, nil) when logged out
func (s *CredentialStore) Load() (*Credentials, error) {
	row := s.db.QueryRow(`SELECT token, user_id, user_name, user_email, saved_at FROM credentials WHERE id = 1`)

	var creds Credentials
	var savedAt int64
	err := row.Scan(&creds.Token, &creds.UserID, &creds.UserName, &creds.UserEmail, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	creds.SavedAt = time.Unix(savedAt, 0)
	return &creds, nil
}

// Save stores credentials, replacing any previous ones
func (s *CredentialStore) Save(creds Credentials) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (id, token, user_id, user_name, user_email, saved_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			saved_at = excluded.saved_at`,
		creds.Token, creds.UserID, creds.UserName, creds.UserEmail, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Clear removes stored credentials. Clearing an empty store is not an
// error, so logout stays idempotent.
func (s *CredentialStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
