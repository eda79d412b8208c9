// Package store persists encoded deck state in SQLite under string keys.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
)

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Config holds database settings.
type Config struct {
	// Path is the SQLite file. Use ":memory:" for a throwaway database.
	Path string

	// BusyTimeout is how long to wait when the database is locked.
	BusyTimeout time.Duration
}

// DefaultConfig returns a Config for the database at path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
	}
}

// Store is a key/value table of encoded editors.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open connects to the database and creates the table if needed.
func Open(ctx context.Context, config *Config) (*Store, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		config.Path, config.BusyTimeout.Milliseconds())
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{conn: conn, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Put stores data under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key, data string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO decks (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, s.now().Unix())
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Get returns the data under key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM decks WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return data, true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM decks WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key, most recently updated first.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT key FROM decks ORDER BY updated_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// SaveEditor encodes e and stores it under key. It returns the number of
// bytes written.
func (s *Store) SaveEditor(ctx context.Context, key string, e *deck.Editor, cat catalog.Catalog) (int, error) {
	text, err := e.Encode(cat)
	if err != nil {
		return 0, fmt.Errorf("encode deck: %w", err)
	}
	if err := s.Put(ctx, key, text); err != nil {
		return 0, err
	}
	return len(text), nil
}

// LoadEditor restores the editor stored under key. A missing or undecodable
// value yields an empty editor and false; only database failures are
// returned as errors.
func (s *Store) LoadEditor(ctx context.Context, key string, cat catalog.Catalog) (*deck.Editor, bool, error) {
	text, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return deck.NewEditor(nil), false, nil
	}
	e, ok := deck.DecodeEditor(text, cat)
	if !ok {
		return deck.NewEditor(nil), false, nil
	}
	return e, true, nil
}
