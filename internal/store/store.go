// Package store provides the SQLite-backed article store. Every mutation
// runs in a single transaction that also carries the search-index write, so
// an article and its index entry change together or not at all.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const defaultMaxTitleLen = 200

const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL UNIQUE,
	slug       TEXT NOT NULL UNIQUE,
	body       TEXT NOT NULL DEFAULT '',
	revision   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS search_index (
	article_id      TEXT PRIMARY KEY REFERENCES articles(id) ON DELETE CASCADE,
	title_tokens    TEXT NOT NULL DEFAULT '',
	content_tokens  TEXT NOT NULL DEFAULT '',
	last_indexed_at DATETIME NOT NULL
);
`

// Store wraps a sql.DB with article operations.
type Store struct {
	conn        *sql.DB
	maxTitleLen int
}

// Open opens (or creates) the SQLite database and applies the schema.
// maxTitleLen bounds accepted titles in runes; zero selects the default.
func Open(dsn string, maxTitleLen int) (*Store, error) {
	if maxTitleLen <= 0 {
		maxTitleLen = defaultMaxTitleLen
	}
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{conn: conn, maxTitleLen: maxTitleLen}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
