// Package store persists gitqlite objects in a SQLite database. It is a
// thin content-addressed layer: persist-if-absent writes and read-by-id
// lookups per object kind. Every function operates on a caller-supplied
// transaction; the package never begins or commits one itself.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a required object id is absent from the store.
var ErrNotFound = errors.New("object not found")

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// One command invocation is one connection; pooling only hides errors.
	db.SetMaxOpenConns(1)
	return db, nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS Blobs (
	blob_id TEXT PRIMARY KEY,
	data    BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS Trees (
	tree_id TEXT PRIMARY KEY,
	data    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Commits (
	commit_id       TEXT PRIMARY KEY,
	tree_id         TEXT NOT NULL,
	parent_ids      BLOB NOT NULL,
	author_name     TEXT NOT NULL,
	author_email    TEXT NOT NULL,
	committer_name  TEXT NOT NULL,
	committer_email TEXT NOT NULL,
	message         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Refs (
	ref_name  TEXT PRIMARY KEY,
	commit_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Head (
	head TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS Index_ (
	data TEXT NOT NULL
);
`

// InitSchema creates the object tables.
func InitSchema(tx *sql.Tx) error {
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
