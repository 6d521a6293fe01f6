package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/eikasia30/gitqlite/pkg/object"
)

// Blob payloads are zstd-compressed at rest. Ids are always computed over
// the raw bytes, so compression is invisible above this layer.
var (
	zstdEnc, _ = zstd.NewWriter(nil)
	zstdDec, _ = zstd.NewReader(nil)
)

// PutBlob stores an identified blob. Storing an id that already exists is
// a no-op.
func PutBlob(tx *sql.Tx, b *object.IdentifiedBlob) error {
	packed := zstdEnc.EncodeAll(b.Data, nil)
	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO Blobs (blob_id, data) VALUES (?, ?);",
		b.ID.String(), packed,
	); err != nil {
		return fmt.Errorf("persist blob %s: %w", b.ID, err)
	}
	return nil
}

// GetBlob reads a blob by id, returning (nil, nil) if absent.
func GetBlob(tx *sql.Tx, id object.ID) (*object.IdentifiedBlob, error) {
	var packed []byte
	err := tx.QueryRow(
		"SELECT data FROM Blobs WHERE blob_id = ?;", id.String(),
	).Scan(&packed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", id, err)
	}
	data, err := zstdDec.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w: %v", id, object.ErrMalformedEncoding, err)
	}
	return &object.IdentifiedBlob{ID: id, Data: data}, nil
}

// PutTree stores an identified tree; duplicate ids are ignored.
func PutTree(tx *sql.Tx, t *object.IdentifiedTree) error {
	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO Trees (tree_id, data) VALUES (?, ?);",
		t.ID.String(), object.EncodeTree(t),
	); err != nil {
		return fmt.Errorf("persist tree %s: %w", t.ID, err)
	}
	return nil
}

// GetTree reads a tree by id, returning (nil, nil) if absent. A stored
// encoding that fails to parse is a fatal decode error.
func GetTree(tx *sql.Tx, id object.ID) (*object.IdentifiedTree, error) {
	var data string
	err := tx.QueryRow(
		"SELECT data FROM Trees WHERE tree_id = ?;", id.String(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", id, err)
	}
	t, err := object.DecodeTree(id, data)
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", id, err)
	}
	return t, nil
}

// PutCommit stores an identified commit; duplicate ids are ignored.
func PutCommit(tx *sql.Tx, c *object.IdentifiedCommit) error {
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO Commits
		 (commit_id, tree_id, parent_ids, author_name, author_email, committer_name, committer_email, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		c.ID.String(), c.TreeID.String(), object.EncodeParentIDs(c.ParentIDs),
		c.AuthorName, c.AuthorEmail, c.CommitterName, c.CommitterEmail, c.Message,
	); err != nil {
		return fmt.Errorf("persist commit %s: %w", c.ID, err)
	}
	return nil
}

// GetCommit reads a commit by id, returning (nil, nil) if absent.
func GetCommit(tx *sql.Tx, id object.ID) (*object.IdentifiedCommit, error) {
	var (
		treeHex string
		parents []byte
		c       object.Commit
	)
	err := tx.QueryRow(
		`SELECT tree_id, parent_ids, author_name, author_email, committer_name, committer_email, message
		 FROM Commits WHERE commit_id = ?;`, id.String(),
	).Scan(&treeHex, &parents, &c.AuthorName, &c.AuthorEmail, &c.CommitterName, &c.CommitterEmail, &c.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	if c.TreeID, err = object.ParseID(treeHex); err != nil {
		return nil, fmt.Errorf("read commit %s: %w: %v", id, object.ErrMalformedEncoding, err)
	}
	if c.ParentIDs, err = object.DecodeParentIDs(parents); err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	return &object.IdentifiedCommit{ID: id, Commit: c}, nil
}

// PutRef upserts a named ref: last write wins per name.
func PutRef(tx *sql.Tx, r *object.Ref) error {
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO Refs (ref_name, commit_id) VALUES (?, ?);",
		r.Name, r.CommitID.String(),
	); err != nil {
		return fmt.Errorf("persist ref %q: %w", r.Name, err)
	}
	return nil
}

// GetRef reads a ref by name, returning (nil, nil) if absent. Absence is
// normal for a freshly initialized repository whose head branch has no
// commit yet.
func GetRef(tx *sql.Tx, name string) (*object.Ref, error) {
	var hex string
	err := tx.QueryRow(
		"SELECT commit_id FROM Refs WHERE ref_name = ?;", name,
	).Scan(&hex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ref %q: %w", name, err)
	}
	id, err := object.ParseID(hex)
	if err != nil {
		return nil, fmt.Errorf("read ref %q: %w: %v", name, object.ErrMalformedEncoding, err)
	}
	return &object.Ref{Name: name, CommitID: id}, nil
}

// PutHead overwrites the single head row wholesale.
func PutHead(tx *sql.Tx, h object.Head) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("persist head: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM Head;"); err != nil {
		return fmt.Errorf("persist head: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO Head (head) VALUES (?);", string(data)); err != nil {
		return fmt.Errorf("persist head: %w", err)
	}
	return nil
}

// GetHead reads the repository head. A repository always has exactly one
// head row once initialized; a missing row surfaces ErrNotFound.
func GetHead(tx *sql.Tx) (object.Head, error) {
	var data string
	err := tx.QueryRow("SELECT head FROM Head;").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return object.Head{}, fmt.Errorf("read head: %w", ErrNotFound)
	}
	if err != nil {
		return object.Head{}, fmt.Errorf("read head: %w", err)
	}
	var h object.Head
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return object.Head{}, fmt.Errorf("read head: %w: %v", object.ErrMalformedEncoding, err)
	}
	return h, nil
}

// PutIndex rewrites the full staging snapshot. The index is never appended
// to; every persist replaces the single row.
func PutIndex(tx *sql.Tx, ix *object.Index) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM Index_;"); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO Index_ (data) VALUES (?);", string(data)); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	return nil
}

// GetIndex reads the staging snapshot. A missing row reads as an empty
// index.
func GetIndex(tx *sql.Tx) (*object.Index, error) {
	var data string
	err := tx.QueryRow("SELECT data FROM Index_;").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return object.NewIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var ix object.Index
	if err := json.Unmarshal([]byte(data), &ix); err != nil {
		return nil, fmt.Errorf("read index: %w: %v", object.ErrMalformedEncoding, err)
	}
	if ix.Entries == nil {
		ix.Entries = make(map[string][]object.IndexEntry)
	}
	return &ix, nil
}
