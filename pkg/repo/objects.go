package repo

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/eikasia30/gitqlite/pkg/object"
	"github.com/eikasia30/gitqlite/pkg/store"
)

// ReadBlob loads one blob by id, failing with store.ErrNotFound when the
// object does not exist.
func (r *Repo) ReadBlob(id object.ID) (*object.IdentifiedBlob, error) {
	var b *object.IdentifiedBlob
	err := store.WithTx(r.DB, func(tx *sql.Tx) error {
		var err error
		b, err = store.GetBlob(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("blob %s: %w", id, store.ErrNotFound)
	}
	return b, nil
}

// ReadTree loads one tree by id.
func (r *Repo) ReadTree(id object.ID) (*object.IdentifiedTree, error) {
	var t *object.IdentifiedTree
	err := store.WithTx(r.DB, func(tx *sql.Tx) error {
		var err error
		t, err = store.GetTree(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tree %s: %w", id, store.ErrNotFound)
	}
	return t, nil
}

// ReadCommit loads one commit by id.
func (r *Repo) ReadCommit(id object.ID) (*object.IdentifiedCommit, error) {
	var c *object.IdentifiedCommit
	err := store.WithTx(r.DB, func(tx *sql.Tx) error {
		var err error
		c, err = store.GetCommit(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("commit %s: %w", id, store.ErrNotFound)
	}
	return c, nil
}

// HashObject computes the blob id of a file's content, persisting the
// blob as well when write is set.
func (r *Repo) HashObject(path string, write bool) (object.ID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return object.ID{}, fmt.Errorf("hash-object: %w", err)
	}
	blob := (&object.Blob{Data: data}).Identify()
	if !write {
		return blob.ID, nil
	}
	err = store.WithTx(r.DB, func(tx *sql.Tx) error {
		return store.PutBlob(tx, blob)
	})
	if err != nil {
		return object.ID{}, fmt.Errorf("hash-object: %w", err)
	}
	return blob.ID, nil
}
