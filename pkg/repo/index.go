package repo

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eikasia30/gitqlite/pkg/object"
	"github.com/eikasia30/gitqlite/pkg/store"
)

// ReadIndex loads the full staging snapshot.
func (r *Repo) ReadIndex() (*object.Index, error) {
	var ix *object.Index
	err := store.WithTx(r.DB, func(tx *sql.Tx) error {
		var err error
		ix, err = store.GetIndex(tx)
		return err
	})
	return ix, err
}

// Add stages the given files: each file's content becomes a blob, and its
// index entry records the metadata snapshot at the moment of staging. Any
// existing entry for the path is replaced. The whole call is one
// transaction; a path outside the repository or excluded by ignore rules
// fails it with no partial mutation.
func (r *Repo) Add(paths []string) error {
	ig, err := LoadIgnore(r.RootDir)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	type staged struct {
		rel  string
		blob *object.IdentifiedBlob
		meta Metadata
	}
	var files []staged

	for _, p := range paths {
		rel, err := r.relPath(p)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))

		if ig.ShouldIgnore(abs) {
			return fmt.Errorf("add: %w", &IgnoredPathError{Path: rel})
		}

		content, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("add: read %q: %w", rel, err)
		}
		meta, err := r.meta.Stat(abs)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}

		files = append(files, staged{
			rel:  rel,
			blob: (&object.Blob{Data: content}).Identify(),
			meta: meta,
		})
	}

	return store.WithTx(r.DB, func(tx *sql.Tx) error {
		ix, err := store.GetIndex(tx)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		for _, f := range files {
			if err := store.PutBlob(tx, f.blob); err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ix.Set(f.rel, object.IndexEntry{
				Ctime:  f.meta.CtimeNs,
				Mtime:  f.meta.MtimeNs,
				Dev:    f.meta.Dev,
				Ino:    f.meta.Ino,
				Kind:   object.FileRegular,
				Perms:  f.meta.Perms,
				UID:    f.meta.UID,
				GID:    f.meta.GID,
				Size:   f.meta.Size,
				BlobID: f.blob.ID,
				Stage:  object.StageNormal,
			})
		}
		if err := store.PutIndex(tx, ix); err != nil {
			return fmt.Errorf("add: %w", err)
		}
		return nil
	})
}

// Remove unstages path, returning the removed entries, or nil when the
// path was not staged. Only the index is touched; deleting the working
// file, when wanted, is the caller's job.
func (r *Repo) Remove(path string) ([]object.IndexEntry, error) {
	rel, err := r.relPath(path)
	if err != nil {
		return nil, fmt.Errorf("rm: %w", err)
	}

	var removed []object.IndexEntry
	err = store.WithTx(r.DB, func(tx *sql.Tx) error {
		ix, err := store.GetIndex(tx)
		if err != nil {
			return fmt.Errorf("rm: %w", err)
		}
		removed = ix.Remove(rel)
		if removed == nil {
			return nil
		}
		if err := store.PutIndex(tx, ix); err != nil {
			return fmt.Errorf("rm: %w", err)
		}
		return nil
	})
	return removed, err
}
