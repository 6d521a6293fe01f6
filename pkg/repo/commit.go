package repo

import (
	"database/sql"
	"fmt"
	"path"
	"sort"

	"github.com/eikasia30/gitqlite/pkg/object"
	"github.com/eikasia30/gitqlite/pkg/store"
)

// Commit turns the current staging snapshot into a tree graph and a new
// commit, then advances the head: the current branch ref when on a branch,
// the head row itself when detached. Everything — tree inserts, the commit
// insert and the ref/head update — happens in one transaction, so a crash
// can never publish a commit whose objects are not durable.
//
// An empty index is accepted and yields a commit of an empty root tree.
func (r *Repo) Commit(message string) (object.ID, error) {
	name, _, okName, err := r.ConfigGet("user.name", ScopeAll)
	if err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}
	email, _, okEmail, err := r.ConfigGet("user.email", ScopeAll)
	if err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}
	if !okName || !okEmail {
		return object.ID{}, fmt.Errorf("commit: %w", ErrMissingIdentity)
	}

	var commitID object.ID
	err = store.WithTx(r.DB, func(tx *sql.Tx) error {
		ix, err := store.GetIndex(tx)
		if err != nil {
			return err
		}

		rootTreeID, err := buildTrees(tx, ix)
		if err != nil {
			return err
		}

		head, err := store.GetHead(tx)
		if err != nil {
			return err
		}
		parent, hasParent, err := headCommit(tx, head)
		if err != nil {
			return err
		}
		var parents []object.ID
		if hasParent {
			parents = append(parents, parent)
		}

		commit := (&object.Commit{
			TreeID:         rootTreeID,
			ParentIDs:      parents,
			AuthorName:     name,
			AuthorEmail:    email,
			CommitterName:  name,
			CommitterEmail: email,
			Message:        message,
		}).Identify()
		if err := store.PutCommit(tx, commit); err != nil {
			return err
		}
		commitID = commit.ID

		if head.Detached() {
			return store.PutHead(tx, object.DetachedHead(commit.ID))
		}
		return store.PutRef(tx, &object.Ref{Name: head.Branch, CommitID: commit.ID})
	})
	if err != nil {
		return object.ID{}, fmt.Errorf("commit: %w", err)
	}
	return commitID, nil
}

// buildTrees converts the flat staged file list into a nested tree graph,
// persisting every tree, and returns the root tree id.
//
// Directories are processed in descending path-length order so each
// subtree is hashed strictly before its parent needs its id — bottom-up
// with a plain sorted list, no recursion over user-controlled depth.
func buildTrees(tx *sql.Tx, ix *object.Index) (object.ID, error) {
	// Bucket staged files by containing directory ("" is the root), and
	// make sure every ancestor directory has a bucket even when it holds
	// no file directly.
	buckets := map[string][]object.TreeEntry{"": nil}
	for p, entries := range ix.Entries {
		for _, e := range entries {
			if e.Stage != object.StageNormal {
				continue
			}
			dir := dirOf(p)
			for d := dir; d != ""; d = dirOf(d) {
				if _, ok := buckets[d]; !ok {
					buckets[d] = nil
				}
			}
			buckets[dir] = append(buckets[dir], object.TreeEntry{
				Name: path.Base(p),
				Kind: object.KindBlob,
				ID:   e.BlobID,
				Mode: fileMode(e.Perms),
			})
		}
	}

	dirs := make([]string, 0, len(buckets))
	for d := range buckets {
		dirs = append(dirs, d)
	}
	// A child path is always longer than its parent's, so descending
	// length orders every subdirectory before its parent.
	sort.Slice(dirs, func(i, j int) bool {
		if len(dirs[i]) != len(dirs[j]) {
			return len(dirs[i]) > len(dirs[j])
		}
		return dirs[i] < dirs[j]
	})

	var rootID object.ID
	for _, dir := range dirs {
		tree := (&object.Tree{Entries: buckets[dir]}).Identify()
		if err := store.PutTree(tx, tree); err != nil {
			return object.ID{}, err
		}
		if dir == "" {
			rootID = tree.ID
			continue
		}
		parent := dirOf(dir)
		buckets[parent] = append(buckets[parent], object.TreeEntry{
			Name: path.Base(dir),
			Kind: object.KindTree,
			ID:   tree.ID,
			Mode: object.TreeModeDir,
		})
	}
	return rootID, nil
}

// dirOf returns the containing directory of a repo-relative slash path,
// with "" for the root.
func dirOf(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// fileMode maps staged permission bits onto the canonical tree modes.
func fileMode(perms uint32) string {
	if perms&0o111 != 0 {
		return object.TreeModeExecutable
	}
	return object.TreeModeFile
}
