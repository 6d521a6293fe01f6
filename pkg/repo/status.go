package repo

import (
	"database/sql"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/eikasia30/gitqlite/pkg/object"
	"github.com/eikasia30/gitqlite/pkg/store"
)

// Changes groups paths by how they differ between two snapshots.
type Changes struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// Empty reports whether no path differs.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// Status is the result of comparing the last commit, the staging index and
// the working tree. Staged covers index vs. last commit, Unstaged covers
// index vs. working tree, Untracked lists files on disk the index has
// never seen. All paths are repository-relative, slash-separated, sorted.
type Status struct {
	Branch     string // branch name without the refs/heads/ prefix
	Detached   bool
	HeadCommit *object.ID // nil when the repository has no commit yet

	Staged    Changes
	Unstaged  Changes
	Untracked []string
}

// Status computes the full three-way report. Both phases are read-only:
// neither the index nor the store is modified.
func (r *Repo) Status() (*Status, error) {
	st := &Status{}

	var ix *object.Index
	var headTree map[string]object.ID

	err := store.WithTx(r.DB, func(tx *sql.Tx) error {
		head, err := store.GetHead(tx)
		if err != nil {
			return err
		}
		if head.Detached() {
			st.Detached = true
		} else {
			st.Branch = headBranchName(head)
		}

		commitID, ok, err := headCommit(tx, head)
		if err != nil {
			return err
		}
		// No commit yet: diff against an empty tree.
		headTree = map[string]object.ID{}
		if ok {
			st.HeadCommit = &commitID
			commit, err := store.GetCommit(tx, commitID)
			if err != nil {
				return err
			}
			if commit == nil {
				return fmt.Errorf("head commit %s: %w", commitID, store.ErrNotFound)
			}
			headTree, err = flattenTree(tx, commit.TreeID)
			if err != nil {
				return err
			}
		}

		ix, err = store.GetIndex(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	staged := stagedBlobs(ix)
	st.Staged = diffIndexHead(staged, headTree)

	unstaged, untracked, err := r.diffIndexWorktree(staged)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	st.Unstaged = unstaged
	st.Untracked = untracked

	return st, nil
}

func headBranchName(head object.Head) string {
	name := head.Branch
	if len(name) > len(BranchPrefix) && name[:len(BranchPrefix)] == BranchPrefix {
		return name[len(BranchPrefix):]
	}
	return name
}

// stagedBlobs extracts the path -> blob id and path -> mtime view of the
// index that both diff phases consume. Conflict entries (non-normal merge
// stage) are invisible to status.
func stagedBlobs(ix *object.Index) map[string]object.IndexEntry {
	out := make(map[string]object.IndexEntry, len(ix.Entries))
	for p, entries := range ix.Entries {
		for _, e := range entries {
			if e.Stage == object.StageNormal {
				out[p] = e
				break
			}
		}
	}
	return out
}

// flattenTree expands a tree graph into a full-path -> blob id mapping
// with an explicit stack, so arbitrarily deep trees cannot exhaust the
// goroutine stack.
func flattenTree(tx *sql.Tx, root object.ID) (map[string]object.ID, error) {
	view := make(map[string]object.ID)

	type frame struct {
		id     object.ID
		prefix string
	}
	stack := []frame{{id: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tree, err := store.GetTree(tx, f.id)
		if err != nil {
			return nil, err
		}
		if tree == nil {
			return nil, fmt.Errorf("tree %s: %w", f.id, store.ErrNotFound)
		}
		for _, e := range tree.Entries {
			full := path.Join(f.prefix, e.Name)
			switch e.Kind {
			case object.KindTree:
				stack = append(stack, frame{id: e.ID, prefix: full})
			default:
				view[full] = e.ID
			}
		}
	}
	return view, nil
}

func diffIndexHead(staged map[string]object.IndexEntry, headTree map[string]object.ID) Changes {
	var c Changes
	for p, e := range staged {
		old, ok := headTree[p]
		switch {
		case !ok:
			c.Added = append(c.Added, p)
		case old != e.BlobID:
			c.Modified = append(c.Modified, p)
		}
	}
	for p := range headTree {
		if _, ok := staged[p]; !ok {
			c.Deleted = append(c.Deleted, p)
		}
	}
	sortChanges(&c)
	return c
}

// diffIndexWorktree walks the working tree breadth-first, consuming the
// staged view as paths are seen. Files whose mtime matches the staged
// snapshot are assumed unchanged without reading them; a content edit
// that preserves mtime is therefore missed. Only when mtime differs is
// the file re-read and re-hashed.
func (r *Repo) diffIndexWorktree(staged map[string]object.IndexEntry) (Changes, []string, error) {
	var c Changes
	var untracked []string

	ig, err := LoadIgnore(r.RootDir)
	if err != nil {
		return c, nil, err
	}

	// Consumable copy: whatever the walk never touches was deleted.
	remaining := make(map[string]object.IndexEntry, len(staged))
	for p, e := range staged {
		remaining[p] = e
	}

	queue := []string{r.RootDir}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return c, nil, err
		}
		for _, de := range entries {
			if de.Name() == DirName || de.Name() == ".git" {
				continue
			}
			abs := filepath.Join(dir, de.Name())
			if ig.ShouldIgnore(abs) {
				continue
			}
			if de.IsDir() {
				queue = append(queue, abs)
				continue
			}

			rel, err := r.relPath(abs)
			if err != nil {
				return c, nil, err
			}
			entry, tracked := remaining[rel]
			if !tracked {
				untracked = append(untracked, rel)
				continue
			}
			delete(remaining, rel)

			meta, err := r.meta.Stat(abs)
			if err != nil {
				return c, nil, err
			}
			if meta.MtimeNs == entry.Mtime {
				continue
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				return c, nil, err
			}
			if (&object.Blob{Data: data}).Identify().ID != entry.BlobID {
				c.Modified = append(c.Modified, rel)
			}
		}
	}

	for p := range remaining {
		c.Deleted = append(c.Deleted, p)
	}

	sortChanges(&c)
	sort.Strings(untracked)
	return c, untracked, nil
}

func sortChanges(c *Changes) {
	sort.Strings(c.Added)
	sort.Strings(c.Modified)
	sort.Strings(c.Deleted)
}
