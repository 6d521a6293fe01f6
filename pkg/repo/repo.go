// Package repo implements the gitqlite repository operations: staging,
// commit construction, status, ignore rules and configuration. Objects are
// persisted through pkg/store into a single SQLite database under the
// .gitqlite directory.
package repo

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eikasia30/gitqlite/pkg/object"
	"github.com/eikasia30/gitqlite/pkg/store"
)

const (
	// DirName is the repository metadata directory under the root.
	DirName = ".gitqlite"
	// dbName is the SQLite database file inside DirName.
	dbName = "gitqlite.db"

	// BranchPrefix is the namespace of branch refs.
	BranchPrefix = "refs/heads/"

	defaultBranch = "main"
)

// Repo is an opened gitqlite repository. One Repo owns one database
// connection; operations run synchronously, each in its own transaction.
type Repo struct {
	RootDir string // working tree root
	HomeDir string // .gitqlite directory
	DB      *sql.DB

	meta MetadataProvider
}

// Init creates (or recreates) a repository at path: the .gitqlite
// directory, the database schema, a default local config, a branch head
// and an empty index. An existing repository at path is wiped first.
// The initial branch comes from config init.defaultbranch, or "main".
func Init(path string) (*Repo, bool, error) {
	return InitBranch(path, "")
}

// InitBranch is Init with an explicit initial branch name. An empty name
// falls back to the configured default.
func InitBranch(path, branch string) (*Repo, bool, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("init: %w", err)
	}
	home := filepath.Join(root, DirName)

	reinitialized := false
	if _, err := os.Stat(home); err == nil {
		reinitialized = true
		if err := os.RemoveAll(home); err != nil {
			return nil, false, fmt.Errorf("init: remove existing %s: %w", home, err)
		}
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, false, fmt.Errorf("init: mkdir %s: %w", home, err)
	}

	db, err := store.Open(filepath.Join(home, dbName))
	if err != nil {
		return nil, false, fmt.Errorf("init: %w", err)
	}

	r := &Repo{RootDir: root, HomeDir: home, DB: db, meta: NewMetadataProvider()}

	if err := writeDefaultConfig(r.localConfigPath()); err != nil {
		db.Close()
		return nil, false, fmt.Errorf("init: %w", err)
	}

	if branch == "" {
		branch = defaultBranch
		if v, _, ok, err := r.ConfigGet("init.defaultbranch", ScopeAll); err == nil && ok && v != "" {
			branch = v
		}
	}

	err = store.WithTx(db, func(tx *sql.Tx) error {
		if err := store.InitSchema(tx); err != nil {
			return err
		}
		// A fresh head points at a branch whose ref does not exist yet;
		// the ref row appears with the first commit.
		if err := store.PutHead(tx, object.BranchHead(BranchPrefix+branch)); err != nil {
			return err
		}
		return store.PutIndex(tx, object.NewIndex())
	})
	if err != nil {
		db.Close()
		return nil, false, fmt.Errorf("init: %w", err)
	}

	return r, reinitialized, nil
}

// Open searches upward from path for a .gitqlite directory and opens the
// repository. Returns ErrNotRepository when the search reaches the
// filesystem root without finding one.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	cur := abs
	for {
		home := filepath.Join(cur, DirName)
		if info, err := os.Stat(home); err == nil && info.IsDir() {
			db, err := store.Open(filepath.Join(home, dbName))
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return &Repo{
				RootDir: cur,
				HomeDir: home,
				DB:      db,
				meta:    NewMetadataProvider(),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
		}
		cur = parent
	}
}

// Close releases the database connection.
func (r *Repo) Close() error {
	return r.DB.Close()
}

// headCommit resolves the current head to a commit id: directly when
// detached, through the ref table when on a branch. ok is false when no
// commit exists yet (fresh repository).
func headCommit(tx *sql.Tx, head object.Head) (object.ID, bool, error) {
	if head.Detached() {
		return *head.Commit, true, nil
	}
	ref, err := store.GetRef(tx, head.Branch)
	if err != nil {
		return object.ID{}, false, err
	}
	if ref == nil {
		return object.ID{}, false, nil
	}
	return ref.CommitID, true, nil
}

// relPath converts p (absolute, or relative to the current directory) into
// a slash-separated path relative to the repository root. Paths that
// resolve outside the root are rejected.
func (r *Repo) relPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		abs = filepath.Join(cwd, p)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil || rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", &PathOutsideRepositoryError{Path: abs, Root: r.RootDir}
	}
	return filepath.ToSlash(rel), nil
}
