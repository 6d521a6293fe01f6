package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestRepo initializes a repository in a temp directory with config
// lookups isolated from the host machine.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(systemConfigEnv, filepath.Join(home, "system-gitconfig"))

	r, _, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func writeWorkFile(t *testing.T, r *Repo, rel, content string) string {
	t.Helper()
	abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir for %s failed: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s failed: %v", rel, err)
	}
	return abs
}

func setIdentity(t *testing.T, r *Repo) {
	t.Helper()
	if err := r.ConfigSet("user.name", "Test User", ScopeLocal); err != nil {
		t.Fatalf("set user.name failed: %v", err)
	}
	if err := r.ConfigSet("user.email", "test@example.com", ScopeLocal); err != nil {
		t.Fatalf("set user.email failed: %v", err)
	}
}

func TestInitCreatesRepository(t *testing.T) {
	r := newTestRepo(t)

	if _, err := os.Stat(r.HomeDir); err != nil {
		t.Fatalf("metadata directory missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.HomeDir, "config")); err != nil {
		t.Fatalf("default config missing: %v", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Detached {
		t.Error("fresh repository should be on a branch")
	}
	if st.Branch != "main" {
		t.Errorf("default branch = %q, want main", st.Branch)
	}
	if st.HeadCommit != nil {
		t.Error("fresh repository should have no head commit")
	}

	ix, err := r.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if len(ix.Entries) != 0 {
		t.Errorf("fresh index has %d entries, want 0", len(ix.Entries))
	}
}

func TestInitDefaultBranchFromConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(systemConfigEnv, filepath.Join(home, "system-gitconfig"))
	globalCfg := "[init]\ndefaultbranch = trunk\n"
	if err := os.WriteFile(filepath.Join(home, ".gitconfig"), []byte(globalCfg), 0o644); err != nil {
		t.Fatalf("write global config failed: %v", err)
	}

	r, _, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer r.Close()

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Branch != "trunk" {
		t.Errorf("branch = %q, want trunk", st.Branch)
	}
}

func TestInitReinitializeWipesState(t *testing.T) {
	r := newTestRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{filepath.Join(r.RootDir, "a.txt")}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	r.Close()

	r2, reinitialized, err := Init(r.RootDir)
	if err != nil {
		t.Fatalf("re-Init failed: %v", err)
	}
	defer r2.Close()
	if !reinitialized {
		t.Error("second Init should report reinitialization")
	}

	ix, err := r2.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if len(ix.Entries) != 0 {
		t.Errorf("reinitialized index has %d entries, want 0", len(ix.Entries))
	}
}

func TestOpenFindsRootFromSubdirectory(t *testing.T) {
	r := newTestRepo(t)
	sub := filepath.Join(r.RootDir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	opened, err := Open(sub)
	if err != nil {
		t.Fatalf("Open from subdirectory failed: %v", err)
	}
	defer opened.Close()
	if opened.RootDir != r.RootDir {
		t.Errorf("RootDir = %q, want %q", opened.RootDir, r.RootDir)
	}
}

func TestOpenNotRepositoryIsRecoverable(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir)
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("Open outside a repository: got %v, want ErrNotRepository", err)
	}

	// The failed discovery must leave the process able to initialize.
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(systemConfigEnv, filepath.Join(home, "system-gitconfig"))
	r, _, err := Init(dir)
	if err != nil {
		t.Fatalf("Init after failed Open: %v", err)
	}
	r.Close()
}
