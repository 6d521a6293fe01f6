package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/eikasia30/gitqlite/pkg/object"
)

func newTestTx(t *testing.T) *sql.Tx {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback() })

	if err := InitSchema(tx); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return tx
}

func TestBlobRoundTrip(t *testing.T) {
	tx := newTestTx(t)

	blob := (&object.Blob{Data: []byte("the quick brown fox")}).Identify()
	if err := PutBlob(tx, blob); err != nil {
		t.Fatalf("PutBlob: %v", err)
	}

	got, err := GetBlob(tx, blob.ID)
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if got == nil {
		t.Fatal("GetBlob returned nil for a stored blob")
	}
	if string(got.Data) != "the quick brown fox" {
		t.Errorf("blob data = %q", got.Data)
	}
}

func TestBlobAbsent(t *testing.T) {
	tx := newTestTx(t)

	id := (&object.Blob{Data: []byte("never stored")}).Identify().ID
	got, err := GetBlob(tx, id)
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if got != nil {
		t.Errorf("GetBlob on absent id = %v, want nil", got)
	}
}

func TestPersistTwiceIsIdempotent(t *testing.T) {
	tx := newTestTx(t)

	blob := (&object.Blob{Data: []byte("dup")}).Identify()
	if err := PutBlob(tx, blob); err != nil {
		t.Fatalf("first PutBlob: %v", err)
	}
	if err := PutBlob(tx, blob); err != nil {
		t.Fatalf("second PutBlob: %v", err)
	}

	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM Blobs;").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("stored rows = %d, want 1", n)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	tx := newTestTx(t)

	blob := (&object.Blob{Data: []byte("leaf")}).Identify()
	tree := (&object.Tree{Entries: []object.TreeEntry{
		{Name: "leaf.txt", Kind: object.KindBlob, ID: blob.ID, Mode: object.TreeModeFile},
	}}).Identify()

	if err := PutTree(tx, tree); err != nil {
		t.Fatalf("PutTree: %v", err)
	}
	got, err := GetTree(tx, tree.ID)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if got == nil || len(got.Entries) != 1 || got.Entries[0] != tree.Entries[0] {
		t.Errorf("tree round trip mismatch: %+v", got)
	}
}

func TestTreeCorruptEncoding(t *testing.T) {
	tx := newTestTx(t)

	id := (&object.Blob{Data: []byte("t")}).Identify().ID
	if _, err := tx.Exec(
		"INSERT INTO Trees (tree_id, data) VALUES (?, ?);",
		id.String(), "not a tree encoding",
	); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	if _, err := GetTree(tx, id); !errors.Is(err, object.ErrMalformedEncoding) {
		t.Errorf("GetTree on corrupt row = %v, want ErrMalformedEncoding", err)
	}
}

func TestCommitRoundTrip(t *testing.T) {
	tx := newTestTx(t)

	tree := (&object.Tree{}).Identify()
	parent := (&object.Blob{Data: []byte("parent")}).Identify().ID
	commit := (&object.Commit{
		TreeID:         tree.ID,
		ParentIDs:      []object.ID{parent},
		AuthorName:     "Jane Doe",
		AuthorEmail:    "jane@example.com",
		CommitterName:  "John Doe",
		CommitterEmail: "john@example.com",
		Message:        "initial\n\nwith body",
	}).Identify()

	if err := PutCommit(tx, commit); err != nil {
		t.Fatalf("PutCommit: %v", err)
	}
	got, err := GetCommit(tx, commit.ID)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if got == nil {
		t.Fatal("GetCommit returned nil for a stored commit")
	}
	if got.TreeID != commit.TreeID ||
		len(got.ParentIDs) != 1 || got.ParentIDs[0] != parent ||
		got.AuthorName != "Jane Doe" || got.CommitterEmail != "john@example.com" ||
		got.Message != commit.Message {
		t.Errorf("commit round trip mismatch: %+v", got)
	}
}

func TestRefUpsert(t *testing.T) {
	tx := newTestTx(t)

	first := (&object.Blob{Data: []byte("c1")}).Identify().ID
	second := (&object.Blob{Data: []byte("c2")}).Identify().ID

	if r, err := GetRef(tx, "refs/heads/main"); err != nil || r != nil {
		t.Fatalf("GetRef on empty table = %v, %v; want nil, nil", r, err)
	}

	if err := PutRef(tx, &object.Ref{Name: "refs/heads/main", CommitID: first}); err != nil {
		t.Fatalf("PutRef: %v", err)
	}
	if err := PutRef(tx, &object.Ref{Name: "refs/heads/main", CommitID: second}); err != nil {
		t.Fatalf("PutRef update: %v", err)
	}

	got, err := GetRef(tx, "refs/heads/main")
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if got == nil || got.CommitID != second {
		t.Errorf("ref after update = %+v, want commit %s", got, second)
	}
}

func TestHeadWholesale(t *testing.T) {
	tx := newTestTx(t)

	if err := PutHead(tx, object.BranchHead("refs/heads/main")); err != nil {
		t.Fatalf("PutHead: %v", err)
	}
	h, err := GetHead(tx)
	if err != nil {
		t.Fatalf("GetHead: %v", err)
	}
	if h.Detached() || h.Branch != "refs/heads/main" {
		t.Errorf("head = %+v, want branch refs/heads/main", h)
	}

	id := (&object.Blob{Data: []byte("detach")}).Identify().ID
	if err := PutHead(tx, object.DetachedHead(id)); err != nil {
		t.Fatalf("PutHead detached: %v", err)
	}
	h, err = GetHead(tx)
	if err != nil {
		t.Fatalf("GetHead: %v", err)
	}
	if !h.Detached() || *h.Commit != id {
		t.Errorf("head = %+v, want detached at %s", h, id)
	}

	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM Head;").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("head rows = %d, want 1", n)
	}
}

func TestIndexSnapshot(t *testing.T) {
	tx := newTestTx(t)

	// Missing row reads as an empty index.
	ix, err := GetIndex(tx)
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if len(ix.Entries) != 0 {
		t.Fatalf("fresh index has %d entries", len(ix.Entries))
	}

	blobID := (&object.Blob{Data: []byte("f")}).Identify().ID
	ix.Set("dir/f.txt", object.IndexEntry{
		Mtime:  12345,
		Kind:   object.FileRegular,
		Perms:  0o644,
		Size:   1,
		BlobID: blobID,
		Stage:  object.StageNormal,
	})
	if err := PutIndex(tx, ix); err != nil {
		t.Fatalf("PutIndex: %v", err)
	}

	back, err := GetIndex(tx)
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	entries := back.Entries["dir/f.txt"]
	if len(entries) != 1 || entries[0].BlobID != blobID || entries[0].Mtime != 12345 {
		t.Errorf("index round trip mismatch: %+v", back.Entries)
	}

	// Every persist rewrites the snapshot; the table stays single-row.
	if err := PutIndex(tx, back); err != nil {
		t.Fatalf("PutIndex rewrite: %v", err)
	}
	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM Index_;").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("index rows = %d, want 1", n)
	}
}
