package object

// EntryKind identifies what a tree entry points at.
type EntryKind string

const (
	KindBlob EntryKind = "blob"
	KindTree EntryKind = "tree"
)

// Git-compatible mode strings used in tree entries.
const (
	TreeModeDir        = "040000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
)

// Blob holds raw file data. It has no identity yet; call Identify to compute
// one. Only identified objects can be persisted or compared by id.
type Blob struct {
	Data []byte
}

// Identify computes the blob's id (the digest of the raw bytes) and returns
// the identified form. The conversion is one-way.
func (b *Blob) Identify() *IdentifiedBlob {
	return &IdentifiedBlob{ID: hashBytes(b.Data), Data: b.Data}
}

// IdentifiedBlob is a Blob with a computed identifier.
type IdentifiedBlob struct {
	ID   ID
	Data []byte
}

// TreeEntry is one named pointer inside a tree, at either a blob or a
// subtree. Mode is a git-style mode string; directories always use
// TreeModeDir.
type TreeEntry struct {
	Name string
	Kind EntryKind
	ID   ID
	Mode string
}

// Tree represents a directory snapshot as a list of entries. Entries are
// canonically sorted by name at encoding time, so construction order does
// not affect the identity.
type Tree struct {
	Entries []TreeEntry
}

// Identify computes the tree's id over its canonical encoding.
func (t *Tree) Identify() *IdentifiedTree {
	sorted := sortedEntries(t.Entries)
	return &IdentifiedTree{
		ID:      hashBytes(encodeTreeEntries(sorted)),
		Entries: sorted,
	}
}

// IdentifiedTree is a Tree with a computed identifier and canonically
// sorted entries.
type IdentifiedTree struct {
	ID      ID
	Entries []TreeEntry
}

// Commit captures a tree snapshot with parents, identity and message.
// Parent order is significant and part of the identity.
type Commit struct {
	TreeID         ID
	ParentIDs      []ID
	AuthorName     string
	AuthorEmail    string
	CommitterName  string
	CommitterEmail string
	Message        string
}

// Identify computes the commit's id over its canonical payload.
func (c *Commit) Identify() *IdentifiedCommit {
	return &IdentifiedCommit{ID: hashBytes(c.payload()), Commit: *c}
}

// IdentifiedCommit is a Commit with a computed identifier.
type IdentifiedCommit struct {
	ID ID
	Commit
}

// Ref is a mutable named pointer to a commit. Last write wins per name.
type Ref struct {
	Name     string
	CommitID ID
}

// Head is the single current-position pointer of a repository: either a
// branch (indirect, resolved through a Ref) or a detached commit id.
// Exactly one of Branch and Commit is set.
type Head struct {
	Branch string `json:"branch,omitempty"`
	Commit *ID    `json:"commit,omitempty"`
}

// BranchHead returns a Head pointing at the named ref.
func BranchHead(refName string) Head {
	return Head{Branch: refName}
}

// DetachedHead returns a Head pointing directly at a commit.
func DetachedHead(id ID) Head {
	return Head{Commit: &id}
}

// Detached reports whether the head points directly at a commit.
func (h Head) Detached() bool {
	return h.Commit != nil
}
