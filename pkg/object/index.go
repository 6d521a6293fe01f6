package object

// FileKind classifies the filesystem object behind an index entry.
type FileKind string

const (
	FileRegular FileKind = "regular"
	FileSymlink FileKind = "symlink"
	FileDir     FileKind = "directory"
)

// MergeStage distinguishes the copies of a path during an unresolved merge
// conflict.
type MergeStage uint8

const (
	// StageNormal marks an entry that is not part of a conflict.
	StageNormal MergeStage = 0
	// StageAncestor is the common-ancestor version of a conflicted path.
	StageAncestor MergeStage = 1
	// StageOurs is the version of the branch being merged into.
	StageOurs MergeStage = 2
	// StageTheirs is the version of the branch being merged in.
	StageTheirs MergeStage = 3
)

// IndexEntry is the snapshot of one staged file: the blob it hashed to plus
// the file metadata at the moment of staging. Times carry nanosecond
// resolution; fields a platform cannot supply are zero.
type IndexEntry struct {
	Ctime       int64      `json:"ctime"`
	Mtime       int64      `json:"mtime"`
	Dev         uint64     `json:"dev"`
	Ino         uint64     `json:"ino"`
	Kind        FileKind   `json:"kind"`
	Perms       uint32     `json:"perms"`
	UID         uint32     `json:"uid"`
	GID         uint32     `json:"gid"`
	Size        uint64     `json:"size"`
	BlobID      ID         `json:"blob_id"`
	AssumeValid bool       `json:"assume_valid"`
	Stage       MergeStage `json:"stage"`
}

// Index is the staging area: repository-relative path to staged entries.
// A path maps to more than one entry only while it is in merge conflict
// (one entry per stage). The whole index is read, mutated and persisted as
// a single snapshot; there is no incremental format.
type Index struct {
	Entries map[string][]IndexEntry `json:"entries"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Entries: make(map[string][]IndexEntry)}
}

// Set replaces all entries for path with the single given entry.
func (ix *Index) Set(path string, e IndexEntry) {
	ix.Entries[path] = []IndexEntry{e}
}

// Remove drops path from the index, returning the removed entries or nil
// if the path was not staged. Only the index structure is touched.
func (ix *Index) Remove(path string) []IndexEntry {
	entries, ok := ix.Entries[path]
	if !ok {
		return nil
	}
	delete(ix.Entries, path)
	return entries
}

// Paths returns the staged paths in unspecified order.
func (ix *Index) Paths() []string {
	paths := make([]string, 0, len(ix.Entries))
	for p := range ix.Entries {
		paths = append(paths, p)
	}
	return paths
}
