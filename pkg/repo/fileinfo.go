package repo

// Metadata is the normalized file metadata snapshot recorded at staging
// time. Fields a platform has no equivalent for are zero.
type Metadata struct {
	CtimeNs int64
	MtimeNs int64
	Dev     uint64
	Ino     uint64
	Perms   uint32
	UID     uint32
	GID     uint32
	Size    uint64
}

// MetadataProvider extracts file metadata. The backend is selected per
// platform at build time rather than branching inside callers.
type MetadataProvider interface {
	Stat(path string) (Metadata, error)
}
