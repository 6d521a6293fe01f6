//go:build unix

package repo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type unixMetadataProvider struct{}

// NewMetadataProvider returns the unix stat backend.
func NewMetadataProvider() MetadataProvider {
	return unixMetadataProvider{}
}

func (unixMetadataProvider) Stat(path string) (Metadata, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Metadata{
		CtimeNs: st.Ctim.Nano(),
		MtimeNs: st.Mtim.Nano(),
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
		Perms:   uint32(st.Mode) & 0o7777,
		UID:     st.Uid,
		GID:     st.Gid,
		Size:    uint64(st.Size),
	}, nil
}
