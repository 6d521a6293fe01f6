//go:build !unix

package repo

import (
	"fmt"
	"os"
)

type portableMetadataProvider struct{}

// NewMetadataProvider returns the portable fallback backend. Device,
// inode, owner and ctime have no equivalent here and stay zero.
func NewMetadataProvider() MetadataProvider {
	return portableMetadataProvider{}
}

func (portableMetadataProvider) Stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Metadata{
		MtimeNs: info.ModTime().UnixNano(),
		Perms:   uint32(info.Mode().Perm()),
		Size:    uint64(info.Size()),
	}, nil
}
