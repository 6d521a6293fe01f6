package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// IDLen is the size of an object identifier in bytes.
const IDLen = sha1.Size

// ID identifies an object by the SHA-1 digest of its canonical encoding.
// The zero value is not a valid identifier of any object.
type ID [IDLen]byte

// ParseID parses a 40-character lowercase hex string into an ID.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != 2*IDLen {
		return id, fmt.Errorf("invalid object id %q: want %d hex characters", s, 2*IDLen)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid object id %q: %w", s, err)
	}
	copy(id[:], raw)
	return id, nil
}

// IDFromBytes converts a raw 20-byte slice into an ID.
func IDFromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != IDLen {
		return id, fmt.Errorf("invalid object id: want %d bytes, got %d", IDLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is the all-zero (unset) identifier.
func (id ID) IsZero() bool {
	return id == ID{}
}

// MarshalText implements encoding.TextMarshaler so IDs serialize as hex
// strings in JSON snapshots (index, head).
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// hashBytes computes the SHA-1 digest of data.
func hashBytes(data []byte) ID {
	return ID(sha1.Sum(data))
}
