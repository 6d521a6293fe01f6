package object

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedEncoding reports that a stored object encoding failed to
// parse. Seeing it means the backing store is corrupted.
var ErrMalformedEncoding = errors.New("malformed object encoding")

func sortedEntries(entries []TreeEntry) []TreeEntry {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// encodeTreeEntries renders the canonical tree text: one line per entry,
//
//	<mode> <kind> <hex-id> <name>
//
// joined with newlines, no trailing separator. Entries must already be
// sorted by name. The same text is both the hash payload and the stored
// representation.
func encodeTreeEntries(entries []TreeEntry) []byte {
	var buf bytes.Buffer
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "%s %s %s %s", e.Mode, e.Kind, e.ID, e.Name)
	}
	return buf.Bytes()
}

// EncodeTree returns the canonical stored text of an identified tree.
func EncodeTree(t *IdentifiedTree) string {
	return string(encodeTreeEntries(t.Entries))
}

// DecodeTree parses stored canonical tree text back into an identified
// tree. An empty string decodes to an empty tree.
func DecodeTree(id ID, data string) (*IdentifiedTree, error) {
	t := &IdentifiedTree{ID: id}
	if data == "" {
		return t, nil
	}
	for _, line := range strings.Split(data, "\n") {
		parts := strings.SplitN(line, " ", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("%w: tree entry %q", ErrMalformedEncoding, line)
		}
		kind := EntryKind(parts[1])
		if kind != KindBlob && kind != KindTree {
			return nil, fmt.Errorf("%w: unknown tree entry kind %q", ErrMalformedEncoding, parts[1])
		}
		entryID, err := ParseID(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
		}
		t.Entries = append(t.Entries, TreeEntry{
			Name: parts[3],
			Kind: kind,
			ID:   entryID,
			Mode: parts[0],
		})
	}
	return t, nil
}

// payload builds the commit hash input:
//
//	<tree id bytes> \n
//	<parent id bytes> \n   (per parent, in order)
//	<author name> <author email> \n
//	<committer name> <committer email> \n
//	\n
//	<message> \n
//
// Ids go in as raw 20-byte values, not hex text.
func (c *Commit) payload() []byte {
	var buf bytes.Buffer
	buf.Write(c.TreeID[:])
	buf.WriteByte('\n')
	for _, p := range c.ParentIDs {
		buf.Write(p[:])
		buf.WriteByte('\n')
	}
	buf.WriteString(c.AuthorName)
	buf.WriteByte(' ')
	buf.WriteString(c.AuthorEmail)
	buf.WriteByte('\n')
	buf.WriteString(c.CommitterName)
	buf.WriteByte(' ')
	buf.WriteString(c.CommitterEmail)
	buf.WriteString("\n\n")
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// EncodeParentIDs concatenates parent ids as fixed-width raw bytes for the
// parent_ids column.
func EncodeParentIDs(ids []ID) []byte {
	out := make([]byte, 0, len(ids)*IDLen)
	for _, id := range ids {
		out = append(out, id[:]...)
	}
	return out
}

// DecodeParentIDs splits a parent_ids column value back into ids.
func DecodeParentIDs(raw []byte) ([]ID, error) {
	if len(raw)%IDLen != 0 {
		return nil, fmt.Errorf("%w: parent ids length %d not a multiple of %d",
			ErrMalformedEncoding, len(raw), IDLen)
	}
	ids := make([]ID, 0, len(raw)/IDLen)
	for off := 0; off < len(raw); off += IDLen {
		id, _ := IDFromBytes(raw[off : off+IDLen])
		ids = append(ids, id)
	}
	return ids, nil
}
