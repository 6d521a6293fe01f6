package object

import (
	"encoding/json"
	"testing"
)

func TestParseIDRoundTrip(t *testing.T) {
	const hex = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	id, err := ParseID(hex)
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.String() != hex {
		t.Errorf("round trip mismatch: got %s, want %s", id, hex)
	}
}

func TestParseIDRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"da39a3ee5e6b4b0d3255bfef95601890afd8070", // 39 chars
		"zz39a3ee5e6b4b0d3255bfef95601890afd80709",
	}
	for _, c := range cases {
		if _, err := ParseID(c); err == nil {
			t.Errorf("ParseID(%q) succeeded, want error", c)
		}
	}
}

func TestIDFromBytes(t *testing.T) {
	raw := make([]byte, IDLen)
	raw[0] = 0xab
	id, err := IDFromBytes(raw)
	if err != nil {
		t.Fatalf("IDFromBytes: %v", err)
	}
	if id[0] != 0xab {
		t.Errorf("first byte = %x, want ab", id[0])
	}
	if _, err := IDFromBytes(raw[:19]); err == nil {
		t.Error("IDFromBytes accepted 19 bytes, want error")
	}
}

func TestIDJSONText(t *testing.T) {
	id := (&Blob{Data: []byte("hello")}).Identify().ID

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back ID
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != id {
		t.Errorf("JSON round trip mismatch: got %s, want %s", back, id)
	}
}
