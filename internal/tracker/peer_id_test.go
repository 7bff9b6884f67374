package tracker

import (
	"strings"
	"testing"
)

func TestGeneratePeerID(t *testing.T) {
	id, err := GeneratePeerID(DefaultPeerIDPrefix)
	if err != nil {
		t.Fatalf("GeneratePeerID() error = %v", err)
	}
	if !strings.HasPrefix(string(id[:]), DefaultPeerIDPrefix) {
		t.Errorf("peer ID %q does not start with %q", id[:], DefaultPeerIDPrefix)
	}

	other, err := GeneratePeerID(DefaultPeerIDPrefix)
	if err != nil {
		t.Fatal(err)
	}
	if id == other {
		t.Error("two generated peer IDs are identical")
	}
}

func TestGeneratePeerIDLongPrefix(t *testing.T) {
	prefix := strings.Repeat("x", 25)
	id, err := GeneratePeerID(prefix)
	if err != nil {
		t.Fatalf("GeneratePeerID() error = %v", err)
	}
	if string(id[:]) != prefix[:20] {
		t.Errorf("peer ID = %q, want truncated prefix", id[:])
	}
}
