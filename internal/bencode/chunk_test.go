package bencode

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		n       int
		chunks  int
		wantErr bool
	}{
		{"empty", 0, 6, 0, false},
		{"two peers", 12, 6, 2, false},
		{"one short", 13, 6, 0, true},
		{"one hash", 20, 20, 1, false},
		{"truncated hash", 39, 20, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, tt.length)
			for i := range b {
				b[i] = byte(i)
			}

			got, err := SplitChunks(b, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitChunks() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var le *LengthError
				if !errors.As(err, &le) || le.Length != tt.length || le.Want != tt.n {
					t.Errorf("SplitChunks() error = %#v", err)
				}
				if !errors.Is(err, ErrLength) {
					t.Error("error does not match ErrLength")
				}
				return
			}
			if len(got) != tt.chunks {
				t.Fatalf("SplitChunks() returned %d chunks, want %d", len(got), tt.chunks)
			}
			for _, c := range got {
				if len(c) != tt.n {
					t.Errorf("chunk length = %d, want %d", len(c), tt.n)
				}
			}
		})
	}
}

func TestChunksRoundTrip(t *testing.T) {
	b := []byte("abcdefghijklmnopqrstuvwxyz0123456789ABCD")

	hashes, err := DecodeChunks(b, 20, func(c []byte) [20]byte {
		var h [20]byte
		copy(h[:], c)
		return h
	})
	if err != nil {
		t.Fatalf("DecodeChunks() error = %v", err)
	}
	if len(hashes) != 2 || string(hashes[1][:]) != "uvwxyz0123456789ABCD" {
		t.Fatalf("DecodeChunks() = %q", hashes)
	}

	joined := JoinChunks(hashes, 20, func(h [20]byte) []byte { return h[:] })
	if !bytes.Equal(joined, b) {
		t.Errorf("JoinChunks() = %q, want %q", joined, b)
	}
}

func TestSplitChunksRejectsBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for chunk size 0")
		}
	}()
	SplitChunks([]byte("ab"), 0)
}
