package torrent

import (
	"bytes"
	"crypto/sha1"
	"reflect"
	"testing"

	jbencode "github.com/jackpal/bencode-go"

	"torrentmeta/internal/bencode"
)

func TestInfoHashIsDeterministic(t *testing.T) {
	m, err := Parse(torrentBytes(multiFileInfo()))
	if err != nil {
		t.Fatal(err)
	}

	first := m.Info.Hash()
	second := m.Info.Hash()
	if first != second {
		t.Errorf("Hash() not stable: %s then %s", first, second)
	}
	if first != m.InfoHash {
		t.Errorf("Hash() = %s, Parse set %s", first, m.InfoHash)
	}
}

func TestInfoHashChangesWithContent(t *testing.T) {
	base, err := Parse(torrentBytes(singleFileInfo()))
	if err != nil {
		t.Fatal(err)
	}

	pieces := sequentialPieces(40)
	pieces[39] ^= 0x01
	changed, err := Parse(torrentBytes(singleFileInfo().Set("pieces", pieces)))
	if err != nil {
		t.Fatal(err)
	}

	if base.InfoHash == changed.InfoHash {
		t.Error("info hash did not change when a piece byte changed")
	}
}

func TestInfoHashIgnoresOutsideInfo(t *testing.T) {
	plain, err := Parse(torrentBytes(singleFileInfo()))
	if err != nil {
		t.Fatal(err)
	}
	commented, err := Parse(torrentBytes(singleFileInfo(), entry("comment", bencode.Bytes("different"))))
	if err != nil {
		t.Fatal(err)
	}
	if plain.InfoHash != commented.InfoHash {
		t.Error("keys outside info changed the info hash")
	}
}

func TestInfoHashCoversUnknownKeys(t *testing.T) {
	plain, err := Parse(torrentBytes(singleFileInfo()))
	if err != nil {
		t.Fatal(err)
	}
	sourced, err := Parse(torrentBytes(singleFileInfo().Set("source", bencode.Bytes("tracker.example"))))
	if err != nil {
		t.Fatal(err)
	}
	if plain.InfoHash == sourced.InfoHash {
		t.Error("unknown info key was not hashed")
	}
}

func TestTypedInfoHashMatchesParsed(t *testing.T) {
	parsed, err := Parse(torrentBytes(multiFileInfo()))
	if err != nil {
		t.Fatal(err)
	}

	typed := Info{
		Name:        parsed.Info.Name,
		PieceLength: parsed.Info.PieceLength,
		Pieces:      parsed.Info.Pieces,
		Private:     parsed.Info.Private,
		Layout:      parsed.Info.Layout,
	}
	if typed.Hash() != parsed.InfoHash {
		t.Errorf("typed Hash() = %s, parsed %s", typed.Hash(), parsed.InfoHash)
	}
}

func TestNonCanonicalInfo(t *testing.T) {
	data := []byte("d8:announce1:x4:infod4:name1:a6:lengthi1e12:piece lengthi1e6:pieces0:ee")
	canonical := []byte("d6:lengthi1e4:name1:a12:piece lengthi1e6:pieces0:e")
	original := []byte("d4:name1:a6:lengthi1e12:piece lengthi1e6:pieces0:e")

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.Canonical {
		t.Error("Canonical = true for unsorted info dictionary")
	}
	if want := InfoHash(sha1.Sum(canonical)); m.InfoHash != want {
		t.Errorf("InfoHash = %s, want %s", m.InfoHash, want)
	}

	raw, err := RawInfoHash(data)
	if err != nil {
		t.Fatalf("RawInfoHash() error = %v", err)
	}
	if want := InfoHash(sha1.Sum(original)); raw != want {
		t.Errorf("RawInfoHash() = %s, want %s", raw, want)
	}
}

func TestRawInfoHashMissingInfo(t *testing.T) {
	if _, err := RawInfoHash([]byte("d8:announce1:xe")); err == nil {
		t.Error("RawInfoHash() expected error")
	}
}

// The info hash must agree with an independent bencode implementation that
// re-encodes the same info dictionary.
func TestInfoHashMatchesReferenceEncoder(t *testing.T) {
	for _, info := range []bencode.Dict{singleFileInfo(), multiFileInfo()} {
		data := torrentBytes(info)

		decoded, err := jbencode.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("reference decode: %v", err)
		}
		root, ok := decoded.(map[string]interface{})
		if !ok {
			t.Fatalf("reference decode returned %T", decoded)
		}

		var buf bytes.Buffer
		if err := jbencode.Marshal(&buf, root["info"]); err != nil {
			t.Fatalf("reference encode: %v", err)
		}
		want := InfoHash(sha1.Sum(buf.Bytes()))

		m, err := Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		if m.InfoHash != want {
			t.Errorf("InfoHash = %s, reference %s", m.InfoHash, want)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, info := range []bencode.Dict{singleFileInfo(), multiFileInfo()} {
		original, err := Parse(torrentBytes(info, entry("comment", bencode.Bytes("hello"))))
		if err != nil {
			t.Fatal(err)
		}

		data, err := Marshal(original)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		again, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(Marshal()) error = %v", err)
		}
		if again.InfoHash != original.InfoHash {
			t.Errorf("InfoHash after Marshal = %s, want %s", again.InfoHash, original.InfoHash)
		}
		if !again.Canonical {
			t.Error("Marshal produced a non-canonical info dictionary")
		}
		if again.Comment != "hello" || again.Announce != original.Announce {
			t.Errorf("Marshal lost fields: %+v", again)
		}
		if !reflect.DeepEqual(again.Info.Layout, original.Info.Layout) {
			t.Errorf("Layout = %+v, want %+v", again.Info.Layout, original.Info.Layout)
		}
	}
}

func TestMarshalRequiresLayout(t *testing.T) {
	if _, err := Marshal(&Metainfo{Info: Info{Name: "x"}}); err == nil {
		t.Error("Marshal() expected error for missing layout")
	}
}

func TestInfoHashFormatting(t *testing.T) {
	var ih InfoHash
	copy(ih[:], []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf1, 0x23, 0x45,
		0x67, 0x89, 0xab, 0xcd, 0xef, 0x12, 0x34, 0x56, 0x78, 0x9a})

	if got, want := ih.String(), "123456789abcdef123456789abcdef123456789a"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := ih.URLEncoded(), "%124Vx%9A%BC%DE%F1%23Eg%89%AB%CD%EF%124Vx%9A"; got != want {
		t.Errorf("URLEncoded() = %q, want %q", got, want)
	}
}
