package torrent

import (
	"torrentmeta/internal/bencode"
)

// HashSize is the length of a SHA-1 piece hash and of an info hash.
const HashSize = 20

// Hash is the SHA-1 digest of one piece.
type Hash [HashSize]byte

// Info represents the info dictionary of a torrent
type Info struct {
	Name        string
	PieceLength int64
	Pieces      []Hash
	Private     bool
	Layout      Layout

	// raw is the decoded dictionary for parsed torrents, including keys
	// this model does not know about. It is nil for an Info built from
	// typed fields.
	raw bencode.Dict
}

// Layout is either SingleFile or MultiFile.
type Layout interface {
	TotalLength() int64
	isLayout()
}

// SingleFile is the layout of a torrent holding one file named after
// Info.Name.
type SingleFile struct {
	Length int64
}

// MultiFile is the layout of a torrent holding a directory of files.
type MultiFile struct {
	Files []File
}

func (SingleFile) isLayout() {}
func (MultiFile) isLayout()  {}

func (s SingleFile) TotalLength() int64 {
	return s.Length
}

func (m MultiFile) TotalLength() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Length
	}
	return total
}

// IsSingleFile returns true if this is a single-file torrent
func (i *Info) IsSingleFile() bool {
	_, ok := i.Layout.(SingleFile)
	return ok
}

// TotalLength returns the sum of all file lengths.
func (i *Info) TotalLength() int64 {
	if i.Layout == nil {
		return 0
	}
	return i.Layout.TotalLength()
}

// Files returns the files of the torrent. A single-file torrent yields one
// file whose path is the torrent name.
func (i *Info) Files() []File {
	switch l := i.Layout.(type) {
	case SingleFile:
		return []File{{Length: l.Length, Path: []string{i.Name}}}
	case MultiFile:
		return l.Files
	default:
		return nil
	}
}

func (i *Info) NumPieces() int {
	return len(i.Pieces)
}

// PieceSize returns the size of the piece at index; only the last piece may
// be shorter than PieceLength.
func (i *Info) PieceSize(index int) int64 {
	if index < 0 || index >= i.NumPieces() {
		return 0
	}
	if index < i.NumPieces()-1 {
		return i.PieceLength
	}

	last := i.TotalLength() - int64(index)*i.PieceLength
	if last <= 0 || last > i.PieceLength {
		return i.PieceLength
	}
	return last
}

// Value returns the info dictionary as a bencode value: the decoded
// dictionary for a parsed torrent, otherwise one built from the typed fields.
func (i *Info) Value() bencode.Dict {
	if i.raw != nil {
		return i.raw
	}

	d := bencode.Dict{
		{Key: bencode.Bytes("name"), Value: bencode.Bytes(i.Name)},
		{Key: bencode.Bytes("piece length"), Value: bencode.Int(i.PieceLength)},
		{Key: bencode.Bytes("pieces"), Value: bencode.Bytes(joinPieces(i.Pieces))},
	}
	if i.Private {
		d = append(d, bencode.Entry{Key: bencode.Bytes("private"), Value: bencode.Int(1)})
	}

	switch l := i.Layout.(type) {
	case SingleFile:
		d = append(d, bencode.Entry{Key: bencode.Bytes("length"), Value: bencode.Int(l.Length)})
	case MultiFile:
		files := make(bencode.List, len(l.Files))
		for n, f := range l.Files {
			path := make(bencode.List, len(f.Path))
			for j, p := range f.Path {
				path[j] = bencode.Bytes(p)
			}
			files[n] = bencode.Dict{
				{Key: bencode.Bytes("length"), Value: bencode.Int(f.Length)},
				{Key: bencode.Bytes("path"), Value: path},
			}
		}
		d = append(d, bencode.Entry{Key: bencode.Bytes("files"), Value: files})
	}
	return d
}

func splitPieces(b []byte) ([]Hash, error) {
	return bencode.DecodeChunks(b, HashSize, func(c []byte) Hash {
		var h Hash
		copy(h[:], c)
		return h
	})
}

func joinPieces(pieces []Hash) []byte {
	return bencode.JoinChunks(pieces, HashSize, func(h Hash) []byte { return h[:] })
}
