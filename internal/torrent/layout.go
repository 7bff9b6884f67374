package torrent

import (
	"crypto/sha1"
	"fmt"
)

// Span is the part of one file covered by a piece.
type Span struct {
	FileIndex int      // Index in Info.Files()
	Path      []string // Path of the file relative to the torrent root
	Offset    int64    // Offset within the file
	Length    int64    // Number of bytes
}

// PieceSpans returns the file segments that make up the piece at index, in
// torrent order. Zero-length files never appear.
func (i *Info) PieceSpans(index int) ([]Span, error) {
	if index < 0 || index >= i.NumPieces() {
		return nil, fmt.Errorf("invalid piece index: %d", index)
	}

	pieceStart := int64(index) * i.PieceLength
	pieceEnd := pieceStart + i.PieceSize(index)

	var spans []Span
	var fileStart int64
	for n, f := range i.Files() {
		fileEnd := fileStart + f.Length

		if f.Length > 0 && pieceStart < fileEnd && pieceEnd > fileStart {
			overlapStart := max(pieceStart, fileStart)
			overlapEnd := min(pieceEnd, fileEnd)

			spans = append(spans, Span{
				FileIndex: n,
				Path:      f.Path,
				Offset:    overlapStart - fileStart,
				Length:    overlapEnd - overlapStart,
			})
		}

		fileStart = fileEnd
		if fileStart >= pieceEnd {
			break
		}
	}

	return spans, nil
}

// VerifyPiece checks data against the length and SHA-1 hash recorded for the
// piece at index.
func (i *Info) VerifyPiece(index int, data []byte) error {
	if index < 0 || index >= len(i.Pieces) {
		return fmt.Errorf("invalid piece index: %d", index)
	}
	if want := i.PieceSize(index); int64(len(data)) != want {
		return fmt.Errorf("piece %d length mismatch: expected %d, got %d", index, want, len(data))
	}
	if Hash(sha1.Sum(data)) != i.Pieces[index] {
		return fmt.Errorf("piece %d hash mismatch", index)
	}
	return nil
}
