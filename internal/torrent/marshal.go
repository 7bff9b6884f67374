package torrent

import (
	"bytes"
	"fmt"

	jbencode "github.com/jackpal/bencode-go"
)

type bencodeFile struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

type bencodeSingleInfo struct {
	Name        string `bencode:"name"`
	PieceLength int64  `bencode:"piece length"`
	Pieces      string `bencode:"pieces"`
	Private     int64  `bencode:"private,omitempty"`
	Length      int64  `bencode:"length"`
}

type bencodeMultiInfo struct {
	Name        string        `bencode:"name"`
	PieceLength int64         `bencode:"piece length"`
	Pieces      string        `bencode:"pieces"`
	Private     int64         `bencode:"private,omitempty"`
	Files       []bencodeFile `bencode:"files"`
}

type bencodeTorrent[I any] struct {
	Announce     string     `bencode:"announce"`
	AnnounceList [][]string `bencode:"announce-list,omitempty"`
	Comment      string     `bencode:"comment,omitempty"`
	CreatedBy    string     `bencode:"created by,omitempty"`
	CreationDate int64      `bencode:"creation date,omitempty"`
	Info         I          `bencode:"info"`
}

// Marshal encodes the typed fields of m as a .torrent file. Keys of a parsed
// info dictionary that the model does not interpret are not written, so the
// result only hashes to m.InfoHash when the source had no such keys.
func Marshal(m *Metainfo) ([]byte, error) {
	var creationDate, private int64
	if !m.CreationDate.IsZero() {
		creationDate = m.CreationDate.Unix()
	}
	if m.Info.Private {
		private = 1
	}
	pieces := string(joinPieces(m.Info.Pieces))

	var v any
	switch l := m.Info.Layout.(type) {
	case SingleFile:
		v = bencodeTorrent[bencodeSingleInfo]{
			Announce:     m.Announce,
			AnnounceList: m.AnnounceList,
			Comment:      m.Comment,
			CreatedBy:    m.CreatedBy,
			CreationDate: creationDate,
			Info: bencodeSingleInfo{
				Name:        m.Info.Name,
				PieceLength: m.Info.PieceLength,
				Pieces:      pieces,
				Private:     private,
				Length:      l.Length,
			},
		}
	case MultiFile:
		files := make([]bencodeFile, len(l.Files))
		for i, f := range l.Files {
			files[i] = bencodeFile{Length: f.Length, Path: f.Path}
		}
		v = bencodeTorrent[bencodeMultiInfo]{
			Announce:     m.Announce,
			AnnounceList: m.AnnounceList,
			Comment:      m.Comment,
			CreatedBy:    m.CreatedBy,
			CreationDate: creationDate,
			Info: bencodeMultiInfo{
				Name:        m.Info.Name,
				PieceLength: m.Info.PieceLength,
				Pieces:      pieces,
				Private:     private,
				Files:       files,
			},
		}
	default:
		return nil, fmt.Errorf("torrent %q has no file layout", m.Info.Name)
	}

	var buf bytes.Buffer
	if err := jbencode.Marshal(&buf, v); err != nil {
		return nil, fmt.Errorf("failed to encode torrent: %w", err)
	}
	return buf.Bytes(), nil
}
