package torrent

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	zbencode "github.com/zeebo/bencode"

	"torrentmeta/internal/bencode"
	"torrentmeta/internal/tracker"
)

// InfoHash is the SHA-1 digest of the canonically encoded info dictionary;
// it identifies a torrent.
type InfoHash [HashSize]byte

func (ih InfoHash) String() string {
	return hex.EncodeToString(ih[:])
}

// URLEncoded returns the hash percent-encoded byte by byte for a tracker
// query.
func (ih InfoHash) URLEncoded() string {
	return tracker.PercentEncode(ih[:])
}

// Hash re-encodes the info dictionary with sorted keys and returns its
// SHA-1 digest.
func (i *Info) Hash() InfoHash {
	return sha1.Sum(bencode.Encode(i.Value()))
}

// rawTorrent captures the info dictionary exactly as it appears in the file.
type rawTorrent struct {
	Info zbencode.RawMessage `bencode:"info"`
}

// RawInfoHash hashes the info dictionary bytes as they appear in data,
// without re-encoding. It equals Info.Hash() whenever the file's info
// dictionary is already canonical.
func RawInfoHash(data []byte) (InfoHash, error) {
	var t rawTorrent
	if err := zbencode.DecodeBytes(data, &t); err != nil {
		return InfoHash{}, fmt.Errorf("failed to extract info dictionary: %w", err)
	}
	if len(t.Info) == 0 {
		return InfoHash{}, bencode.Missing("info")
	}
	return sha1.Sum(t.Info), nil
}
