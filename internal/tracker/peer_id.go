package tracker

import (
	"crypto/rand"
	"fmt"
)

// DefaultPeerIDPrefix follows the Azureus-style client tag convention.
const DefaultPeerIDPrefix = "-TM0001-"

// GeneratePeerID returns prefix followed by random bytes up to 20 bytes.
// A prefix longer than 20 bytes is truncated.
func GeneratePeerID(prefix string) (PeerID, error) {
	var id PeerID

	n := copy(id[:], prefix)
	if _, err := rand.Read(id[n:]); err != nil {
		return id, fmt.Errorf("failed to generate peer ID: %w", err)
	}

	return id, nil
}

// NewRequest builds a compact announce request for a download that has not
// transferred anything yet.
func NewRequest(infoHash [20]byte, peerID PeerID, port uint16, left int64) Request {
	return Request{
		InfoHash: infoHash,
		PeerID:   peerID,
		Port:     port,
		Left:     left,
		Compact:  true,
		Event:    EventStarted,
	}
}
