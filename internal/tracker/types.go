package tracker

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

type PeerID [20]byte

// For string formatting
func (id PeerID) String() string {
	return fmt.Sprintf("%x", id[:])
}

type Event string

const (
	EventStarted   Event = "started"
	EventStopped   Event = "stopped"
	EventCompleted Event = "completed"
	EventNone      Event = ""
)

// Peer is one address from a tracker's peer list.
type Peer struct {
	IP   net.IP
	Port uint16
}

func (p Peer) String() string {
	return net.JoinHostPort(p.IP.String(), strconv.Itoa(int(p.Port)))
}

// Request holds the announce parameters sent to a tracker.
type Request struct {
	InfoHash   [20]byte
	PeerID     PeerID
	Port       uint16
	Uploaded   int64
	Downloaded int64
	Left       int64
	Compact    bool
	Event      Event
	NumWant    int
}

// Response is a decoded tracker announce response.
type Response struct {
	Interval       time.Duration
	MinInterval    time.Duration
	Complete       int // seeders
	Incomplete     int // leechers
	TrackerID      string
	WarningMessage string
	Peers          []Peer
}

// FailureError is returned when the tracker answers with a failure reason.
type FailureError struct {
	Reason string
}

func (e *FailureError) Error() string {
	return "tracker error: " + e.Reason
}

// TransportError reports a failure to exchange the HTTP request itself:
// the connection failed, or the tracker returned a non-200 status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tracker announce to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("tracker %s returned HTTP %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
