package tracker

import (
	"encoding/binary"
	"fmt"
	"net"

	"torrentmeta/internal/bencode"
)

// PeerSize is the length of one compact peer record: 4 IPv4 octets and a
// big-endian port.
const PeerSize = 6

// DecodePeers parses a compact peer list.
func DecodePeers(compact []byte) ([]Peer, error) {
	return bencode.DecodeChunks(compact, PeerSize, func(c []byte) Peer {
		return Peer{
			IP:   net.IPv4(c[0], c[1], c[2], c[3]),
			Port: binary.BigEndian.Uint16(c[4:6]),
		}
	})
}

// EncodePeers builds a compact peer list. Every peer must have an IPv4
// address.
func EncodePeers(peers []Peer) ([]byte, error) {
	for i, p := range peers {
		if p.IP.To4() == nil {
			return nil, fmt.Errorf("peer %d: %v is not an IPv4 address", i, p.IP)
		}
	}

	return bencode.JoinChunks(peers, PeerSize, func(p Peer) []byte {
		rec := make([]byte, PeerSize)
		copy(rec, p.IP.To4())
		binary.BigEndian.PutUint16(rec[4:], p.Port)
		return rec
	}), nil
}

// decodeDictPeers parses the non-compact peer list: a list of dictionaries
// with "ip" and "port" keys.
func decodeDictPeers(list bencode.List) ([]Peer, error) {
	peers := make([]Peer, len(list))

	for i, item := range list {
		key := fmt.Sprintf("peers[%d]", i)
		d, ok := item.(bencode.Dict)
		if !ok {
			return nil, bencode.Mistyped(key, bencode.KindDict, item)
		}

		ipStr, err := d.GetBytes("ip")
		if err != nil {
			return nil, bencode.Within(key, err)
		}
		ip := net.ParseIP(ipStr.String())
		if ip == nil {
			return nil, &bencode.SchemaError{Key: key + ".ip", Msg: fmt.Sprintf("invalid IP %q", ipStr)}
		}

		port, err := d.GetInt("port")
		if err != nil {
			return nil, bencode.Within(key, err)
		}
		if port < 0 || port > 65535 {
			return nil, &bencode.SchemaError{Key: key + ".port", Msg: fmt.Sprintf("port %d out of range", port)}
		}

		peers[i] = Peer{IP: ip, Port: uint16(port)}
	}

	return peers, nil
}
