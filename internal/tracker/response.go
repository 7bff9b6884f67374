package tracker

import (
	"fmt"
	"math"
	"time"

	"torrentmeta/internal/bencode"
)

// DecodeResponse parses a bencoded announce response body. A response
// carrying "failure reason" yields a *FailureError.
func DecodeResponse(data []byte) (*Response, error) {
	decoded, err := bencode.DecodeAll(data, bencode.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to decode tracker response: %w", err)
	}

	dict, ok := decoded.(bencode.Dict)
	if !ok {
		return nil, &bencode.SchemaError{Key: "(root)", Msg: "tracker response is not a dictionary"}
	}

	if reason, ok, err := dict.OptBytes("failure reason"); err != nil {
		return nil, err
	} else if ok {
		return nil, &FailureError{Reason: reason.String()}
	}

	resp := &Response{}

	interval, err := dict.GetInt("interval")
	if err != nil {
		return nil, err
	}
	resp.Interval, err = seconds("interval", interval)
	if err != nil {
		return nil, err
	}

	if minInterval, ok, err := dict.OptInt("min interval"); err != nil {
		return nil, err
	} else if ok {
		resp.MinInterval, err = seconds("min interval", minInterval)
		if err != nil {
			return nil, err
		}
	}

	if complete, ok, err := dict.OptInt("complete"); err != nil {
		return nil, err
	} else if ok {
		resp.Complete = int(complete)
	}

	if incomplete, ok, err := dict.OptInt("incomplete"); err != nil {
		return nil, err
	} else if ok {
		resp.Incomplete = int(incomplete)
	}

	if trackerID, ok, err := dict.OptBytes("tracker id"); err != nil {
		return nil, err
	} else if ok {
		resp.TrackerID = trackerID.String()
	}

	if warning, ok, err := dict.OptBytes("warning message"); err != nil {
		return nil, err
	} else if ok {
		resp.WarningMessage = warning.String()
	}

	peersVal, ok := dict.Get("peers")
	if !ok {
		return nil, bencode.Missing("peers")
	}

	switch peers := peersVal.(type) {
	case bencode.Bytes:
		resp.Peers, err = DecodePeers(peers)
		if err != nil {
			return nil, fmt.Errorf("invalid compact peers: %w", err)
		}
	case bencode.List:
		resp.Peers, err = decodeDictPeers(peers)
		if err != nil {
			return nil, err
		}
	default:
		return nil, bencode.Mistyped("peers", bencode.KindBytes, peersVal)
	}

	return resp, nil
}

// maxSeconds is the largest second count a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// seconds converts a tracker interval in seconds to a Duration.
func seconds(key string, n int64) (time.Duration, error) {
	if n < 0 {
		return 0, &bencode.SchemaError{Key: key, Msg: "must not be negative"}
	}
	if n > maxSeconds {
		return 0, &bencode.SchemaError{Key: key, Msg: fmt.Sprintf("%d seconds is out of range", n)}
	}
	return time.Duration(n) * time.Second, nil
}
