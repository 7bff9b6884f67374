package tracker

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PercentEncode escapes every byte outside the URL unreserved set as %XX.
// Raw binary such as an info hash must go through this rather than a text
// escaper, which would treat the bytes as UTF-8.
func PercentEncode(data []byte) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(data) * 3)
	for _, c := range data {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_' ||
			c == '.' || c == '~' {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}

// Validate rejects requests a tracker could not interpret.
func (r *Request) Validate() error {
	if r.Uploaded < 0 || r.Downloaded < 0 || r.Left < 0 {
		return errors.New("uploaded, downloaded and left must not be negative")
	}
	if r.NumWant < 0 {
		return fmt.Errorf("invalid numwant: %d", r.NumWant)
	}
	return nil
}

// Query returns the announce query string. Parameters are always written in
// the same order so the result is deterministic.
func (r *Request) Query() string {
	var b strings.Builder

	b.WriteString("info_hash=")
	b.WriteString(PercentEncode(r.InfoHash[:]))
	b.WriteString("&peer_id=")
	b.WriteString(PercentEncode(r.PeerID[:]))
	b.WriteString("&port=")
	b.WriteString(strconv.Itoa(int(r.Port)))
	b.WriteString("&uploaded=")
	b.WriteString(strconv.FormatInt(r.Uploaded, 10))
	b.WriteString("&downloaded=")
	b.WriteString(strconv.FormatInt(r.Downloaded, 10))
	b.WriteString("&left=")
	b.WriteString(strconv.FormatInt(r.Left, 10))
	if r.Compact {
		b.WriteString("&compact=1")
	} else {
		b.WriteString("&compact=0")
	}

	if r.Event != EventNone {
		b.WriteString("&event=")
		b.WriteString(url.QueryEscape(string(r.Event)))
	}
	if r.NumWant > 0 {
		b.WriteString("&numwant=")
		b.WriteString(strconv.Itoa(r.NumWant))
	}

	return b.String()
}

// BuildURL appends the announce query to the tracker URL, keeping any query
// the URL already carries.
func BuildURL(announce string, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	u, err := url.Parse(announce)
	if err != nil {
		return "", fmt.Errorf("invalid announce URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported announce URL scheme %q", u.Scheme)
	}

	if u.RawQuery != "" {
		u.RawQuery += "&" + req.Query()
	} else {
		u.RawQuery = req.Query()
	}
	return u.String(), nil
}
