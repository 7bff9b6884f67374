package torrent

import "time"

// Metainfo represents a parsed torrent file
type Metainfo struct {
	Announce     string
	AnnounceList [][]string
	Comment      string
	CreatedBy    string
	CreationDate time.Time
	Info         Info

	// Calculated fields (not from bencode)
	InfoHash InfoHash
	// Canonical is true when the file's own info bytes hash to InfoHash,
	// i.e. the info dictionary was already canonically encoded.
	Canonical bool
}

// Trackers returns every announce URL, the primary one first and then the
// announce-list tiers in order, without duplicates.
func (m *Metainfo) Trackers() []string {
	seen := make(map[string]bool)
	var urls []string

	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	add(m.Announce)
	for _, tier := range m.AnnounceList {
		for _, u := range tier {
			add(u)
		}
	}
	return urls
}
