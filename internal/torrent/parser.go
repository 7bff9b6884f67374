package torrent

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"torrentmeta/internal/bencode"
)

// Open reads and parses a .torrent file.
func Open(filename string) (*Metainfo, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read torrent file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a bencoded torrent file.
func Parse(data []byte) (*Metainfo, error) {
	return ParseWith(data, bencode.Options{})
}

// ParseWith is Parse with explicit decoder options.
func ParseWith(data []byte, opts bencode.Options) (*Metainfo, error) {
	decoded, err := bencode.DecodeAll(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bencode: %w", err)
	}

	root, ok := decoded.(bencode.Dict)
	if !ok {
		return nil, &bencode.SchemaError{Key: "(root)", Msg: "torrent file is not a dictionary"}
	}

	m, err := parseMetainfo(root)
	if err != nil {
		return nil, err
	}

	m.InfoHash = m.Info.Hash()

	raw, err := RawInfoHash(data)
	switch {
	case err != nil:
		slog.Debug("could not hash raw info bytes", "error", err)
	case raw == m.InfoHash:
		m.Canonical = true
	default:
		slog.Warn("info dictionary is not canonically encoded",
			"name", m.Info.Name, "info_hash", m.InfoHash, "raw_info_hash", raw)
	}

	return m, nil
}

// parseMetainfo converts the top-level dictionary to a Metainfo.
func parseMetainfo(root bencode.Dict) (*Metainfo, error) {
	m := &Metainfo{}

	announce, err := root.GetBytes("announce")
	if err != nil {
		return nil, err
	}
	m.Announce = announce.String()

	if tiers, ok, err := root.OptList("announce-list"); err != nil {
		return nil, err
	} else if ok {
		m.AnnounceList, err = parseAnnounceList(tiers)
		if err != nil {
			return nil, err
		}
	}

	if comment, ok, err := root.OptBytes("comment"); err != nil {
		return nil, err
	} else if ok {
		m.Comment = comment.String()
	}

	if createdBy, ok, err := root.OptBytes("created by"); err != nil {
		return nil, err
	} else if ok {
		m.CreatedBy = createdBy.String()
	}

	if created, ok, err := root.OptInt("creation date"); err != nil {
		return nil, err
	} else if ok {
		m.CreationDate = time.Unix(created, 0).UTC()
	}

	infoDict, err := root.GetDict("info")
	if err != nil {
		return nil, err
	}

	info, err := parseInfo(infoDict)
	if err != nil {
		return nil, bencode.Within("info", err)
	}
	m.Info = *info

	return m, nil
}

func parseAnnounceList(tiers bencode.List) ([][]string, error) {
	var out [][]string
	for i, tier := range tiers {
		key := fmt.Sprintf("announce-list[%d]", i)
		l, ok := tier.(bencode.List)
		if !ok {
			return nil, bencode.Mistyped(key, bencode.KindList, tier)
		}
		urls, err := bencode.StringList(key, l)
		if err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			out = append(out, urls)
		}
	}
	return out, nil
}

// parseInfo converts the info dictionary to an Info. The dictionary itself is
// retained so the info hash covers keys the model does not interpret.
func parseInfo(d bencode.Dict) (*Info, error) {
	info := &Info{raw: d}

	name, err := d.GetBytes("name")
	if err != nil {
		return nil, err
	}
	info.Name = name.String()

	info.PieceLength, err = d.GetInt("piece length")
	if err != nil {
		return nil, err
	}
	if info.PieceLength <= 0 {
		return nil, &bencode.SchemaError{Key: "piece length", Msg: "must be positive"}
	}

	pieces, err := d.GetBytes("pieces")
	if err != nil {
		return nil, err
	}
	info.Pieces, err = splitPieces(pieces)
	if err != nil {
		return nil, fmt.Errorf("invalid pieces: %w", err)
	}

	if private, ok, err := d.OptInt("private"); err != nil {
		return nil, err
	} else if ok {
		info.Private = private == 1
	}

	info.Layout, err = parseLayout(d)
	if err != nil {
		return nil, err
	}

	return info, nil
}

// parseLayout picks the file layout by which key is present: "length" for a
// single file, "files" for a directory. Both or neither is rejected.
func parseLayout(d bencode.Dict) (Layout, error) {
	hasLength, hasFiles := d.Has("length"), d.Has("files")

	switch {
	case hasLength && hasFiles:
		return nil, &bencode.SchemaError{Key: "files", Msg: "both length and files present"}
	case !hasLength && !hasFiles:
		return nil, &bencode.SchemaError{Key: "length", Msg: "neither length nor files present"}
	case hasLength:
		length, err := d.GetInt("length")
		if err != nil {
			return nil, err
		}
		if length < 0 {
			return nil, &bencode.SchemaError{Key: "length", Msg: "must not be negative"}
		}
		return SingleFile{Length: length}, nil
	}

	entries, err := d.GetList("files")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &bencode.SchemaError{Key: "files", Msg: "empty file list"}
	}

	files := make([]File, len(entries))
	for i, entry := range entries {
		key := fmt.Sprintf("files[%d]", i)
		fd, ok := entry.(bencode.Dict)
		if !ok {
			return nil, bencode.Mistyped(key, bencode.KindDict, entry)
		}

		f, err := parseFile(fd)
		if err != nil {
			return nil, bencode.Within(key, err)
		}
		files[i] = *f
	}
	return MultiFile{Files: files}, nil
}

func parseFile(d bencode.Dict) (*File, error) {
	length, err := d.GetInt("length")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, &bencode.SchemaError{Key: "length", Msg: "must not be negative"}
	}

	segments, err := d.GetList("path")
	if err != nil {
		return nil, err
	}
	path, err := bencode.StringList("path", segments)
	if err != nil {
		return nil, err
	}

	f := &File{Length: length, Path: path}
	if err := f.ValidatePath(); err != nil {
		return nil, &bencode.SchemaError{Key: "path", Msg: err.Error()}
	}
	return f, nil
}
