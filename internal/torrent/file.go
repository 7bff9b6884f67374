package torrent

import (
	"errors"
	"fmt"
	"path/filepath"
)

// File represents a file in a multi-file torrent
type File struct {
	Length int64
	Path   []string
}

// ValidatePath checks that every path component is a plain name, so the
// path cannot escape the torrent directory.
func (f *File) ValidatePath() error {
	if len(f.Path) == 0 {
		return errors.New("file path cannot be empty")
	}

	for i, component := range f.Path {
		if component == "" {
			return fmt.Errorf("empty path component at index %d", i)
		}
		if component == "." || component == ".." {
			return fmt.Errorf("invalid path component: %s", component)
		}
	}

	return nil
}

// Join returns the file's path relative to the torrent root.
func (f *File) Join() string {
	return filepath.Join(f.Path...)
}
