package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader is the file-reading capability handed to deck assembly.
// Resolving a directive's target path relative to the including file is
// the assembler's job; turning a resolved path into bytes is the
// loader's. Implementations must be safe for concurrent use: the two
// decks of one comparison may be assembled in parallel.
type Loader interface {
	Load(path string) ([]byte, error)
}

// OSLoader reads files from the real file system.
type OSLoader struct{}

func (OSLoader) Load(path string) ([]byte, error) {
	// #nosec G304 -- path is provided by the caller
	return os.ReadFile(path)
}

// MapLoader serves files from an in-memory map keyed by slash-normalized
// path. Used by tests and by callers that already hold deck text.
type MapLoader map[string]string

func (m MapLoader) Load(path string) ([]byte, error) {
	if content, ok := m[filepath.ToSlash(filepath.Clean(path))]; ok {
		return []byte(content), nil
	}
	return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
}
