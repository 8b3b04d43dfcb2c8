// Package blob persists uploaded file bytes on the local filesystem, one
// file per document keyed by a locator relative to the base directory.
package blob

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Store writes blobs under baseDir. Locators are owner-scoped relative
// paths of the form "<owner>/<doc_id><ext>".
type Store struct {
	baseDir string
}

// New creates a blob store rooted at baseDir, creating it if needed.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save stores the content and returns its locator.
func (s *Store) Save(ownerID, docID, ext string, content []byte) (string, error) {
	locator := filepath.Join(sanitize(ownerID), sanitize(docID)+ext)

	path := filepath.Join(s.baseDir, locator)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create owner dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write blob %s: %w", locator, err)
	}
	return locator, nil
}

// Load reads back the content stored under the locator.
func (s *Store) Load(locator string) ([]byte, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", locator, err)
	}
	return data, nil
}

// Remove deletes the blob. A missing blob is not an error.
func (s *Store) Remove(locator string) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", locator, err)
	}
	return nil
}

// resolve rejects locators that escape the base directory.
func (s *Store) resolve(locator string) (string, error) {
	clean := filepath.Clean(locator)
	if clean == "." || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) ||
		filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid locator %q", locator)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// sanitize strips path separators out of identifier components.
func sanitize(part string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, part)
}
