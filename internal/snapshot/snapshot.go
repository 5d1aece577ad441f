// Package snapshot remembers the id of the "pre" snapshot taken before a
// change, so the matching "post" snapshot can be taken once the change is
// done, possibly by a later process.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// StorePath is where ids are kept, below the destination root.
const StorePath = "/var/lib/lotus-setup"

// ErrNoSnapshot is returned by Load when no usable id is stored.
var ErrNoSnapshot = errors.New("snapshot: no pre snapshot id stored")

// Store saves, loads and forgets the pre snapshot id of a purpose such as
// "setup" or "upgrade".
type Store interface {
	Save(purpose string, id uint64) error
	Load(purpose string) (uint64, error)
	Clean(purpose string) error
}

var validPurpose = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var digits = regexp.MustCompile(`^\d+$`)

// FileStore keeps one file per purpose, pre_snapshot_<purpose>.id, holding
// the id in decimal.
type FileStore struct {
	fs   afero.Fs
	root string
}

// NewFileStore returns a store below destDir. An empty destDir means the
// running system ("/"); a non-empty one is the root of a system being set
// up from outside.
func NewFileStore(fs afero.Fs, destDir string) *FileStore {
	if destDir == "" {
		destDir = "/"
	}
	return &FileStore{fs: fs, root: destDir}
}

// Dir is the directory holding the id files.
func (s *FileStore) Dir() string {
	return filepath.Join(s.root, StorePath)
}

func (s *FileStore) path(purpose string) (string, error) {
	if !validPurpose.MatchString(purpose) {
		return "", fmt.Errorf("snapshot: invalid purpose %q", purpose)
	}
	return filepath.Join(s.Dir(), "pre_snapshot_"+purpose+".id"), nil
}

// Save writes id for purpose, creating the store directory if needed.
func (s *FileStore) Save(purpose string, id uint64) error {
	path, err := s.path(purpose)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.Dir(), 0755); err != nil {
		return fmt.Errorf("snapshot: failed to write pre snapshot id for %s: %w", purpose, err)
	}
	if err := afero.WriteFile(s.fs, path, []byte(strconv.FormatUint(id, 10)), 0644); err != nil {
		return fmt.Errorf("snapshot: failed to write pre snapshot id for %s: %w", purpose, err)
	}
	return nil
}

// Load returns the id stored for purpose. A missing file or content that
// is not a decimal number is an error wrapping ErrNoSnapshot.
func (s *FileStore) Load(purpose string) (uint64, error) {
	path, err := s.path(purpose)
	if err != nil {
		return 0, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read pre snapshot id for %s: %v", ErrNoSnapshot, purpose, err)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if !digits.MatchString(content) {
		return 0, fmt.Errorf("%w: failed to read pre snapshot id for %s: content %q", ErrNoSnapshot, purpose, content)
	}
	id, err := strconv.ParseUint(content, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read pre snapshot id for %s: %v", ErrNoSnapshot, purpose, err)
	}
	return id, nil
}

// Clean removes the id stored for purpose. Nothing stored is not an error.
func (s *FileStore) Clean(purpose string) error {
	path, err := s.path(purpose)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("snapshot: clean %s: %w", purpose, err)
	}
	return nil
}
