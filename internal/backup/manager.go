package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const defaultKeepLast = 24

// ErrUnknownSnapshot is returned by Path for an id that is not kept.
var ErrUnknownSnapshot = errors.New("backup: unknown snapshot")

var snapshotName = regexp.MustCompile(`^config-(\d+)(\.[A-Za-z0-9]+)?$`)

// Manager copies a config file into a backup directory before and after
// it is rewritten. Snapshot ids grow monotonically within a directory.
type Manager struct {
	cfg    Config
	logger *log.Logger
}

// NewManager prepares the backup directory.
func NewManager(cfg Config, logger *log.Logger) (*Manager, error) {
	if strings.TrimSpace(cfg.LocalDir) == "" {
		return nil, fmt.Errorf("backup: local-dir is required")
	}
	if cfg.KeepLast <= 0 {
		cfg.KeepLast = defaultKeepLast
	}
	if err := os.MkdirAll(cfg.LocalDir, 0755); err != nil {
		return nil, fmt.Errorf("backup: create local-dir: %w", err)
	}
	if logger == nil {
		logger = log.Default().WithPrefix("backup")
	}
	return &Manager{cfg: cfg, logger: logger}, nil
}

// Snapshot copies src into the backup directory as config-<id><ext> and
// prunes old copies. A missing src has nothing to protect: the id is 0 and
// no error is returned.
func (m *Manager) Snapshot(src string) (uint64, error) {
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		m.logger.Debug("no config to snapshot", "path", src)
		return 0, nil
	}

	existing, err := m.List()
	if err != nil {
		return 0, err
	}
	var id uint64 = 1
	if len(existing) > 0 {
		id = existing[0].ID + 1
	}

	dst := filepath.Join(m.cfg.LocalDir, fmt.Sprintf("config-%d%s", id, filepath.Ext(src)))
	if err := copyFile(src, dst); err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	m.logger.Info("created snapshot", "id", id, "path", dst)

	if err := pruneLocalBackups(m.cfg.LocalDir, m.cfg.KeepLast); err != nil {
		return id, fmt.Errorf("prune local backups: %w", err)
	}
	return id, nil
}

// List returns the kept snapshots, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	return listSnapshots(m.cfg.LocalDir)
}

// Path returns the file holding snapshot id.
func (m *Manager) Path(id uint64) (string, error) {
	snaps, err := m.List()
	if err != nil {
		return "", err
	}
	for _, s := range snaps {
		if s.ID == id {
			return s.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownSnapshot, id)
}

func listSnapshots(localDir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return nil, err
	}

	var snaps []Snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := snapshotName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, Snapshot{
			ID:      id,
			Path:    filepath.Join(localDir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID > snaps[j].ID })
	return snaps, nil
}

func pruneLocalBackups(localDir string, keepLast int) error {
	if keepLast <= 0 {
		return nil
	}

	snaps, err := listSnapshots(localDir)
	if err != nil {
		return err
	}
	if len(snaps) <= keepLast {
		return nil
	}

	for _, old := range snaps[keepLast:] {
		if err := os.Remove(old.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp := dstPath + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dstPath)
}
