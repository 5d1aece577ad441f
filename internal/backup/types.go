package backup

import "time"

// Config controls config-file snapshots.
type Config struct {
	LocalDir string
	KeepLast int
}

// Snapshot is one saved copy of a config file.
type Snapshot struct {
	ID      uint64
	Path    string
	Size    int64
	ModTime time.Time
}
