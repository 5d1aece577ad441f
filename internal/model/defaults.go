package model

import "time"

// Defaults of the Lotus service, shared by the wizard pages, the config
// writer and the summary.
const (
	DefaultUpdateInterval = 2 * time.Second
	DefaultLogBuffer      = 1000
	DefaultSkin           = "default"
	DefaultBindHost       = "127.0.0.1"
	DefaultTCPPort        = 4000
	DefaultAPIPort        = 3000
	DefaultQueryTimeout   = 30 * time.Second
	DefaultLogRetention   = 30 // days, 0 = disabled
	DefaultDBPath         = "~/.local/share/lotus/lotus.duckdb"

	DefaultBackupInterval = 6 * time.Hour
	DefaultBackupKeepLast = 24
	DefaultBackupLocalDir = "~/.local/share/lotus/backups"

	DefaultLang = "en_US"
)

// Skins offered by the display page.
var Skins = []string{"default", "dark", "light", "solarized"}

// Defaults returns a config holding every default value.
func Defaults() SetupConfig {
	return SetupConfig{
		UpdateInterval: Duration(DefaultUpdateInterval),
		LogBuffer:      DefaultLogBuffer,
		Host:           DefaultBindHost,
		TCPEnabled:     true,
		TCPPort:        DefaultTCPPort,
		DBPath:         DefaultDBPath,
		LogRetention:   DefaultLogRetention,
		QueryTimeout:   Duration(DefaultQueryTimeout),
		APIEnabled:     true,
		APIPort:        DefaultAPIPort,
		Skin:           DefaultSkin,
		BackupInterval: Duration(DefaultBackupInterval),
		BackupLocalDir: DefaultBackupLocalDir,
		BackupKeepLast: DefaultBackupKeepLast,
		Lang:           DefaultLang,
	}
}
