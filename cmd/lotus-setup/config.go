package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/lotus-setup/internal/tui"
)

const (
	defaultLicenseSource = "dir"
	defaultLicensePath   = "/usr/share/lotus/licenses"
	defaultAPIAddr       = "127.0.0.1:3080"
	defaultKeepLast      = 24
	defaultHistoryDays   = 365
	defaultSnapshotStore = "db"
)

// appConfig is the wizard's own runtime configuration, not the Lotus
// config it writes.
type appConfig struct {
	Output             string `mapstructure:"output"`
	Format             string `mapstructure:"format"`
	Navigation         string `mapstructure:"navigation"`
	LeavePolicy        string `mapstructure:"leave-policy"`
	StateDir           string `mapstructure:"state-dir"`
	DestDir            string `mapstructure:"dest-dir"`
	SnapshotStore      string `mapstructure:"snapshot-store"`
	LicenseSource      string `mapstructure:"license-source"`
	LicensePath        string `mapstructure:"license-path"`
	Lang               string `mapstructure:"lang"`
	LogLevel           string `mapstructure:"log-level"`
	LogFile            string `mapstructure:"log-file"`
	APIAddr            string `mapstructure:"api-addr"`
	KeepLast           int    `mapstructure:"keep-last"`
	ReverseScrollWheel bool   `mapstructure:"reverse-scroll-wheel"`
	HistoryRetention   int    `mapstructure:"history-retention"`
	SettingsPath       string `mapstructure:"-"`
}

func (c appConfig) historyPath() string { return filepath.Join(c.StateDir, "history.duckdb") }
func (c appConfig) backupDir() string   { return filepath.Join(c.StateDir, "backups") }

// registerFlags declares the persistent flags. Every flag can also be set
// in the settings file or as LOTUS_SETUP_<FLAG> in the environment.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("settings", "", "settings file (default is $HOME/.config/lotus-setup/settings.yml)")
	fs.StringP("output", "o", "", "Lotus config file to write (default is $HOME/.config/lotus/config.yml)")
	fs.String("format", "", "config format: yaml or toml (default from the output extension)")
	fs.String("navigation", tui.NavSidebar, "page navigation: sidebar, tabs or steps")
	fs.String("leave-policy", "always", "leaving a page with invalid input: always or valid")
	fs.String("state-dir", "", "directory for run history and config backups (default is $HOME/.local/state/lotus-setup)")
	fs.String("dest-dir", "", "root of the system being set up, for the file snapshot store")
	fs.String("snapshot-store", defaultSnapshotStore, "where pre snapshot ids are kept: db or file")
	fs.String("license-source", defaultLicenseSource, "license source: dir or archive")
	fs.String("license-path", defaultLicensePath, "license directory or .tar.gz archive")
	fs.String("lang", "", "license language, e.g. de_DE")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-file", "", "log file (default is <state-dir>/lotus-setup.log)")
	fs.String("api-addr", defaultAPIAddr, "listen address of the history API (serve)")
	fs.Int("keep-last", defaultKeepLast, "config backups to keep")
	fs.Bool("reverse-scroll-wheel", false, "invert the mouse wheel")
	fs.Int("history-retention", defaultHistoryDays, "days of run history to keep, 0 keeps everything (serve)")
}

// loadConfig merges flags, environment and the settings file.
func loadConfig(fs *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("LOTUS_SETUP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return cfg, err
	}

	v.SetDefault("output", filepath.Join(home, ".config", "lotus", "config.yml"))
	v.SetDefault("state-dir", filepath.Join(home, ".local", "state", "lotus-setup"))

	settings := v.GetString("settings")
	if settings == "" {
		settings = filepath.Join(home, ".config", "lotus-setup", "settings.yml")
	}
	v.SetConfigFile(settings)
	settingsRead := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
		settingsRead = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if settingsRead {
		cfg.SettingsPath = v.ConfigFileUsed()
	}

	cfg.Output = expandHome(home, cfg.Output)
	cfg.StateDir = expandHome(home, cfg.StateDir)
	cfg.LicensePath = expandHome(home, cfg.LicensePath)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, "lotus-setup.log")
	}
	cfg.LogFile = expandHome(home, cfg.LogFile)

	switch cfg.SnapshotStore {
	case "db", "file":
	default:
		return cfg, fmt.Errorf("invalid snapshot-store: %q", cfg.SnapshotStore)
	}
	if cfg.KeepLast <= 0 {
		return cfg, fmt.Errorf("invalid keep-last: %d", cfg.KeepLast)
	}
	return cfg, nil
}

func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
