package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/tinytelemetry/lotus-setup/internal/backup"
	"github.com/tinytelemetry/lotus-setup/internal/configfile"
	"github.com/tinytelemetry/lotus-setup/internal/duckdb"
	"github.com/tinytelemetry/lotus-setup/internal/licenses"
	"github.com/tinytelemetry/lotus-setup/internal/logging"
	"github.com/tinytelemetry/lotus-setup/internal/model"
	"github.com/tinytelemetry/lotus-setup/internal/setup"
	"github.com/tinytelemetry/lotus-setup/internal/snapshot"
)

// env holds what every subcommand opens from appConfig.
type env struct {
	cfg     appConfig
	fs      afero.Fs
	logger  *log.Logger
	history *duckdb.Store
	closers []io.Closer
}

// openEnv sets up logging and the history database. toFile sends logs to
// the log file, which the TUI needs since it owns the terminal.
func openEnv(cfg appConfig, stderr io.Writer, toFile bool) (*env, error) {
	e := &env{cfg: cfg, fs: afero.NewOsFs()}

	if toFile {
		logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		e.logger = logger
		e.closers = append(e.closers, closer)
	} else {
		logger, err := logging.New(stderr, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		e.logger = logger
	}
	log.SetDefault(e.logger)

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		e.Close()
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	store, err := duckdb.NewStore(cfg.historyPath(), e.logger.WithPrefix("duckdb"))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	e.history = store
	e.closers = append(e.closers, store)
	return e, nil
}

// Close releases resources in reverse order of opening.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.logger != nil {
			e.logger.Warn("close", "err", err)
		}
	}
	e.closers = nil
}

func (e *env) snapshots() snapshot.Store {
	if e.cfg.SnapshotStore == "file" {
		return snapshot.NewFileStore(e.fs, e.cfg.DestDir)
	}
	return e.history.Snapshots()
}

func (e *env) licenses() (licenses.Fetcher, error) {
	source, err := licenses.ParseSource(e.cfg.LicenseSource)
	if err != nil {
		return nil, err
	}
	return licenses.For(source, e.fs, e.cfg.LicensePath, licenses.WithLogger(e.logger.WithPrefix("licenses")))
}

func (e *env) format() (configfile.Format, error) {
	if e.cfg.Format == "" {
		return configfile.FormatFromPath(e.cfg.Output), nil
	}
	return configfile.ParseFormat(e.cfg.Format)
}

// loadTarget reads the config being edited, applying the --lang override.
func (e *env) loadTarget() (cfg model.SetupConfig, err error) {
	cfg, err = configfile.Load(e.fs, e.cfg.Output)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", e.cfg.Output, err)
	}
	if e.cfg.Lang != "" {
		cfg.Lang = e.cfg.Lang
	}
	return cfg, nil
}

func (e *env) session(mode string) (*setup.Session, error) {
	format, err := e.format()
	if err != nil {
		return nil, err
	}
	backups, err := backup.NewManager(backup.Config{
		LocalDir: e.cfg.backupDir(),
		KeepLast: e.cfg.KeepLast,
	}, e.logger.WithPrefix("backup"))
	if err != nil {
		return nil, err
	}
	return setup.NewSession(setup.SessionConfig{
		Fs:        e.fs,
		Target:    e.cfg.Output,
		Format:    format,
		Mode:      mode,
		Backups:   backups,
		Snapshots: e.snapshots(),
		Recorder:  e.history,
		Logger:    e.logger.WithPrefix("setup"),
	})
}
