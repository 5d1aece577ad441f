package setup

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/tinytelemetry/lotus-setup/internal/backup"
	"github.com/tinytelemetry/lotus-setup/internal/configfile"
	"github.com/tinytelemetry/lotus-setup/internal/duckdb"
	"github.com/tinytelemetry/lotus-setup/internal/model"
	"github.com/tinytelemetry/lotus-setup/internal/snapshot"
)

// Purpose is the snapshot purpose under which the pre snapshot id of a
// setup run is kept.
const Purpose = "setup"

// Run modes recorded in the history.
const (
	ModeInteractive = "interactive"
	ModeUnattended  = "unattended"
)

// RunRecorder keeps the history of completed runs.
type RunRecorder interface {
	RecordRun(run duckdb.Run) error
}

// SessionConfig configures a Session. Backups, Snapshots and Recorder are
// optional.
type SessionConfig struct {
	Fs     afero.Fs
	Target string
	Format configfile.Format
	Mode   string

	// Backups copies the target before and after writing. It works on the
	// OS filesystem, so Fs must be the OS filesystem when it is set.
	Backups   *backup.Manager
	Snapshots snapshot.Store
	Recorder  RunRecorder
	Logger    *log.Logger
}

// Session brackets one run of the wizard: Begin protects the current config,
// Finish writes the new one and records the run.
type Session struct {
	cfg     SessionConfig
	logger  *log.Logger
	id      string
	started time.Time
	preID   uint64
	now     func() time.Time
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Target == "" {
		return nil, errors.New("setup: session target is required")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Format == "" {
		cfg.Format = configfile.FormatFromPath(cfg.Target)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeInteractive
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("setup")
	}
	return &Session{
		cfg:    cfg,
		logger: logger,
		id:     uuid.NewString(),
		now:    time.Now,
	}, nil
}

// ID identifies the run in the history.
func (s *Session) ID() string { return s.id }

// Begin takes the pre snapshot of the target and stores its id.
func (s *Session) Begin() error {
	s.started = s.now().UTC()

	if s.cfg.Snapshots != nil {
		if stale, err := s.cfg.Snapshots.Load(Purpose); err == nil {
			s.logger.Warn("previous setup did not finish", "pre_snapshot", stale)
		}
	}

	if s.cfg.Backups != nil {
		id, err := s.cfg.Backups.Snapshot(s.cfg.Target)
		if err != nil {
			return fmt.Errorf("setup: pre snapshot: %w", err)
		}
		s.preID = id
	}

	if s.cfg.Snapshots != nil {
		if err := s.cfg.Snapshots.Save(Purpose, s.preID); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}
	s.logger.Info("setup started", "run", s.id, "target", s.cfg.Target, "pre_snapshot", s.preID)
	return nil
}

// Finish validates cfg, writes it, takes the post snapshot and records the
// run. pages lists the pages the user visited.
func (s *Session) Finish(cfg model.SetupConfig, pages []string) (duckdb.Run, error) {
	if err := cfg.Validate(); err != nil {
		return duckdb.Run{}, err
	}

	pre, err := s.loadPreID()
	if err != nil {
		return duckdb.Run{}, err
	}

	if err := configfile.Write(s.cfg.Fs, s.cfg.Target, cfg, s.cfg.Format); err != nil {
		return duckdb.Run{}, err
	}

	var post uint64
	if s.cfg.Backups != nil {
		if post, err = s.cfg.Backups.Snapshot(s.cfg.Target); err != nil {
			return duckdb.Run{}, fmt.Errorf("setup: post snapshot: %w", err)
		}
	}

	content, err := configfile.Marshal(cfg, s.cfg.Format)
	if err != nil {
		return duckdb.Run{}, err
	}

	started := s.started
	if started.IsZero() {
		started = s.now().UTC()
	}
	run := duckdb.Run{
		ID:           s.id,
		Mode:         s.cfg.Mode,
		StartedAt:    started,
		FinishedAt:   s.now().UTC(),
		ConfigPath:   s.cfg.Target,
		Format:       string(s.cfg.Format),
		PreSnapshot:  pre,
		PostSnapshot: post,
		Pages:        pages,
		Content:      string(content),
	}
	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.RecordRun(run); err != nil {
			return run, fmt.Errorf("setup: record run: %w", err)
		}
	}

	if err := s.clean(); err != nil {
		return run, err
	}
	s.logger.Info("setup finished", "run", s.id, "target", s.cfg.Target, "pre_snapshot", pre, "post_snapshot", post)
	return run, nil
}

// Abort forgets the stored pre snapshot id. The config is left untouched.
func (s *Session) Abort() error {
	s.logger.Info("setup aborted", "run", s.id)
	return s.clean()
}

// loadPreID prefers the stored id, which survives a restart between Begin
// and Finish.
func (s *Session) loadPreID() (uint64, error) {
	if s.cfg.Snapshots == nil {
		return s.preID, nil
	}
	id, err := s.cfg.Snapshots.Load(Purpose)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		s.logger.Warn("no pre snapshot id stored", "err", err)
		return s.preID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("setup: %w", err)
	}
	return id, nil
}

func (s *Session) clean() error {
	if s.cfg.Snapshots == nil {
		return nil
	}
	if err := s.cfg.Snapshots.Clean(Purpose); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	return nil
}
