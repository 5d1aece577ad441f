package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("duckdb: run not found")

// Run is one completed setup session.
type Run struct {
	ID           string    `json:"id"`
	Mode         string    `json:"mode"` // "interactive" or "unattended"
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	ConfigPath   string    `json:"config_path"`
	Format       string    `json:"format"`
	PreSnapshot  uint64    `json:"pre_snapshot"`
	PostSnapshot uint64    `json:"post_snapshot"`
	Pages        []string  `json:"pages"` // pages the user visited
	Content      string    `json:"content,omitempty"`
}

const runColumns = `id, mode, started_at, finished_at, config_path, format,
	pre_snapshot, post_snapshot, pages, content`

// RecordRun stores a finished run.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO setup_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.ConfigPath, run.Format,
		run.PreSnapshot, run.PostSnapshot, strings.Join(run.Pages, ","), run.Content,
	)
	if err != nil {
		return fmt.Errorf("duckdb: record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first, without their content.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM setup_runs ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("duckdb: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		run.Content = ""
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, including the written config.
func (s *Store) GetRun(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM setup_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// DeleteRunsBefore removes runs finished before cutoff.
func (s *Store) DeleteRunsBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM setup_runs WHERE finished_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("duckdb: delete runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run   Run
		pages string
	)
	err := sc.Scan(&run.ID, &run.Mode, &run.StartedAt, &run.FinishedAt, &run.ConfigPath, &run.Format,
		&run.PreSnapshot, &run.PostSnapshot, &pages, &run.Content)
	if err != nil {
		return Run{}, err
	}
	if pages != "" {
		run.Pages = strings.Split(pages, ",")
	}
	return run, nil
}
