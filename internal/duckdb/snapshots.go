package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tinytelemetry/lotus-setup/internal/snapshot"
)

// SnapshotStore keeps pre snapshot ids in the pre_snapshots table. It
// satisfies snapshot.Store.
type SnapshotStore struct {
	store *Store
}

var _ snapshot.Store = (*SnapshotStore)(nil)

// Snapshots returns the table-backed snapshot id store.
func (s *Store) Snapshots() *SnapshotStore {
	return &SnapshotStore{store: s}
}

func (ss *SnapshotStore) Save(purpose string, id uint64) error {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pre_snapshots (purpose, snapshot_id, saved_at) VALUES (?, ?, ?)
		ON CONFLICT (purpose) DO UPDATE SET snapshot_id = excluded.snapshot_id, saved_at = excluded.saved_at`,
		purpose, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("duckdb: failed to write pre snapshot id for %s: %w", purpose, err)
	}
	return nil
}

func (ss *SnapshotStore) Load(purpose string) (uint64, error) {
	s := ss.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var id uint64
	err := s.db.QueryRowContext(ctx, `SELECT snapshot_id FROM pre_snapshots WHERE purpose = ?`, purpose).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: failed to read pre snapshot id for %s", snapshot.ErrNoSnapshot, purpose)
	}
	if err != nil {
		return 0, fmt.Errorf("duckdb: read pre snapshot id for %s: %w", purpose, err)
	}
	return id, nil
}

func (ss *SnapshotStore) Clean(purpose string) error {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM pre_snapshots WHERE purpose = ?`, purpose); err != nil {
		return fmt.Errorf("duckdb: clean %s: %w", purpose, err)
	}
	return nil
}

// Purposes lists the purposes with a stored id.
func (ss *SnapshotStore) Purposes() (map[string]uint64, error) {
	s := ss.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT purpose, snapshot_id FROM pre_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("duckdb: list pre snapshots: %w", err)
	}
	defer rows.Close()

	out := map[string]uint64{}
	for rows.Next() {
		var (
			purpose string
			id      uint64
		)
		if err := rows.Scan(&purpose, &id); err != nil {
			return nil, err
		}
		out[purpose] = id
	}
	return out, rows.Err()
}
