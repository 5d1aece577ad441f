package duckdb

import (
	"context"
	"time"
)

// RetentionCleaner deletes runs older than a retention period, once at
// start and then hourly until its context ends.
type RetentionCleaner struct {
	store     *Store
	retention time.Duration
	interval  time.Duration
}

// NewRetentionCleaner returns nil when days is 0 (keep forever).
func NewRetentionCleaner(store *Store, days int) *RetentionCleaner {
	if days <= 0 {
		return nil
	}
	return &RetentionCleaner{
		store:     store,
		retention: time.Duration(days) * 24 * time.Hour,
		interval:  time.Hour,
	}
}

// Run cleans until ctx is done. It always returns nil so it can run
// inside an errgroup without ending its siblings.
func (rc *RetentionCleaner) Run(ctx context.Context) error {
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		rc.cleanup(time.Now())
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

func (rc *RetentionCleaner) cleanup(now time.Time) {
	cutoff := now.Add(-rc.retention)

	rows, err := rc.store.DeleteRunsBefore(cutoff)
	if err != nil {
		rc.store.logger.Error("retention cleanup failed", "err", err)
		return
	}
	if rows > 0 {
		rc.store.logger.Info("retention cleanup deleted expired runs", "rows", rows, "cutoff", cutoff.Format(time.RFC3339))
	}
}
