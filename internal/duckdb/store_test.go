package duckdb

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tinytelemetry/lotus-setup/internal/snapshot"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("", log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun(id string, finished time.Time) Run {
	return Run{
		ID:           id,
		Mode:         "interactive",
		StartedAt:    finished.Add(-time.Minute),
		FinishedAt:   finished,
		ConfigPath:   "/etc/lotus/config.yml",
		Format:       "yaml",
		PreSnapshot:  3,
		PostSnapshot: 4,
		Pages:        []string{"license", "ingest", "summary"},
		Content:      "tcp-port: 4000\n",
	}
}

func TestNewStore_OnDisk(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.duckdb")
	store, err := NewStore(dbPath, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if store.DBPath() != dbPath {
		t.Errorf("DBPath = %q, want %q", store.DBPath(), dbPath)
	}
}

func TestRecordAndGetRun(t *testing.T) {
	store := newTestStore(t)
	finished := time.Now().UTC().Truncate(time.Second)
	want := testRun("run-1", finished)

	if err := store.RecordRun(want); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := store.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Content != want.Content || got.PreSnapshot != 3 || got.PostSnapshot != 4 {
		t.Errorf("GetRun = %+v", got)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, finished)
	}
	if len(got.Pages) != 3 || got.Pages[1] != "ingest" {
		t.Errorf("Pages = %v", got.Pages)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_NewestFirstWithoutContent(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	for i, id := range []string{"old", "new", "mid"} {
		offset := []time.Duration{-2 * time.Hour, 0, -time.Hour}[i]
		if err := store.RecordRun(testRun(id, now.Add(offset))); err != nil {
			t.Fatalf("RecordRun %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("order = %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[0].Content != "" {
		t.Error("ListRuns should not return content")
	}
}

func TestRetentionCleaner(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()
	if err := store.RecordRun(testRun("expired", now.Add(-48*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordRun(testRun("fresh", now)); err != nil {
		t.Fatal(err)
	}

	if NewRetentionCleaner(store, 0) != nil {
		t.Fatal("retention 0 should disable the cleaner")
	}

	rc := NewRetentionCleaner(store, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rc.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := store.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "fresh" {
		t.Fatalf("runs after cleanup = %+v", runs)
	}
}

func TestSnapshotStore(t *testing.T) {
	ss := newTestStore(t).Snapshots()

	if _, err := ss.Load("setup"); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("Load before Save: err = %v, want ErrNoSnapshot", err)
	}

	if err := ss.Save("setup", 7); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := ss.Save("setup", 9); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	id, err := ss.Load("setup")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if id != 9 {
		t.Errorf("Load = %d, want 9", id)
	}

	purposes, err := ss.Purposes()
	if err != nil {
		t.Fatalf("Purposes: %v", err)
	}
	if purposes["setup"] != 9 || len(purposes) != 1 {
		t.Errorf("Purposes = %v", purposes)
	}

	if err := ss.Clean("setup"); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if err := ss.Clean("setup"); err != nil {
		t.Fatalf("Clean twice: %v", err)
	}
	if _, err := ss.Load("setup"); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("Load after Clean: err = %v", err)
	}
}
