package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestManager(t *testing.T, keepLast int) (*Manager, string) {
	t.Helper()
	localDir := filepath.Join(t.TempDir(), "backups")
	m, err := NewManager(Config{LocalDir: localDir, KeepLast: keepLast}, log.New(os.Stderr))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, localDir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewManager_RequiresLocalDir(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(Config{}, nil); err == nil {
		t.Fatal("expected error for empty local-dir")
	}
}

func TestSnapshot_MissingSourceIsNotAnError(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, 2)
	id, err := m.Snapshot(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if id != 0 {
		t.Fatalf("id = %d, want 0", id)
	}
}

func TestSnapshot_CopiesAndNumbers(t *testing.T) {
	t.Parallel()

	m, localDir := newTestManager(t, 5)
	src := writeConfig(t, "tcp-port: 4000\n")

	first, err := m.Snapshot(src)
	if err != nil {
		t.Fatalf("Snapshot #1: %v", err)
	}
	if err := os.WriteFile(src, []byte("tcp-port: 4100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	second, err := m.Snapshot(src)
	if err != nil {
		t.Fatalf("Snapshot #2: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", first, second)
	}

	data, err := os.ReadFile(filepath.Join(localDir, "config-1.yml"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(data) != "tcp-port: 4000\n" {
		t.Fatalf("snapshot 1 = %q", data)
	}

	path, err := m.Path(2)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if filepath.Base(path) != "config-2.yml" {
		t.Fatalf("Path(2) = %s", path)
	}
}

func TestSnapshot_PrunesOldCopies(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, 2)
	src := writeConfig(t, "x")

	for i := 0; i < 4; i++ {
		if _, err := m.Snapshot(src); err != nil {
			t.Fatalf("Snapshot #%d: %v", i+1, err)
		}
	}

	snaps, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("kept %d snapshots, want 2", len(snaps))
	}
	if snaps[0].ID != 4 || snaps[1].ID != 3 {
		t.Fatalf("kept ids %d, %d; want 4, 3", snaps[0].ID, snaps[1].ID)
	}

	if _, err := m.Path(1); !errors.Is(err, ErrUnknownSnapshot) {
		t.Fatalf("Path(1) err = %v, want ErrUnknownSnapshot", err)
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	m, localDir := newTestManager(t, 2)
	for _, name := range []string{"notes.txt", "config-x.yml", "config-3.yml.tmp"} {
		if err := os.WriteFile(filepath.Join(localDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 0 {
		t.Fatalf("List = %v, want none", snaps)
	}
}
