package snapshot

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveWritesIDFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "")

	require.NoError(t, s.Save("upgrade", 42))

	data, err := afero.ReadFile(fs, "/var/lib/lotus-setup/pre_snapshot_upgrade.id")
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}

func TestFileStore_DestDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/mnt")

	require.NoError(t, s.Save("setup", 7))

	exists, err := afero.Exists(fs, "/mnt/var/lib/lotus-setup/pre_snapshot_setup.id")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "/mnt/var/lib/lotus-setup", s.Dir())
}

func TestFileStore_LoadReturnsSavedID(t *testing.T) {
	s := NewFileStore(afero.NewMemMapFs(), "")
	require.NoError(t, s.Save("upgrade", 42))

	id, err := s.Load("upgrade")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestFileStore_LoadFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "")

	_, err := s.Load("upgrade")
	assert.ErrorIs(t, err, ErrNoSnapshot, "missing file")

	require.NoError(t, afero.WriteFile(fs, "/var/lib/lotus-setup/pre_snapshot_upgrade.id", []byte("blabla"), 0644))
	_, err = s.Load("upgrade")
	assert.ErrorIs(t, err, ErrNoSnapshot, "non-numeric content")

	require.NoError(t, afero.WriteFile(fs, "/var/lib/lotus-setup/pre_snapshot_upgrade.id", []byte(""), 0644))
	_, err = s.Load("upgrade")
	assert.ErrorIs(t, err, ErrNoSnapshot, "empty content")
}

func TestFileStore_Clean(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "")
	require.NoError(t, s.Save("upgrade", 42))

	require.NoError(t, s.Clean("upgrade"))
	_, err := s.Load("upgrade")
	assert.ErrorIs(t, err, ErrNoSnapshot)

	assert.NoError(t, s.Clean("upgrade"), "cleaning twice")
}

func TestFileStore_RejectsPathLikePurpose(t *testing.T) {
	s := NewFileStore(afero.NewMemMapFs(), "")

	assert.Error(t, s.Save("../etc", 1))
	_, err := s.Load("")
	assert.Error(t, err)
}
