package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/lotus-setup/internal/duckdb"
	"github.com/tinytelemetry/lotus-setup/internal/setup"
)

type testDirs struct {
	home     string
	state    string
	licenses string
	output   string
}

func newTestDirs(t *testing.T) testDirs {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	d := testDirs{
		home:     home,
		state:    filepath.Join(home, "state"),
		licenses: filepath.Join(home, "licenses"),
		output:   filepath.Join(home, "lotus", "config.yml"),
	}
	require.NoError(t, os.MkdirAll(d.licenses, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(d.licenses, "LICENSE.TXT"), []byte("# License\n\nUse it well.\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(d.licenses, "LICENSE.de.TXT"), []byte("# Lizenz\n\nGut nutzen.\n"), 0644))
	return d
}

func (d testDirs) flags() []string {
	return []string{
		"--output", d.output,
		"--state-dir", d.state,
		"--license-path", d.licenses,
		"--log-level", "error",
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const answers = `pages:
  - page: license
    values:
      license-accept: "yes"
  - page: ingest
    values:
      tcp-port: "4100"
`

func TestApplyCommand(t *testing.T) {
	d := newTestDirs(t)
	path := filepath.Join(d.home, "answers.yml")
	require.NoError(t, os.WriteFile(path, []byte(answers), 0644))

	out, err := execute(t, "", append([]string{"apply", path}, d.flags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+d.output)

	data, err := os.ReadFile(d.output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tcp-port: 4100")

	store, err := duckdb.NewStore(filepath.Join(d.state, "history.duckdb"), log.New(io.Discard))
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, setup.ModeUnattended, runs[0].Mode)
	assert.Equal(t, []string{"license", "ingest"}, runs[0].Pages)

	_, err = store.Snapshots().Load(setup.Purpose)
	assert.Error(t, err, "pre snapshot id is cleaned after a finished run")
}

func TestApplyCommand_Stdin(t *testing.T) {
	d := newTestDirs(t)

	_, err := execute(t, answers, append([]string{"apply", "-"}, d.flags()...)...)
	require.NoError(t, err)
	assert.FileExists(t, d.output)
}

func TestApplyCommand_InvalidAnswersWriteNothing(t *testing.T) {
	d := newTestDirs(t)
	bad := `pages:
  - page: ingest
    values:
      tcp-port: "4100"
`
	_, err := execute(t, bad, append([]string{"apply", "-"}, d.flags()...)...)
	require.ErrorIs(t, err, setup.ErrInvalidAnswers)
	assert.NoFileExists(t, d.output)
}

func TestSnapshotCommands(t *testing.T) {
	d := newTestDirs(t)
	dest := filepath.Join(d.home, "root")
	flags := append(d.flags(), "--snapshot-store", "file", "--dest-dir", dest)

	_, err := execute(t, "", append([]string{"snapshot", "save", "upgrade", "42"}, flags...)...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "var", "lib", "lotus-setup", "pre_snapshot_upgrade.id"))

	out, err := execute(t, "", append([]string{"snapshot", "load", "upgrade"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	_, err = execute(t, "", append([]string{"snapshot", "clean", "upgrade"}, flags...)...)
	require.NoError(t, err)

	_, err = execute(t, "", append([]string{"snapshot", "load", "upgrade"}, flags...)...)
	assert.Error(t, err)

	_, err = execute(t, "", append([]string{"snapshot", "save", "upgrade", "x"}, flags...)...)
	assert.Error(t, err)
}

func TestLicenseCommands(t *testing.T) {
	d := newTestDirs(t)

	out, err := execute(t, "", append([]string{"license", "locales"}, d.flags()...)...)
	require.NoError(t, err)
	assert.Equal(t, "de\nen_US\n", out)

	out, err = execute(t, "", append([]string{"license", "show", "--raw", "--lang", "de_DE"}, d.flags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Gut nutzen.")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig(parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "lotus", "config.yml"), cfg.Output)
	assert.Equal(t, filepath.Join(home, ".local", "state", "lotus-setup"), cfg.StateDir)
	assert.Equal(t, filepath.Join(cfg.StateDir, "lotus-setup.log"), cfg.LogFile)
	assert.Equal(t, "sidebar", cfg.Navigation)
	assert.Equal(t, defaultKeepLast, cfg.KeepLast)
	assert.Equal(t, "db", cfg.SnapshotStore)
	assert.Empty(t, cfg.SettingsPath)
}

func TestLoadConfig_SettingsFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	settings := filepath.Join(home, "settings.yml")
	require.NoError(t, os.WriteFile(settings, []byte("navigation: steps\nkeep-last: 3\noutput: ~/lotus.yml\n"), 0644))
	t.Setenv("LOTUS_SETUP_LEAVE_POLICY", "valid")

	cfg, err := loadConfig(parseFlags(t, "--settings", settings, "--keep-last", "5"))
	require.NoError(t, err)
	assert.Equal(t, "steps", cfg.Navigation)
	assert.Equal(t, 5, cfg.KeepLast, "flags win over the settings file")
	assert.Equal(t, "valid", cfg.LeavePolicy)
	assert.Equal(t, filepath.Join(home, "lotus.yml"), cfg.Output)
	assert.Equal(t, settings, cfg.SettingsPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := loadConfig(parseFlags(t, "--snapshot-store", "nfs"))
	assert.Error(t, err)

	_, err = loadConfig(parseFlags(t, "--keep-last", "0"))
	assert.Error(t, err)
}

type failingSnapshots struct{}

func (failingSnapshots) Save(string, uint64) error   { return nil }
func (failingSnapshots) Load(string) (uint64, error) { return 0, nil }
func (failingSnapshots) Clean(string) error          { return errors.New("read-only store") }

func TestAbortSession_LogsCleanFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs)
	session, err := setup.NewSession(setup.SessionConfig{
		Target:    filepath.Join(t.TempDir(), "config.yml"),
		Snapshots: failingSnapshots{},
		Logger:    log.New(io.Discard),
	})
	require.NoError(t, err)

	abortSession(session, logger)
	assert.Contains(t, logs.String(), "read-only store")
}
