package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/session"
	"github.com/ritual-tui/ritual/internal/storage"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// sandbox points config and data at a temp dir and returns the data file.
func sandbox(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("RITUAL_DATA", "")
	t.Setenv("RITUAL_BACKEND", "")
	return filepath.Join(dir, name)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestAddListAndComplete(t *testing.T) {
	data := sandbox(t, "data.json")

	out := mustRun(t, "--data", data, "add", "Write", "report")
	assert.Contains(t, out, "Added Write report")

	mustRun(t, "--data", data, "sub", "1", "Outline")
	out = mustRun(t, "--data", data, "day")
	assert.Contains(t, out, "(today)")
	assert.Contains(t, out, "1. [ ] Write report")
	assert.Contains(t, out, "1.1. [ ] Outline")
	assert.Contains(t, out, "0/2 done (0%)")

	out = mustRun(t, "--data", data, "done", "1")
	assert.Contains(t, out, "[x] Write report (completed)")

	out = mustRun(t, "--data", data, "timeline")
	assert.Contains(t, out, "Completed: Write report (todo -> completed)")

	out = mustRun(t, "--data", data, "stats")
	assert.Contains(t, out, "1/2 done (50%)")

	out = mustRun(t, "--data", data, "done", "1")
	assert.Contains(t, out, "(todo)")
	out = mustRun(t, "--data", data, "timeline")
	assert.Contains(t, out, "Nothing recorded.")
}

func TestUpcomingInstanceShowsIDOnceStored(t *testing.T) {
	data := sandbox(t, "data.json")
	mustRun(t, "--data", data, "add", "Standup")
	mustRun(t, "--data", data, "sub", "1", "Notes")
	mustRun(t, "--data", data, "recur", "1", "--freq", "daily")

	out := mustRun(t, "--data", data, "--date=tomorrow", "day")
	assert.Contains(t, out, "Standup ↻ Daily  (upcoming)")
	assert.Contains(t, out, "1.1. [ ] Notes\n")

	mustRun(t, "--data", data, "--date=tomorrow", "done", "1")
	out = mustRun(t, "--data", data, "--date=tomorrow", "day")
	assert.NotContains(t, out, "(upcoming)")
	assert.Contains(t, out, "[x] Standup")
}

func TestStartStop(t *testing.T) {
	data := sandbox(t, "data.json")
	mustRun(t, "--data", data, "add", "Focus")

	out := mustRun(t, "--data", data, "start", "1")
	assert.Contains(t, out, "running")
	assert.Contains(t, mustRun(t, "--data", data, "day"), "▶ since")

	out = mustRun(t, "--data", data, "start", "1")
	assert.NotContains(t, out, "running")
}

func TestRecurringNeedsScope(t *testing.T) {
	data := sandbox(t, "data.json")
	tomorrow := "--date=tomorrow"

	mustRun(t, "--data", data, "add", "Standup")
	out := mustRun(t, "--data", data, "recur", "1", "--freq", "daily")
	assert.Contains(t, out, "repeats Daily")

	out = mustRun(t, "--data", data, tomorrow, "day")
	assert.Contains(t, out, "Standup ↻ Daily")
	assert.Contains(t, out, "(upcoming)")

	_, err := run(t, "--data", data, tomorrow, "rm", "1")
	assert.ErrorIs(t, err, session.ErrScopeRequired)

	out = mustRun(t, "--data", data, tomorrow, "edit", "1", "Daily", "sync", "--scope", "all")
	assert.Contains(t, out, "Renamed Standup -> Daily sync")
	assert.Contains(t, mustRun(t, "--data", data, "day"), "Daily sync")

	mustRun(t, "--data", data, tomorrow, "rm", "1", "--scope", "this")
	assert.Contains(t, mustRun(t, "--data", data, tomorrow, "day"), "No tasks.")
	assert.Contains(t, mustRun(t, "--data", data, "--date=+2", "day"), "Daily sync")

	mustRun(t, "--data", data, "rm", "1", "--scope", "all")
	assert.Contains(t, mustRun(t, "--data", data, "--date=+2", "day"), "No tasks.")
}

func TestExcludeOccurrence(t *testing.T) {
	data := sandbox(t, "data.json")
	mustRun(t, "--data", data, "add", "Gym")
	mustRun(t, "--data", data, "recur", "1", "--freq", "daily")

	out := mustRun(t, "--data", data, "exclude", "1", "+3")
	assert.Contains(t, out, "Skipping Gym")

	assert.Contains(t, mustRun(t, "--data", data, "--date=+2", "day"), "Gym")
	assert.Contains(t, mustRun(t, "--data", data, "--date=+3", "day"), "No tasks.")
}

func TestUndo(t *testing.T) {
	data := sandbox(t, "data.json")
	mustRun(t, "--data", data, "add", "one")
	mustRun(t, "--data", data, "add", "two")

	out := mustRun(t, "--data", data, "undo")
	assert.Contains(t, out, "Undid add")
	out = mustRun(t, "--data", data, "day")
	assert.Contains(t, out, "one")
	assert.NotContains(t, out, "two")

	mustRun(t, "--data", data, "undo")
	assert.Contains(t, mustRun(t, "--data", data, "undo"), "Nothing to undo.")
}

func TestMoveBetweenDays(t *testing.T) {
	data := sandbox(t, "data.json")
	mustRun(t, "--data", data, "add", "carry")

	out := mustRun(t, "--data", data, "move", "--to", "tomorrow")
	assert.Contains(t, out, "Moved unfinished tasks")
	assert.Contains(t, mustRun(t, "--data", data, "day"), "No tasks.")
	assert.Contains(t, mustRun(t, "--data", data, "day", "tomorrow"), "carry")

	_, err := run(t, "--data", data, "move", "--from", "today", "--to", "today")
	assert.Error(t, err)
}

func TestUnknownTask(t *testing.T) {
	data := sandbox(t, "data.json")
	_, err := run(t, "--data", data, "done", "7")
	assert.ErrorIs(t, err, errNoTask)
}

func TestExportImportAndBackup(t *testing.T) {
	data := sandbox(t, "data.json")
	mustRun(t, "--data", data, "add", "mine")
	export := filepath.Join(filepath.Dir(data), "export.json")
	mustRun(t, "--data", data, "export", export)

	other := filepath.Join(filepath.Dir(data), "other.json")
	mustRun(t, "--data", other, "add", "theirs")
	mustRun(t, "--data", other, "import", export, "--merge")
	out := mustRun(t, "--data", other, "day")
	assert.Contains(t, out, "mine")
	assert.Contains(t, out, "theirs")

	mustRun(t, "--data", other, "import", export, "--replace")
	out = mustRun(t, "--data", other, "day")
	assert.Contains(t, out, "mine")
	assert.NotContains(t, out, "theirs")

	_, err := run(t, "--data", other, "import", export)
	assert.Error(t, err, "no mode and no terminal")

	out = mustRun(t, "--data", data, "backup")
	assert.Contains(t, out, "Backed up to")
	matches, err := filepath.Glob(data + ".backup-*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSQLiteBackend(t *testing.T) {
	data := sandbox(t, "data.db")
	mustRun(t, "--data", data, "add", "in sqlite")
	assert.Contains(t, mustRun(t, "--data", data, "day"), "in sqlite")

	st := storage.NewSQLiteStore(data)
	schema, err := st.Load(t.Context())
	require.NoError(t, err)
	today := dates.Format(time.Now())
	require.Len(t, schema.Tasks[today], 1)
	assert.Equal(t, "in sqlite", schema.Tasks[today][0].Title)
}

func TestSettingsDisableAutoMove(t *testing.T) {
	data := sandbox(t, "data.db")

	out := mustRun(t, "--data", data, "settings", "auto_move", "false")
	assert.Contains(t, out, "Set auto_move = false")
	mustRun(t, "--data", data, "--date=yesterday", "add", "Leftover")

	out = mustRun(t, "--data", data, "day")
	assert.Contains(t, out, "No tasks.")
	assert.NotContains(t, out, "Moved unfinished")
	assert.Contains(t, mustRun(t, "--data", data, "day", "yesterday"), "Leftover")

	mustRun(t, "--data", data, "settings", "time_format", "24h")
	out = mustRun(t, "--data", data, "settings")
	assert.Contains(t, out, "auto_move:   false")
	assert.Contains(t, out, "time_format: 24h")
	assert.Equal(t, "24h\n", mustRun(t, "--data", data, "settings", "time_format"))

	_, err := run(t, "--data", data, "settings", "colour", "red")
	assert.ErrorIs(t, err, models.ErrUnknownSetting)
	_, err = run(t, "--data", data, "settings", "time_format", "13h")
	assert.ErrorIs(t, err, models.ErrInvalidSetting)

	mustRun(t, "--data", data, "settings", "auto_move", "true")
	out = mustRun(t, "--data", data, "day")
	assert.Contains(t, out, "Moved unfinished tasks")
	assert.Contains(t, out, "Leftover")
}

func TestConfigSetAndShow(t *testing.T) {
	sandbox(t, "unused")

	out := mustRun(t, "config", "set", "backend", "sqlite")
	assert.Contains(t, out, "Set backend = sqlite")

	out = mustRun(t, "config", "show")
	assert.Contains(t, out, "sqlite")

	out = mustRun(t, "config", "path")
	assert.Contains(t, out, "data.db")

	_, err := run(t, "config", "set", "colour", "red")
	assert.Error(t, err)

	cfgFile := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "ritual", "config.yaml")
	assert.FileExists(t, cfgFile)
}

func TestImportModePrompt(t *testing.T) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	mode, err := importMode(strings.NewReader("x\nm\n"), &out, true)
	require.NoError(t, err)
	assert.Equal(t, "merge", mode)
	assert.Equal(t, 2, strings.Count(out.String(), "[r/m]"))

	_, err = importMode(strings.NewReader(""), &out, true)
	assert.Error(t, err)

	_, err = importMode(nil, &out, false)
	assert.Error(t, err)
}
