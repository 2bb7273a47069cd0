package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useTempStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sleep-storage.json")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("SLEEP_FILE", path)
	return path
}

func TestAddListAndExport(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "add", "--date", "2024-03-09", "--bed", "23:30", "--wake", "07:15", "--quality", "4", "--mood", "good")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-09 (7h 45m)")

	_, err = run(t, "add", "--date", "2024-03-10", "--bed", "22:00", "--wake", "06:00")
	require.NoError(t, err)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "2024-03-10"), strings.Index(out, "2024-03-09"))

	out, err = run(t, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "wakeTime:")
	assert.Contains(t, out, "07:15")
	assert.Contains(t, out, "targetDuration: 8")

	_, err = run(t, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	useTempStore(t)

	_, err := run(t, "add", "--date", "2024-03-09", "--bed", "24:10", "--wake", "07:00")
	assert.Error(t, err)

	_, err = run(t, "add", "--date", "2024-03-09", "--bed", "23:00", "--wake", "07:00", "--mood", "sleepy")
	assert.Error(t, err)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no entries")
}

func TestGoalSetAndShow(t *testing.T) {
	useTempStore(t)

	_, err := run(t, "goal", "set", "--bed", "23:00", "--wake", "06:30", "--hours", "7.5")
	require.NoError(t, err)

	out, err := run(t, "goal", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "bedtime: 23:00")
	assert.Contains(t, out, "duration: 7.5h")

	_, err = run(t, "goal", "set", "--hours", "7.25")
	assert.Error(t, err)
}

func TestRemoveUnknownEntry(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "rm", "missing")
	require.NoError(t, err)
	assert.Contains(t, out, "no entry with id missing")
}
