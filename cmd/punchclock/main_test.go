package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/report"
)

type cliEnv struct {
	dir    string
	config string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "punchclock.yaml")
	cfg := "db:\n  path: " + filepath.Join(dir, "punchclock.db") + "\n" +
		"log:\n  level: error\n" +
		"attendance:\n  timezone: UTC\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return &cliEnv{dir: dir, config: cfgPath}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_ClockCycle(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "users", "add", "--name", "Alice", "--id", "EMP001", "--password", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "employee id EMP001")

	out, err = env.run(t, "in", "EMP001")
	require.NoError(t, err)
	require.Contains(t, out, "EMP001 clocked in at ")

	_, err = env.run(t, "in", "EMP001")
	require.ErrorContains(t, err, "already clocked in")

	_, err = env.run(t, "in", "EMP999")
	require.ErrorIs(t, err, clock.ErrUnknownEmployee)

	out, err = env.run(t, "status", "EMP001", "--json")
	require.NoError(t, err)
	var snaps []attendance.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 1)
	require.Equal(t, attendance.StatusActive, snaps[0].Status)
	require.Equal(t, "Alice", snaps[0].Name)

	out, err = env.run(t, "out", "EMP001")
	require.NoError(t, err)
	require.Contains(t, out, "EMP001 clocked out at ")

	_, err = env.run(t, "out", "EMP001")
	require.ErrorContains(t, err, "not clocked in")

	out, err = env.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "EMP001")
	require.Contains(t, out, string(attendance.StatusInactive))
}

func TestCLI_UsersList(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "users", "add", "--name", "Alice", "--password", "secret")
	require.NoError(t, err)
	_, err = env.run(t, "users", "add", "--name", "Bob", "--id", "EMP777", "--password", "secret")
	require.NoError(t, err)

	_, err = env.run(t, "users", "add", "--name", "Alice", "--password", "other")
	require.Error(t, err)

	out, err := env.run(t, "users", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "EMP001"))
	require.True(t, strings.HasPrefix(lines[2], "EMP777"))
}

func TestCLI_ImportDryRunThenImport(t *testing.T) {
	env := newCLIEnv(t)

	events := []clock.RawEvent{
		{ID: "a", EmployeeID: "EMP001", Date: "2024-01-15", ClockIn: "2024-01-15T09:00:00.000Z", ClockOut: strPtr("2024-01-15T17:00:00.000Z")},
		{ID: "b", EmployeeID: "EMP001", Date: "2024-01-16", ClockIn: "2024-01-16T09:00:00.000Z"},
		{ID: "c", EmployeeID: "EMP001", Date: "2024-01-17", ClockIn: "2024-01-17T09:00:00.000Z"},
		{ID: "d", EmployeeID: "", ClockIn: "2024-01-17T09:00:00.000Z"},
	}
	data, err := json.Marshal(events)
	require.NoError(t, err)
	path := filepath.Join(env.dir, "events.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := env.run(t, "import", path, "--dry-run")
	require.NoError(t, err)
	var rep clock.ImportReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 2, rep.Imported)
	require.Len(t, rep.Skipped, 1)
	require.Len(t, rep.Malformed, 1)

	out, err = env.run(t, "import", path)
	require.NoError(t, err)
	rep = clock.ImportReport{}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 2, rep.Imported)

	// A second run finds every id already stored.
	out, err = env.run(t, "import", path)
	require.NoError(t, err)
	rep = clock.ImportReport{}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Zero(t, rep.Imported)
	require.Len(t, rep.Skipped, 3)
}

func TestCLI_Export(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "users", "add", "--name", "Alice", "--id", "EMP001", "--password", "secret")
	require.NoError(t, err)
	_, err = env.run(t, "in", "EMP001")
	require.NoError(t, err)

	path := filepath.Join(env.dir, "out.xlsx")
	out, err := env.run(t, "export", "-o", path)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(report.TimesheetSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "EMP001", rows[1][0])
}

func TestCLI_APIKeyAdd(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "apikey", "add", "--label", "ops")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "pc_"))

	out, err = env.run(t, "apikey", "add", "fixed-key")
	require.NoError(t, err)
	require.Equal(t, "fixed-key", strings.TrimSpace(out))
}

func strPtr(s string) *string { return &s }
