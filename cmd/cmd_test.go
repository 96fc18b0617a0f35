package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/grovetools/hydrate/errors"
	"github.com/grovetools/hydrate/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate gives each test its own config, state and data directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HYDRATE_HOME", home)
	t.Setenv("NO_COLOR", "1")
	return home
}

// run executes hydrate with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "hydrate %s", strings.Join(args, " "))
	return out
}

func decode(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, gojson.Unmarshal([]byte(out), v), out)
}

func TestTodayOnEmptyStore(t *testing.T) {
	isolate(t)

	var today TodayOutput
	decode(t, mustRun(t, "today", "--json"), &today)

	assert.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	assert.Equal(t, 0, today.Intake)
	assert.Equal(t, 64, today.Goal)
	assert.Equal(t, 64, today.Remaining)
	assert.Equal(t, "imperial", string(today.Units))
	assert.Equal(t, "💧", today.Emoji)
}

func TestAddSetReset(t *testing.T) {
	isolate(t)

	mustRun(t, "add")
	mustRun(t, "add", "12")
	var today TodayOutput
	decode(t, mustRun(t, "add", "500ml", "--json"), &today)
	assert.Equal(t, 37, today.Intake, "8 + 12 + 17")
	assert.Equal(t, 58, today.Percent)

	decode(t, mustRun(t, "set", "70", "--json"), &today)
	assert.Equal(t, 70, today.Intake)
	assert.Equal(t, 0, today.Remaining)
	assert.Equal(t, 100, today.Percent)

	out := mustRun(t, "today")
	assert.Contains(t, out, "Goal reached!")

	decode(t, mustRun(t, "reset", "--json"), &today)
	assert.Equal(t, 0, today.Intake)
}

func TestAddRejectsBadAmounts(t *testing.T) {
	isolate(t)

	for _, arg := range []string{"0", "lots", "3 cups", "9223372036854775807", "1001oz"} {
		_, err := run(t, "add", arg)
		require.Error(t, err, arg)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "%s: %v", arg, err)
	}

	var today TodayOutput
	decode(t, mustRun(t, "today", "--json"), &today)
	assert.Equal(t, 0, today.Intake, "rejected amounts are not stored")

	mustRun(t, "set", "10000")
	_, err := run(t, "add")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "the daily limit holds for the default cup")
	decode(t, mustRun(t, "today", "--json"), &today)
	assert.Equal(t, 10000, today.Intake)
}

func TestPreferences(t *testing.T) {
	isolate(t)

	var prefs PreferenceOutput
	decode(t, mustRun(t, "goal", "2000ml", "--json"), &prefs)
	assert.Equal(t, 68, prefs.Goal)
	assert.Equal(t, "imperial", string(prefs.Units))

	decode(t, mustRun(t, "units", "metric", "--json"), &prefs)
	assert.Equal(t, "metric", string(prefs.Units))
	assert.Equal(t, "2011 ml", prefs.Display)

	// A bare number is read in the stored display units.
	decode(t, mustRun(t, "goal", "2500", "--json"), &prefs)
	assert.Equal(t, 85, prefs.Goal)

	decode(t, mustRun(t, "emoji", "🥤", "--json"), &prefs)
	assert.Equal(t, "🥤", prefs.Emoji)

	_, err := run(t, "goal", "0")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = run(t, "units", "cubits")
	assert.Error(t, err)

	decode(t, mustRun(t, "goal", "--json"), &prefs)
	assert.Equal(t, 85, prefs.Goal, "failed updates leave the goal alone")
}

func TestUnitsFlagOverridesDisplay(t *testing.T) {
	isolate(t)
	mustRun(t, "set", "8")

	var today TodayOutput
	decode(t, mustRun(t, "today", "--units", "metric", "--json"), &today)
	assert.Equal(t, "237 ml", today.Display)
	assert.Equal(t, 8, today.Intake)
}

func TestHistoryAndExport(t *testing.T) {
	isolate(t)
	mustRun(t, "set", "40")

	var history HistoryOutput
	decode(t, mustRun(t, "history", "--days", "3", "--json"), &history)
	require.Len(t, history.Days, 3)
	assert.Equal(t, 40, history.Days[2].Intake, "today is last")
	assert.Equal(t, 0, history.Days[0].Intake)

	for _, days := range []string{"0", "3651", "9223372036854775807"} {
		_, err := run(t, "history", "--days", days)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "--days %s: %v", days, err)
	}

	table := mustRun(t, "history")
	assert.Contains(t, table, "Intake")
	assert.Contains(t, table, "40 oz")

	var export Export
	decode(t, mustRun(t, "export"), &export)
	require.Len(t, export.Records, 1)
	assert.Equal(t, 40, export.Records[0].Intake)
	assert.Equal(t, 64, export.Goal)

	path := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, "export", "--out", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"records"`)
}

func TestStorageFlag(t *testing.T) {
	isolate(t)

	mustRun(t, "--storage", "memory", "set", "30")
	var today TodayOutput
	decode(t, mustRun(t, "--storage", "memory", "today", "--json"), &today)
	assert.Equal(t, 0, today.Intake, "memory storage does not outlive the process")

	_, err := run(t, "--storage", "etcd", "today")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "project")
	require.NoError(t, os.MkdirAll(dir, 0755))
	cfgPath := filepath.Join(dir, "hydrate.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("defaults:\n  goal: 90\n"), 0644))

	out := mustRun(t, "--config", cfgPath, "config", "show")
	assert.Contains(t, out, "goal: 90")

	out = mustRun(t, "--config", cfgPath, "config", "show", "--format", "toml")
	assert.Contains(t, out, "goal = 90")

	_, err := run(t, "config", "show", "--format", "ini")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	out = mustRun(t, "--config", cfgPath, "config", "path")
	assert.Equal(t, cfgPath+"\n", out)

	out = mustRun(t, "config", "schema")
	assert.Contains(t, out, "hydrate configuration")

	var today TodayOutput
	decode(t, mustRun(t, "--config", cfgPath, "today", "--json"), &today)
	assert.Equal(t, 90, today.Goal, "configured default goal applies until one is stored")
}

func TestPaths(t *testing.T) {
	home := isolate(t)

	var out PathsOutput
	decode(t, mustRun(t, "paths", "--json"), &out)
	assert.True(t, strings.HasPrefix(out.ConfigDir, home))
	assert.True(t, strings.HasPrefix(out.Storage, out.StateDir))
	assert.Equal(t, "file", out.Backend)
	assert.Equal(t, filepath.Join(out.StateDir, "logs"), out.LogDir)
}

func TestRemindList(t *testing.T) {
	isolate(t)

	var out ReminderOutput
	decode(t, mustRun(t, "remind", "--list", "--hours", "13,9", "--json"), &out)
	assert.Equal(t, []int{9, 13}, out.Hours)
	require.Len(t, out.Next, 2)
	assert.True(t, out.Next[0].Before(out.Next[1]))
	for _, next := range out.Next {
		assert.Zero(t, next.Minute())
		assert.True(t, next.After(time.Now()))
	}

	_, err := run(t, "remind", "--list", "--hours", "24")
	assert.True(t, errors.Is(err, errors.ErrCodeScheduler))

	text := mustRun(t, "remind", "--now")
	assert.Contains(t, text, "Time to drink water!")
}

func TestRemindSingleInstance(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(paths.StateDir(), 0755))
	holder := os.Getppid()
	require.NoError(t, os.WriteFile(paths.ReminderPIDPath(), []byte(strconv.Itoa(holder)), 0644))

	_, err := run(t, "remind", "--hours", "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeScheduler))
	assert.Contains(t, err.Error(), "already running")

	var out ReminderOutput
	decode(t, mustRun(t, "remind", "--list", "--json"), &out)
	assert.Equal(t, holder, out.PID)
}

func TestLogs(t *testing.T) {
	isolate(t)
	date := "2026-10-18"
	dir := paths.LogDir()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intake-"+date+".log"), []byte(
		`{"time":"2026-10-18T09:00:00Z","level":"info","msg":"first","component":"intake"}`+"\n"+
			`{"time":"2026-10-18T10:00:00Z","level":"warning","msg":"second","component":"intake","key":"intake:2026-10-18"}`+"\n"),
		0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reminders-"+date+".log"), []byte("plain text line\n"), 0644))

	out := mustRun(t, "logs", "--date", date, "--list")
	assert.Equal(t, 2, strings.Count(out, ".log"))

	out = mustRun(t, "logs", "--date", date, "--component", "intake", "--tail", "1")
	assert.NotContains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "key=intake:2026-10-18")

	out = mustRun(t, "logs", "--date", date, "--component", "reminders", "--json")
	var line map[string]interface{}
	decode(t, strings.TrimSpace(out), &line)
	assert.Equal(t, "plain text line", line["raw_line"])
	assert.Equal(t, "reminders", line["component"])

	_, err := run(t, "logs", "--date", "yesterday")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	isolate(t)

	var info map[string]interface{}
	decode(t, mustRun(t, "version", "--json"), &info)
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["goVersion"])
}

func TestStarshipStatus(t *testing.T) {
	isolate(t)
	mustRun(t, "set", "24")

	out := mustRun(t, "starship", "status")
	assert.Equal(t, "💧 24/64 oz", out)
}

func TestConfigValidate(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "hydrate.yml")
	require.NoError(t, os.WriteFile(good, []byte("defaults:\n  goal: 70\ntui:\n  icons: ascii\n"), 0644))
	out := mustRun(t, "config", "validate", good)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("tui:\n  icons: emoji\n"), 0644))
	_, err := run(t, "config", "validate", bad)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}
