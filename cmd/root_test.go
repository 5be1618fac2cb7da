package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zirconconsole/zircon/internal/config"
	"github.com/zirconconsole/zircon/internal/presentation"
)

// runCLI executes the root command in a scratch directory and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmdNamespace, historyLimit, historyClear = "", 20, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuildRegistry(t *testing.T) {
	reg, err := buildRegistry()
	require.NoError(t, err)

	_, ok := reg.Function("print")
	require.True(t, ok)
	_, ok = reg.Function("log.info")
	require.True(t, ok)

	admin, ok := reg.Group("creator")
	require.True(t, ok)
	require.True(t, admin.CanAccessConsole)
	require.Equal(t, adminRank, admin.Rank)

	user, ok := reg.Group("user")
	require.True(t, ok)
	require.False(t, user.CanAccessConsole)
}

func TestOpenHistory_Memory(t *testing.T) {
	c := config.Defaults()
	c.History.Enabled = false

	store, err := openHistory(c)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Append(context.Background(), "print 1"))
	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestOpenHistory_SQLitePersists(t *testing.T) {
	c := config.Defaults()
	c.History.Path = filepath.Join(t.TempDir(), "history.db")

	store, err := openHistory(c)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), "print 1"))
	require.NoError(t, store.Close())

	store, err = openHistory(c)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.Equal(t, "print 1", store.Navigator().Last())
}

func TestCommandsCmd_ListsNamespace(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: false\n")
	out, err := runCLI(t, "commands", "--namespace", "log", "--config", path)
	require.NoError(t, err)

	var catalog presentation.CatalogDTO
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	require.NotEmpty(t, catalog.Commands)
	for _, c := range catalog.Commands {
		require.Equal(t, "log", c.Namespace)
	}
}

func TestExecCmd_PrintsOutputs(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: false\n")
	out, err := runCLI(t, "exec", `print "a"; print 2`, "--config", path)
	require.NoError(t, err)

	var result presentation.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, []string{"a", "2"}, result.Outputs)
	require.Empty(t, result.Error)
	require.NotEmpty(t, result.TraceID)
}

func TestExecCmd_ReportsFailure(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: false\n")
	out, err := runCLI(t, "exec", "clear", "--config", path)
	require.ErrorIs(t, err, errExecFailed)

	var result presentation.ResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Contains(t, result.Error, "needs a console")
}

func TestHistoryCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	path := writeConfig(t, "history:\n  path: "+dbPath+"\n")

	c := config.Defaults()
	c.History.Path = dbPath
	store, err := openHistory(c)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), "print 1"))
	require.NoError(t, store.Close())

	out, err := runCLI(t, "history", "--config", path)
	require.NoError(t, err)
	var entries []presentation.HistoryEntryDTO
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "print 1", entries[0].Source)

	_, err = runCLI(t, "history", "--clear", "--config", path)
	require.NoError(t, err)
	out, err = runCLI(t, "history", "--config", path)
	require.NoError(t, err)
	require.JSONEq(t, "[]", out)
}

func TestInitConfig_WritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "config.yaml")
	_, err := runCLI(t, "commands", "--config", path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, path, configPath)
}

func TestInitConfig_InvalidConfigFails(t *testing.T) {
	path := writeConfig(t, "theme:\n  preset: nope\n")
	_, err := runCLI(t, "commands", "--config", path)
	require.Error(t, err)
}
