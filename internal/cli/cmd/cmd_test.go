package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/infrastructure/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	layoutOutput, layoutOverwrite, configFile, configPathAll = "", false, "", false
	runRestore, runFresh = "", false
	app = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const sampleLayout = `version: 1
id: imported
root:
  direction: vertical
  ratio: 0.3
  first:
    pane:
      id: 1
      kind: browser
  second:
    pane:
      id: 2
      kind: terminal
      cwd: /tmp
focused: 2
browser_root: /tmp
panel_pane: 1
`

func TestLayoutCommands(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "layout", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved layouts")

	out, err = execute(t, sampleLayout, "layout", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "imported imported (2 panes)")

	_, err = execute(t, sampleLayout, "layout", "import", "-")
	assert.Error(t, err, "a second import needs --overwrite")
	_, err = execute(t, sampleLayout, "layout", "import", "--overwrite", "-")
	require.NoError(t, err)

	out, err = execute(t, "", "layout", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "imported")

	out, err = execute(t, "", "layout", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 terminal /tmp *")

	out, err = execute(t, "", "layout", "export", "imported")
	require.NoError(t, err)
	st, err := decodeLayout(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "imported", st.ID)
	assert.Equal(t, entity.PaneID(2), st.Focused)
	assert.Equal(t, 2, st.CountPanes())

	out, err = execute(t, "", "layout", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 layouts")

	_, err = execute(t, "", "layout", "show")
	assert.Error(t, err)
}

func TestLayoutExportToFile(t *testing.T) {
	root := isolate(t)
	_, err := execute(t, sampleLayout, "layout", "import", "-")
	require.NoError(t, err)

	path := filepath.Join(root, "layout.yaml")
	_, err = execute(t, "", "layout", "export", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "browser_root: /tmp")
}

func TestDecodeLayout_RejectsUnknownFields(t *testing.T) {
	_, err := decodeLayout(strings.NewReader("id: x\npanes: 3\n"))
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	root := isolate(t)

	out, err := execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "config", "termdeck", "config.toml"), strings.TrimSpace(out))

	out, err = execute(t, "", "config", "path", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "state", "termdeck"))
	assert.Contains(t, out, filepath.Join(root, "data", "termdeck", "termdeck.db"))

	t.Setenv("TERMDECK_BROWSER_FOLLOW_DEBOUNCE_MS", "300")
	out, err = execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "follow_debounce_ms = 300")

	out, err = execute(t, "", "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"hotkeys"`)
}

func TestVersionCommand(t *testing.T) {
	SetBuildInfo(buildInfo)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "termdeck")
}

func TestResolveStartDir(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveStartDir([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = resolveStartDir([]string{file})
	assert.ErrorContains(t, err, "not a directory")

	_, err = resolveStartDir([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = resolveStartDir(nil)
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}

func TestLogFile_OnlyForWorkspaceCommand(t *testing.T) {
	isolate(t)
	logFile, err := config.GetLogFile()
	require.NoError(t, err)

	_, err = execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.NoFileExists(t, logFile)

	// Tests run without a terminal, so the workspace refuses to start after
	// the app is initialized.
	_, err = execute(t, "", t.TempDir())
	require.ErrorContains(t, err, "interactive terminal")
	t.Cleanup(func() {
		if app != nil {
			_ = app.Close()
		}
	})
	assert.FileExists(t, logFile)
}
