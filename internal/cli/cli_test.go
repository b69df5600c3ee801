package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
	"github.com/mvp-joe/commentcov-typescript/internal/measure"
	"github.com/mvp-joe/commentcov-typescript/internal/report"
)

// Test Plan for CLI:
// - version prints the build information
// - measure --format json reports items and summary for a directory
// - measure --save records a run that history lists
// - measure rejects unknown formats and --graph outside text
// - history and --save require storage.path
// - watchDirs maps files to their directories once
// - writeImportGraph prints sorted edges
//
// Commands share package-level flag state, so these tests do not run in
// parallel.

// executeCommand runs the root command with args and fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgFile, verbose = "", false
	measureFormat, measureNoFollow, measureWatch = "text", false, false
	measureSave, measureQuiet, measureGraph = false, false, false
	historyLimit = 10

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// projectFixture writes a small project and a config file pointing history
// at a temp database. An empty storage path disables history.
func projectFixture(t *testing.T, withStorage bool) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()

	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "inc.ts"),
		[]byte("/** Adds one. */\nexport function inc(x: number): number {\n  return x + 1;\n}\n"), 0644))

	storagePath := ""
	if withStorage {
		storagePath = filepath.Join(dir, "runs.db")
	}
	cfgPath = filepath.Join(dir, "config.yml")
	cfg := "logging:\n  level: error\nstorage:\n  path: \"" + filepath.ToSlash(storagePath) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return dir, cfgPath
}

func findItem(items []coverage.Item, identifier string) (coverage.Item, bool) {
	for _, item := range items {
		if item.Identifier == identifier {
			return item, true
		}
	}
	return coverage.Item{}, false
}

// Test: version prints the build information
func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "commentcov-typescript dev")
	assert.Contains(t, stdout, "Git commit: none")
}

// Test: measure --format json reports items and summary for a directory
func TestMeasureCommand_JSON(t *testing.T) {
	dir, cfgPath := projectFixture(t, false)

	stdout, _, err := executeCommand(t, "measure", "--config", cfgPath, "-q", "--format", "json", filepath.Join(dir, "src"))
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	item, ok := findItem(doc.CoverageItems, "inc")
	require.True(t, ok, "inc should be reported")
	assert.Equal(t, coverage.ScopePublicFunction, item.Scope)
	require.Len(t, item.HeaderComments, 1)
	assert.Equal(t, "Adds one.", item.HeaderComments[0].Text)
	assert.Equal(t, 1, doc.Summary.Files)
	assert.GreaterOrEqual(t, doc.Summary.Documented, 1)
}

// Test: measure --save records a run that history lists
func TestMeasureCommand_SaveAndHistory(t *testing.T) {
	dir, cfgPath := projectFixture(t, true)

	stdout, _, err := executeCommand(t, "measure", "--config", cfgPath, "-q", "--save", filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "TOTAL")

	stdout, _, err = executeCommand(t, "history", "--config", cfgPath, "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "COVERAGE")
	lines := bytes.Count([]byte(stdout), []byte("\n"))
	assert.Equal(t, 2, lines, "header plus one run")
}

// Test: measure rejects unknown formats and --graph outside text
func TestMeasureCommand_BadFlags(t *testing.T) {
	dir, cfgPath := projectFixture(t, false)
	src := filepath.Join(dir, "src")

	_, _, err := executeCommand(t, "measure", "--config", cfgPath, "--format", "xml", src)
	assert.Error(t, err)

	_, _, err = executeCommand(t, "measure", "--config", cfgPath, "--format", "json", "--graph", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--graph")

	_, _, err = executeCommand(t, "measure", "--config", cfgPath, filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

// Test: history and --save require storage.path
func TestStorageRequired(t *testing.T) {
	dir, cfgPath := projectFixture(t, false)

	_, _, err := executeCommand(t, "history", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.path")

	_, _, err = executeCommand(t, "measure", "--config", cfgPath, "--save", filepath.Join(dir, "src"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.path")
}

// Test: history on an empty database says so
func TestHistoryCommand_Empty(t *testing.T) {
	_, cfgPath := projectFixture(t, true)

	stdout, _, err := executeCommand(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")
}

// Test: watchDirs maps files to their directories once
func TestWatchDirs(t *testing.T) {
	dir, _ := projectFixture(t, false)
	src := filepath.Join(dir, "src")

	dirs := watchDirs([]string{filepath.Join(src, "inc.ts"), src, dir})
	assert.Equal(t, []string{src, dir}, dirs)
}

// Test: writeImportGraph prints sorted edges
func TestWriteImportGraph(t *testing.T) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, v := range []string{"/p/a.ts", "/p/b.ts", "/p/c.ts"} {
		require.NoError(t, g.AddVertex(v))
	}
	require.NoError(t, g.AddEdge("/p/a.ts", "/p/c.ts"))
	require.NoError(t, g.AddEdge("/p/a.ts", "/p/b.ts"))

	var buf bytes.Buffer
	require.NoError(t, writeImportGraph(&buf, &measure.Result{Imports: g}))
	assert.Equal(t, "IMPORTS\n  /p/a.ts -> /p/b.ts\n  /p/a.ts -> /p/c.ts\n", buf.String())

	buf.Reset()
	require.NoError(t, writeImportGraph(&buf, &measure.Result{}))
	assert.Empty(t, buf.String())
}
