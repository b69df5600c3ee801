package program

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
)

// Test Plan for Loader:
// - Imports are followed depth first and files come after their dependencies
// - Import cycles terminate and every file appears once
// - .js specifiers, index files and triple-slash references resolve
// - node_modules and bare specifiers are never loaded
// - FollowImports=false loads only the roots
// - Missing roots are recorded as skipped, not fatal
// - Cancelled contexts fail the load
// - The import graph records resolved edges
// - Unchanged files are served from the parse cache

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func projectFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.ts": `/// <reference path="./globals.d.ts" />
import { u } from './util';
import lib from './lib';
import pkg from './node_modules/pkg';
import missing from './missing';
import react from 'react';
`,
		"util.ts": `import { m } from './main';
import type { T } from './types.js';
export const u = 1;
`,
		"types.ts":                  "export type T = string;\n",
		"lib/index.ts":              "export default 1;\n",
		"globals.d.ts":              "declare const G: number;\n",
		"node_modules/pkg/index.ts": "export default 2;\n",
	})
	return dir
}

func newTestLoader(t *testing.T, follow bool) *Loader {
	t.Helper()
	l, err := NewLoader(syntax.NewParser(), Options{
		FollowImports: follow,
		Ignore:        []string{"**/node_modules/**"},
	}, nil)
	require.NoError(t, err)
	return l
}

func paths(p *Program) []string {
	out := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		out = append(out, f.Path)
	}
	return out
}

func TestLoader_FollowImports(t *testing.T) {
	t.Parallel()

	dir := projectFixture(t)
	prog, err := newTestLoader(t, true).Load(context.Background(), []string{filepath.Join(dir, "main.ts")})
	require.NoError(t, err)

	// Test: dependencies first, each file once, node_modules excluded
	assert.Equal(t, []string{
		filepath.Join(dir, "globals.d.ts"),
		filepath.Join(dir, "types.ts"),
		filepath.Join(dir, "util.ts"),
		filepath.Join(dir, "lib", "index.ts"),
		filepath.Join(dir, "main.ts"),
	}, paths(prog))
	assert.Empty(t, prog.Skipped)

	// Test: the import graph holds the resolved edges
	assert.Equal(t, []string{
		filepath.Join(dir, "globals.d.ts"),
		filepath.Join(dir, "lib", "index.ts"),
		filepath.Join(dir, "util.ts"),
	}, prog.Dependencies(filepath.Join(dir, "main.ts")))
	assert.Equal(t, []string{
		filepath.Join(dir, "main.ts"),
		filepath.Join(dir, "types.ts"),
	}, prog.Dependencies(filepath.Join(dir, "util.ts")))
}

func TestLoader_RootsOnly(t *testing.T) {
	t.Parallel()

	dir := projectFixture(t)
	roots := []string{filepath.Join(dir, "main.ts"), filepath.Join(dir, "types.ts"), filepath.Join(dir, "main.ts")}
	prog, err := newTestLoader(t, false).Load(context.Background(), roots)
	require.NoError(t, err)

	// Test: only roots, in order, without duplicates
	assert.Equal(t, []string{filepath.Join(dir, "main.ts"), filepath.Join(dir, "types.ts")}, paths(prog))
}

func TestLoader_MissingAndIgnoredRoots(t *testing.T) {
	t.Parallel()

	dir := projectFixture(t)
	roots := []string{
		filepath.Join(dir, "nope.ts"),
		filepath.Join(dir, "node_modules", "pkg", "index.ts"),
		filepath.Join(dir, "types.ts"),
	}
	prog, err := newTestLoader(t, true).Load(context.Background(), roots)
	require.NoError(t, err)

	// Test: missing roots are skipped and ignored roots are dropped
	assert.Equal(t, []string{filepath.Join(dir, "types.ts")}, paths(prog))
	require.Len(t, prog.Skipped, 1)
	assert.Equal(t, filepath.Join(dir, "nope.ts"), prog.Skipped[0].Path)
}

func TestLoader_Cancelled(t *testing.T) {
	t.Parallel()

	dir := projectFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(t, true).Load(ctx, []string{filepath.Join(dir, "main.ts")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher([]string{"**/node_modules/**", "**/*.gen.ts"})
	require.NoError(t, err)

	assert.True(t, m.Match("/p/node_modules/a/index.ts"))
	assert.True(t, m.Match("/p/node_modules"))
	assert.True(t, m.Match("/p/src/api.gen.ts"))
	assert.False(t, m.Match("/p/src/api.ts"))
	assert.Equal(t, []string{"**/node_modules/**", "**/*.gen.ts"}, m.Patterns())

	// Test: a nil matcher ignores nothing
	var none *Matcher
	assert.False(t, none.Match("/p/node_modules/a.ts"))
}

func TestExpand(t *testing.T) {
	t.Parallel()

	dir := projectFixture(t)
	writeFiles(t, dir, map[string]string{
		"readme.md":       "# docs\n",
		"view/app.tsx":    "export const App = 1;\n",
		".hidden/skip.ts": "export {};\n",
	})
	m, err := NewMatcher([]string{"**/node_modules/**"})
	require.NoError(t, err)

	// Test: directories expand to TypeScript files, skipping ignored and hidden trees
	roots, err := Expand([]string{dir}, []string{".ts", ".tsx"}, m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "globals.d.ts"),
		filepath.Join(dir, "lib", "index.ts"),
		filepath.Join(dir, "main.ts"),
		filepath.Join(dir, "types.ts"),
		filepath.Join(dir, "util.ts"),
		filepath.Join(dir, "view", "app.tsx"),
	}, roots)

	// Test: files pass through and missing paths fail
	roots, err = Expand([]string{filepath.Join(dir, "main.ts")}, []string{".ts"}, m)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "main.ts")}, roots)

	_, err = Expand([]string{filepath.Join(dir, "absent")}, []string{".ts"}, m)
	assert.Error(t, err)
}

func TestLoader_ParseCache(t *testing.T) {
	t.Parallel()

	dir := projectFixture(t)
	l, err := NewLoader(syntax.NewParser(), Options{CacheSize: 16}, nil)
	require.NoError(t, err)
	defer l.Close()

	path := filepath.Join(dir, "types.ts")
	first, err := l.Load(context.Background(), []string{path})
	require.NoError(t, err)
	second, err := l.Load(context.Background(), []string{path})
	require.NoError(t, err)

	// Test: an unchanged file is served from the cache
	require.Len(t, second.Files, 1)
	assert.Same(t, first.Files[0], second.Files[0])

	// Test: a changed file is parsed again
	require.NoError(t, os.WriteFile(path, []byte("export type T = string | number;\n"), 0644))
	third, err := l.Load(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, third.Files, 1)
	assert.NotSame(t, first.Files[0], third.Files[0])
	assert.Contains(t, string(third.Files[0].Source), "number")
}
