// Package changelog tests README file updates.
// Related: internal/changelog/writer.go
// Tags: changelog, readme, atomic-write, permissions

package changelog

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

func TestUpdateFile_ExistingReadme(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	original := "# Demo\n\n## Changelog\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o640))

	e := NewEntry(testDate, &summarize.Result{Added: []string{"hello.py"}})
	created, err := UpdateFile(path, e, Options{})
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, InsertEntry(original, e, Options{}), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "mode is preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestUpdateFile_CreatesMissingReadme(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "myproject")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "README.md")

	e := NewEntry(testDate, &summarize.Result{Modified: []string{"main.go"}})
	created, err := UpdateFile(path, e, Options{})
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# myproject\n\n## Changelog\n\n"+Render(e), string(data))
}

func TestUpdateFile_FollowsSymlink(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "docs.md")
	require.NoError(t, os.WriteFile(target, []byte("# Docs\n"), 0o644))
	link := filepath.Join(dir, "README.md")
	require.NoError(t, os.Symlink(target, link))

	e := NewEntry(testDate, &summarize.Result{Added: []string{"a.go"}})
	_, err := UpdateFile(link, e, Options{})
	require.NoError(t, err)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link is kept")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Changelog\n\n## Changes - 2026-01-15\n")
}

func TestUpdateFile_UnwritableDirectory(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	original := "# Demo\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	e := NewEntry(testDate, &summarize.Result{Added: []string{"a.go"}})
	_, err := UpdateFile(path, e, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileWrite)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "README is untouched on failure")
}

func TestUpdateFile_PathIsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := UpdateFile(dir, NewEntry(testDate, nil), Options{})
	assert.ErrorIs(t, err, ErrFileWrite)
}
