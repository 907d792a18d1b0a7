// Package git tests repository discovery and the git CLI source against
// temporary repositories created with go-git.
// Related: internal/git/git.go, internal/git/source.go
// Tags: git, repository, integration

package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with one committed README.md and returns its
// root and worktree.
func initRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, wt
}

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func TestRepositoryRoot(t *testing.T) {
	t.Parallel()

	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := RepositoryRoot(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, IsRepository(sub))
}

func TestRepositoryRoot_NotRepository(t *testing.T) {
	t.Parallel()

	_, err := RepositoryRoot(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
	assert.False(t, IsRepository(t.TempDir()))
}

func TestCLISource_CollectsStagedChanges(t *testing.T) {
	requireGitBinary(t)
	t.Parallel()

	dir, wt := initRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.py"), []byte("print('Hello, World!')\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test\n\nMore text.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.dat"), []byte{0x00, 0x01, 0x02, 0xff}, 0o644))
	for _, p := range []string{"hello.py", "README.md", "blob.dat"} {
		_, err := wt.Add(p)
		require.NoError(t, err)
	}

	cs, err := NewInspector(NewCLISource(dir)).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, cs.Len())

	byPath := make(map[string]StagedChange)
	for _, c := range cs.Changes {
		byPath[c.Path] = c
	}

	assert.Equal(t, KindAdded, byPath["hello.py"].Kind)
	assert.Equal(t, "print('Hello, World!')\n", byPath["hello.py"].Content)
	assert.Equal(t, KindModified, byPath["README.md"].Kind)
	assert.Contains(t, byPath["README.md"].Content, "+More text.")
	assert.Equal(t, KindBinarySkipped, byPath["blob.dat"].Kind)
	assert.Empty(t, byPath["blob.dat"].Content)
	assert.Contains(t, cs.Stat, "3 files changed")
}

func TestCLISource_NoStagedChanges(t *testing.T) {
	requireGitBinary(t)
	t.Parallel()

	dir, _ := initRepo(t)
	_, err := NewInspector(NewCLISource(dir)).Collect(context.Background())
	assert.ErrorIs(t, err, ErrNoStagedChanges)
}

func TestCLISource_NotRepository(t *testing.T) {
	t.Parallel()

	_, err := NewInspector(NewCLISource(t.TempDir())).Collect(context.Background())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestCLISource_FromSubdirectory(t *testing.T) {
	requireGitBinary(t)
	t.Parallel()

	dir, wt := initRepo(t)
	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test\n\nmore text\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "util.go"), []byte("package pkg\n"), 0o644))
	for _, p := range []string{"README.md", "pkg/util.go"} {
		_, err := wt.Add(p)
		require.NoError(t, err)
	}

	tests := map[string]string{
		"repository root": dir,
		"subdirectory":    sub,
	}

	for name, start := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cs, err := NewInspector(NewCLISource(start)).Collect(context.Background())
			require.NoError(t, err)
			require.Equal(t, 2, cs.Len())

			byPath := make(map[string]StagedChange)
			for _, c := range cs.Changes {
				byPath[c.Path] = c
			}
			assert.Equal(t, KindModified, byPath["README.md"].Kind)
			assert.Contains(t, byPath["README.md"].Content, "diff --git a/README.md b/README.md\n")
			assert.Contains(t, byPath["README.md"].Content, "+more text\n")
			assert.Equal(t, "package pkg\n", byPath["pkg/util.go"].Content)
		})
	}
}

func TestCLISource_RenameWithEdit(t *testing.T) {
	requireGitBinary(t)
	t.Parallel()

	dir, wt := initRepo(t)
	body := "line one\nline two\nline three\nline four\nline five\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(body), 0o644))
	_, err := wt.Add("notes.txt")
	require.NoError(t, err)
	_, err = wt.Commit("add notes", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	cmd := exec.Command("git", "mv", "notes.txt", "guide.txt")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.txt"), []byte(body+"line six\n"), 0o644))
	cmd = exec.Command("git", "add", "guide.txt")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	cs, err := NewInspector(NewCLISource(dir)).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cs.Len())

	got := cs.Changes[0]
	assert.Equal(t, KindRenamed, got.Kind)
	assert.Equal(t, "notes.txt", got.RenameFrom)
	assert.Equal(t, "guide.txt", got.Path)
	assert.Contains(t, got.Content, "+line six\n")
}
