// Package git inspects the staged changes of a Git repository for changeblogger.
// It uses the go-git library for repository discovery, reads the staged diff
// from the git CLI (go-git has no rename-detecting index diff) and parses it
// with go-gitdiff.
package git

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

var (
	// ErrNotRepository is returned when the working directory is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrNoStagedChanges is returned when the index has nothing staged for commit.
	ErrNoStagedChanges = errors.New("no staged changes")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// RepositoryRoot returns the absolute path to the root of the repository containing dir.
// An empty dir means the current working directory.
func RepositoryRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree and therefore no index to inspect.
		return "", fmt.Errorf("getting worktree: %w", ErrNotRepository)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepositoryRoot: %s", root)
	return root, nil
}

// IsRepository checks if dir is within a git repository with a worktree.
func IsRepository(dir string) bool {
	_, err := RepositoryRoot(dir)
	result := err == nil
	logDebug("[git] IsRepository(%s): %v", dir, result)
	return result
}
