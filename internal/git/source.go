package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Source answers the index queries the Inspector needs. CLISource shells out to
// git; tests substitute an in-memory fake.
type Source interface {
	// Root returns the repository root or ErrNotRepository.
	Root(ctx context.Context) (string, error)
	// StagedDiff returns the unified diff of the index against HEAD, with
	// rename detection and paths relative to the repository root.
	StagedDiff(ctx context.Context) (string, error)
	// StatSummary returns the one-line "N files changed" summary.
	StatSummary(ctx context.Context) (string, error)
}

// CLISource implements Source with the git executable.
type CLISource struct {
	// Dir is the directory git runs in. Empty means the current directory.
	Dir string
	// GitPath overrides the git executable (default "git").
	GitPath string
}

// NewCLISource returns a CLISource rooted at dir.
func NewCLISource(dir string) *CLISource {
	return &CLISource{Dir: dir}
}

func (s *CLISource) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := s.GitPath
	if bin == "" {
		bin = "git"
	}
	sub := args[0]
	if dir := s.workDir(); dir != "" {
		args = append([]string{"-C", dir}, args...)
	}

	logDebug("[git] exec: %s %s", bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(msg), "not a git repository") {
			return nil, ErrNotRepository
		}
		if msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", sub, err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", sub, err)
	}
	return out, nil
}

// workDir is the repository root when Dir is inside one, so git output is
// root-relative even with diff.relative set. Outside a repository it is Dir,
// and git reports the error itself.
func (s *CLISource) workDir() string {
	if root, err := RepositoryRoot(s.Dir); err == nil {
		return root
	}
	return s.Dir
}

// Root uses go-git discovery so it works without spawning a process.
func (s *CLISource) Root(_ context.Context) (string, error) {
	return RepositoryRoot(s.Dir)
}

// StagedDiff runs `git diff --cached -M` over the whole index. The extra
// flags keep user config from changing the output format gitdiff parses.
func (s *CLISource) StagedDiff(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "diff", "--cached", "-M",
		"--no-color", "--no-ext-diff", "--no-textconv",
		"--src-prefix=a/", "--dst-prefix=b/")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// StatSummary runs `git diff --cached --shortstat`.
func (s *CLISource) StatSummary(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return "", err
	}
	return lastLine(string(out)), nil
}

// lastLine returns the last non-empty line, trimmed. The summary line of
// `git diff --stat` output is always the last one.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
