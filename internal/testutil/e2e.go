// Package testutil provides test utilities and helpers for changeblogger tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// binaryPath caches the built changeblogger binary path.
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a temp git
// repository, a private HOME and config dir, and a fake summarization API.
// The real OpenAI API is never reachable from it.
type E2EEnv struct {
	t         *testing.T
	tempDir   string
	repoDir   string
	configDir string
	binary    string
	extraEnv  []string
	API       *FakeAPI
}

// CommandResult captures the result of running a changeblogger command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv builds changeblogger once per test binary and prepares an
// isolated environment. It skips the test when git is unavailable.
func NewE2EEnv(t *testing.T, reply string) *E2EEnv {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}

	e := &E2EEnv{t: t, tempDir: t.TempDir()}
	e.repoDir = filepath.Join(e.tempDir, "project")
	e.configDir = filepath.Join(e.tempDir, "config")
	for _, dir := range []string{e.repoDir, e.configDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}

	buildOnce.Do(func() {
		binaryPath, buildErr = build()
	})
	if buildErr != nil {
		t.Fatalf("building changeblogger: %v", buildErr)
	}
	e.binary = binaryPath
	e.API = NewFakeAPI(t, reply)
	return e
}

func build() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "changeblogger-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}
	out := filepath.Join(tmpDir, "changeblogger")

	cmd := exec.Command("go", "build", "-o", out, "./cmd/changeblogger")
	cmd.Dir = repoRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\nOutput: %s", err, output)
	}
	return out, nil
}

// RepoDir is the working directory commands run in.
func (e *E2EEnv) RepoDir() string {
	return e.repoDir
}

// GlobalConfigPath is where --setup writes inside the isolated environment
// on Linux (XDG_CONFIG_HOME is set to the private config dir).
func (e *E2EEnv) GlobalConfigPath() string {
	return filepath.Join(e.configDir, "changeblogger", "config")
}

// SetEnv adds KEY=value to every later Run.
func (e *E2EEnv) SetEnv(key, value string) {
	e.extraEnv = append(e.extraEnv, key+"="+value)
}

// Run executes changeblogger in the repository with stdin.
func (e *E2EEnv) Run(stdin string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.repoDir
	cmd.Env = e.isolatedEnv()
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

func (e *E2EEnv) isolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"XDG_CONFIG_HOME=" + e.configDir,
		"CHANGEBLOGGER_ENDPOINT=" + e.API.URL(),
		"NO_COLOR=1",
	}
	for _, key := range []string{"TERM", "LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP", "SYSTEMROOT"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	// OPENAI_API_KEY from the caller's shell is never passed through.
	return append(env, e.extraEnv...)
}

// Git runs a git command in the repository.
func (e *E2EEnv) Git(args ...string) string {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.repoDir
	cmd.Env = append(e.isolatedEnv(),
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@test.com",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return string(output)
}

// InitGitRepo initializes an empty repository.
func (e *E2EEnv) InitGitRepo() {
	e.t.Helper()
	e.Git("init", "-q")
}

// WriteFile writes a file relative to the repository root.
func (e *E2EEnv) WriteFile(rel, content string) {
	e.t.Helper()

	path := filepath.Join(e.repoDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", rel, err)
	}
}

// ReadFile returns a file relative to the repository root.
func (e *E2EEnv) ReadFile(rel string) string {
	e.t.Helper()

	data, err := os.ReadFile(filepath.Join(e.repoDir, rel))
	if err != nil {
		e.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// StageFile writes and stages a file.
func (e *E2EEnv) StageFile(rel, content string) {
	e.t.Helper()
	e.WriteFile(rel, content)
	e.Git("add", "--", rel)
}

// Commit records everything staged.
func (e *E2EEnv) Commit(message string) {
	e.t.Helper()
	e.Git("commit", "-q", "-m", message)
}
