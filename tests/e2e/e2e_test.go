//go:build e2e

// Package e2e provides end-to-end tests for the changeblogger binary.
// They run the built binary against real git repositories and a fake
// summarization API.
//
// To run these tests:
//
//	go test -tags=e2e ./tests/e2e/...
package e2e

import (
	"net/http"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsoletenerd/changeblogger/internal/testutil"
)

const narrative = "Added a simple Python script that prints a greeting."

func today() string {
	return time.Now().Format("2006-01-02")
}

func TestE2E_HelloScenario(t *testing.T) {
	env := testutil.NewE2EEnv(t, "**Summary:** "+narrative)
	env.InitGitRepo()
	env.WriteFile("README.md", "# Demo\n\n## Changelog\n")
	env.StageFile("hello.py", "print('hello')\n")
	env.SetEnv("OPENAI_API_KEY", "sk-e2e-test")

	result := env.Run("y\n", "--plain")
	require.Equal(t, 0, result.ExitCode, "stdout: %s\nstderr: %s", result.Stdout, result.Stderr)

	readme := env.ReadFile("README.md")
	assert.Contains(t, readme, "## Changelog\n\n## Changes - "+today()+"\n")
	assert.Contains(t, readme, "**Summary:**\n"+narrative+"\n")
	assert.Contains(t, readme, "- Added files: hello.py\n")

	calls := env.API.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer sk-e2e-test", calls[0].Authorization)
	assert.Contains(t, calls[0].UserPrompt, "hello.py")
	assert.Contains(t, calls[0].UserPrompt, "print('hello')")
}

func TestE2E_NoStagedChanges(t *testing.T) {
	env := testutil.NewE2EEnv(t, narrative)
	env.InitGitRepo()
	env.StageFile("README.md", "# Demo\n")
	env.Commit("initial")
	env.SetEnv("OPENAI_API_KEY", "sk-e2e-test")

	result := env.Run("y\n")

	assert.Equal(t, 4, result.ExitCode)
	assert.Contains(t, result.Stderr, "no staged changes")
	assert.Empty(t, env.API.Calls(), "no request without staged changes")
	assert.Equal(t, "# Demo\n", env.ReadFile("README.md"))
}

func TestE2E_NotARepository(t *testing.T) {
	env := testutil.NewE2EEnv(t, narrative)
	env.SetEnv("OPENAI_API_KEY", "sk-e2e-test")

	result := env.Run("y\n")

	assert.Equal(t, 4, result.ExitCode)
	assert.Contains(t, result.Stderr, "not inside a git repository")
	assert.Empty(t, env.API.Calls())
}

func TestE2E_MissingCredential(t *testing.T) {
	env := testutil.NewE2EEnv(t, narrative)
	env.InitGitRepo()
	env.StageFile("a.go", "package a\n")

	result := env.Run("y\n")

	assert.Equal(t, 4, result.ExitCode)
	assert.Contains(t, result.Stderr, "changeblogger --setup")
	assert.Empty(t, env.API.Calls())
}

func TestE2E_SetupThenRun(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only decides the config dir on Linux")
	}
	env := testutil.NewE2EEnv(t, narrative)
	env.InitGitRepo()
	env.StageFile("a.go", "package a\n")

	setup := env.Run("sk-from-setup\n", "--setup")
	require.Equal(t, 0, setup.ExitCode, setup.Stderr)
	assert.Contains(t, setup.Stdout, env.GlobalConfigPath())

	info, err := os.Stat(env.GlobalConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	result := env.Run("", "--yes")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	require.Len(t, env.API.Calls(), 1)
	assert.Equal(t, "Bearer sk-from-setup", env.API.Calls()[0].Authorization)
}

func TestE2E_DotenvCredential(t *testing.T) {
	env := testutil.NewE2EEnv(t, narrative)
	env.InitGitRepo()
	env.WriteFile(".env", "OPENAI_API_KEY=sk-dotenv\n")
	env.StageFile("a.go", "package a\n")

	result := env.Run("", "--yes")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	require.Len(t, env.API.Calls(), 1)
	assert.Equal(t, "Bearer sk-dotenv", env.API.Calls()[0].Authorization)
}

func TestE2E_ServiceErrors(t *testing.T) {
	tests := map[string]struct {
		status  int
		wantErr string
	}{
		"unauthorized": {status: http.StatusUnauthorized, wantErr: "rejected the API key"},
		"rate limited": {status: http.StatusTooManyRequests, wantErr: "rate limit"},
		"server error": {status: http.StatusBadGateway, wantErr: "could not reach"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t, narrative)
			env.InitGitRepo()
			env.WriteFile("README.md", "# Demo\n")
			env.StageFile("a.go", "package a\n")
			env.SetEnv("OPENAI_API_KEY", "sk-secret-e2e")
			env.API.FailWith(tt.status, "nope")

			result := env.Run("y\n")

			assert.Equal(t, 5, result.ExitCode)
			assert.Contains(t, result.Stderr, tt.wantErr)
			assert.NotContains(t, result.Stderr, "sk-secret-e2e")
			assert.Equal(t, "# Demo\n", env.ReadFile("README.md"))
		})
	}
}

func TestE2E_DeclineAndDryRun(t *testing.T) {
	tests := map[string]struct {
		stdin   string
		args    []string
		wantOut string
	}{
		"decline": {stdin: "n\n", wantOut: "Summary not added."},
		"dry run": {args: []string{"--dry-run"}, wantOut: "Dry run: README.md was not modified."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t, narrative)
			env.InitGitRepo()
			env.WriteFile("README.md", "# Demo\n")
			env.StageFile("a.go", "package a\n")
			env.SetEnv("OPENAI_API_KEY", "sk-e2e-test")

			result := env.Run(tt.stdin, tt.args...)

			assert.Equal(t, 0, result.ExitCode)
			assert.Contains(t, result.Stdout, tt.wantOut)
			assert.Equal(t, "# Demo\n", env.ReadFile("README.md"))
		})
	}
}

func TestE2E_MixedChangesAndBinary(t *testing.T) {
	env := testutil.NewE2EEnv(t, narrative)
	env.InitGitRepo()
	env.StageFile("README.md", "# Demo\n\n## Changelog\n")
	env.StageFile("old.txt", "old\n")
	env.StageFile("keep.go", "package keep\n")
	env.Commit("initial")

	env.Git("rm", "-q", "old.txt")
	env.StageFile("keep.go", "package keep\n\nfunc Keep() {}\n")
	env.StageFile("logo.bin", "PNG\x00\x01\x02binary")
	env.SetEnv("OPENAI_API_KEY", "sk-e2e-test")

	result := env.Run("", "--yes")
	require.Equal(t, 0, result.ExitCode, result.Stderr)

	readme := env.ReadFile("README.md")
	assert.Contains(t, readme, "- Added files: logo.bin\n")
	assert.Contains(t, readme, "- Modified files: keep.go\n")
	assert.Contains(t, readme, "- Deleted files: old.txt\n")

	require.Len(t, env.API.Calls(), 1)
	prompt := env.API.Calls()[0].UserPrompt
	assert.Contains(t, prompt, "func Keep()")
	assert.False(t, strings.Contains(prompt, "\x00"), "binary content is never sent")
}

func TestE2E_Version(t *testing.T) {
	env := testutil.NewE2EEnv(t, narrative)

	result := env.Run("", "version", "--plain")
	require.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "changeblogger ")
}
