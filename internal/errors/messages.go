package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/obsoletenerd/changeblogger/internal/changelog"
	"github.com/obsoletenerd/changeblogger/internal/config"
	"github.com/obsoletenerd/changeblogger/internal/git"
	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

// Common error messages for the changeblogger CLI.

// NotAGitRepository is returned when run outside a working tree.
func NotAGitRepository(err error) *CLIError {
	e := NewPrerequisiteError(
		"not inside a git repository",
		"Run changeblogger from inside a git working tree",
		"Or initialise one with: git init",
	)
	e.Cause = err
	return e
}

// NoStagedChanges is returned when the index matches HEAD.
func NoStagedChanges(err error) *CLIError {
	e := NewPrerequisiteError(
		"no staged changes to summarize",
		"Stage your changes first: git add <files>",
		"Check what is staged with: git diff --cached --stat",
	)
	e.Cause = err
	return e
}

// MissingCredential is returned when no API key could be resolved.
func MissingCredential(globalPath string) *CLIError {
	e := NewPrerequisiteError(
		"no OpenAI API key configured",
		"Run 'changeblogger --setup' to store a key in "+globalPath,
		"Or set OPENAI_API_KEY in your environment or in the project .env",
		"Or pass --no-ai to write an entry without a generated summary",
	)
	e.Cause = config.ErrMissingCredential
	return e
}

// AuthError is returned when the service rejects the key.
func AuthError(err error) *CLIError {
	return serviceError(err, "the summarization service rejected the API key",
		"Check that OPENAI_API_KEY is valid and has not been revoked",
		"Store a new key with: changeblogger --setup",
	)
}

// RateLimited is returned on HTTP 429.
func RateLimited(err error) *CLIError {
	hint := "Wait a moment and run changeblogger again"
	var statusErr *summarize.StatusError
	if stderrors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		hint = fmt.Sprintf("Wait %s and run changeblogger again", statusErr.RetryAfter)
	}
	return serviceError(err, "the summarization service rate limit was reached",
		hint,
		"Check your plan's usage limits",
	)
}

// NetworkError is returned when the service cannot be reached or fails.
func NetworkError(err error) *CLIError {
	return serviceError(err, "could not reach the summarization service",
		"Check your network connection",
		"Try again later if the service is having problems",
	)
}

// MalformedResponse is returned when the reply has no usable summary.
func MalformedResponse(err error) *CLIError {
	return serviceError(err, "the summarization service returned an unusable response",
		"Run again, or pass --no-ai to skip the generated summary",
		"Check --model names a chat completion model",
	)
}

// FileWriteError is returned when the README cannot be saved. The preview
// has already been shown at this point.
func FileWriteError(path string, err error) *CLIError {
	e := &CLIError{
		Category: Write,
		Message:  fmt.Sprintf("could not update %s; the previewed entry was not saved: %v", path, err),
		Remediation: []string{
			"Check that " + path + " is writable",
			"Use --readme to choose a different file",
		},
		Cause: err,
	}
	return e
}

func serviceError(err error, message string, remediation ...string) *CLIError {
	e := newError(Service, message, remediation)
	if err != nil {
		e.Message = fmt.Sprintf("%s: %v", message, err)
	}
	e.Cause = err
	return e
}

// FromError maps a domain error to its CLIError. Errors that are already
// CLIErrors are returned unchanged; unknown errors become runtime errors.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	switch {
	case stderrors.Is(err, git.ErrNotRepository):
		return NotAGitRepository(err)
	case stderrors.Is(err, git.ErrNoStagedChanges):
		return NoStagedChanges(err)
	case stderrors.Is(err, config.ErrMissingCredential):
		return MissingCredential("your config directory")
	case stderrors.Is(err, summarize.ErrAuth):
		return AuthError(err)
	case stderrors.Is(err, summarize.ErrRateLimited):
		return RateLimited(err)
	case stderrors.Is(err, summarize.ErrNetwork):
		return NetworkError(err)
	case stderrors.Is(err, summarize.ErrMalformedResponse):
		return MalformedResponse(err)
	case stderrors.Is(err, changelog.ErrFileWrite):
		return FileWriteError("the README", err)
	default:
		return Wrap(err, Runtime)
	}
}
