// Package errors tests CLI error mapping and formatting.
// Related: internal/errors/errors.go, internal/errors/messages.go, internal/errors/format.go
// Tags: errors, cli, formatting, remediation

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsoletenerd/changeblogger/internal/changelog"
	"github.com/obsoletenerd/changeblogger/internal/config"
	"github.com/obsoletenerd/changeblogger/internal/git"
	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory ErrorCategory
		wantSentinel error
		wantInMsg    string
	}{
		"not a repository": {
			err:          fmt.Errorf("collect: %w", git.ErrNotRepository),
			wantCategory: Prerequisite,
			wantSentinel: git.ErrNotRepository,
			wantInMsg:    "not inside a git repository",
		},
		"no staged changes": {
			err:          git.ErrNoStagedChanges,
			wantCategory: Prerequisite,
			wantSentinel: git.ErrNoStagedChanges,
			wantInMsg:    "no staged changes",
		},
		"missing credential": {
			err:          config.ErrMissingCredential,
			wantCategory: Prerequisite,
			wantSentinel: config.ErrMissingCredential,
			wantInMsg:    "API key",
		},
		"auth": {
			err:          &summarize.StatusError{Kind: summarize.ErrAuth, StatusCode: 401},
			wantCategory: Service,
			wantSentinel: summarize.ErrAuth,
			wantInMsg:    "rejected",
		},
		"rate limited": {
			err:          &summarize.StatusError{Kind: summarize.ErrRateLimited, StatusCode: 429},
			wantCategory: Service,
			wantSentinel: summarize.ErrRateLimited,
			wantInMsg:    "rate limit",
		},
		"network": {
			err:          fmt.Errorf("%w: dial tcp: connection refused", summarize.ErrNetwork),
			wantCategory: Service,
			wantSentinel: summarize.ErrNetwork,
			wantInMsg:    "connection refused",
		},
		"malformed": {
			err:          summarize.ErrMalformedResponse,
			wantCategory: Service,
			wantSentinel: summarize.ErrMalformedResponse,
			wantInMsg:    "unusable response",
		},
		"file write": {
			err:          fmt.Errorf("%w: permission denied", changelog.ErrFileWrite),
			wantCategory: Write,
			wantSentinel: changelog.ErrFileWrite,
			wantInMsg:    "was not saved",
		},
		"unknown": {
			err:          stderrors.New("boom"),
			wantCategory: Runtime,
			wantInMsg:    "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Contains(t, got.Message, tt.wantInMsg)
			if tt.wantSentinel != nil {
				assert.ErrorIs(t, got, tt.wantSentinel)
			}
		})
	}
}

func TestFromError_PassesThroughCLIError(t *testing.T) {
	t.Parallel()

	orig := NewArgumentError("bad flag")
	wrapped := fmt.Errorf("running: %w", orig)

	assert.Same(t, orig, FromError(wrapped))
	assert.Nil(t, FromError(nil))
}

func TestRateLimited_UsesRetryAfter(t *testing.T) {
	t.Parallel()

	err := &summarize.StatusError{Kind: summarize.ErrRateLimited, StatusCode: 429, RetryAfter: 20 * time.Second}
	got := RateLimited(err)
	assert.Contains(t, strings.Join(got.Remediation, "\n"), "Wait 20s")
}

func TestFormatError_Plain(t *testing.T) {
	t.Parallel()

	err := NewArgumentErrorWithUsage("unknown flag --foo", "changeblogger [flags]", "Run changeblogger --help")
	got := FormatError(err, true)

	want := "Error [Argument Error]: unknown flag --foo\n" +
		"\nUsage: changeblogger [flags]\n" +
		"\nTo fix this:\n  • Run changeblogger --help\n"
	assert.Equal(t, want, got)
	assert.Empty(t, FormatError(nil, true))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))

	base := stderrors.New("disk full")
	got := WrapWithMessage(base, Write, "saving")
	assert.Equal(t, "saving: disk full", got.Error())
	assert.ErrorIs(t, got, base)
}

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Service Error", Service.String())
	assert.Equal(t, "Write Error", Write.String())
	assert.Equal(t, "Error", ErrorCategory(99).String())
}
