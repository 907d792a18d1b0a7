// Package progress tests terminal detection and the spinner fallback.
// Related: internal/progress/terminal.go, internal/progress/spinner.go
// Tags: progress, terminal, spinner, ascii

package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NonTerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.Zero(t, caps.Width)
	assert.Equal(t, TerminalCapabilities{}, DetectTerminalCapabilities(nil))
}

func TestSpinner_NonTerminalPrintsResultOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sp := NewSpinner(&buf, TerminalCapabilities{}, "Summarizing changes")
	sp.Start()
	assert.Empty(t, buf.String())

	sp.Stop(false)
	assert.Equal(t, "[FAIL] Summarizing changes\n", buf.String())
}
