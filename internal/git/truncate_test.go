package git

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		budget  int
		want    string
		wantCut bool
	}{
		"under budget": {input: "short", budget: 10, want: "short"},
		"exact budget": {input: "12345", budget: 5, want: "12345"},
		"over budget":  {input: "1234567890", budget: 4, want: "1234" + TruncationMarker, wantCut: true},
		"disabled":     {input: "1234567890", budget: 0, want: "1234567890"},
		"rune boundary": {
			// "é" is two bytes; a cut at byte 2 would split it.
			input:   "aé" + "bbbb",
			budget:  2,
			want:    "a" + TruncationMarker,
			wantCut: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, cut := Truncate(tt.input, tt.budget)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCut, cut)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncate_Deterministic(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("line with ünïcödé\n", 500)
	first, _ := Truncate(input, DefaultDiffBudget)
	for i := 0; i < 20; i++ {
		again, _ := Truncate(input, DefaultDiffBudget)
		assert.Equal(t, first, again)
	}
	assert.LessOrEqual(t, len(first), DefaultDiffBudget+len(TruncationMarker))
}
