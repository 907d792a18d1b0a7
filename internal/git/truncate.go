package git

import "unicode/utf8"

// TruncationMarker is appended to any body cut by Truncate.
const TruncationMarker = "\n... (truncated)"

const (
	// DefaultContentBudget bounds new-file bodies, in bytes.
	DefaultContentBudget = 3000
	// DefaultDiffBudget bounds diff bodies, in bytes.
	DefaultDiffBudget = 2000
)

// Truncate cuts s to at most budget bytes and appends TruncationMarker.
// The cut backs off to a rune boundary so the result stays valid UTF-8.
// A budget <= 0 disables truncation. The second result reports whether s was cut.
func Truncate(s string, budget int) (string, bool) {
	if budget <= 0 || len(s) <= budget {
		return s, false
	}

	cut := budget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncationMarker, true
}
