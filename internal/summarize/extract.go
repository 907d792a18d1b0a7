package summarize

import (
	"regexp"
	"strings"
)

var (
	fenceLine    = regexp.MustCompile("^\\s*```[\\w-]*\\s*$")
	headingLine  = regexp.MustCompile(`^\s{0,3}#{1,6}\s+`)
	summaryLabel = regexp.MustCompile(`(?i)^\s*(?:\*\*|__)?\s*summary\s*(?::\s*(?:\*\*|__)?|(?:\*\*|__)\s*:?|$)\s*`)
)

// ExtractNarrative pulls plain prose out of a model reply. It tolerates code
// fences, markdown headings and a leading "Summary:" label, and collapses runs
// of blank lines. It returns "" when nothing usable remains.
func ExtractNarrative(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if fenceLine.MatchString(line) {
			continue
		}
		if headingLine.MatchString(line) {
			line = headingLine.ReplaceAllString(line, "")
			if summaryLabel.ReplaceAllString(line, "") == "" {
				continue
			}
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if loc := summaryLabel.FindStringIndex(text); loc != nil && loc[0] == 0 {
		text = strings.TrimSpace(text[loc[1]:])
	}

	return collapseBlankLines(text)
}

func collapseBlankLines(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
