package changelog

import (
	"regexp"
	"strings"
)

// DefaultHeading is the title of the changelog section.
const DefaultHeading = "Changelog"

// Options control where entries are inserted.
type Options struct {
	// Heading is the section title without the "## " prefix.
	Heading string
}

func (o Options) heading() string {
	if h := strings.TrimSpace(o.Heading); h != "" {
		return h
	}
	return DefaultHeading
}

func headingPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^##[ \t]+` + regexp.QuoteMeta(title) + `[ \t]*\r?$`)
}

// InsertEntry returns readme with the rendered entry placed first in the
// changelog section. When no section exists, one is appended at the end.
func InsertEntry(readme string, e Entry, opts Options) string {
	return insertRendered(readme, Render(e), opts.heading())
}

func insertRendered(readme, rendered, title string) string {
	pos, ok := findInsertionPoint(readme, headingPattern(title))
	if !ok {
		return appendSection(readme, rendered, title)
	}

	head, tail := readme[:pos], readme[pos:]
	if !strings.HasSuffix(head, "\n") {
		// Heading is the last line and has no newline.
		head += "\n\n"
	} else if tail == "" && !strings.HasSuffix(head, "\n\n") {
		head += "\n"
	}

	if tail == "" {
		return head + rendered
	}
	return head + rendered + "\n" + tail
}

// findInsertionPoint returns the byte offset just after the heading line and
// any blank lines that follow it. Headings inside fenced code blocks are ignored.
func findInsertionPoint(readme string, pattern *regexp.Regexp) (int, bool) {
	fence := ""
	offset := 0
	found := false

	for offset < len(readme) {
		end := strings.IndexByte(readme[offset:], '\n')
		lineEnd := len(readme)
		next := len(readme)
		if end >= 0 {
			lineEnd = offset + end
			next = lineEnd + 1
		}
		line := readme[offset:lineEnd]

		if found {
			if strings.TrimSpace(line) != "" {
				return offset, true
			}
			offset = next
			continue
		}

		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case closesFence(fence, marker, trimmed):
				fence = ""
			}
		} else if fence == "" && pattern.MatchString(line) {
			found = true
			if end < 0 {
				return len(readme), true
			}
		}
		offset = next
	}

	return offset, found
}

// fenceMarker returns the leading run of backticks or tildes when it is long
// enough to open or close a code fence.
func fenceMarker(trimmed string) string {
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return ""
	}
	n := 1
	for n < len(trimmed) && trimmed[n] == trimmed[0] {
		n++
	}
	if n < 3 {
		return ""
	}
	return trimmed[:n]
}

// closesFence reports whether a marker line ends the fence opened by open:
// same character, at least as long, and no info string.
func closesFence(open, marker, trimmed string) bool {
	return marker[0] == open[0] &&
		len(marker) >= len(open) &&
		strings.TrimSpace(trimmed[len(marker):]) == ""
}

// appendSection adds a new changelog heading plus entry at the end of readme.
func appendSection(readme, rendered, title string) string {
	var b strings.Builder
	b.WriteString(readme)
	if readme != "" {
		if !strings.HasSuffix(readme, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("## " + title + "\n\n")
	b.WriteString(rendered)
	return b.String()
}
