package changelog

import (
	"strings"
	"time"

	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

// DateLayout is the date format used in entry headings.
const DateLayout = "2006-01-02"

// Entry is one dated changelog entry.
type Entry struct {
	Date    time.Time
	Summary summarize.Result
}

// NewEntry pairs a summary with the given date.
func NewEntry(date time.Time, summary *summarize.Result) Entry {
	e := Entry{Date: date}
	if summary != nil {
		e.Summary = *summary
	}
	return e
}

// Render produces the fixed markdown template for an entry:
//
//	## Changes - 2026-01-15
//
//	**Summary:**
//	<narrative>
//
//	- Added files: a.go, b.go
//	- Modified files: c.go
//
//	```
//	2 files changed, 3 insertions(+)
//	```
//
// The Summary block is omitted for an empty narrative and the stat block for an
// empty stat line. The result always ends with a single newline.
func Render(e Entry) string {
	var b strings.Builder

	b.WriteString("## Changes - " + e.Date.Format(DateLayout) + "\n")

	if n := strings.TrimSpace(e.Summary.Narrative); n != "" {
		b.WriteString("\n**Summary:**\n")
		b.WriteString(n + "\n")
	}

	categories := []struct {
		label string
		files []string
	}{
		{"Added files", e.Summary.Added},
		{"Modified files", e.Summary.Modified},
		{"Deleted files", e.Summary.Deleted},
		{"Renamed files", e.Summary.Renamed},
	}

	wroteList := false
	for _, cat := range categories {
		if len(cat.files) == 0 {
			continue
		}
		if !wroteList {
			b.WriteString("\n")
			wroteList = true
		}
		b.WriteString("- " + cat.label + ": " + strings.Join(cat.files, ", ") + "\n")
	}

	if stat := strings.TrimSpace(e.Summary.Stat); stat != "" {
		b.WriteString("\n```\n" + stat + "\n```\n")
	}

	return b.String()
}
