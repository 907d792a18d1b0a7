package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	ruleColor    = color.New(color.Faint)
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgGreen)
)

// FormatPreview writes a rendered entry between two rule lines. Headings and
// file category labels are colored unless plain is set.
func FormatPreview(w io.Writer, rendered string, plain bool) error {
	rule := strings.Repeat("-", 30)

	if _, err := fmt.Fprintln(w, paint(ruleColor, rule, plain)); err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		out := line
		switch {
		case strings.HasPrefix(line, "## "):
			out = paint(headingColor, line, plain)
		case strings.HasPrefix(line, "- ") && strings.Contains(line, " files: "):
			label, rest, _ := strings.Cut(line[2:], ": ")
			out = "- " + paint(labelColor, label+":", plain) + " " + rest
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, paint(ruleColor, rule, plain))
	return err
}

func paint(c *color.Color, s string, plain bool) string {
	if plain {
		return s
	}
	return c.Sprint(s)
}
