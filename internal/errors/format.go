package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// style applies a color function unless plain output was requested.
type style func(fn func(a ...interface{}) string, s string) string

func pick(plain bool) style {
	if plain {
		return func(_ func(a ...interface{}) string, s string) string { return s }
	}
	return func(fn func(a ...interface{}) string, s string) string { return fn(s) }
}

// FormatError renders a CLIError for the terminal. Colors follow fatih/color's
// own NO_COLOR and TTY detection; plain disables them outright.
func FormatError(err *CLIError, plain bool) string {
	if err == nil {
		return ""
	}
	paint := pick(plain)

	var sb strings.Builder
	sb.WriteString(paint(errorLabel, "Error"))
	sb.WriteString(" [" + paint(categoryFmt, err.Category.String()) + "]: ")
	sb.WriteString(paint(errorMsg, err.Message))
	sb.WriteString("\n")

	if err.Usage != "" {
		sb.WriteString("\n" + paint(usageLabel, "Usage: ") + err.Usage + "\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n" + paint(fixLabel, "To fix this:") + "\n")
		for _, step := range err.Remediation {
			sb.WriteString("  " + paint(bullet, "•") + " " + step + "\n")
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError, plain bool) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err, plain))
}
