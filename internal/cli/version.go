package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/obsoletenerd/changeblogger/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information",
		Long:    "Display version, commit, build date, and Go version information for changeblogger",
		Args:    noPositionalArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plain, _ := cmd.Flags().GetBool("plain")
			printVersion(cmd, plain)
			return nil
		},
	}
}

func printVersion(cmd *cobra.Command, plain bool) {
	out := cmd.OutOrStdout()
	label := func(s string) string { return s }
	if !plain {
		yellow := color.New(color.FgYellow)
		label = func(s string) string { return yellow.Sprint(s) }
	}

	name := "changeblogger " + version.Version
	if version.IsDevBuild() {
		name += " (development build)"
	}
	fmt.Fprintln(out, name)
	fmt.Fprintf(out, "%s %s\n", label("commit:"), version.ShortCommit())
	fmt.Fprintf(out, "%s %s\n", label("built:"), version.BuildDate)
	fmt.Fprintf(out, "%s %s\n", label("go:"), version.Platform())
}
