// Package cli implements the changeblogger command line.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/obsoletenerd/changeblogger/internal/config"
	clierrors "github.com/obsoletenerd/changeblogger/internal/errors"
	"github.com/obsoletenerd/changeblogger/internal/git"
	"github.com/obsoletenerd/changeblogger/internal/progress"
	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

// ExitInterrupted is returned when the run is cancelled with Ctrl-C.
const ExitInterrupted = 130

// Deps are the collaborators the root command reaches outside the process
// with. Tests swap them for fakes.
type Deps struct {
	// WorkDir returns the directory the run starts in.
	WorkDir func() (string, error)
	// GlobalConfigPath locates the global KEY=value config file.
	GlobalConfigPath func() (string, error)
	NewSource        func(dir string) git.Source
	NewSummarizer    func(cfg *config.Configuration, log *zap.Logger) summarize.Summarizer
	Now              func() time.Time
	// Capabilities describes the stderr terminal for the spinner.
	Capabilities func() progress.TerminalCapabilities
	IsTerminal   func(fd int) bool
	ReadPassword func(fd int) ([]byte, error)
}

// DefaultDeps wires the real git CLI, OpenAI client, clock and terminal.
func DefaultDeps() Deps {
	return Deps{
		WorkDir:          os.Getwd,
		GlobalConfigPath: config.UserConfigPath,
		NewSource: func(dir string) git.Source {
			return git.NewCLISource(dir)
		},
		NewSummarizer: func(cfg *config.Configuration, log *zap.Logger) summarize.Summarizer {
			return summarize.NewClient(summarize.Options{
				APIKey:       cfg.APIKey,
				Model:        cfg.Model,
				Endpoint:     cfg.Endpoint,
				MaxTokens:    cfg.MaxTokens,
				Temperature:  cfg.Temperature,
				Timeout:      cfg.Timeout,
				PromptBudget: cfg.PromptBudget,
				Logger:       log,
			})
		},
		Now: time.Now,
		Capabilities: func() progress.TerminalCapabilities {
			return progress.DetectTerminalCapabilities(os.Stderr)
		},
		IsTerminal:   term.IsTerminal,
		ReadPassword: term.ReadPassword,
	}
}

var rootCmd = NewRootCmd(DefaultDeps())

// NewRootCmd builds the changeblogger command tree around deps.
func NewRootCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changeblogger",
		Short: "Summarize staged git changes into your README changelog",
		Long: `changeblogger reads the changes staged in the current git repository, asks an
OpenAI model for a short plain-English summary, shows you the resulting entry
and, once you confirm, adds it to the top of the "## Changelog" section of
README.md.

The API key is read from OPENAI_API_KEY in the environment, then from the
project .env file, then from the global config written by --setup.`,
		Example: `  # Stage changes, then summarize them into README.md
  git add -A
  changeblogger

  # Store an API key once
  changeblogger --setup

  # Preview without touching the README
  changeblogger --dry-run

  # Write without asking, and without calling the API
  changeblogger --yes --no-ai`,
		Args:          noPositionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return run(cmd, deps, opts)
		},
	}

	cmd.PersistentFlags().Bool("plain", false, "Plain output without colors")
	cmd.PersistentFlags().Bool("debug", false, "Log debug information to stderr")

	cmd.Flags().Bool("setup", false, "Store an OpenAI API key in the global config")
	cmd.Flags().BoolP("yes", "y", false, "Add the entry without asking for confirmation")
	cmd.Flags().Bool("dry-run", false, "Show the entry but never modify the README")
	cmd.Flags().Bool("no-ai", false, "Skip the API call and list files and stats only")
	cmd.Flags().String("readme", "", "README to update (default README.md at the repository root)")
	cmd.Flags().String("model", "", "Model used for the summary (default "+summarize.DefaultModel+")")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(),
			"Run 'changeblogger --help' to see the available flags")
	})

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return clierrors.NewArgumentErrorWithUsage(
		"unexpected argument: "+args[0], cmd.UseLine(),
		"changeblogger takes no arguments; it always summarizes the staged changes",
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return executeCommand(ctx, rootCmd)
}

// executeCommand runs cmd, prints any error once to its stderr and maps it to
// an exit code.
func executeCommand(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	cliErr := clierrors.FromError(err)
	plain, _ := cmd.PersistentFlags().GetBool("plain")
	clierrors.FprintError(cmd.ErrOrStderr(), cliErr, plain)
	return ExitCode(cliErr)
}
