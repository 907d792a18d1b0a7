package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/obsoletenerd/changeblogger/internal/changelog"
	"github.com/obsoletenerd/changeblogger/internal/config"
	clierrors "github.com/obsoletenerd/changeblogger/internal/errors"
	"github.com/obsoletenerd/changeblogger/internal/git"
	"github.com/obsoletenerd/changeblogger/internal/logging"
	"github.com/obsoletenerd/changeblogger/internal/progress"
	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

// runOptions are the parsed root command flags.
type runOptions struct {
	setup  bool
	yes    bool
	dryRun bool
	noAI   bool
	plain  bool
	debug  bool
	readme string
	model  string
}

func optionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	opts.setup, _ = cmd.Flags().GetBool("setup")
	opts.yes, _ = cmd.Flags().GetBool("yes")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.noAI, _ = cmd.Flags().GetBool("no-ai")
	opts.plain, _ = cmd.Flags().GetBool("plain")
	opts.debug, _ = cmd.Flags().GetBool("debug")
	opts.readme, _ = cmd.Flags().GetString("readme")
	opts.model, _ = cmd.Flags().GetString("model")

	if opts.setup {
		for _, name := range []string{"yes", "dry-run", "no-ai", "readme", "model"} {
			if cmd.Flags().Changed(name) {
				return opts, clierrors.NewArgumentErrorWithUsage(
					"--setup cannot be combined with --"+name,
					"changeblogger --setup",
					"Run setup on its own, then run changeblogger again",
				)
			}
		}
	}
	for _, name := range []string{"readme", "model"} {
		v, _ := cmd.Flags().GetString(name)
		if cmd.Flags().Changed(name) && strings.TrimSpace(v) == "" {
			return opts, clierrors.NewArgumentError("--"+name+" cannot be empty",
				"Omit --"+name+" to use the configured default")
		}
	}
	return opts, nil
}

// run drives one invocation: resolve the credential, collect the staged
// changes, summarize, preview, confirm and write.
func run(cmd *cobra.Command, deps Deps, opts runOptions) error {
	log := logging.New(cmd.ErrOrStderr(), opts.debug)
	defer func() { _ = log.Sync() }()
	if opts.debug {
		git.SetDebugLogger(logging.Printf(log))
		config.SetDebugLogger(logging.Printf(log))
		defer git.SetDebugLogger(nil)
		defer config.SetDebugLogger(nil)
	}

	globalPath, err := deps.GlobalConfigPath()
	if err != nil {
		log.Debug("no global config location", zap.Error(err))
		globalPath = ""
	}

	if opts.setup {
		return runSetup(cmd, deps, globalPath)
	}

	workDir, err := deps.WorkDir()
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "determining working directory")
	}

	cfg, err := config.Load(config.LoadOptions{
		ProjectDir:       workDir,
		GlobalConfigPath: globalPath,
		SkipGlobal:       globalPath == "",
	})
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "loading configuration",
			"Check "+config.ProjectConfigFile+" and "+displayPath(globalPath))
	}
	applyOverrides(cfg, opts)

	if !opts.noAI && !cfg.HasCredential() {
		return clierrors.MissingCredential(displayPath(globalPath))
	}
	if cfg.HasCredential() {
		log.Debug("credential resolved",
			zap.String("source", string(cfg.CredentialSource)),
			zap.String("key", config.Redact(cfg.APIKey)))
	}

	ctx := cmd.Context()
	src := deps.NewSource(workDir)
	root, err := src.Root(ctx)
	if err != nil {
		return clierrors.FromError(err)
	}
	if root != workDir {
		src = deps.NewSource(root)
	}

	inspector := &git.Inspector{Source: src, ContentBudget: cfg.ContentBudget, DiffBudget: cfg.DiffBudget}
	cs, err := inspector.Collect(ctx)
	if err != nil {
		return interruptedOr(cmd, err)
	}
	log.Debug("collected staged changes", zap.Int("files", cs.Len()), zap.String("stat", cs.Stat))

	result, err := summarizeChanges(ctx, cmd, deps, cfg, cs, opts, log)
	if err != nil {
		return interruptedOr(cmd, err)
	}

	entry := changelog.NewEntry(deps.Now(), result)
	readmePath := cfg.Readme
	if !filepath.IsAbs(readmePath) {
		readmePath = filepath.Join(root, readmePath)
	}
	display := relativeTo(root, readmePath)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Proposed entry for %s:\n", display)
	if err := changelog.FormatPreview(out, changelog.Render(entry), opts.plain); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "printing preview")
	}

	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %s was not modified.\n", display)
		return nil
	}

	if !cfg.SkipConfirmations {
		ok, err := promptYesNo(cmd, fmt.Sprintf("Add this summary to %s?", display))
		if err != nil {
			return interruptedOr(cmd, err)
		}
		if !ok {
			fmt.Fprintln(out, "Summary not added.")
			return nil
		}
	}

	created, err := changelog.UpdateFile(readmePath, entry, changelog.Options{Heading: cfg.Heading})
	if err != nil {
		return clierrors.FileWriteError(display, err)
	}

	symbols := progress.SelectSymbols(deps.Capabilities())
	if created {
		fmt.Fprintf(out, "%s Created %s with the new entry.\n", symbols.Checkmark, display)
	} else {
		fmt.Fprintf(out, "%s Summary added to %s.\n", symbols.Checkmark, display)
	}
	return nil
}

// applyOverrides lets flags win over every config layer.
func applyOverrides(cfg *config.Configuration, opts runOptions) {
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.readme != "" {
		cfg.Readme = opts.readme
	}
	if opts.yes {
		cfg.SkipConfirmations = true
	}
}

// summarizeChanges calls the service behind a spinner, or the offline
// summarizer with --no-ai.
func summarizeChanges(ctx context.Context, cmd *cobra.Command, deps Deps, cfg *config.Configuration,
	cs *git.ChangeSet, opts runOptions, log *zap.Logger) (*summarize.Result, error) {
	if opts.noAI {
		log.Debug("skipping summarization service (--no-ai)")
		return summarize.Offline.Summarize(ctx, cs)
	}

	s := deps.NewSummarizer(cfg, log)
	sp := progress.NewSpinner(cmd.ErrOrStderr(), deps.Capabilities(),
		fmt.Sprintf("Summarizing %d staged file(s) with %s", cs.Len(), cfg.Model))
	sp.Start()
	result, err := s.Summarize(ctx, cs)
	sp.Stop(err == nil)
	return result, err
}

// interruptedOr turns a cancelled run into ExitInterrupted and maps anything
// else to its CLIError.
func interruptedOr(cmd *cobra.Command, err error) error {
	if isInterrupt(err) || (cmd.Context() != nil && cmd.Context().Err() != nil) {
		cmd.PrintErrln()
		cmd.PrintErrln("Interrupted.")
		return NewExitError(ExitInterrupted)
	}
	return clierrors.FromError(err)
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled)
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func displayPath(p string) string {
	if p == "" {
		return "the global config file"
	}
	return p
}
