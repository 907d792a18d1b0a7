package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/obsoletenerd/changeblogger/internal/config"
	clierrors "github.com/obsoletenerd/changeblogger/internal/errors"
)

// runSetup asks for an API key and stores it in the global config file.
func runSetup(cmd *cobra.Command, deps Deps, globalPath string) error {
	if globalPath == "" {
		return clierrors.NewConfigError("could not determine the user config directory",
			"Set OPENAI_API_KEY in your environment or project .env instead")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "changeblogger setup")
	fmt.Fprintln(out, "Get a key at https://platform.openai.com/api-keys")
	fmt.Fprint(out, "OpenAI API key: ")

	key, err := readSecret(cmd, deps)
	if isInterrupt(err) {
		return interruptedOr(cmd, err)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "reading API key")
	}
	if strings.TrimSpace(key) == "" {
		return clierrors.NewConfigError("no API key entered; setup cancelled",
			"Run 'changeblogger --setup' again and paste your key")
	}

	if err := config.WriteGlobalCredential(globalPath, key); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "saving API key",
			"Check that "+globalPath+" is writable")
	}

	fmt.Fprintf(out, "API key saved to %s\n", globalPath)
	return nil
}

// readSecret reads without echo when stdin is a terminal and reads a plain
// line otherwise. Either read gives up when the run is interrupted; the
// terminal state is restored first so echo comes back.
func readSecret(cmd *cobra.Command, deps Deps) (string, error) {
	ctx := cmd.Context()
	in := cmd.InOrStdin()

	f, ok := in.(*os.File)
	if !ok || !deps.IsTerminal(int(f.Fd())) {
		return readLineContext(ctx, in)
	}

	fd := int(f.Fd())
	state, stateErr := term.GetState(fd)
	key, err := waitFor(ctx, func() (string, error) {
		b, err := deps.ReadPassword(fd)
		return string(b), err
	})
	if isInterrupt(err) && stateErr == nil {
		_ = term.Restore(fd, state)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return key, err
}
