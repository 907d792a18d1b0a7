package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// promptYesNo asks question and reports whether the answer was y or yes.
// Anything else, including EOF, means no. It returns the context error if
// the run is interrupted while waiting.
func promptYesNo(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	answer, err := readLineContext(cmd.Context(), cmd.InOrStdin())
	if isInterrupt(err) {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))

	return answer == "y" || answer == "yes", nil
}

// readLine reads up to the next newline. A final line without a newline is
// returned with a nil error.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// readLineContext is readLine that stops waiting when ctx is done. The
// blocked read is abandoned; the process exits right after.
func readLineContext(ctx context.Context, r io.Reader) (string, error) {
	return waitFor(ctx, func() (string, error) { return readLine(r) })
}

// waitFor runs read in a goroutine and returns its result, or ctx.Err() once
// ctx is done.
func waitFor(ctx context.Context, read func() (string, error)) (string, error) {
	if ctx == nil {
		return read()
	}

	type result struct {
		s   string
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := read()
		done <- result{s, err}
	}()

	select {
	case res := <-done:
		return res.s, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
